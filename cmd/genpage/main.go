// Command genpage renders the reportfinder result CSV as a static HTML page
// of links, and optionally as a PDF.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/reportfinder/internal/report"
)

const usageLine = "usage: genpage [-pdf out.pdf] <input.csv> <output.html>"

var errUsage = errors.New("usage")

type options struct {
	input  string
	output string
	pdf    string
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	opts, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		log.Error().Err(err).Msg("genpage failed")
		os.Exit(1)
	}
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("genpage", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), usageLine)
		fs.PrintDefaults()
	}
	fs.StringVar(&o.pdf, "pdf", "", "Also write the link list as a PDF to this path")
	if err := fs.Parse(args); err != nil {
		return o, errUsage
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, usageLine)
		return o, errUsage
	}
	o.input, o.output = fs.Arg(0), fs.Arg(1)
	return o, nil
}

func run(o options) error {
	links, err := report.ReadLinks(o.input)
	if err != nil {
		return fmt.Errorf("read %s: %w", o.input, err)
	}
	if err := report.WriteHTML(o.output, links); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	log.Info().Str("out", o.output).Int("links", len(links)).Msg("wrote page")
	if o.pdf != "" {
		if err := report.WritePDF(o.pdf, links); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", o.pdf).Msg("wrote pdf")
	}
	return nil
}
