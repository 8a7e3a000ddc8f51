// Command debugsearch runs the report lookup for a single domain against the
// provider configured in the environment and prints the outcome.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/reportfinder/internal/app"
	"github.com/hyperifyio/reportfinder/internal/lookup"
	"github.com/hyperifyio/reportfinder/internal/registry"
	"github.com/hyperifyio/reportfinder/internal/search"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	provider := flag.String("provider", "", "Override SEARCH_PROVIDER")
	attempts := flag.Int("attempts", 1, "Attempts before giving up")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: debugsearch [-provider name] <website-or-domain>")
		os.Exit(2)
	}

	cfg, err := loadConfig(*provider)
	if err != nil {
		log.Error().Err(err).Msg("load env files")
		os.Exit(2)
	}
	p, err := search.New(cfg.SearchOptions())
	if err != nil {
		log.Error().Err(err).Msg("provider")
		os.Exit(2)
	}

	domain := registry.ExtractDomain(flag.Arg(0))
	if domain == "" {
		log.Error().Str("website", flag.Arg(0)).Msg("empty domain")
		os.Exit(1)
	}
	c := &lookup.Client{Provider: p, Backoff: cfg.RetryBackoff, MaxAttempts: *attempts}
	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.RequestTimeout)
	defer cancel()
	fmt.Fprintln(os.Stderr, "query:", lookup.Query(domain))
	o, err := c.Lookup(ctx, domain)
	if err != nil {
		log.Error().Err(err).Str("provider", p.Name()).Msg("lookup failed")
		os.Exit(1)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(o)
}

// loadConfig applies .env and the environment over the defaults. A non-empty
// provider overrides SEARCH_PROVIDER.
func loadConfig(provider string) (app.Config, error) {
	if err := app.LoadEnvFiles(".env"); err != nil {
		return app.Config{}, err
	}
	cfg := app.Defaults()
	app.ApplyEnvOverrides(&cfg)
	if provider != "" {
		cfg.Provider = provider
	}
	return cfg, nil
}
