// Package registry reads the agency register (AGOR) and derives the
// canonical website domain of each agency.
package registry

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Register column names.
const (
	ColTitle     = "Title"
	ColPortfolio = "Portfolio"
	ColBodyType  = "Type of Body"
	ColWebsite   = "Website Address"
)

// DefaultEncoding is the legacy single-byte encoding the register is
// published in.
const DefaultEncoding = "iso-8859-1"

// Agency is one register row reduced to the fields the search needs.
type Agency struct {
	Title      string
	Portfolio  string
	BodyType   string
	RawWebsite string
	// Website is RawWebsite after NormalizeURL.
	Website string
	// Domain is empty when no host could be parsed from Website.
	Domain string
}

// Unresolved reports whether the agency has no usable domain.
func (a Agency) Unresolved() bool { return a.Domain == "" }

// Options controls which rows are kept and how the file is decoded.
type Options struct {
	// BodyTypes lists the allowed first characters of "Type of Body",
	// e.g. "ABE". Empty disables the filter.
	BodyTypes string
	// Encoding of CSV input. Empty means DefaultEncoding. Ignored for XLSX.
	Encoding string
}

// Stats counts what happened to the register rows during Read.
type Stats struct {
	Rows             int
	SkippedNoWebsite int
	SkippedBodyType  int
	Unresolved       int
}

// Read parses the register at path. Files ending in .xlsx are read from the
// first worksheet; anything else is treated as CSV.
func Read(path string, opts Options) ([]Agency, Stats, error) {
	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = readXLSX(path)
	} else {
		rows, err = readCSV(path, opts.Encoding)
	}
	if err != nil {
		return nil, Stats{}, err
	}
	return parseRows(rows, opts)
}

func readCSV(path string, enc string) ([][]string, error) {
	dec, err := decoderFor(enc)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer f.Close()
	r := csv.NewReader(transform.NewReader(f, dec))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse registry csv: %w", err)
	}
	return rows, nil
}

func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	}
	e, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown registry encoding %q: %w", name, err)
	}
	return e.NewDecoder(), nil
}

func parseRows(rows [][]string, opts Options) ([]Agency, Stats, error) {
	var st Stats
	if len(rows) == 0 {
		return nil, st, errors.New("registry is empty")
	}
	idx, err := headerIndex(rows[0])
	if err != nil {
		return nil, st, err
	}
	out := make([]Agency, 0, len(rows)-1)
	for _, row := range rows[1:] {
		st.Rows++
		field := func(col string) string {
			i := idx[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		raw := field(ColWebsite)
		if raw == "" {
			st.SkippedNoWebsite++
			continue
		}
		bodyType := field(ColBodyType)
		if !allowedBodyType(bodyType, opts.BodyTypes) {
			st.SkippedBodyType++
			continue
		}
		a := Agency{
			Title:      field(ColTitle),
			Portfolio:  field(ColPortfolio),
			BodyType:   bodyType,
			RawWebsite: raw,
			Website:    NormalizeURL(raw),
			Domain:     ExtractDomain(raw),
		}
		if a.Unresolved() {
			st.Unresolved++
			log.Warn().Str("website", raw).Str("title", a.Title).Msg("empty domain")
		}
		out = append(out, a)
	}
	return out, st, nil
}

func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		h = strings.TrimPrefix(h, "\u00ef\u00bb\u00bf")
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range []string{ColTitle, ColPortfolio, ColBodyType, ColWebsite} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("registry missing column %q", col)
		}
	}
	return idx, nil
}

func allowedBodyType(bodyType, allowed string) bool {
	if allowed == "" {
		return true
	}
	if bodyType == "" {
		return false
	}
	return strings.ContainsRune(allowed, []rune(bodyType)[0])
}

