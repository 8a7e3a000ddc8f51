// Package report writes the per-agency result CSV and renders the published
// link list from it.
package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyperifyio/reportfinder/internal/aggregate"
)

// Shape selects the output column layout.
type Shape string

const (
	// ShapeSplit writes Title, Portfolio, Domain, ReportURL, ReportPageTitle.
	ShapeSplit Shape = "split"
	// ShapeHarradine writes Title, Portfolio, Domain, Harradine where the last
	// column carries the report URL.
	ShapeHarradine Shape = "harradine"
)

// ParseShape accepts a shape name; empty selects ShapeSplit.
func ParseShape(s string) (Shape, error) {
	switch Shape(strings.ToLower(strings.TrimSpace(s))) {
	case "", ShapeSplit:
		return ShapeSplit, nil
	case ShapeHarradine:
		return ShapeHarradine, nil
	}
	return "", fmt.Errorf("unknown output shape %q (want %q or %q)", s, ShapeSplit, ShapeHarradine)
}

// Header returns the CSV header row for the shape.
func (s Shape) Header() []string {
	if s == ShapeHarradine {
		return []string{"Title", "Portfolio", "Domain", "Harradine"}
	}
	return []string{"Title", "Portfolio", "Domain", "ReportURL", "ReportPageTitle"}
}

func (s Shape) record(r aggregate.Row) []string {
	if s == ShapeHarradine {
		return []string{r.Title, r.Portfolio, r.Domain, r.ReportURL}
	}
	return []string{r.Title, r.Portfolio, r.Domain, r.ReportURL, r.ReportPageTitle}
}

// WriteCSV writes a header and one record per row.
func WriteCSV(w io.Writer, rows []aggregate.Row, shape Shape) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(shape.Header()); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(shape.record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes rows to path as UTF-8 CSV.
func WriteFile(path string, rows []aggregate.Row, shape Shape) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := WriteCSV(bw, rows, shape); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	return f.Close()
}
