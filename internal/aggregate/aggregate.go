// Package aggregate joins per-domain search outcomes back onto the agencies
// that share each domain.
package aggregate

import (
	"github.com/hyperifyio/reportfinder/internal/lookup"
	"github.com/hyperifyio/reportfinder/internal/registry"
)

// Row is one output line: an agency and the report page found for its domain.
type Row struct {
	Title           string
	Portfolio       string
	Domain          string
	ReportURL       string
	ReportPageTitle string
}

// NewRow builds the row for agency from the outcome of its domain.
func NewRow(a registry.Agency, o lookup.Outcome) Row {
	return Row{
		Title:           a.Title,
		Portfolio:       a.Portfolio,
		Domain:          a.Domain,
		ReportURL:       o.ReportURL(),
		ReportPageTitle: o.PageTitle(),
	}
}

// Aggregate returns one Row per agency, in input order. Agencies whose domain
// has no outcome, or whose outcome found nothing, get the Unknown sentinel.
func Aggregate(agencies []registry.Agency, outcomes map[string]lookup.Outcome) []Row {
	out := make([]Row, 0, len(agencies))
	for _, a := range agencies {
		o, ok := outcomes[a.Domain]
		if !ok || a.Unresolved() {
			o = lookup.Outcome{Domain: a.Domain}
		}
		out = append(out, NewRow(a, o))
	}
	return out
}
