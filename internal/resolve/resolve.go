// Package resolve collapses agencies into the set of domains that need a search.
package resolve

import (
	"sort"

	"github.com/hyperifyio/reportfinder/internal/registry"
)

// Unique returns every distinct non-empty domain in agencies, sorted.
func Unique(agencies []registry.Agency) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(agencies))
	for _, a := range agencies {
		if a.Unresolved() {
			continue
		}
		if _, ok := seen[a.Domain]; ok {
			continue
		}
		seen[a.Domain] = struct{}{}
		out = append(out, a.Domain)
	}
	sort.Strings(out)
	return out
}

// Unresolved returns the agencies that have no domain and therefore will not
// be searched.
func Unresolved(agencies []registry.Agency) []registry.Agency {
	var out []registry.Agency
	for _, a := range agencies {
		if a.Unresolved() {
			out = append(out, a)
		}
	}
	return out
}
