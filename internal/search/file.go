package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"strings"
)

// FileProvider serves search results from a local JSON file for offline runs
// and tests. The file is an array of {"title", "url", "snippet"} objects.
// A "site:<domain>" term in the query restricts results to that domain and
// its subdomains; otherwise the query is matched against title and snippet.
type FileProvider struct {
	Path string
}

func (f *FileProvider) Name() string { return "file" }

func (f *FileProvider) Search(_ context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, errors.New("file provider path is empty")
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var raw []Result
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	site, rest := SplitSite(query)
	q := strings.ToLower(rest)
	out := make([]Result, 0, len(raw))
	for _, r := range raw {
		if r.URL == "" || r.Title == "" {
			continue
		}
		if site != "" {
			if !withinDomain(r.URL, site) {
				continue
			}
		} else if q != "" && !strings.Contains(strings.ToLower(r.Title), q) && !strings.Contains(strings.ToLower(r.Snippet), q) {
			continue
		}
		r.Source = f.Name()
		out = append(out, r)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// SplitSite separates a "site:" restriction from the remaining query terms.
func SplitSite(query string) (site string, rest string) {
	fields := strings.Fields(query)
	kept := fields[:0]
	for _, f := range fields {
		if v, ok := strings.CutPrefix(strings.ToLower(f), "site:"); ok && site == "" {
			site = v
			continue
		}
		kept = append(kept, f)
	}
	return site, strings.Join(kept, " ")
}

func withinDomain(rawURL, domain string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == domain || strings.HasSuffix(host, "."+domain)
}
