package registry

import (
	"net/url"
	"regexp"
	"strings"
)

// domainLabels is how many trailing host labels identify an agency
// (agency.gov.au).
const domainLabels = 3

// missingSlashes matches the data-entry error "http:www" in any case.
var missingSlashes = regexp.MustCompile(`(?i)http:www`)

// NormalizeURL repairs the website values found in the register so they parse
// as absolute URLs. A value with no scheme gets "http://" prepended, and the
// first "http:www" is rewritten to "http://www". A value that starts with
// "http" but is otherwise malformed ("http//www...") is left alone and yields
// no host.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !hasScheme(s) {
		s = "http://" + s
	}
	if loc := missingSlashes.FindStringIndex(s); loc != nil {
		s = s[:loc[0]] + "http://www" + s[loc[1]:]
	}
	return s
}

func hasScheme(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http") || strings.Contains(l, "http:") || strings.Contains(l, "https:")
}

// DomainOf keeps the last three dot-separated labels of host.
func DomainOf(host string) string {
	host = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if host == "" {
		return ""
	}
	labels := strings.Split(host, ".")
	if len(labels) > domainLabels {
		labels = labels[len(labels)-domainLabels:]
	}
	return strings.Join(labels, ".")
}

// ExtractDomain normalizes a raw website value and returns its canonical
// domain, or "" when no host can be parsed from it.
func ExtractDomain(raw string) string {
	u, err := url.Parse(NormalizeURL(raw))
	if err != nil {
		return ""
	}
	return DomainOf(u.Hostname())
}
