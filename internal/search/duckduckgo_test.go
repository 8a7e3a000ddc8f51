package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const ddgPage = `<html><body>
<div class="result results_links result--ad">
  <a class="result__a" href="https://ads.example.com/">Sponsored</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fdepta.gov.au%2Ffiles&amp;rut=abc">Files List</a></h2>
  <a class="result__snippet">Senate order on entity contracts</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="https://depta.gov.au/other">Other page</a></h2>
</div>
</body></html>`

func TestDuckDuckGo_Search_ParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			t.Errorf("missing q parameter")
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(ddgPage))
	}))
	defer srv.Close()

	d := &DuckDuckGo{BaseURL: srv.URL + "/html/", HTTPClient: srv.Client()}
	got, err := d.Search(context.Background(), "site:depta.gov.au list of files senate order", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 organic results, got %+v", got)
	}
	if got[0].URL != "https://depta.gov.au/files" || got[0].Title != "Files List" {
		t.Fatalf("redirect not unwrapped: %+v", got[0])
	}
	if got[0].Snippet != "Senate order on entity contracts" {
		t.Fatalf("unexpected snippet: %q", got[0].Snippet)
	}
}

func TestDuckDuckGo_Search_Limit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ddgPage))
	}))
	defer srv.Close()

	d := &DuckDuckGo{BaseURL: srv.URL, HTTPClient: srv.Client()}
	got, err := d.Search(context.Background(), "q", 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
}

func TestDuckDuckGo_Search_AnomalyPageIsRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	d := &DuckDuckGo{BaseURL: srv.URL, HTTPClient: srv.Client()}
	_, err := d.Search(context.Background(), "q", 1)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestResolveRedirect(t *testing.T) {
	cases := map[string]string{
		"//duckduckgo.com/l/?uddg=https%3A%2F%2Fa.gov.au%2Fx": "https://a.gov.au/x",
		"https://b.gov.au/y":                                  "https://b.gov.au/y",
		"javascript:void(0)":                                  "",
		"":                                                    "",
	}
	for in, want := range cases {
		if got := resolveRedirect(in); got != want {
			t.Fatalf("resolveRedirect(%q)=%q, want %q", in, got, want)
		}
	}
}
