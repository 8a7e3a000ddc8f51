package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hyperifyio/reportfinder/internal/search"
)

// scripted returns one scripted response per call and records the queries.
type scripted struct {
	responses []response
	queries   []string
}

type response struct {
	results []search.Result
	err     error
}

func (s *scripted) Name() string { return "scripted" }

func (s *scripted) Search(_ context.Context, query string, _ int) ([]search.Result, error) {
	s.queries = append(s.queries, query)
	i := len(s.queries) - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	r := s.responses[i]
	return r.results, r.err
}

func newClient(p search.Provider, maxAttempts int) *Client {
	return &Client{Provider: p, Backoff: time.Millisecond, MaxAttempts: maxAttempts}
}

func TestQuery_Template(t *testing.T) {
	if got := Query("depta.gov.au"); got != "site:depta.gov.au list of files senate order" {
		t.Fatalf("unexpected query %q", got)
	}
}

func TestLookup_TopResultOnly(t *testing.T) {
	p := &scripted{responses: []response{{results: []search.Result{
		{Title: "Files List", URL: "http://depta.gov.au/files"},
		{Title: "Second", URL: "http://depta.gov.au/second"},
	}}}}
	got, err := newClient(p, 3).Lookup(context.Background(), "depta.gov.au")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	want := Outcome{Domain: "depta.gov.au", Found: true, Title: "Files List", URL: "http://depta.gov.au/files"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if len(p.queries) != 1 || p.queries[0] != "site:depta.gov.au list of files senate order" {
		t.Fatalf("unexpected queries: %v", p.queries)
	}
}

func TestLookup_NoResults(t *testing.T) {
	p := &scripted{responses: []response{{results: nil}}}
	got, err := newClient(p, 3).Lookup(context.Background(), "empty.gov.au")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got.Found || got.ReportURL() != Unknown || got.PageTitle() != Unknown {
		t.Fatalf("expected UNKNOWN outcome, got %+v", got)
	}
}

func TestLookup_RetriesTransientFailures(t *testing.T) {
	rateLimited := &search.ProviderError{Provider: "x", StatusCode: 429, Err: search.ErrRateLimited}
	p := &scripted{responses: []response{
		{err: rateLimited},
		{err: errors.New("connection reset")},
		{results: []search.Result{{Title: "T", URL: "http://a.gov.au/t"}}},
	}}
	got, err := newClient(p, 5).Lookup(context.Background(), "a.gov.au")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !got.Found || len(p.queries) != 3 {
		t.Fatalf("expected success on third attempt, got %+v after %d calls", got, len(p.queries))
	}
	for _, q := range p.queries {
		if q != p.queries[0] {
			t.Fatalf("retry changed the query: %v", p.queries)
		}
	}
}

func TestLookup_RetriesExhausted(t *testing.T) {
	p := &scripted{responses: []response{{err: errors.New("timeout")}}}
	_, err := newClient(p, 4).Lookup(context.Background(), "a.gov.au")
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("expected ErrRetriesExhausted, got %v", err)
	}
	if len(p.queries) != 4 {
		t.Fatalf("expected 4 attempts, got %d", len(p.queries))
	}
}

func TestLookup_FatalStopsImmediately(t *testing.T) {
	p := &scripted{responses: []response{{err: &search.ProviderError{Provider: "x", StatusCode: 401, Err: search.ErrAuth}}}}
	_, err := newClient(p, 10).Lookup(context.Background(), "a.gov.au")
	if !errors.Is(err, ErrFatal) || !errors.Is(err, search.ErrAuth) {
		t.Fatalf("expected fatal auth error, got %v", err)
	}
	if len(p.queries) != 1 {
		t.Fatalf("fatal error must not be retried, got %d calls", len(p.queries))
	}
}

// With MaxAttempts zero the client keeps retrying until the context ends.
func TestLookup_UnboundedStopsOnCancel(t *testing.T) {
	p := &scripted{responses: []response{{err: errors.New("down")}}}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newClient(p, 0).Lookup(ctx, "a.gov.au")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if len(p.queries) < 2 {
		t.Fatalf("expected several attempts, got %d", len(p.queries))
	}
}

func TestLookup_PacesEveryCall(t *testing.T) {
	p := &scripted{responses: []response{{results: nil}}}
	c := newClient(p, 1)
	c.Limiter = NewLimiter(30 * time.Millisecond)
	start := time.Now()
	for _, d := range []string{"a.gov.au", "b.gov.au", "c.gov.au"} {
		if _, err := c.Lookup(context.Background(), d); err != nil {
			t.Fatalf("lookup %s: %v", d, err)
		}
	}
	if elapsed := time.Since(start); elapsed < 55*time.Millisecond {
		t.Fatalf("calls were not paced: %v", elapsed)
	}
}
