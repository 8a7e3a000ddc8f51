// Package lookup runs the per-domain report search: it builds the
// site-restricted query, paces provider calls, retries transient failures and
// reduces the ranked results to a single Outcome.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/hyperifyio/reportfinder/internal/search"
)

// Unknown is recorded in place of a URL or title when nothing was found.
const Unknown = "UNKNOWN"

// queryTemplate is part of the contract with the search providers.
const queryTemplate = "site:%s list of files senate order"

const (
	DefaultBackoff     = 5 * time.Second
	DefaultInterval    = time.Second
	DefaultMaxAttempts = 10
)

var (
	// ErrRetriesExhausted is returned when every allowed attempt failed with a
	// retryable error.
	ErrRetriesExhausted = errors.New("search retries exhausted")
	// ErrFatal wraps provider errors that retrying cannot fix, such as
	// rejected credentials.
	ErrFatal = errors.New("fatal search error")
)

// Query returns the search string for domain.
func Query(domain string) string {
	return fmt.Sprintf(queryTemplate, domain)
}

// Outcome is the result of searching one domain.
type Outcome struct {
	Domain string `json:"domain"`
	Found  bool   `json:"found"`
	Title  string `json:"title,omitempty"`
	URL    string `json:"url,omitempty"`
}

// ReportURL returns the found URL or Unknown.
func (o Outcome) ReportURL() string {
	if !o.Found {
		return Unknown
	}
	return o.URL
}

// PageTitle returns the found page title or Unknown.
func (o Outcome) PageTitle() string {
	if !o.Found {
		return Unknown
	}
	return o.Title
}

// Client wraps a search.Provider with pacing and retry.
type Client struct {
	Provider search.Provider
	// Backoff is the fixed wait between attempts. Zero means DefaultBackoff.
	Backoff time.Duration
	// MaxAttempts includes the first attempt. Zero retries until the
	// provider answers or ctx is done.
	MaxAttempts int
	// Limiter gates every provider call, retries included. Nil disables pacing.
	Limiter *rate.Limiter
}

// NewLimiter allows one request per interval. A non-positive interval
// disables pacing.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// Lookup searches for the report page of domain and keeps only the top
// result. A search with no results is a valid Outcome with Found=false.
func (c *Client) Lookup(ctx context.Context, domain string) (Outcome, error) {
	q := Query(domain)
	var (
		results  []search.Result
		attempts int
		waitErr  error
	)
	op := func() error {
		if c.Limiter != nil {
			if err := c.Limiter.Wait(ctx); err != nil {
				waitErr = err
				return backoff.Permanent(err)
			}
		}
		attempts++
		res, err := c.Provider.Search(ctx, q, 1)
		if err != nil {
			if !search.Retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		results = res
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("domain", domain).Int("attempt", attempts).Dur("wait", wait).Msg("search failed; retrying")
	}

	none := Outcome{Domain: domain}
	if err := backoff.RetryNotify(op, c.policy(ctx), notify); err != nil {
		switch {
		case ctx.Err() != nil:
			return none, ctx.Err()
		case waitErr != nil:
			return none, fmt.Errorf("pace %s: %w", domain, waitErr)
		case !search.Retryable(err):
			return none, fmt.Errorf("%w: %s: %w", ErrFatal, domain, err)
		default:
			return none, fmt.Errorf("%w: %s after %d attempts: %w", ErrRetriesExhausted, domain, attempts, err)
		}
	}
	if len(results) == 0 {
		return none, nil
	}
	top := results[0]
	return Outcome{Domain: domain, Found: true, Title: top.Title, URL: top.URL}, nil
}

func (c *Client) policy(ctx context.Context) backoff.BackOffContext {
	wait := c.Backoff
	if wait <= 0 {
		wait = DefaultBackoff
	}
	var b backoff.BackOff = backoff.NewConstantBackOff(wait)
	if c.MaxAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(c.MaxAttempts-1))
	}
	return backoff.WithContext(b, ctx)
}
