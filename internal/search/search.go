package search

import (
	"context"
)

// Result represents a single search hit from any provider.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
	Source  string `json:"-"` // provider name for observability
}

// Provider is a minimal interface for search providers. Results are returned
// in the provider's ranking order; an empty slice with a nil error means the
// query matched nothing.
type Provider interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
	Name() string
}
