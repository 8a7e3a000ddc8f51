package search

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned by New when the selected provider is unknown
// or lacks a required setting.
var ErrNotConfigured = errors.New("search provider not configured")

// Provider names accepted by New.
const (
	NameBing       = "bing"
	NameDuckDuckGo = "duckduckgo"
	NameSearxNG    = "searxng"
	NameFile       = "file"
)

// Options selects and configures one provider.
type Options struct {
	Provider string

	BingKey      string
	BingEndpoint string

	SearxURL string
	SearxKey string

	FilePath string

	UserAgent string
	// Timeout bounds each HTTP request. Zero means 30s.
	Timeout time.Duration
}

// New returns the provider named by o.Provider.
func New(o Options) (Provider, error) {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	switch strings.ToLower(strings.TrimSpace(o.Provider)) {
	case NameBing:
		if strings.TrimSpace(o.BingKey) == "" {
			return nil, fmt.Errorf("%w: bing requires an API key (AZURE_KEY)", ErrNotConfigured)
		}
		return NewBing(o.BingEndpoint, o.BingKey, timeout), nil
	case NameDuckDuckGo, "ddg":
		return &DuckDuckGo{HTTPClient: &http.Client{Timeout: timeout}, UserAgent: o.UserAgent}, nil
	case NameSearxNG, "searx":
		if strings.TrimSpace(o.SearxURL) == "" {
			return nil, fmt.Errorf("%w: searxng requires a base URL (SEARX_URL)", ErrNotConfigured)
		}
		return &SearxNG{BaseURL: o.SearxURL, APIKey: o.SearxKey, HTTPClient: &http.Client{Timeout: timeout}, UserAgent: o.UserAgent}, nil
	case NameFile:
		if strings.TrimSpace(o.FilePath) == "" {
			return nil, fmt.Errorf("%w: file provider requires a path (SEARCH_FILE)", ErrNotConfigured)
		}
		return &FileProvider{Path: o.FilePath}, nil
	case "":
		return nil, fmt.Errorf("%w: no provider selected", ErrNotConfigured)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrNotConfigured, o.Provider)
	}
}
