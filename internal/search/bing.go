package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBingEndpoint is the Cognitive Services base URL for Web Search v7.
const DefaultBingEndpoint = "https://api.cognitive.microsoft.com/bing/v7.0"

// Bing implements Provider against the Bing Web Search v7 API. It requires a
// subscription key.
type Bing struct {
	endpoint string
	apiKey   string
	client   *resty.Client
}

// NewBing builds a Bing provider. An empty endpoint selects
// DefaultBingEndpoint; a zero timeout selects 30s.
func NewBing(endpoint, apiKey string, timeout time.Duration) *Bing {
	if endpoint == "" {
		endpoint = DefaultBingEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")
	return &Bing{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		client:   client,
	}
}

func (b *Bing) Name() string { return "bing" }

func (b *Bing) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}
	resp, err := b.client.R().
		SetContext(ctx).
		SetHeader("Ocp-Apim-Subscription-Key", b.apiKey).
		SetQueryParams(map[string]string{
			"q":              query,
			"count":          strconv.Itoa(limit),
			"responseFilter": "Webpages",
		}).
		Get(b.endpoint + "/search")
	if err != nil {
		return nil, fmt.Errorf("bing request: %w", err)
	}
	if resp.IsError() {
		return nil, statusError(b.Name(), resp.StatusCode())
	}
	var br bingResponse
	if err := json.Unmarshal(resp.Body(), &br); err != nil {
		return nil, fmt.Errorf("decode bing response: %w", err)
	}
	if br.WebPages == nil {
		return []Result{}, nil
	}
	out := make([]Result, 0, len(br.WebPages.Value))
	for _, p := range br.WebPages.Value {
		if p.URL == "" {
			continue
		}
		out = append(out, Result{
			Title:   strings.TrimSpace(p.Name),
			URL:     strings.TrimSpace(p.URL),
			Snippet: strings.TrimSpace(p.Snippet),
			Source:  b.Name(),
		})
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

type bingResponse struct {
	WebPages *struct {
		Value []struct {
			Name    string `json:"name"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
		} `json:"value"`
	} `json:"webPages"`
}
