// Package app wires the report finder pipeline: read the register, resolve
// domains, search each domain once, join the outcomes back onto agencies and
// write the result CSV.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/reportfinder/internal/aggregate"
	"github.com/hyperifyio/reportfinder/internal/cache"
	"github.com/hyperifyio/reportfinder/internal/lookup"
	"github.com/hyperifyio/reportfinder/internal/registry"
	"github.com/hyperifyio/reportfinder/internal/report"
	"github.com/hyperifyio/reportfinder/internal/resolve"
	"github.com/hyperifyio/reportfinder/internal/search"
)

// progressEvery is how many searched domains pass between progress lines.
const progressEvery = 10

type App struct {
	cfg         Config
	client      *lookup.Client
	checkpoints *cache.OutcomeCache
	shape       report.Shape
}

// New validates cfg and builds the configured search provider.
func New(cfg Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p, err := search.New(cfg.SearchOptions())
	if err != nil {
		return nil, &ConfigError{Field: "provider", Err: err}
	}
	return NewWithProvider(cfg, p)
}

// NewWithProvider builds an App around an already constructed provider.
func NewWithProvider(cfg Config, p search.Provider) (*App, error) {
	if err := cfg.validateRun(); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &ConfigError{Field: "provider", Err: errors.New("nil provider")}
	}
	shape, _ := report.ParseShape(cfg.OutputShape)
	a := &App{
		cfg:   cfg,
		shape: shape,
		client: &lookup.Client{
			Provider:    p,
			Backoff:     cfg.RetryBackoff,
			MaxAttempts: cfg.RetryMaxAttempts,
			Limiter:     lookup.NewLimiter(cfg.SearchInterval),
		},
	}
	if cfg.CacheDir != "" {
		if cfg.CacheClear {
			if err := cache.ClearDir(cfg.CacheDir); err != nil {
				log.Warn().Err(err).Str("dir", cfg.CacheDir).Msg("clear checkpoints failed")
			}
		}
		if cfg.CacheMaxAge > 0 {
			if n, err := cache.PurgeByAge(cfg.CacheDir, cfg.CacheMaxAge); err != nil {
				log.Warn().Err(err).Msg("purge checkpoints failed")
			} else if n > 0 {
				log.Info().Int("removed", n).Msg("purged stale checkpoints")
			}
		}
		a.checkpoints = &cache.OutcomeCache{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
	}
	log.Debug().Str("provider", p.Name()).Dur("interval", cfg.SearchInterval).Int("max_attempts", cfg.RetryMaxAttempts).Msg("search configured")
	return a, nil
}

// Run executes the whole batch. Per-domain failures degrade to UNKNOWN; only
// fatal provider errors, cancellation and I/O errors abort the run.
func (a *App) Run(ctx context.Context) error {
	agencies, st, err := registry.Read(a.cfg.InputPath, registry.Options{BodyTypes: a.cfg.BodyTypes, Encoding: a.cfg.Encoding})
	if err != nil {
		return fmt.Errorf("read registry: %w", err)
	}
	log.Info().
		Int("rows", st.Rows).
		Int("skipped_no_website", st.SkippedNoWebsite).
		Int("skipped_body_type", st.SkippedBodyType).
		Msg("registry read")

	unresolved := resolve.Unresolved(agencies)
	for _, u := range unresolved {
		log.Debug().Str("title", u.Title).Str("website", u.RawWebsite).Msg("could not resolve domain")
	}
	domains := resolve.Unique(agencies)
	log.Info().
		Int("agencies", len(agencies)).
		Int("unique_domains", len(domains)).
		Int("unresolved", len(unresolved)).
		Msg("domains resolved")

	outcomes, err := a.searchAll(ctx, domains)
	if err != nil {
		return err
	}

	rows := aggregate.Aggregate(agencies, outcomes)
	if err := report.WriteFile(a.cfg.OutputPath, rows, a.shape); err != nil {
		return err
	}
	found := 0
	for _, o := range outcomes {
		if o.Found {
			found++
		}
	}
	log.Info().Str("out", a.cfg.OutputPath).Int("rows", len(rows)).Int("domains_found", found).Msg("wrote report list")
	return nil
}

func (a *App) searchAll(ctx context.Context, domains []string) (map[string]lookup.Outcome, error) {
	outcomes := make(map[string]lookup.Outcome, len(domains))
	for i, d := range domains {
		o, err := a.searchDomain(ctx, d)
		if err != nil {
			if !errors.Is(err, lookup.ErrRetriesExhausted) {
				return nil, fmt.Errorf("search %s: %w", d, err)
			}
			log.Error().Err(err).Str("domain", d).Msg("giving up on domain")
			o = lookup.Outcome{Domain: d}
		}
		outcomes[d] = o
		if n := i + 1; n%progressEvery == 0 || n == len(domains) {
			log.Info().Int("searched", n).Int("total", len(domains)).Msg("domains searched")
		}
	}
	return outcomes, nil
}

// searchDomain serves the outcome from a checkpoint when one exists and
// checkpoints fresh outcomes. Exhausted retries are never checkpointed so a
// resumed run tries the domain again.
func (a *App) searchDomain(ctx context.Context, domain string) (lookup.Outcome, error) {
	if a.checkpoints != nil {
		o, ok, err := a.checkpoints.Load(ctx, domain)
		if err != nil {
			log.Warn().Err(err).Str("domain", domain).Msg("checkpoint unreadable; searching again")
		} else if ok {
			log.Debug().Str("domain", domain).Msg("checkpoint hit")
			return o, nil
		}
	}
	o, err := a.client.Lookup(ctx, domain)
	if err != nil {
		return o, err
	}
	if o.Found {
		log.Info().Str("domain", domain).Str("url", o.URL).Str("title", o.Title).Msg("report found")
	} else {
		log.Info().Str("domain", domain).Msg("no results")
	}
	if a.checkpoints != nil {
		if err := a.checkpoints.Save(ctx, o); err != nil {
			log.Warn().Err(err).Str("domain", domain).Msg("checkpoint save failed")
		}
	}
	return o, nil
}
