package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/reportfinder/internal/app"
)

const usageLine = "usage: reportfinder [flags] <registry.csv|registry.xlsx> <output.csv>"

// errUsage marks wrong invocation; main exits 2 for it.
var errUsage = errors.New("usage")

// cliMeta carries the flags that are not part of app.Config.
type cliMeta struct {
	configPath string
	envFiles   string
	version    bool
}

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, meta, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if !errors.Is(err, errUsage) {
			log.Error().Err(err).Msg("invalid configuration")
		}
		os.Exit(2)
	}
	if meta.version {
		fmt.Printf("reportfinder %s (%s)\n", app.BuildVersion, app.BuildCommit)
		return
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("run failed")
		var ce *app.ConfigError
		if errors.As(err, &ce) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg app.Config) error {
	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	return a.Run(ctx)
}

// parseArgs layers defaults, config file, environment and flags, in that
// order of increasing precedence, and takes the two positional paths.
func parseArgs(args []string, stderr io.Writer) (app.Config, cliMeta, error) {
	// First pass only locates -config and -env.
	var meta cliMeta
	scratch := app.Defaults()
	pre := newFlagSet(&scratch, &meta, io.Discard)
	_ = pre.Parse(args)

	envFiles := []string{".env"}
	if s := strings.TrimSpace(meta.envFiles); s != "" {
		envFiles = strings.Split(s, ",")
	}
	if err := app.LoadEnvFiles(envFiles...); err != nil {
		return app.Config{}, meta, fmt.Errorf("load env files: %w", err)
	}

	cfg := app.Defaults()
	if meta.configPath != "" {
		fc, err := app.LoadConfigFile(meta.configPath)
		if err != nil {
			return app.Config{}, meta, &app.ConfigError{Field: "config", Err: err}
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	// Flags default to the layered values, so only explicit flags override.
	fs := newFlagSet(&cfg, &meta, stderr)
	if err := fs.Parse(args); err != nil {
		return app.Config{}, meta, errUsage
	}
	if meta.version {
		return cfg, meta, nil
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(stderr, usageLine)
		return app.Config{}, meta, errUsage
	}
	cfg.InputPath = fs.Arg(0)
	cfg.OutputPath = fs.Arg(1)
	return cfg, meta, nil
}

func newFlagSet(cfg *app.Config, meta *cliMeta, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("reportfinder", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), usageLine)
		fs.PrintDefaults()
	}

	fs.StringVar(&meta.configPath, "config", meta.configPath, "Path to YAML or JSON config file")
	fs.StringVar(&meta.envFiles, "env", meta.envFiles, "Comma-separated dotenv files to load (default .env)")
	fs.BoolVar(&meta.version, "version", meta.version, "Print version and exit")

	fs.StringVar(&cfg.Provider, "search.provider", cfg.Provider, "Search provider: bing, duckduckgo, searxng or file")
	fs.StringVar(&cfg.BingKey, "bing.key", cfg.BingKey, "Bing Web Search API key (AZURE_KEY)")
	fs.StringVar(&cfg.BingEndpoint, "bing.endpoint", cfg.BingEndpoint, "Bing Web Search endpoint")
	fs.StringVar(&cfg.SearxURL, "searx.url", cfg.SearxURL, "SearxNG base URL")
	fs.StringVar(&cfg.SearxKey, "searx.key", cfg.SearxKey, "SearxNG API key (optional)")
	fs.StringVar(&cfg.FileSearchPath, "search.file", cfg.FileSearchPath, "Path to JSON file for the offline file provider")
	fs.StringVar(&cfg.UserAgent, "search.ua", cfg.UserAgent, "User-Agent for search requests")
	fs.DurationVar(&cfg.RequestTimeout, "search.timeout", cfg.RequestTimeout, "Per-request timeout")
	fs.DurationVar(&cfg.SearchInterval, "search.interval", cfg.SearchInterval, "Minimum time between search requests; 0 disables pacing")
	fs.DurationVar(&cfg.RetryBackoff, "retry.backoff", cfg.RetryBackoff, "Fixed wait before retrying a failed search")
	fs.IntVar(&cfg.RetryMaxAttempts, "retry.maxAttempts", cfg.RetryMaxAttempts, "Attempts per domain including the first; 0 retries until success")

	fs.StringVar(&cfg.BodyTypes, "bodyTypes", cfg.BodyTypes, "Allowed first characters of 'Type of Body', e.g. ABE; empty keeps all")
	fs.StringVar(&cfg.Encoding, "encoding", cfg.Encoding, "Registry CSV encoding")
	fs.StringVar(&cfg.OutputShape, "output.shape", cfg.OutputShape, "Output columns: split or harradine")

	fs.StringVar(&cfg.CacheDir, "cache.dir", cfg.CacheDir, "Checkpoint directory for resumable runs; empty disables")
	fs.DurationVar(&cfg.CacheMaxAge, "cache.maxAge", cfg.CacheMaxAge, "Purge checkpoints older than this before the run; 0 disables")
	fs.BoolVar(&cfg.CacheClear, "cache.clear", cfg.CacheClear, "Clear checkpoints before the run")
	fs.BoolVar(&cfg.CacheStrictPerms, "cache.strictPerms", cfg.CacheStrictPerms, "Restrict checkpoint permissions (0700 dirs, 0600 files)")

	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	return fs
}
