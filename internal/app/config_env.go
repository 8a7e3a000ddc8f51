package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ApplyEnvOverrides overrides cfg fields with environment variables that are
// set. Env takes precedence over a config file; flags are applied after this
// and win over both.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	setString(&cfg.Provider, "SEARCH_PROVIDER")
	setString(&cfg.BingKey, "AZURE_KEY", "BING_KEY")
	setString(&cfg.BingEndpoint, "BING_ENDPOINT")
	setString(&cfg.SearxURL, "SEARX_URL", "SEARXNG_URL")
	setString(&cfg.SearxKey, "SEARX_KEY", "SEARXNG_KEY")
	setString(&cfg.FileSearchPath, "SEARCH_FILE")
	setString(&cfg.UserAgent, "SEARCH_USER_AGENT")
	setString(&cfg.BodyTypes, "BODY_TYPES")
	setString(&cfg.Encoding, "REGISTRY_ENCODING")
	setString(&cfg.OutputShape, "OUTPUT_SHAPE")
	setString(&cfg.CacheDir, "CACHE_DIR")

	setDuration := func(dst *time.Duration, key string) {
		s := strings.TrimSpace(os.Getenv(key))
		if s == "" {
			return
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			log.Warn().Str("env", key).Str("value", s).Msg("ignoring invalid duration")
			return
		}
		*dst = d
	}
	setDuration(&cfg.SearchInterval, "SEARCH_INTERVAL")
	setDuration(&cfg.RetryBackoff, "RETRY_BACKOFF")
	setDuration(&cfg.RequestTimeout, "REQUEST_TIMEOUT")
	setDuration(&cfg.CacheMaxAge, "CACHE_MAX_AGE")

	if s := strings.TrimSpace(os.Getenv("RETRY_MAX_ATTEMPTS")); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			cfg.RetryMaxAttempts = n
		} else {
			log.Warn().Str("env", "RETRY_MAX_ATTEMPTS").Str("value", s).Msg("ignoring invalid attempt count")
		}
	}

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, envKey string) {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(envKey))) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.CacheClear, "CACHE_CLEAR")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
}
