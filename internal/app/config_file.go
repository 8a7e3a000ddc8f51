package app

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. JSON files
// parse too since YAML is a superset.
type FileConfig struct {
	Provider string `yaml:"provider"`

	Bing struct {
		Key      string `yaml:"key"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"bing"`

	Searx struct {
		URL string `yaml:"url"`
		Key string `yaml:"key"`
	} `yaml:"searx"`

	Search struct {
		File      string         `yaml:"file"`
		UserAgent string         `yaml:"userAgent"`
		Interval  *time.Duration `yaml:"interval"` // 0 disables pacing
		Timeout   time.Duration  `yaml:"timeout"`
	} `yaml:"search"`

	Retry struct {
		Backoff     time.Duration `yaml:"backoff"`
		MaxAttempts *int          `yaml:"maxAttempts"`
	} `yaml:"retry"`

	Registry struct {
		BodyTypes string `yaml:"bodyTypes"`
		Encoding  string `yaml:"encoding"`
	} `yaml:"registry"`

	Output struct {
		Shape string `yaml:"shape"`
	} `yaml:"output"`

	Cache struct {
		Dir         string        `yaml:"dir"`
		MaxAge      time.Duration `yaml:"maxAge"`
		Clear       bool          `yaml:"clear"`
		StrictPerms bool          `yaml:"strictPerms"`
	} `yaml:"cache"`

	Verbose bool `yaml:"verbose"`
}

// LoadConfigFile reads a YAML (or JSON) config file.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// ApplyFileConfig overlays every value the file sets onto cfg.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	dur := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	str(&cfg.Provider, fc.Provider)
	str(&cfg.BingKey, fc.Bing.Key)
	str(&cfg.BingEndpoint, fc.Bing.Endpoint)
	str(&cfg.SearxURL, fc.Searx.URL)
	str(&cfg.SearxKey, fc.Searx.Key)
	str(&cfg.FileSearchPath, fc.Search.File)
	str(&cfg.UserAgent, fc.Search.UserAgent)
	if fc.Search.Interval != nil {
		cfg.SearchInterval = *fc.Search.Interval
	}
	dur(&cfg.RequestTimeout, fc.Search.Timeout)
	dur(&cfg.RetryBackoff, fc.Retry.Backoff)
	if fc.Retry.MaxAttempts != nil {
		cfg.RetryMaxAttempts = *fc.Retry.MaxAttempts
	}
	str(&cfg.BodyTypes, fc.Registry.BodyTypes)
	str(&cfg.Encoding, fc.Registry.Encoding)
	str(&cfg.OutputShape, fc.Output.Shape)
	str(&cfg.CacheDir, fc.Cache.Dir)
	dur(&cfg.CacheMaxAge, fc.Cache.MaxAge)
	if fc.Cache.Clear {
		cfg.CacheClear = true
	}
	if fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}
