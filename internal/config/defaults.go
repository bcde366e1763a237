package config

import (
	"path/filepath"
	"time"
)

// Default values applied by Load.
const (
	DefaultSrc             = "docs"
	DefaultDst             = "dist"
	DefaultIndex           = "index.md"
	DefaultBaseURL         = "/"
	DefaultMetricsListen   = ":9464"
	DefaultEventsSubject   = "ignite.builds"
	DefaultWatchDebounce   = 300 * time.Millisecond
	DefaultContentCacheLen = 1024
)

// Default returns a configuration with every default applied, for use when no
// configuration file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg, "")
	return cfg
}

// applyDefaults fills unset fields. Relative src and dst are resolved against baseDir.
func applyDefaults(cfg *Config, baseDir string) {
	if cfg.Src == "" {
		cfg.Src = DefaultSrc
	}
	if cfg.Dst == "" {
		cfg.Dst = DefaultDst
	}
	if cfg.Index == "" {
		cfg.Index = DefaultIndex
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.NavItems == nil {
		cfg.NavItems = map[string]string{}
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultContentCacheLen
	}
	if cfg.Metrics.Listen == "" {
		cfg.Metrics.Listen = DefaultMetricsListen
	}
	if cfg.Events.Subject == "" {
		cfg.Events.Subject = DefaultEventsSubject
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
	for i := range cfg.Plugins {
		if cfg.Plugins[i].Options == nil {
			cfg.Plugins[i].Options = map[string]any{}
		}
	}
	if baseDir != "" {
		cfg.Src = absUnder(baseDir, cfg.Src)
		cfg.Dst = absUnder(baseDir, cfg.Dst)
	}
}

func absUnder(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
