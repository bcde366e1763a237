// Package config loads the site configuration file.
package config

import (
	"time"

	"github.com/inonjs/ignite/internal/docmodel"
)

// Config is the site configuration.
type Config struct {
	// Src is the source root holding the markdown tree.
	Src string `yaml:"src"`
	// Dst receives the artifacts handed to the renderer.
	Dst string `yaml:"dst"`
	// Index is the index document name, relative to Src and to every navigation root.
	Index   string `yaml:"index"`
	BaseURL string `yaml:"baseURL"`
	Title   string `yaml:"title"`
	// Author accepts either a mapping or a "Name <email> (url)" string.
	Author *docmodel.Author `yaml:"author,omitempty"`
	// NavItems maps navigation labels to site URLs; each local URL is a search root.
	NavItems map[string]string `yaml:"navItems"`
	Plugins  Plugins           `yaml:"plugins"`
	// StrictPlugins rejects plugin module paths nothing is registered for.
	StrictPlugins bool `yaml:"strictPlugins"`
	// CacheSize bounds the per-build document content cache.
	CacheSize int `yaml:"cacheSize"`

	Metrics MetricsConfig `yaml:"metrics"`
	Events  EventsConfig  `yaml:"events"`
	Watch   WatchConfig   `yaml:"watch"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// EventsConfig controls build event publishing to NATS JetStream.
// Publishing is disabled while URL is empty.
type EventsConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
	// Retry governs republishing after a transient failure.
	Retry RetryConfig `yaml:"retry"`
}

// RetryConfig mirrors retry.Policy in configuration form.
type RetryConfig struct {
	Backoff    string        `yaml:"backoff"` // fixed, linear or exponential
	Initial    time.Duration `yaml:"initial"`
	Max        time.Duration `yaml:"max"`
	MaxRetries int           `yaml:"maxRetries"`
}

// Enabled reports whether build events should be published.
func (e EventsConfig) Enabled() bool { return e.URL != "" }

// WatchConfig tunes the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	// Interval forces a periodic rebuild so newly committed blog posts get their
	// dates without a file change. Zero disables it.
	Interval time.Duration `yaml:"interval"`
}
