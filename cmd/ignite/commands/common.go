package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/inonjs/ignite/internal/build"
	"github.com/inonjs/ignite/internal/config"
	"github.com/inonjs/ignite/internal/events"
	"github.com/inonjs/ignite/internal/history"
	"github.com/inonjs/ignite/internal/metrics"
	"github.com/inonjs/ignite/internal/observability"
	"github.com/inonjs/ignite/internal/plugin"
	"github.com/inonjs/ignite/internal/plugin/builtin"
	"github.com/inonjs/ignite/internal/retry"
)

// Global carries process-wide state into every command.
type Global struct {
	Logger *slog.Logger
	Ctx    context.Context
}

// CLI definition & global flags.
type CLI struct {
	Config  string `short:"c" help:"Configuration file path (default: .ignite.yml discovered from the source directory upwards)"`
	Src     string `short:"s" help:"Source directory; overrides src from the configuration"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build   BuildCmd   `cmd:"" help:"Build all artifacts and write them to dst"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild whenever the source tree changes"`
	Graph   GraphCmd   `cmd:"" help:"Print the page graph reachable from the index"`
	Index   IndexCmd   `cmd:"" help:"Print the search index identifiers"`
	Blog    BlogCmd    `cmd:"" help:"Print blog posts with their creation dates"`
	Plugins PluginsCmd `cmd:"" help:"Initialize the declared plugins and print their options"`
	Version VersionCmd `cmd:"" help:"Show version and exit"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := observability.NewLogger(os.Stderr, observability.LevelFromEnv(level))
	slog.SetDefault(logger)
	g.Logger = logger
	return nil
}

// LoadConfig loads the configuration named by --config, or the one discovered from
// the source directory, or the defaults when there is none. --src wins over the file.
func (c *CLI) LoadConfig() (*config.Config, error) {
	path := c.Config
	if path == "" {
		start := c.Src
		if start == "" {
			start = "."
		}
		path, _ = config.Discover(start)
	}

	var cfg *config.Config
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		slog.Debug("Loaded configuration", "path", path)
	} else {
		cfg = config.Default()
	}

	if c.Src != "" {
		abs, err := filepath.Abs(c.Src)
		if err != nil {
			return nil, err
		}
		cfg.Src = abs
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewRegistry returns a plugin registry holding the built-in plugins.
func NewRegistry() (*plugin.Registry, error) {
	r := plugin.NewRegistry()
	if err := builtin.Register(r); err != nil {
		return nil, err
	}
	return r, nil
}

// runtime bundles the long-lived dependencies of the build service.
type runtime struct {
	service   *build.Service
	publisher events.Publisher
	server    *http.Server
}

func newRuntime(g *Global, cfg *config.Config, opts ...build.Option) (*runtime, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, err
	}

	rt := &runtime{publisher: events.NoopPublisher{}}
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Enabled {
		reg := prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
		rt.server = &http.Server{
			Addr:              cfg.Metrics.Listen,
			Handler:           metrics.HTTPHandler(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := rt.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				g.Logger.Error("Metrics server stopped", "error", err)
			}
		}()
		g.Logger.Info("Serving metrics", "listen", cfg.Metrics.Listen)
	}
	if cfg.Events.Enabled() {
		pub, err := events.NewNATSPublisher(cfg.Events.URL, cfg.Events.Subject)
		if err != nil {
			rt.close(g)
			return nil, err
		}
		r := cfg.Events.Retry
		policy := retry.NewPolicy(retry.Mode(r.Backoff), r.Initial, r.Max, r.MaxRetries)
		rt.publisher = events.WithRetry(pub, policy, g.Logger)
	}

	opts = append([]build.Option{
		build.WithPublisher(rt.publisher),
		build.WithRecorder(recorder),
		build.WithLogger(g.Logger),
	}, opts...)
	rt.service = build.NewService(registry, history.NewGitOracle(g.Logger), opts...)
	return rt, nil
}

func (rt *runtime) close(g *Global) {
	if err := rt.publisher.Close(); err != nil {
		g.Logger.Warn("Failed to close event publisher", "error", err)
	}
	if rt.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = rt.server.Shutdown(ctx)
	}
}

func printf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stdout, format, args...)
}
