package plugin

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/inonjs/ignite/internal/foundation/errors"
	"github.com/inonjs/ignite/internal/logfields"
	"github.com/inonjs/ignite/internal/metrics"
)

// PluginError reports a failed plugin hook.
type PluginError struct {
	Plugin string
	Op     string
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s: %s: %v", e.Plugin, e.Op, e.Err)
}

func (e *PluginError) Unwrap() error { return e.Err }

// Manager runs the plugin lifecycle for a list of declarations.
type Manager struct {
	loader   Loader
	strict   bool
	recorder metrics.Recorder
	logger   *slog.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithStrict makes module paths unknown to the loader a configuration error instead
// of a warning.
func WithStrict(strict bool) ManagerOption {
	return func(m *Manager) { m.strict = strict }
}

func WithRecorder(r metrics.Recorder) ManagerOption {
	return func(m *Manager) {
		if r != nil {
			m.recorder = r
		}
	}
}

func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a Manager loading plugins through loader.
func NewManager(loader Loader, opts ...ManagerOption) *Manager {
	m := &Manager{loader: loader, recorder: metrics.NoopRecorder{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize loads every declared plugin and runs all init hooks concurrently.
//
// Declarations are checked before any hook starts. The result is in declaration
// order regardless of which hook finishes first. If any hook fails, no list is
// returned; the error wraps a *PluginError naming the plugin.
func (m *Manager) Initialize(ctx context.Context, decls []Declaration) ([]Resolved, error) {
	plugins := make([]Plugin, len(decls))
	for i, d := range decls {
		if err := d.Validate(); err != nil {
			return nil, errors.ConfigError("invalid plugin declaration").
				WithCause(err).
				WithContext("index", i).
				WithContext("plugin", d.Name).
				Build()
		}
		p, ok := m.loader.Load(d.ModulePath)
		if !ok {
			if m.strict {
				return nil, errors.ConfigError("unknown plugin module").
					WithContext("plugin", d.Name).
					WithContext("module", d.ModulePath).
					Build()
			}
			m.logger.Warn("Plugin module not registered, passing options through",
				logfields.Plugin(d.Name), logfields.Module(d.ModulePath))
		}
		plugins[i] = p
	}

	resolved := make([]Resolved, len(decls))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range decls {
		g.Go(func() error {
			opts, err := m.initOne(gctx, d, plugins[i])
			if err != nil {
				return err
			}
			resolved[i] = Resolved{Name: d.Name, ModulePath: d.ModulePath, Options: opts, Plugin: plugins[i]}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var pe *PluginError
		if stderrors.As(err, &pe) {
			return nil, errors.WrapError(pe, errors.CategoryPlugin, "plugin initialization failed").
				WithContext("plugin", pe.Plugin).
				Fatal().
				Build()
		}
		return nil, err
	}
	return resolved, nil
}

func (m *Manager) initOne(ctx context.Context, d Declaration, p Plugin) (Options, error) {
	declared := d.Options.Clone()
	hook, ok := p.(Initializer)
	if !ok {
		return declared, nil
	}

	start := time.Now()
	override, err := hook.Init(ctx, declared.Clone())
	m.recorder.IncPluginInit(d.Name, err == nil)
	if err != nil {
		m.logger.Error("Plugin init failed", logfields.Plugin(d.Name), logfields.Error(err))
		return nil, &PluginError{Plugin: d.Name, Op: "init", Err: err}
	}
	m.logger.Debug("Plugin initialized",
		logfields.Plugin(d.Name),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	if override == nil {
		return declared, nil
	}
	return declared.Overlay(override), nil
}
