package build

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/inonjs/ignite/internal/blog"
	"github.com/inonjs/ignite/internal/config"
	"github.com/inonjs/ignite/internal/docgraph"
	"github.com/inonjs/ignite/internal/events"
	"github.com/inonjs/ignite/internal/foundation/errors"
	"github.com/inonjs/ignite/internal/history"
	"github.com/inonjs/ignite/internal/logfields"
	"github.com/inonjs/ignite/internal/metrics"
	"github.com/inonjs/ignite/internal/observability"
	"github.com/inonjs/ignite/internal/plugin"
	"github.com/inonjs/ignite/internal/searchindex"
)

// Request contains all inputs required to execute a build.
type Request struct {
	Config *config.Config
	// Watch selects the watch-mode notices in Result.Messages.
	Watch bool
}

// Status represents the outcome of a build execution.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusCanceled Status = "canceled"
)

// Result contains the outcome of a build execution.
type Result struct {
	BuildID   string
	Status    Status
	Artifacts *Artifacts
	Messages  Messages
	StartTime time.Time
	Duration  time.Duration
}

// Service executes builds. It is safe for sequential reuse; watch mode calls Run
// once per change.
type Service struct {
	loader    plugin.Loader
	oracle    history.Oracle
	sink      Sink
	publisher events.Publisher
	recorder  metrics.Recorder
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithSink sets where artifacts go after a successful build. Without a sink the
// artifacts are only returned.
func WithSink(sink Sink) Option {
	return func(s *Service) { s.sink = sink }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service loading plugins through loader and dating blog posts
// with oracle.
func NewService(loader plugin.Loader, oracle history.Oracle, opts ...Option) *Service {
	s := &Service{
		loader:    loader,
		oracle:    oracle,
		publisher: events.NoopPublisher{},
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes one build. Plugins are initialized first, so configuration errors
// surface before any document is read. The page graph, search index and blog stages
// then run concurrently; the first failure cancels the others.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	result := &Result{
		BuildID:   uuid.NewString(),
		StartTime: time.Now(),
		Messages:  MessagesFor(req.Watch),
	}
	ctx = observability.WithBuildID(ctx, result.BuildID)

	artifacts, err := s.run(ctx, req, result.BuildID)
	result.Duration = time.Since(result.StartTime)
	s.recorder.ObserveBuildDuration(result.Duration)

	switch {
	case err == nil:
		result.Status = StatusSuccess
		result.Artifacts = artifacts
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		s.logger.InfoContext(ctx, "Build completed",
			logfields.DurationMS(float64(result.Duration.Milliseconds())),
			logfields.Count(artifacts.Pages.Len()))
	case stderrors.Is(err, context.Canceled):
		result.Status = StatusCanceled
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
	default:
		result.Status = StatusFailed
		s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		s.logger.ErrorContext(ctx, "Build failed", logfields.Error(err))
	}
	s.publish(ctx, result, err)
	return result, err
}

func (s *Service) run(ctx context.Context, req Request, buildID string) (*Artifacts, error) {
	cfg := req.Config
	if cfg == nil {
		return nil, errors.ConfigError("config required").Build()
	}
	source, err := docgraph.NewFileSource(cfg.CacheSize)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "cannot create document cache").Build()
	}

	a := &Artifacts{BuildID: buildID}

	err = s.stage(ctx, metrics.StagePlugins, func(ctx context.Context) error {
		manager := plugin.NewManager(s.loader,
			plugin.WithStrict(cfg.StrictPlugins),
			plugin.WithRecorder(s.recorder),
			plugin.WithLogger(s.logger))
		resolved, err := manager.Initialize(ctx, cfg.Plugins)
		a.Plugins = resolved
		return err
	})
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.stage(gctx, metrics.StagePageGraph, func(ctx context.Context) error {
			resolver := docgraph.NewResolver(cfg.Src, source, docgraph.WithLogger(s.logger))
			graph, err := resolver.Resolve(ctx, cfg.Index)
			a.Pages = graph
			return err
		})
	})
	g.Go(func() error {
		return s.stage(gctx, metrics.StageSearchIndex, func(ctx context.Context) error {
			builder := searchindex.NewBuilder(cfg.Src, cfg.BaseURL, source,
				searchindex.WithIndex(cfg.Index),
				searchindex.WithRecorder(s.recorder),
				searchindex.WithLogger(s.logger))
			entries, err := builder.Build(ctx, cfg.NavItems)
			a.SearchIndex = entries
			return err
		})
	})
	g.Go(func() error {
		return s.stage(gctx, metrics.StageBlog, func(ctx context.Context) error {
			extractor := blog.NewExtractor(s.oracle,
				blog.WithRecorder(s.recorder),
				blog.WithLogger(s.logger))
			posts, err := extractor.Extract(ctx, cfg.Src)
			a.BlogPosts = posts
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.sink != nil {
		if err := s.stage(ctx, metrics.StageSink, func(ctx context.Context) error {
			return s.sink.Write(ctx, a)
		}); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (s *Service) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx = observability.WithStage(ctx, name)
	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)

	s.recorder.ObserveStageDuration(name, d)
	result := metrics.ResultFor(err)
	if stderrors.Is(err, context.Canceled) {
		result = metrics.ResultCanceled
	}
	s.recorder.IncStageResult(name, result)
	s.logger.DebugContext(ctx, "Stage finished",
		logfields.DurationMS(float64(d.Milliseconds())),
		slog.String("result", string(result)))
	return err
}

func (s *Service) publish(ctx context.Context, r *Result, buildErr error) {
	if r.Status == StatusCanceled {
		return
	}
	t := events.BuildCompleted
	if buildErr != nil {
		t = events.BuildFailed
	}
	e := events.New(t, r.BuildID)
	e.DurationMS = r.Duration.Milliseconds()
	if buildErr != nil {
		e.Error = buildErr.Error()
	}
	if a := r.Artifacts; a != nil {
		e.Pages = a.Pages.Len()
		e.SearchEntries = len(a.SearchIndex)
		e.BlogPosts = len(a.BlogPosts)
		e.Plugins = len(a.Plugins)
	}
	// Event delivery never changes the build outcome.
	if err := s.publisher.Publish(context.WithoutCancel(ctx), e); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish build event", logfields.Error(err))
	}
}
