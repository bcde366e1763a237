// Package watch reruns builds when the source tree changes.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"github.com/inonjs/ignite/internal/logfields"
	"github.com/inonjs/ignite/internal/pathutil"
)

// Rebuild reasons passed to RebuildFunc.
const (
	ReasonChange   = "change"
	ReasonSchedule = "schedule"
)

// RebuildFunc runs one build. Errors are logged and watching continues.
type RebuildFunc func(ctx context.Context, reason string) error

// Options configures a Watcher.
type Options struct {
	// Dirs are watched recursively. Hidden directories are skipped.
	Dirs []string
	// Debounce is the quiet period after the last change before a rebuild starts.
	Debounce time.Duration
	// Interval triggers a rebuild periodically; zero disables it.
	Interval time.Duration
	Logger   *slog.Logger
}

// Watcher serializes rebuilds triggered by file changes and by the schedule.
type Watcher struct {
	opts    Options
	rebuild RebuildFunc
	logger  *slog.Logger
}

// New creates a Watcher.
func New(rebuild RebuildFunc, opts Options) (*Watcher, error) {
	if rebuild == nil {
		return nil, fmt.Errorf("rebuild function is required")
	}
	if len(opts.Dirs) == 0 {
		return nil, fmt.Errorf("at least one directory to watch is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{opts: opts, rebuild: rebuild, logger: logger}, nil
}

// Relevant reports whether a change to name can affect a build.
func Relevant(name string) bool {
	base := filepath.Base(name)
	switch {
	case pathutil.IsMarkdownFile(base):
		return true
	case base == ".env", base == ".env.local":
		return true
	case strings.HasPrefix(base, ".ignite.") && (strings.HasSuffix(base, ".yml") || strings.HasSuffix(base, ".yaml")):
		return true
	}
	return false
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if err := fw.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()
	for _, dir := range w.opts.Dirs {
		if err := addRecursive(fw, dir); err != nil {
			return err
		}
	}

	scheduled := make(chan struct{}, 1)
	if w.opts.Interval > 0 {
		scheduler, err := w.schedule(scheduled)
		if err != nil {
			return err
		}
		defer func() {
			if err := scheduler.Shutdown(); err != nil {
				w.logger.Error("Error stopping scheduler", logfields.Error(err))
			}
		}()
	}

	w.logger.Info("Watching for changes", slog.Any("dirs", w.opts.Dirs))

	debounce := time.NewTimer(w.opts.Debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addRecursive(fw, event.Name); err != nil {
						w.logger.Warn("Cannot watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
					debounce.Reset(w.opts.Debounce)
					continue
				}
			}
			if event.Has(fsnotify.Chmod) || !Relevant(event.Name) {
				continue
			}
			w.logger.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			debounce.Reset(w.opts.Debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))

		case <-debounce.C:
			w.run(ctx, ReasonChange)

		case <-scheduled:
			w.run(ctx, ReasonSchedule)
		}
	}
}

func (w *Watcher) run(ctx context.Context, reason string) {
	if ctx.Err() != nil {
		return
	}
	w.logger.Info("Rebuilding", slog.String("reason", reason))
	if err := w.rebuild(ctx, reason); err != nil {
		w.logger.Error("Rebuild failed", slog.String("reason", reason), logfields.Error(err))
	}
}

func (w *Watcher) schedule(trigger chan<- struct{}) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.opts.Interval),
		gocron.NewTask(func() {
			select {
			case trigger <- struct{}{}:
			default:
			}
		}),
		gocron.WithName("periodic-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	s.Start()
	return s, nil
}

func addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
		return nil
	})
}
