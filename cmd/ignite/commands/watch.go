package commands

import (
	"context"
	"path/filepath"

	"github.com/inonjs/ignite/internal/build"
	"github.com/inonjs/ignite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Dst string `short:"o" help:"Output directory; overrides dst from the configuration"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if w.Dst != "" {
		cfg.Dst = w.Dst
	}

	rt, err := newRuntime(g, cfg)
	if err != nil {
		return err
	}
	defer rt.close(g)

	rebuild := func(ctx context.Context, reason string) error {
		// Pick up configuration edits on every rebuild.
		current, err := root.LoadConfig()
		if err != nil {
			return err
		}
		if w.Dst != "" {
			current.Dst = w.Dst
		}
		result, err := rt.service.Run(ctx, build.Request{Config: current, Watch: true})
		if err != nil {
			printf("%s\n", result.Messages.CompilationFailure)
			return err
		}
		if err := (build.JSONSink{Dir: current.Dst}).Write(ctx, result.Artifacts); err != nil {
			return err
		}
		printf("%s\n", result.Messages.CompilationSuccess)
		return nil
	}

	if err := rebuild(g.Ctx, "initial"); err != nil {
		g.Logger.Error("Initial build failed", "error", err)
	}

	dirs := []string{cfg.Src}
	if root.Config != "" {
		if abs, err := filepath.Abs(root.Config); err == nil {
			dirs = append(dirs, filepath.Dir(abs))
		}
	}
	watcher, err := watch.New(rebuild, watch.Options{
		Dirs:     dirs,
		Debounce: cfg.Watch.Debounce,
		Interval: cfg.Watch.Interval,
		Logger:   g.Logger,
	})
	if err != nil {
		return err
	}
	return watcher.Run(g.Ctx)
}
