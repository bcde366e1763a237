package commands

import (
	"time"

	"github.com/inonjs/ignite/internal/build"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Dst    string `short:"o" help:"Output directory; overrides dst from the configuration"`
	DryRun bool   `name:"dry-run" help:"Run every stage but write nothing"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if b.Dst != "" {
		cfg.Dst = b.Dst
	}

	var opts []build.Option
	if !b.DryRun {
		opts = append(opts, build.WithSink(build.JSONSink{Dir: cfg.Dst}))
	}
	rt, err := newRuntime(g, cfg, opts...)
	if err != nil {
		return err
	}
	defer rt.close(g)

	result, err := rt.service.Run(g.Ctx, build.Request{Config: cfg})
	if err != nil {
		printf("%s\n", result.Messages.CompilationFailure)
		return err
	}
	a := result.Artifacts
	printf("%s\n", result.Messages.CompilationSuccess)
	printf("build %s: %d pages, %d search entries, %d blog posts, %d plugins in %s\n",
		result.BuildID, a.Pages.Len(), len(a.SearchIndex), len(a.BlogPosts), len(a.Plugins), result.Duration.Round(time.Millisecond))
	return nil
}
