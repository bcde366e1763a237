package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/inonjs/ignite/internal/blog"
	"github.com/inonjs/ignite/internal/docgraph"
	"github.com/inonjs/ignite/internal/history"
	"github.com/inonjs/ignite/internal/plugin"
	"github.com/inonjs/ignite/internal/searchindex"
)

// GraphCmd implements the 'graph' command.
type GraphCmd struct {
	Format string `short:"f" enum:"tree,list" default:"tree" help:"Output format (tree|list)"`
}

func (c *GraphCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	source, err := docgraph.NewFileSource(cfg.CacheSize)
	if err != nil {
		return err
	}
	graph, err := docgraph.NewResolver(cfg.Src, source, docgraph.WithLogger(g.Logger)).Resolve(g.Ctx, cfg.Index)
	if err != nil {
		return err
	}

	if c.Format == "list" {
		for _, p := range graph.Paths() {
			printf("%s\n", graph.RelativePath(p))
		}
		return nil
	}
	printf("%s\n", graph.Tree())
	return nil
}

// IndexCmd implements the 'index' command.
type IndexCmd struct {
	Root string `help:"Index only the navigation item with this label"`
	JSON bool   `help:"Print full entries as JSON"`
}

func (c *IndexCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	source, err := docgraph.NewFileSource(cfg.CacheSize)
	if err != nil {
		return err
	}
	builder := searchindex.NewBuilder(cfg.Src, cfg.BaseURL, source,
		searchindex.WithIndex(cfg.Index),
		searchindex.WithLogger(g.Logger))

	var entries []searchindex.Entry
	if c.Root != "" {
		navURL, ok := cfg.NavItems[c.Root]
		if !ok {
			return fmt.Errorf("no navigation item labelled %q", c.Root)
		}
		entries, err = builder.BuildRoot(g.Ctx, c.Root, navURL)
	} else {
		entries, err = builder.Build(g.Ctx, cfg.NavItems)
	}
	if err != nil {
		return err
	}

	if c.JSON {
		return writeJSON(entries)
	}
	for _, e := range entries {
		printf("%s\t%s\n", e.ID, e.Title)
	}
	return nil
}

// BlogCmd implements the 'blog' command.
type BlogCmd struct {
	JSON bool `help:"Print posts as JSON"`
}

func (c *BlogCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	posts, err := blog.NewExtractor(history.NewGitOracle(g.Logger), blog.WithLogger(g.Logger)).Extract(g.Ctx, cfg.Src)
	if err != nil {
		return err
	}

	if c.JSON {
		return writeJSON(posts)
	}
	if posts == nil {
		printf("no blog directory in %s\n", cfg.Src)
		return nil
	}
	for _, p := range posts {
		printf("%s\t%s\t%s\n", time.UnixMilli(p.Birth).UTC().Format(time.DateOnly), p.Path, p.Title)
	}
	return nil
}

// PluginsCmd implements the 'plugins' command.
type PluginsCmd struct {
	Available bool `help:"List the registered plugin module paths instead"`
}

func (c *PluginsCmd) Run(g *Global, root *CLI) error {
	registry, err := NewRegistry()
	if err != nil {
		return err
	}
	if c.Available {
		for _, p := range registry.ModulePaths() {
			printf("%s\n", p)
		}
		return nil
	}

	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	resolved, err := plugin.NewManager(registry,
		plugin.WithStrict(cfg.StrictPlugins),
		plugin.WithLogger(g.Logger)).Initialize(g.Ctx, cfg.Plugins)
	if err != nil {
		return err
	}
	return writeJSON(resolved)
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
