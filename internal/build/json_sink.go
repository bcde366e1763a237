package build

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/inonjs/ignite/internal/docgraph"
	"github.com/inonjs/ignite/internal/foundation/errors"
)

// Artifact file names written by JSONSink.
const (
	PagesFile       = "pages.json"
	SearchIndexFile = "search-index.json"
	BlogFile        = "blog.json"
	PluginsFile     = "plugins.json"
)

// JSONSink writes artifacts as JSON files into a directory.
type JSONSink struct {
	Dir string
}

// PageNode is one page in pages.json.
type PageNode struct {
	Path        string `json:"path"`
	Title       string `json:"title,omitempty"`
	IsIndex     bool   `json:"isIndex,omitempty"`
	OutsideRoot bool   `json:"outsideRoot,omitempty"`
	Content     string `json:"content"`
}

// PagesDocument is the layout of pages.json. Paths are relative to the source root.
type PagesDocument struct {
	BuildID   string     `json:"buildId"`
	Index     string     `json:"index"`
	FirstLink string     `json:"firstLink,omitempty"`
	Pages     []PageNode `json:"pages"`
}

// NewPagesDocument flattens a page graph for serialization.
func NewPagesDocument(buildID string, g *docgraph.PageGraph) PagesDocument {
	doc := PagesDocument{BuildID: buildID, Pages: []PageNode{}}
	if g == nil {
		return doc
	}
	doc.Index = g.RelativePath(g.Index)
	if g.FirstLink != "" {
		doc.FirstLink = g.RelativePath(g.FirstLink)
	}
	for _, p := range g.Pages() {
		doc.Pages = append(doc.Pages, PageNode{
			Path:        g.RelativePath(p.Path),
			Title:       p.Title,
			IsIndex:     p.IsIndex,
			OutsideRoot: p.OutsideRoot,
			Content:     string(p.Content),
		})
	}
	return doc
}

// Write implements Sink.
func (s JSONSink) Write(ctx context.Context, a *Artifacts) error {
	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot create output directory").
			WithContext("path", s.Dir).
			Build()
	}

	files := []struct {
		name  string
		value any
	}{
		{PagesFile, NewPagesDocument(a.BuildID, a.Pages)},
		{SearchIndexFile, nonNil(a.SearchIndex)},
		// null when there is no blog directory
		{BlogFile, a.BlogPosts},
		{PluginsFile, nonNil(a.Plugins)},
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeJSON(filepath.Join(s.Dir, f.name), f.value); err != nil {
			return err
		}
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "cannot encode artifact").
			WithContext("path", path).
			Build()
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot write artifact").
			WithContext("path", path).
			Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot write artifact").
			WithContext("path", path).
			Build()
	}
	return nil
}
