// Package searchindex builds the cross-root search index from the navigation roots.
package searchindex

import (
	"context"
	"log/slog"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inful/mdfp"
	"golang.org/x/sync/errgroup"

	"github.com/inonjs/ignite/internal/docgraph"
	"github.com/inonjs/ignite/internal/foundation/errors"
	"github.com/inonjs/ignite/internal/logfields"
	"github.com/inonjs/ignite/internal/metrics"
	"github.com/inonjs/ignite/internal/util/sets"
)

// DefaultIndex is the index document name used when none is configured.
const DefaultIndex = "index.md"

// Entry is one searchable document. A document reachable from two navigation roots
// has one entry per root.
type Entry struct {
	// ID is the root label and the root-relative path joined by ":".
	ID   string `json:"id"`
	Root string `json:"root"`
	// Path is relative to the root directory with forward slashes. Documents outside
	// the root keep their leading "../" segments.
	Path        string `json:"path"`
	Title       string `json:"title,omitempty"`
	Content     string `json:"content"`
	Fingerprint string `json:"fingerprint"`
}

// Builder walks each navigation root and collects entries.
type Builder struct {
	src      string
	baseURL  string
	index    string
	source   docgraph.Source
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithIndex sets the index document name looked up in every root directory.
func WithIndex(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.index = name
		}
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBuilder creates a Builder for the source tree src served under baseURL.
// source is shared by all root walks; every walk still has its own visited set.
func NewBuilder(src, baseURL string, source docgraph.Source, opts ...Option) *Builder {
	b := &Builder{
		src:      src,
		baseURL:  baseURL,
		index:    DefaultIndex,
		source:   source,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RootDir maps a navigation URL to its directory in the source tree: the base URL
// prefix is removed and the rest joined to src. ok is false for external URLs.
func (b *Builder) RootDir(navURL string) (dir string, ok bool) {
	if isExternalNav(navURL) {
		return "", false
	}
	rel := strings.TrimPrefix(navURL, b.baseURL)
	rel = strings.TrimPrefix(rel, "/")
	if i := strings.IndexAny(rel, "?#"); i >= 0 {
		rel = rel[:i]
	}
	return filepath.Join(b.src, filepath.FromSlash(rel)), true
}

func isExternalNav(navURL string) bool {
	if strings.HasPrefix(navURL, "//") {
		return true
	}
	u, err := url.Parse(navURL)
	return err == nil && len(u.Scheme) > 1
}

// Build indexes every navigation root concurrently and returns all entries sorted by ID.
// The first failing root fails the build.
func (b *Builder) Build(ctx context.Context, navItems map[string]string) ([]Entry, error) {
	labels := make([]string, 0, len(navItems))
	for label := range navItems {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	perRoot := make([][]Entry, len(labels))
	g, gctx := errgroup.WithContext(ctx)
	for i, label := range labels {
		navURL := navItems[label]
		if _, ok := b.RootDir(navURL); !ok {
			b.logger.Debug("Skipping external navigation item", logfields.Root(label), logfields.URL(navURL))
			continue
		}
		g.Go(func() error {
			entries, err := b.BuildRoot(gctx, label, navURL)
			perRoot[i] = entries
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []Entry
	seen := sets.New[string]()
	for _, entries := range perRoot {
		for _, e := range entries {
			if !seen.AddNew(e.ID) {
				b.logger.Error("Duplicate search index identifier", logfields.DocID(e.ID), logfields.Root(e.Root))
				return nil, errors.InternalError("duplicate search index identifier").
					WithContext("id", e.ID).
					Build()
			}
			all = append(all, e)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// BuildRoot indexes a single navigation root in isolation.
func (b *Builder) BuildRoot(ctx context.Context, label, navURL string) ([]Entry, error) {
	dir, ok := b.RootDir(navURL)
	if !ok {
		return nil, errors.ConfigError("navigation item is not a local root").
			WithContext("root", label).
			WithContext("url", navURL).
			Build()
	}

	resolver := docgraph.NewResolver(dir, b.source, docgraph.WithLogger(b.logger))
	graph, err := resolver.Resolve(ctx, b.index)
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return nil, classified.WithContext("root", label)
		}
		return nil, err
	}

	pages := graph.Pages()
	entries := make([]Entry, 0, len(pages))
	for _, p := range pages {
		rel := graph.RelativePath(p.Path)
		content := string(p.Content)
		entries = append(entries, Entry{
			ID:          label + ":" + rel,
			Root:        label,
			Path:        rel,
			Title:       p.Title,
			Content:     content,
			Fingerprint: mdfp.CalculateFingerprintFromParts("", content),
		})
	}
	b.recorder.AddDocumentsResolved(label, len(entries))
	b.logger.Debug("Indexed navigation root", logfields.Root(label), logfields.Count(len(entries)))
	return entries, nil
}
