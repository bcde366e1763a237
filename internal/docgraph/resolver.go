// Package docgraph resolves the set of documents reachable from an index document by
// following local markdown links.
package docgraph

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/inonjs/ignite/internal/docmodel"
	"github.com/inonjs/ignite/internal/foundation/errors"
	"github.com/inonjs/ignite/internal/logfields"
	"github.com/inonjs/ignite/internal/markdown"
	"github.com/inonjs/ignite/internal/pathutil"
	"github.com/inonjs/ignite/internal/util/sets"
)

// Resolver walks the link graph of one source tree.
//
// A Resolver holds no per-walk state; every Resolve call starts with a fresh visited
// set, so one Resolver may serve several concurrent walks.
type Resolver struct {
	root   string
	source Source
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a Resolver for the source tree at root. Links starting with "/"
// resolve against root.
func NewResolver(root string, source Source, opts ...Option) *Resolver {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	r := &Resolver{
		root:   filepath.Clean(root),
		source: source,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the source root the resolver was created with.
func (r *Resolver) Root() string { return r.root }

type pending struct {
	path string
	from string
}

// Resolve returns every document reachable from index, index included. A relative
// index is taken relative to the source root.
//
// Links are followed breadth-first with an explicit queue. A document is read once
// however many links reach it, which bounds the walk on cyclic graphs. Documents
// outside the source root are followed and flagged. Any unreadable document fails
// the whole walk with a resolution error.
func (r *Resolver) Resolve(ctx context.Context, index string) (*PageGraph, error) {
	start := time.Now()
	if !filepath.IsAbs(index) {
		index = filepath.Join(r.root, index)
	}
	index = filepath.Clean(index)

	graph := newPageGraph(r.root, index)
	visited := sets.New(pathutil.Key(index))
	queue := []pending{{path: index}}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := queue[0]
		queue = queue[1:]

		page, err := r.load(ctx, next)
		if err != nil {
			return nil, err
		}
		page.IsIndex = next.from == ""

		for _, target := range page.Links {
			if visited.AddNew(pathutil.Key(target)) {
				queue = append(queue, pending{path: target, from: page.Path})
			}
		}
		if page.IsIndex && len(page.Links) > 0 {
			graph.FirstLink = page.Links[0]
		}
		graph.pages[pathutil.Key(page.Path)] = page
	}

	r.logger.Debug("Resolved page graph",
		logfields.Path(index),
		logfields.Count(graph.Len()),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return graph, nil
}

func (r *Resolver) load(ctx context.Context, p pending) (*Page, error) {
	content, err := r.source.Read(ctx, p.path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		b := errors.ResolutionError("cannot read document").
			WithCause(err).
			WithContext("path", p.path)
		if p.from != "" {
			b = b.WithContext("referenced_from", p.from)
		}
		return nil, b.Build()
	}

	var (
		dests []string
		title string
	)
	if doc, parseErr := docmodel.Parse(p.path, content); parseErr == nil {
		title = doc.Title()
		dests, err = doc.LocalLinks()
	} else {
		// A leading thematic break reads as an unterminated header; the document
		// is still linkable, so scan the whole content instead.
		r.logger.Debug("Frontmatter unreadable, scanning raw content",
			logfields.Path(p.path), logfields.Error(parseErr))
		dests, err = markdown.LocalDocumentLinks(content)
	}
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryResolution, "cannot extract links").
			WithContext("path", p.path).
			Build()
	}

	page := &Page{
		Path:           p.path,
		Content:        content,
		Title:          title,
		OutsideRoot:    pathutil.IsOutsideRoot(r.root, p.path),
		DiscoveredFrom: p.from,
	}
	if page.OutsideRoot {
		r.logger.Debug("Following link outside source root",
			logfields.Path(p.path),
			slog.String("referenced_from", p.from))
	}

	seen := sets.New[string]()
	for _, dest := range dests {
		target, ok := pathutil.ResolveLink(r.root, p.path, dest)
		if !ok || !seen.AddNew(pathutil.Key(target)) {
			continue
		}
		page.Links = append(page.Links, target)
	}
	return page, nil
}
