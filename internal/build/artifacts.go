package build

import (
	"context"

	"github.com/inonjs/ignite/internal/blog"
	"github.com/inonjs/ignite/internal/docgraph"
	"github.com/inonjs/ignite/internal/plugin"
	"github.com/inonjs/ignite/internal/searchindex"
)

// Artifacts are the products of one build handed to the renderer.
type Artifacts struct {
	BuildID     string
	Pages       *docgraph.PageGraph
	SearchIndex []searchindex.Entry
	// BlogPosts is nil when the source tree has no blog directory.
	BlogPosts []blog.Post
	Plugins   []plugin.Resolved
}

// Sink receives the artifacts of a successful build.
type Sink interface {
	Write(ctx context.Context, a *Artifacts) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, a *Artifacts) error

func (f SinkFunc) Write(ctx context.Context, a *Artifacts) error { return f(ctx, a) }
