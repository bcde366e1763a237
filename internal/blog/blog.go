// Package blog collects metadata for the posts under a source tree's blog directory.
package blog

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/inonjs/ignite/internal/docmodel"
	"github.com/inonjs/ignite/internal/foundation/errors"
	"github.com/inonjs/ignite/internal/history"
	"github.com/inonjs/ignite/internal/logfields"
	"github.com/inonjs/ignite/internal/metrics"
	"github.com/inonjs/ignite/internal/pathutil"
)

// Dir is the name of the blog directory inside the source root.
const Dir = "blog"

// Post describes one blog post.
type Post struct {
	// Path is "blog/" followed by the post's forward-slash path inside the blog directory.
	Path string `json:"path"`
	// Birth is the author time of the post's first commit, in Unix milliseconds.
	Birth  int64            `json:"birth"`
	Title  string           `json:"title,omitempty"`
	Author *docmodel.Author `json:"author,omitempty"`
}

// Extractor builds Post lists.
type Extractor struct {
	oracle   history.Oracle
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

func WithRecorder(r metrics.Recorder) Option {
	return func(e *Extractor) {
		if r != nil {
			e.recorder = r
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExtractor creates an Extractor that dates posts with oracle.
func NewExtractor(oracle history.Oracle, opts ...Option) *Extractor {
	e := &Extractor{oracle: oracle, recorder: metrics.NoopRecorder{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the posts under <src>/blog sorted by Path.
//
// A nil slice means the source tree has no blog; a blog directory without posts
// yields an empty, non-nil slice. A failed history lookup fails the extraction.
func (e *Extractor) Extract(ctx context.Context, src string) ([]Post, error) {
	blogDir := filepath.Join(src, Dir)
	info, err := os.Stat(blogDir)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot stat blog directory").
			WithContext("path", blogDir).
			Build()
	case !info.IsDir():
		return nil, nil
	}

	posts := make([]Post, 0)
	err = filepath.WalkDir(blogDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return errors.WrapError(walkErr, errors.CategoryFileSystem, "cannot walk blog directory").
				WithContext("path", p).
				Build()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !pathutil.IsMarkdownFile(d.Name()) {
			return nil
		}
		post, err := e.post(ctx, blogDir, p)
		if err != nil {
			return err
		}
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(posts, func(i, j int) bool { return posts[i].Path < posts[j].Path })
	e.logger.Debug("Extracted blog posts", logfields.Path(blogDir), logfields.Count(len(posts)))
	return posts, nil
}

func (e *Extractor) post(ctx context.Context, blogDir, p string) (Post, error) {
	start := time.Now()
	birth, err := e.oracle.EarliestCommit(ctx, p)
	e.recorder.ObserveHistoryLookup(time.Since(start), err == nil)
	if err != nil {
		if errors.IsClassified(err) {
			return Post{}, err
		}
		return Post{}, errors.WrapError(err, errors.CategoryHistory, "history lookup failed").
			WithContext("path", p).
			Build()
	}

	post := Post{
		Path:  Dir + "/" + pathutil.RootRelative(blogDir, p),
		Birth: birth.UnixMilli(),
	}

	// #nosec G304 -- p comes from walking the blog directory
	content, err := os.ReadFile(p)
	if err != nil {
		return Post{}, errors.WrapError(err, errors.CategoryFileSystem, "cannot read blog post").
			WithContext("path", p).
			Build()
	}
	doc, err := docmodel.Parse(p, content)
	if err != nil {
		e.logger.Warn("Ignoring unreadable blog post frontmatter", logfields.Path(p), logfields.Error(err))
		return post, nil
	}
	post.Title = doc.Title()
	post.Author = doc.FrontMatter.Author
	return post, nil
}
