package history

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/inonjs/ignite/internal/foundation/errors"
	"github.com/inonjs/ignite/internal/logfields"
)

// GitOracle reads commit history from the git repository enclosing each path.
// Opened repositories are kept for the oracle's lifetime.
type GitOracle struct {
	logger *slog.Logger

	mu    sync.Mutex
	repos map[string]*openRepo // keyed by the directory a lookup started from
}

type openRepo struct {
	repo *git.Repository
	root string
	// go-git repositories are not safe for concurrent log walks
	mu sync.Mutex
}

// NewGitOracle creates a GitOracle. A nil logger selects slog.Default().
func NewGitOracle(logger *slog.Logger) *GitOracle {
	if logger == nil {
		logger = slog.Default()
	}
	return &GitOracle{logger: logger, repos: make(map[string]*openRepo)}
}

// EarliestCommit implements Oracle.
func (o *GitOracle) EarliestCommit(ctx context.Context, path string) (time.Time, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, historyError(err, path, "cannot resolve path")
	}
	r, err := o.open(filepath.Dir(abs))
	if err != nil {
		return time.Time{}, historyError(err, abs, "cannot open git repository")
	}

	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return time.Time{}, historyError(err, abs, "path is outside the repository")
	}
	rel = filepath.ToSlash(rel)

	r.mu.Lock()
	defer r.mu.Unlock()

	iter, err := r.repo.Log(&git.LogOptions{FileName: &rel})
	if err != nil {
		return time.Time{}, historyError(err, abs, "cannot read commit log")
	}
	defer iter.Close()

	var earliest time.Time
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if earliest.IsZero() || c.Author.When.Before(earliest) {
			earliest = c.Author.When
		}
		return nil
	})
	if err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return time.Time{}, err
		}
		return time.Time{}, historyError(err, abs, "cannot read commit log")
	}
	if earliest.IsZero() {
		return time.Time{}, historyError(ErrNoHistory, abs, "file has no commit history")
	}

	o.logger.Debug("Resolved earliest commit", logfields.Path(rel), slog.Time("when", earliest))
	return earliest, nil
}

func (o *GitOracle) open(dir string) (*openRepo, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if r, ok := o.repos[dir]; ok {
		return r, nil
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	root := wt.Filesystem.Root()
	// Share one handle per worktree between directories.
	for _, existing := range o.repos {
		if existing.root == root {
			o.repos[dir] = existing
			return existing, nil
		}
	}
	r := &openRepo{repo: repo, root: root}
	o.repos[dir] = r
	return r, nil
}

func historyError(err error, path, msg string) error {
	return errors.WrapError(err, errors.CategoryHistory, msg).
		WithContext("path", path).
		Build()
}
