package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/inonjs/ignite/internal/foundation/errors"
	"github.com/inonjs/ignite/internal/testutil"
)

func TestGitOracle_EarliestCommit(t *testing.T) {
	_, w, dir := testutil.SetupTestGitRepo(t)

	first := time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC)
	second := time.Date(2024, 7, 15, 8, 30, 0, 0, time.UTC)
	testutil.Commit(t, w, dir, first, map[string]string{"blog/a.md": "# A\n"})
	testutil.Commit(t, w, dir, second, map[string]string{
		"blog/a.md":      "# A\n\nedited\n",
		"blog/2024/b.md": "# B\n",
	})

	oracle := NewGitOracle(nil)
	ctx := context.Background()

	got, err := oracle.EarliestCommit(ctx, filepath.Join(dir, "blog", "a.md"))
	require.NoError(t, err)
	assert.Equal(t, first.Unix(), got.Unix())

	got, err = oracle.EarliestCommit(ctx, filepath.Join(dir, "blog", "2024", "b.md"))
	require.NoError(t, err)
	assert.Equal(t, second.Unix(), got.Unix())
}

func TestGitOracle_UntrackedFile(t *testing.T) {
	_, w, dir := testutil.SetupTestGitRepo(t)
	testutil.Commit(t, w, dir, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), map[string]string{"a.md": "a"})

	untracked := filepath.Join(dir, "draft.md")
	require.NoError(t, os.WriteFile(untracked, []byte("draft"), 0o600))

	_, err := NewGitOracle(nil).EarliestCommit(context.Background(), untracked)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoHistory)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryHistory))
	path, ok := ferrors.ContextString(err, "path")
	require.True(t, ok)
	assert.Equal(t, untracked, path)
}

func TestGitOracle_NotARepository(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(p, []byte("a"), 0o600))

	_, err := NewGitOracle(nil).EarliestCommit(context.Background(), p)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryHistory))
}

func TestOracleFunc(t *testing.T) {
	want := time.UnixMilli(1700000000000)
	var o Oracle = OracleFunc(func(context.Context, string) (time.Time, error) { return want, nil })
	got, err := o.EarliestCommit(context.Background(), "x.md")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
