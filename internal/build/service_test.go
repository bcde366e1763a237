package build

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inonjs/ignite/internal/config"
	"github.com/inonjs/ignite/internal/events"
	ferrors "github.com/inonjs/ignite/internal/foundation/errors"
	"github.com/inonjs/ignite/internal/history"
	"github.com/inonjs/ignite/internal/plugin"
	"github.com/inonjs/ignite/internal/plugin/builtin"
	"github.com/inonjs/ignite/internal/testutil"
)

func fixedOracle() history.Oracle {
	return history.OracleFunc(func(context.Context, string) (time.Time, error) {
		return time.UnixMilli(1700000000000), nil
	})
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	testutil.WriteTree(t, base, map[string]string{
		"docs/index.md":       "# Home\n[guide](guide/index.md)\n",
		"docs/guide/index.md": "# Guide\n[back](../index.md)\n",
		"docs/blog/first.md":  "---\ntitle: First\n---\nHello\n",
	})
	cfg := config.Default()
	cfg.Src = filepath.Join(base, "docs")
	cfg.Dst = filepath.Join(base, "dist")
	cfg.NavItems = map[string]string{"Guide": "/guide/"}
	cfg.Plugins = config.Plugins{
		{Name: "search", ModulePath: builtin.SearchModule, Options: plugin.Options{}},
	}
	return cfg
}

func testRegistry(t *testing.T) *plugin.Registry {
	t.Helper()
	r := plugin.NewRegistry()
	require.NoError(t, builtin.Register(r))
	return r
}

func TestRun_ProducesArtifacts(t *testing.T) {
	cfg := testConfig(t)
	pub := &events.MemoryPublisher{}
	svc := NewService(testRegistry(t), fixedOracle(),
		WithSink(JSONSink{Dir: cfg.Dst}),
		WithPublisher(pub))

	result, err := svc.Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.NotEmpty(t, result.BuildID)
	assert.Equal(t, MessagesFor(false), result.Messages)

	a := result.Artifacts
	require.NotNil(t, a)
	assert.Equal(t, 2, a.Pages.Len())
	assert.Equal(t, filepath.Join(cfg.Src, "guide", "index.md"), a.Pages.FirstLink)
	require.Len(t, a.SearchIndex, 2)
	assert.Equal(t, "Guide:../index.md", a.SearchIndex[0].ID)
	assert.Equal(t, "Guide:index.md", a.SearchIndex[1].ID)
	require.Len(t, a.BlogPosts, 1)
	assert.Equal(t, "blog/first.md", a.BlogPosts[0].Path)
	assert.Equal(t, int64(1700000000000), a.BlogPosts[0].Birth)
	require.Len(t, a.Plugins, 1)
	assert.Equal(t, "Search", a.Plugins[0].Options["placeholder"])

	testutil.NewFileAssertions(t, cfg.Dst).
		AssertFileExists(PagesFile).
		AssertFileExists(PluginsFile).
		AssertFileContains(SearchIndexFile, `"id": "Guide:index.md"`).
		AssertFileContains(BlogFile, `"path": "blog/first.md"`)
	var pages PagesDocument
	data, err := os.ReadFile(filepath.Join(cfg.Dst, PagesFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &pages))
	assert.Equal(t, "index.md", pages.Index)
	assert.Equal(t, "guide/index.md", pages.FirstLink)
	assert.Equal(t, result.BuildID, pages.BuildID)

	published := pub.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.BuildCompleted, published[0].Type)
	assert.Equal(t, result.BuildID, published[0].BuildID)
	assert.Equal(t, 2, published[0].Pages)
}

func TestRun_NoBlogWritesNull(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.RemoveAll(filepath.Join(cfg.Src, "blog")))

	result, err := NewService(testRegistry(t), fixedOracle(), WithSink(JSONSink{Dir: cfg.Dst})).
		Run(context.Background(), Request{Config: cfg, Watch: true})
	require.NoError(t, err)
	assert.Nil(t, result.Artifacts.BlogPosts)
	assert.Equal(t, MessagesFor(true), result.Messages)

	data, err := os.ReadFile(filepath.Join(cfg.Dst, BlogFile))
	require.NoError(t, err)
	assert.Equal(t, "null\n", string(data))
}

func TestRun_PluginFailureStopsBeforeResolution(t *testing.T) {
	cfg := testConfig(t)
	cfg.Plugins = config.Plugins{{Name: "edit", ModulePath: builtin.EditLinkModule, Options: plugin.Options{}}}

	var sinkCalled bool
	pub := &events.MemoryPublisher{}
	svc := NewService(testRegistry(t), fixedOracle(),
		WithSink(SinkFunc(func(context.Context, *Artifacts) error {
			sinkCalled = true
			return nil
		})),
		WithPublisher(pub))

	result, err := svc.Run(context.Background(), Request{Config: cfg})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryPlugin))
	assert.Equal(t, StatusFailed, result.Status)
	assert.Nil(t, result.Artifacts)
	assert.False(t, sinkCalled)

	published := pub.Events()
	require.Len(t, published, 1)
	assert.Equal(t, events.BuildFailed, published[0].Type)
	assert.NotEmpty(t, published[0].Error)
}

func TestRun_HistoryFailureFailsBuild(t *testing.T) {
	cfg := testConfig(t)
	oracle := history.OracleFunc(func(context.Context, string) (time.Time, error) {
		return time.Time{}, errors.New("git unavailable")
	})

	_, err := NewService(testRegistry(t), oracle).Run(context.Background(), Request{Config: cfg})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryHistory))
}

func TestRun_NilConfig(t *testing.T) {
	result, err := NewService(testRegistry(t), fixedOracle()).Run(context.Background(), Request{})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Equal(t, StatusFailed, result.Status)
}

func TestRun_Canceled(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pub := &events.MemoryPublisher{}
	result, err := NewService(testRegistry(t), fixedOracle(), WithPublisher(pub)).Run(ctx, Request{Config: cfg})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusCanceled, result.Status)
	assert.Empty(t, pub.Events())
}

func TestMessagesFor(t *testing.T) {
	assert.NotEqual(t, MessagesFor(true).CompilationSuccess, MessagesFor(false).CompilationSuccess)
}
