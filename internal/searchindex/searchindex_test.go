package searchindex

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inonjs/ignite/internal/docgraph"
	ferrors "github.com/inonjs/ignite/internal/foundation/errors"
	"github.com/inonjs/ignite/internal/testutil"
)

func newTestBuilder(t *testing.T, src, baseURL string, opts ...Option) *Builder {
	t.Helper()
	source, err := docgraph.NewFileSource(0)
	require.NoError(t, err)
	return NewBuilder(src, baseURL, source, opts...)
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestBuild_MultipleRoots(t *testing.T) {
	src := t.TempDir()
	testutil.WriteTree(t, src, map[string]string{
		"docs/index.md":  "# Docs\n[setup](setup.md) [shared](../shared/faq.md)\n",
		"docs/setup.md":  "# Setup\n",
		"guide/index.md": "# Guide\n[faq](../shared/faq.md)\n",
		"shared/faq.md":  "# FAQ\n",
	})

	entries, err := newTestBuilder(t, src, "/").Build(context.Background(), map[string]string{
		"Guide":  "/guide/",
		"Docs":   "/docs/",
		"GitHub": "https://github.com/acme/site",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Docs:../shared/faq.md",
		"Docs:index.md",
		"Docs:setup.md",
		"Guide:../shared/faq.md",
		"Guide:index.md",
	}, ids(entries))

	faq := entries[0]
	assert.Equal(t, "Docs", faq.Root)
	assert.Equal(t, "../shared/faq.md", faq.Path)
	assert.Equal(t, "FAQ", faq.Title)
	assert.Equal(t, "# FAQ\n", faq.Content)
	assert.NotEmpty(t, faq.Fingerprint)
	assert.Equal(t, faq.Fingerprint, entries[3].Fingerprint, "same document, same fingerprint")
}

func TestBuild_StripsBaseURL(t *testing.T) {
	src := t.TempDir()
	testutil.WriteTree(t, src, map[string]string{
		"guide/start.md": "# Start\n",
	})

	entries, err := newTestBuilder(t, src, "/site/", WithIndex("start.md")).Build(context.Background(), map[string]string{
		"Guide": "/site/guide",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Guide:start.md"}, ids(entries))
}

func TestBuild_FailingRootFailsBuild(t *testing.T) {
	src := t.TempDir()
	testutil.WriteTree(t, src, map[string]string{
		"docs/index.md": "# Docs\n",
	})

	entries, err := newTestBuilder(t, src, "/").Build(context.Background(), map[string]string{
		"Docs":  "/docs/",
		"Empty": "/empty/",
	})
	require.Error(t, err)
	assert.Nil(t, entries)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryResolution))
	root, _ := ferrors.ContextString(err, "root")
	assert.Equal(t, "Empty", root)
}

func TestBuildRoot_Isolated(t *testing.T) {
	src := t.TempDir()
	testutil.WriteTree(t, src, map[string]string{
		"docs/index.md": "# Docs\n[a](a.md)\n",
		"docs/a.md":     "[back](index.md)\n",
	})

	b := newTestBuilder(t, src, "/")
	entries, err := b.BuildRoot(context.Background(), "Docs", "/docs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"Docs:a.md", "Docs:index.md"}, ids(entries))

	_, err = b.BuildRoot(context.Background(), "Ext", "https://example.com")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestRootDir(t *testing.T) {
	b := NewBuilder("/srv/src", "/base/", nil)

	dir, ok := b.RootDir("/base/docs/")
	require.True(t, ok)
	assert.Equal(t, filepath.Join("/srv/src", "docs"), dir)

	dir, ok = b.RootDir("/base/")
	require.True(t, ok)
	assert.Equal(t, filepath.Clean("/srv/src"), dir)

	_, ok = b.RootDir("https://example.com/docs")
	assert.False(t, ok)
	_, ok = b.RootDir("//cdn.example.com/docs")
	assert.False(t, ok)
}

func TestBuild_NoNavItems(t *testing.T) {
	entries, err := newTestBuilder(t, t.TempDir(), "/").Build(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
