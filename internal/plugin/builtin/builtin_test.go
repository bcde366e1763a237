package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inonjs/ignite/internal/plugin"
)

func TestRegister(t *testing.T) {
	r := plugin.NewRegistry()
	require.NoError(t, Register(r))
	assert.Equal(t, []string{EditLinkModule, SearchModule}, r.ModulePaths())
	assert.Error(t, Register(r), "second registration collides")
}

func TestSearchInitFillsDefaults(t *testing.T) {
	out, err := NewSearch().Init(context.Background(), plugin.Options{"placeholder": "Find"})
	require.NoError(t, err)
	assert.NotContains(t, out, "placeholder")
	assert.Equal(t, 10, out["maxResults"])

	_, err = NewSearch().Init(context.Background(), plugin.Options{"maxResults": 0})
	assert.Error(t, err)
}

func TestEditLinkInit(t *testing.T) {
	out, err := NewEditLink().Init(context.Background(), plugin.Options{
		"repository": "https://github.com/acme/site.git",
		"branch":     "develop",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/site/edit/develop/docs/", out["editURL"])
	assert.Equal(t, "docs", out["dir"])
}

func TestEditLinkInitRequiresRepository(t *testing.T) {
	_, err := NewEditLink().Init(context.Background(), plugin.Options{})
	assert.Error(t, err)
}

func TestManagerWithBuiltins(t *testing.T) {
	r := plugin.NewRegistry()
	require.NoError(t, Register(r))

	got, err := plugin.NewManager(r).Initialize(context.Background(), []plugin.Declaration{
		{Name: "search", ModulePath: SearchModule},
		{Name: "edit", ModulePath: EditLinkModule, Options: plugin.Options{"repository": "https://example.com/docs"}},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Search", got[0].Options["placeholder"])
	assert.Equal(t, "https://example.com/docs/edit/main/docs/", got[1].Options["editURL"])
	assert.Equal(t, "https://example.com/docs", got[1].Options["repository"])
}
