package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/inonjs/ignite/internal/foundation/errors"
	"github.com/inonjs/ignite/internal/plugin"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o750))
	p := filepath.Join(dir, ".ignite.yml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_FullConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IGNITE_TEST_NATS", "nats://localhost:4222")
	path := writeConfig(t, dir, `
src: docs
dst: out
baseURL: /site/
title: Handbook
author: Jane Doe <jane@example.com>
navItems:
  Docs: /site/docs/
  GitHub: https://github.com/acme/handbook
plugins:
  - [search, ignite/plugins/search]
  - [edit, ignite/plugins/editlink, {repository: "https://github.com/acme/handbook"}]
  - name: custom
    modulePath: ./extensions/custom
    options:
      foo: bar
events:
  url: ${IGNITE_TEST_NATS}
  retry:
    backoff: linear
    initial: 500ms
    maxRetries: 4
watch:
  debounce: 1s
  interval: 10m
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "docs"), cfg.Src)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.Dst)
	assert.Equal(t, DefaultIndex, cfg.Index)
	assert.Equal(t, "/site/", cfg.BaseURL)
	assert.Equal(t, "Handbook", cfg.Title)
	require.NotNil(t, cfg.Author)
	assert.Equal(t, "Jane Doe", cfg.Author.Name)
	assert.Equal(t, "jane@example.com", cfg.Author.Email)
	assert.Len(t, cfg.NavItems, 2)

	require.Len(t, cfg.Plugins, 3)
	assert.Equal(t, plugin.Declaration{Name: "search", ModulePath: "ignite/plugins/search", Options: plugin.Options{}}, cfg.Plugins[0])
	assert.Equal(t, "https://github.com/acme/handbook", cfg.Plugins[1].Options["repository"])
	assert.Equal(t, "custom", cfg.Plugins[2].Name)
	assert.Equal(t, "bar", cfg.Plugins[2].Options["foo"])

	assert.True(t, cfg.Events.Enabled())
	assert.Equal(t, "nats://localhost:4222", cfg.Events.URL)
	assert.Equal(t, DefaultEventsSubject, cfg.Events.Subject)
	assert.Equal(t, RetryConfig{Backoff: "linear", Initial: 500 * time.Millisecond, MaxRetries: 4}, cfg.Events.Retry)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, 10*time.Minute, cfg.Watch.Interval)
	assert.Equal(t, DefaultMetricsListen, cfg.Metrics.Listen)
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "title: Minimal\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultSrc), cfg.Src)
	assert.Equal(t, filepath.Join(dir, DefaultDst), cfg.Dst)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Empty(t, cfg.Plugins)
	assert.False(t, cfg.Events.Enabled())
	assert.Equal(t, DefaultWatchDebounce, cfg.Watch.Debounce)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoad_MissingSourceRoot(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "src: missing\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoad_InvalidPluginDeclarations(t *testing.T) {
	cases := map[string]string{
		"too few elements":  "plugins:\n  - [onlyName]\n",
		"too many elements": "plugins:\n  - [a, b, {}, extra]\n",
		"options not a map": "plugins:\n  - [a, b, [1, 2]]\n",
		"empty module path": "plugins:\n  - [a, \"\"]\n",
		"not a list":        "plugins: search\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			_, err := Load(writeConfig(t, dir, content))
			require.Error(t, err)
			assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
		})
	}
}

func TestLoad_NullOptionsDefaultToEmpty(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(writeConfig(t, dir, "plugins:\n  - [a, b, null]\n"))
	require.NoError(t, err)
	require.Len(t, cfg.Plugins, 1)
	assert.NotNil(t, cfg.Plugins[0].Options)
	assert.Empty(t, cfg.Plugins[0].Options)
}

func TestLoad_RejectsNonMarkdownIndex(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(writeConfig(t, dir, "index: index.html\n"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestLoad_EventsRequireSubject(t *testing.T) {
	cfg := Default()
	cfg.Src = t.TempDir()
	cfg.Events.URL = "nats://localhost:4222"
	cfg.Events.Subject = ""
	assert.Error(t, cfg.Validate())
}

func TestLoad_RejectsUnknownBackoff(t *testing.T) {
	cfg := Default()
	cfg.Src = t.TempDir()
	cfg.Events.Retry.Backoff = "random"
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	_, ok := Discover(nested)
	assert.False(t, ok)

	want := filepath.Join(root, ".ignite.yaml")
	require.NoError(t, os.WriteFile(want, []byte("title: x\n"), 0o600))

	got, ok := Discover(nested)
	require.True(t, ok)
	assert.Equal(t, want, got)
}
