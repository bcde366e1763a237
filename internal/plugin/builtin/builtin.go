// Package builtin provides the plugins shipped with ignite.
package builtin

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/inonjs/ignite/internal/plugin"
)

// Module paths of the built-in plugins.
const (
	SearchModule   = "ignite/plugins/search"
	EditLinkModule = "ignite/plugins/editlink"
)

// Register adds every built-in plugin to r.
func Register(r *plugin.Registry) error {
	if err := r.Register(SearchModule, func() plugin.Plugin { return NewSearch() }); err != nil {
		return err
	}
	return r.Register(EditLinkModule, func() plugin.Plugin { return NewEditLink() })
}

// Search configures the client-side search box fed by the search index.
type Search struct {
	plugin.BasePlugin
}

func NewSearch() *Search {
	return &Search{BasePlugin: plugin.BasePlugin{Meta: plugin.Metadata{
		Name:         "search",
		Version:      "v1.0.0",
		Description:  "Client-side search over the generated search index",
		Capabilities: []string{"search-index"},
	}}}
}

var searchDefaults = plugin.Options{
	"placeholder": "Search",
	"maxResults":  10,
	"fields":      []string{"title", "content"},
}

// Init fills in every search setting the declaration leaves unset.
func (s *Search) Init(_ context.Context, opts plugin.Options) (plugin.Options, error) {
	out := plugin.Options{}
	for k, v := range searchDefaults {
		if _, set := opts[k]; !set {
			out[k] = v
		}
	}
	if n, ok := opts["maxResults"].(int); ok && n <= 0 {
		return nil, fmt.Errorf("maxResults must be positive, got %d", n)
	}
	return out, nil
}

// EditLink derives the "edit this page" base URL from the repository settings.
type EditLink struct {
	plugin.BasePlugin
}

func NewEditLink() *EditLink {
	return &EditLink{BasePlugin: plugin.BasePlugin{Meta: plugin.Metadata{
		Name:        "editlink",
		Version:     "v1.0.0",
		Description: "Edit links pointing at the documentation source",
	}}}
}

// Init requires a repository URL and sets editURL; branch defaults to main, dir to docs.
func (e *EditLink) Init(_ context.Context, opts plugin.Options) (plugin.Options, error) {
	repo, _ := opts["repository"].(string)
	if repo == "" {
		return nil, fmt.Errorf("option repository is required")
	}
	u, err := url.Parse(repo)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("option repository must be an absolute URL: %q", repo)
	}

	branch, _ := opts["branch"].(string)
	if branch == "" {
		branch = "main"
	}
	dir, _ := opts["dir"].(string)
	if dir == "" {
		dir = "docs"
	}

	u.Path = path.Join(strings.TrimSuffix(u.Path, ".git"), "edit", branch, dir) + "/"
	return plugin.Options{
		"branch":  branch,
		"dir":     dir,
		"editURL": u.String(),
	}, nil
}
