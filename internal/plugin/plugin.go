// Package plugin loads the plugins declared in the site configuration and runs their
// init hooks. An init hook may replace any of its plugin's declared options.
package plugin

import (
	"context"
	"fmt"
	"maps"
)

// Options are the free-form settings of one plugin.
type Options map[string]any

// Clone returns a shallow copy. The copy of a nil Options is empty, not nil.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	maps.Copy(out, o)
	return out
}

// Overlay returns a copy of o with every key of override applied on top.
func (o Options) Overlay(override Options) Options {
	out := o.Clone()
	maps.Copy(out, override)
	return out
}

// Plugin is a loaded plugin.
type Plugin interface {
	// Metadata returns the plugin's identity.
	Metadata() Metadata
}

// Initializer is implemented by plugins with an init hook. The returned options are
// overlaid on the declared ones; returning nil keeps the declared options unchanged.
// opts is a private copy the hook may modify.
type Initializer interface {
	Init(ctx context.Context, opts Options) (Options, error)
}

// Metadata describes a plugin's identity and capabilities.
type Metadata struct {
	// Name is the plugin identifier (e.g., "search", "editlink").
	Name string `json:"name"`

	// Version is the semantic version (e.g., "v1.0.0").
	Version string `json:"version"`

	Description string `json:"description,omitempty"`

	// Capabilities lists the artifacts or features the plugin contributes.
	Capabilities []string `json:"capabilities,omitempty"`
}

// String returns a human-readable representation of the plugin metadata.
func (m Metadata) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

// Validate checks if the plugin metadata is valid.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	return nil
}

// BasePlugin carries static metadata. Plugins embed it to satisfy Plugin.
type BasePlugin struct {
	Meta Metadata
}

// Metadata implements Plugin.
func (b BasePlugin) Metadata() Metadata {
	return b.Meta
}
