package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/inonjs/ignite/internal/plugin"
)

// Plugins is the declared plugin list. Each entry is either a sequence
// [name, modulePath] / [name, modulePath, options] or a mapping with the keys
// name, modulePath and options.
type Plugins []plugin.Declaration

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Plugins) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: plugins must be a list", node.Line)
	}
	out := make(Plugins, 0, len(node.Content))
	for i, item := range node.Content {
		decl, err := decodeDeclaration(item)
		if err != nil {
			return fmt.Errorf("plugins[%d]: %w", i, err)
		}
		out = append(out, decl)
	}
	*p = out
	return nil
}

func decodeDeclaration(node *yaml.Node) (plugin.Declaration, error) {
	var decl plugin.Declaration
	switch node.Kind {
	case yaml.MappingNode:
		if err := node.Decode(&decl); err != nil {
			return decl, err
		}
	case yaml.SequenceNode:
		if n := len(node.Content); n < 2 || n > 3 {
			return decl, fmt.Errorf("line %d: expected [name, modulePath, options?], got %d elements", node.Line, n)
		}
		if err := node.Content[0].Decode(&decl.Name); err != nil {
			return decl, fmt.Errorf("line %d: plugin name: %w", node.Line, err)
		}
		if err := node.Content[1].Decode(&decl.ModulePath); err != nil {
			return decl, fmt.Errorf("line %d: module path: %w", node.Line, err)
		}
		if len(node.Content) == 3 && node.Content[2].Tag != "!!null" {
			if err := node.Content[2].Decode(&decl.Options); err != nil {
				return decl, fmt.Errorf("line %d: options must be a mapping: %w", node.Line, err)
			}
		}
	default:
		return decl, fmt.Errorf("line %d: expected a list or mapping", node.Line)
	}
	if decl.Options == nil {
		decl.Options = plugin.Options{}
	}
	return decl, nil
}
