package docusaurus

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// A sidebars file is a mapping of sidebar name to sidebar value. Two value
// shapes are understood:
//
// Shorthand, label -> ordered doc ids:
//
//	someSidebar:
//	  Grapevine: [overview, routes]
//	  Tutorials: [send-response]
//
// Category list:
//
//	someSidebar:
//	  - type: category
//	    label: Grapevine
//	    items: [overview, routes]

// CategoryItem is one entry of the category-list shape.
type CategoryItem struct {
	Type      string    `yaml:"type"`
	Label     string    `yaml:"label"`
	Items     yaml.Node `yaml:"items"`
	Collapsed *bool     `yaml:"collapsed,omitempty"`
}

// Format is the syntax of a sidebars or site file.
type Format string

const (
	FormatJS   Format = "js"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// presetEntry accepts both the tuple form ['name', {options}] and the
// mapping form {name: ..., options: {...}}.
type presetEntry struct {
	Name    string
	Options map[string]any
}

func (p *presetEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		if len(node.Content) == 0 || len(node.Content) > 2 {
			return fmt.Errorf("line %d: preset tuple must have 1 or 2 elements", node.Line)
		}
		if err := node.Content[0].Decode(&p.Name); err != nil {
			return fmt.Errorf("line %d: preset name: %w", node.Line, err)
		}
		if len(node.Content) == 2 {
			if err := node.Content[1].Decode(&p.Options); err != nil {
				return fmt.Errorf("line %d: preset options: %w", node.Line, err)
			}
		}
		return nil
	case yaml.ScalarNode:
		return node.Decode(&p.Name)
	case yaml.MappingNode:
		var m struct {
			Name    string         `yaml:"name"`
			Options map[string]any `yaml:"options"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		p.Name, p.Options = m.Name, m.Options
		return nil
	default:
		return fmt.Errorf("line %d: unsupported preset shape", node.Line)
	}
}
