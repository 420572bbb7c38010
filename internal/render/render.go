package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
)

// Format is an output syntax understood by the static-site generator.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatJS   Format = "js"
)

// ErrNilManifest is returned when there is nothing to render.
var ErrNilManifest = errors.New("nil manifest")

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatJS:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown render format %q (want json, yaml or js)", s)
	}
}

// Extension returns the file extension matching the format.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatJS:
		return ".js"
	default:
		return ".json"
	}
}

// Render writes the manifest in the requested format. Sidebars, groups and
// doc-refs come out in declaration order, so loading the output again yields
// the same manifest.
func Render(w io.Writer, m *domain.SidebarManifest, format Format) error {
	if m == nil {
		return ErrNilManifest
	}

	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render json: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatJS:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to render js: %w", err)
		}
		_, err = fmt.Fprintf(w, "module.exports = %s;\n", data)
		return err
	case FormatYAML:
		return renderYAML(w, m)
	default:
		return fmt.Errorf("unknown render format %q", format)
	}
}

func renderYAML(w io.Writer, m *domain.SidebarManifest) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, sb := range m.Sidebars() {
		groups := &yaml.Node{Kind: yaml.MappingNode}
		for _, g := range sb.Groups {
			items := &yaml.Node{Kind: yaml.SequenceNode}
			for _, ref := range g.Items {
				items.Content = append(items.Content, str(string(ref)))
			}
			groups.Content = append(groups.Content, str(g.Label), items)
		}
		root.Content = append(root.Content, str(sb.Name), groups)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return fmt.Errorf("failed to render yaml: %w", err)
	}
	return enc.Close()
}

// str builds a string scalar; the encoder quotes values that would otherwise
// read back as another type.
func str(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
