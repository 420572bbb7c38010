package docusaurus

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
)

// Mapper converts a parsed sidebars document into a domain.Declaration,
// keeping the order every key appears in.
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapDeclaration walks the document node. It does not validate uniqueness;
// that is domain.BuildManifest's job.
func (m *Mapper) MapDeclaration(root *yaml.Node) (domain.Declaration, error) {
	node := root
	// Empty input leaves a zero node; an empty file declares no sidebars.
	if node.Kind == 0 {
		return domain.Declaration{}, nil
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return domain.Declaration{}, nil
		}
		node = node.Content[0]
	}
	if node.Kind == yaml.ScalarNode && node.Tag == nullTag {
		return domain.Declaration{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: sidebars root must be a mapping of sidebar name to sidebar", node.Line)
	}

	decl := make(domain.Declaration, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		name := key.Value

		var (
			groups []domain.GroupDecl
			err    error
		)
		switch value.Kind {
		case yaml.MappingNode:
			groups, err = m.mapShorthand(value)
		case yaml.SequenceNode:
			groups, err = m.mapCategoryList(value)
		default:
			err = fmt.Errorf("line %d: expected a mapping or a list", value.Line)
		}
		if err != nil {
			return nil, fmt.Errorf("sidebar %q: %w", name, err)
		}

		decl = append(decl, domain.SidebarDecl{Name: name, Groups: groups})
	}

	return decl, nil
}

// mapShorthand handles {label: [doc ids]}.
func (m *Mapper) mapShorthand(node *yaml.Node) ([]domain.GroupDecl, error) {
	groups := make([]domain.GroupDecl, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		label, items := node.Content[i].Value, node.Content[i+1]
		ids, err := docIDs(items)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", label, err)
		}
		groups = append(groups, domain.GroupDecl{Label: label, Items: ids})
	}
	return groups, nil
}

// mapCategoryList handles [{type: category, label, items}].
func (m *Mapper) mapCategoryList(node *yaml.Node) ([]domain.GroupDecl, error) {
	groups := make([]domain.GroupDecl, 0, len(node.Content))
	for _, entry := range node.Content {
		if entry.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: list entries must be categories", entry.Line)
		}
		var item CategoryItem
		if err := entry.Decode(&item); err != nil {
			return nil, fmt.Errorf("line %d: %w", entry.Line, err)
		}
		if item.Type != "" && item.Type != "category" {
			return nil, fmt.Errorf("line %d: unsupported item type %q", entry.Line, item.Type)
		}
		ids := []string{}
		if item.Items.Kind != 0 && item.Items.Tag != nullTag {
			var err error
			if ids, err = docIDs(&item.Items); err != nil {
				return nil, fmt.Errorf("category %q: %w", item.Label, err)
			}
		}
		groups = append(groups, domain.GroupDecl{Label: item.Label, Items: ids})
	}
	return groups, nil
}

const (
	nullTag = "!!null"
	boolTag = "!!bool"
)

// docIDs reads a list of doc ids. Numbers keep their literal text, so 01
// stays "01"; null and booleans are rejected.
func docIDs(node *yaml.Node) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of doc ids", node.Line)
	}
	ids := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: doc id must be a string", item.Line)
		}
		switch item.Tag {
		case nullTag, boolTag:
			return nil, fmt.Errorf("line %d: doc id must be a string, got %s", item.Line, item.Value)
		}
		ids = append(ids, item.Value)
	}
	return ids, nil
}
