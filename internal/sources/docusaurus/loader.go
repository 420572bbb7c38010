package docusaurus

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
)

// Loader handles loading and parsing of a sidebars file
type Loader struct {
	filePath string
	mapper   *Mapper
}

// NewLoader creates a new sidebars loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
		mapper:   NewMapper(),
	}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	return l.filePath
}

// Load reads and parses the sidebars file into a declaration
func (l *Loader) Load() (domain.Declaration, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read sidebars file: %w", err)
	}

	format, err := FormatFromPath(l.filePath)
	if err != nil {
		return nil, err
	}

	decl, err := l.parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.filePath, err)
	}
	return decl, nil
}

// LoadManifest loads the file and validates it.
func (l *Loader) LoadManifest() (*domain.SidebarManifest, error) {
	decl, err := l.Load()
	if err != nil {
		return nil, err
	}
	return domain.BuildManifest(decl)
}

// Parse parses sidebars data in the given format.
func Parse(data []byte, format Format) (domain.Declaration, error) {
	return NewLoader("").parse(data, format)
}

func (l *Loader) parse(data []byte, format Format) (domain.Declaration, error) {
	if format == FormatJS {
		root, err := parseJSModule(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse sidebars module: %w", err)
		}
		return l.mapper.MapDeclaration(root)
	}

	// JSON is valid YAML flow syntax.
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse sidebars: %w", err)
	}

	return l.mapper.MapDeclaration(&root)
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".cjs", ".mjs":
		return FormatJS, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported sidebars file extension %q", filepath.Ext(path))
	}
}
