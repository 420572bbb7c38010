package docusaurus

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
)

// ClassicPreset is the preset carrying docs/blog/theme options.
const ClassicPreset = "@docusaurus/preset-classic"

// SiteLoader handles loading of the site configuration (YAML or JSON).
type SiteLoader struct {
	filePath string
}

// NewSiteLoader creates a new site configuration loader
func NewSiteLoader(filePath string) *SiteLoader {
	return &SiteLoader{filePath: filePath}
}

// Load reads, parses and validates the site configuration
func (l *SiteLoader) Load() (*domain.SiteConfig, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read site config: %w", err)
	}

	cfg, err := ParseSite(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.filePath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid site config %s: %w", l.filePath, err)
	}
	return cfg, nil
}

// ParseSite decodes site configuration data without validating it.
func ParseSite(data []byte) (*domain.SiteConfig, error) {
	var file struct {
		domain.SiteConfig `yaml:",inline"`
		RawPresets        []presetEntry `yaml:"presets"`
	}
	// SiteConfig.Presets is not decoded directly: presets are usually
	// written as ['name', {options}] tuples.
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	cfg := file.SiteConfig
	cfg.Presets = make([]domain.Preset, 0, len(file.RawPresets))
	for _, p := range file.RawPresets {
		cfg.Presets = append(cfg.Presets, domain.Preset{
			Name:    p.Name,
			Options: normalizeOptions(p.Options),
		})
	}
	return &cfg, nil
}

// normalizeOptions coerces the loosely typed options the classic preset is
// known to carry ("true" -> true and so on).
func normalizeOptions(opts map[string]any) map[string]any {
	if opts == nil {
		return nil
	}
	out := make(map[string]any, len(opts))
	for section, raw := range opts {
		values, err := cast.ToStringMapE(raw)
		if err != nil {
			out[section] = raw
			continue
		}
		for key, v := range values {
			switch key {
			case "showReadingTime":
				values[key] = cast.ToBool(v)
			case "editUrl", "sidebarPath", "customCss", "path", "routeBasePath":
				values[key] = cast.ToString(v)
			}
		}
		out[section] = values
	}
	return out
}

// DocsPath returns the docs directory configured on the classic preset,
// "docs" when unset.
func DocsPath(cfg *domain.SiteConfig) string {
	for _, p := range cfg.Presets {
		if p.Name != ClassicPreset {
			continue
		}
		docs := cast.ToStringMap(p.Options["docs"])
		if path := cast.ToString(docs["path"]); path != "" {
			return path
		}
	}
	return "docs"
}
