package domain

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/multierr"
)

// BrokenLinkPolicy tells the renderer what to do with a link that does not
// resolve. The doc-ref check applies the same policy to unresolved doc-refs.
type BrokenLinkPolicy string

const (
	PolicyThrow  BrokenLinkPolicy = "throw"
	PolicyWarn   BrokenLinkPolicy = "warn"
	PolicyLog    BrokenLinkPolicy = "log"
	PolicyIgnore BrokenLinkPolicy = "ignore"
)

// ParseBrokenLinkPolicy parses a policy name. An empty name means throw.
func ParseBrokenLinkPolicy(s string) (BrokenLinkPolicy, error) {
	switch p := BrokenLinkPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyThrow, nil
	case PolicyThrow, PolicyWarn, PolicyLog, PolicyIgnore:
		return p, nil
	default:
		return "", fmt.Errorf("unknown broken link policy %q", s)
	}
}

// SiteConfig is the site-wide configuration handed to the static-site
// generator. Apart from the broken-link policies, every field is passed
// through untouched.
type SiteConfig struct {
	// ─────────────────────────────
	// Site metadata
	// ─────────────────────────────

	Title            string `yaml:"title" json:"title"`
	Tagline          string `yaml:"tagline,omitempty" json:"tagline,omitempty"`
	URL              string `yaml:"url" json:"url"`
	BaseURL          string `yaml:"baseUrl" json:"baseUrl"`
	Favicon          string `yaml:"favicon,omitempty" json:"favicon,omitempty"`
	OrganizationName string `yaml:"organizationName,omitempty" json:"organizationName,omitempty"`
	ProjectName      string `yaml:"projectName,omitempty" json:"projectName,omitempty"`

	// ─────────────────────────────
	// Build policies
	// ─────────────────────────────

	OnBrokenLinks         string `yaml:"onBrokenLinks,omitempty" json:"onBrokenLinks,omitempty"`
	OnBrokenMarkdownLinks string `yaml:"onBrokenMarkdownLinks,omitempty" json:"onBrokenMarkdownLinks,omitempty"`

	// ─────────────────────────────
	// Theme and presets (opaque)
	// ─────────────────────────────

	ThemeConfig ThemeConfig `yaml:"themeConfig,omitempty" json:"themeConfig,omitempty"`
	Presets     []Preset    `yaml:"-" json:"presets,omitempty"`
}

// ThemeConfig holds navbar, footer and theme add-on settings.
type ThemeConfig struct {
	Prism           PrismConfig     `yaml:"prism,omitempty" json:"prism,omitempty"`
	GoogleAnalytics AnalyticsConfig `yaml:"googleAnalytics,omitempty" json:"googleAnalytics,omitempty"`
	Navbar          Navbar          `yaml:"navbar,omitempty" json:"navbar,omitempty"`
	Footer          Footer          `yaml:"footer,omitempty" json:"footer,omitempty"`
}

type PrismConfig struct {
	AdditionalLanguages []string `yaml:"additionalLanguages,omitempty" json:"additionalLanguages,omitempty"`
}

type AnalyticsConfig struct {
	TrackingID string `yaml:"trackingID,omitempty" json:"trackingID,omitempty"`
}

type Navbar struct {
	Title string    `yaml:"title,omitempty" json:"title,omitempty"`
	Logo  Logo      `yaml:"logo,omitempty" json:"logo,omitempty"`
	Items []NavLink `yaml:"items,omitempty" json:"items,omitempty"`
}

type Logo struct {
	Alt string `yaml:"alt,omitempty" json:"alt,omitempty"`
	Src string `yaml:"src,omitempty" json:"src,omitempty"`
}

// NavLink is a navbar or footer entry. Exactly one of To (internal) and
// Href (external) is expected to be set.
type NavLink struct {
	Label          string `yaml:"label" json:"label"`
	To             string `yaml:"to,omitempty" json:"to,omitempty"`
	Href           string `yaml:"href,omitempty" json:"href,omitempty"`
	ActiveBasePath string `yaml:"activeBasePath,omitempty" json:"activeBasePath,omitempty"`
	Position       string `yaml:"position,omitempty" json:"position,omitempty"`
}

type Footer struct {
	Style     string         `yaml:"style,omitempty" json:"style,omitempty"`
	Links     []FooterColumn `yaml:"links,omitempty" json:"links,omitempty"`
	Copyright string         `yaml:"copyright,omitempty" json:"copyright,omitempty"`
}

type FooterColumn struct {
	Title string    `yaml:"title" json:"title"`
	Items []NavLink `yaml:"items" json:"items"`
}

// Preset is a named plugin bundle with loose options, e.g. the classic
// preset's docs/blog/theme sections.
type Preset struct {
	Name    string         `yaml:"name" json:"name"`
	Options map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// BrokenLinks returns the parsed onBrokenLinks policy.
func (c *SiteConfig) BrokenLinks() BrokenLinkPolicy {
	p, err := ParseBrokenLinkPolicy(c.OnBrokenLinks)
	if err != nil {
		return PolicyThrow
	}
	return p
}

// Validate checks the few fields the renderer cannot work without.
func (c *SiteConfig) Validate() error {
	var errs error
	if strings.TrimSpace(c.Title) == "" {
		errs = multierr.Append(errs, fmt.Errorf("title is required"))
	}
	if u, err := url.Parse(c.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = multierr.Append(errs, fmt.Errorf("url must be an absolute http(s) URL, got %q", c.URL))
	}
	if !strings.HasPrefix(c.BaseURL, "/") || !strings.HasSuffix(c.BaseURL, "/") {
		errs = multierr.Append(errs, fmt.Errorf("baseUrl must start and end with '/', got %q", c.BaseURL))
	}
	if _, err := ParseBrokenLinkPolicy(c.OnBrokenLinks); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("onBrokenLinks: %w", err))
	}
	if _, err := ParseBrokenLinkPolicy(c.OnBrokenMarkdownLinks); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("onBrokenMarkdownLinks: %w", err))
	}
	for _, it := range c.ThemeConfig.Navbar.Items {
		if it.To == "" && it.Href == "" {
			errs = multierr.Append(errs, fmt.Errorf("navbar item %q has neither to nor href", it.Label))
		}
	}
	return errs
}
