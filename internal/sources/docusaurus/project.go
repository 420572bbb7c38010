package docusaurus

import (
	"fmt"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
	"github.com/MrSnakeDoc/navmanifest/internal/resolve"
)

// Project names the files of one documentation site. Only SidebarsFile is
// required.
type Project struct {
	SidebarsFile string
	SiteFile     string // optional site config
	DocsDir      string // optional; enables the doc-ref check
}

// Loaded is everything read from a project.
type Loaded struct {
	Manifest   *domain.SidebarManifest
	Site       *domain.SiteConfig   // nil without SiteFile
	Catalog    *resolve.Catalog     // nil without DocsDir
	Unresolved []resolve.Unresolved // doc-refs with no page; empty without DocsDir
}

// Policy returns the broken-link policy the site asks for, throw by default.
func (l *Loaded) Policy() domain.BrokenLinkPolicy {
	if l.Site == nil {
		return domain.PolicyThrow
	}
	return l.Site.BrokenLinks()
}

// Load reads the sidebars file, then the site config and docs directory when
// set. Unresolved doc-refs are reported, not enforced.
func (p Project) Load() (*Loaded, error) {
	m, err := NewLoader(p.SidebarsFile).LoadManifest()
	if err != nil {
		return nil, fmt.Errorf("invalid sidebars %s: %w", p.SidebarsFile, err)
	}
	out := &Loaded{Manifest: m}

	if p.SiteFile != "" {
		if out.Site, err = NewSiteLoader(p.SiteFile).Load(); err != nil {
			return nil, err
		}
	}

	if p.DocsDir != "" {
		if out.Catalog, err = resolve.Scan(p.DocsDir); err != nil {
			return nil, err
		}
		out.Unresolved = out.Catalog.Check(m)
	}
	return out, nil
}
