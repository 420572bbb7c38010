package commands

import (
	"fmt"

	"github.com/MrSnakeDoc/navmanifest/internal/resolve"
	"github.com/MrSnakeDoc/navmanifest/internal/sources/docusaurus"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct {
	File    string `short:"f" name:"file" help:"Sidebars file (.js, .json, .yaml)" default:"sidebars.js" type:"path" env:"NAV_MANIFEST_FILE"`
	Site    string `name:"site" help:"Site config file; sets the broken-link policy" type:"path"`
	DocsDir string `name:"docs-dir" help:"Docs directory; every doc-ref must resolve to a page" type:"path"`
}

func (c *ValidateCmd) Run(g *Global) error {
	loaded, err := docusaurus.Project{
		SidebarsFile: c.File,
		SiteFile:     c.Site,
		DocsDir:      c.DocsDir,
	}.Load()
	if err != nil {
		logViolations(g.Logger, err)
		return err
	}

	if err := resolve.Enforce(loaded.Unresolved, loaded.Policy(), g.Logger); err != nil {
		return fmt.Errorf("doc-ref check failed: %w", err)
	}

	stats := loaded.Manifest.Stats()
	_, err = fmt.Fprintf(g.Out, "✅ %s: %d sidebars, %d groups, %d doc refs\n",
		c.File, stats.Sidebars, stats.Groups, stats.DocRefs)
	return err
}
