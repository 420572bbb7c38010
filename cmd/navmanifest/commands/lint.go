package commands

import (
	"errors"

	"github.com/MrSnakeDoc/navmanifest/internal/lint"
	"github.com/MrSnakeDoc/navmanifest/internal/resolve"
	"github.com/MrSnakeDoc/navmanifest/internal/sources/docusaurus"
)

// ErrLintFailed is returned when lint reports at least one error.
var ErrLintFailed = errors.New("lint found errors")

// LintCmd implements the 'lint' command.
type LintCmd struct {
	File    string `short:"f" name:"file" help:"Sidebars file (.js, .json, .yaml)" default:"sidebars.js" type:"path" env:"NAV_MANIFEST_FILE"`
	DocsDir string `name:"docs-dir" help:"Docs directory; enables the unresolved and unlisted checks" type:"path"`
	Format  string `name:"format" help:"Output format (text or json)" default:"text" enum:"text,json"`
	Strict  bool   `help:"Fail on warnings too"`
}

func (c *LintCmd) Run(g *Global) error {
	formatter, err := lint.NewFormatter(c.Format)
	if err != nil {
		return err
	}

	m, err := docusaurus.NewLoader(c.File).LoadManifest()
	if err != nil {
		logViolations(g.Logger, err)
		return err
	}

	var catalog *resolve.Catalog
	if c.DocsDir != "" {
		if catalog, err = resolve.Scan(c.DocsDir); err != nil {
			return err
		}
	}

	result := lint.Lint(m, catalog)
	if err := formatter.Format(g.Out, result, c.File); err != nil {
		return err
	}

	if result.HasErrors() || (c.Strict && result.HasWarnings()) {
		return ErrLintFailed
	}
	return nil
}
