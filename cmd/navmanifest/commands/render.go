package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/MrSnakeDoc/navmanifest/internal/logger"
	"github.com/MrSnakeDoc/navmanifest/internal/render"
	"github.com/MrSnakeDoc/navmanifest/internal/sources/docusaurus"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	File   string `short:"f" name:"file" help:"Sidebars file (.js, .json, .yaml)" default:"sidebars.js" type:"path" env:"NAV_MANIFEST_FILE"`
	Format string `name:"format" help:"Output format (json, yaml, js)" default:"json" enum:"json,yaml,yml,js"`
	Output string `short:"o" name:"output" help:"Output file (default stdout)" type:"path"`
}

func (c *RenderCmd) Run(g *Global) error {
	format, err := render.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	m, err := docusaurus.NewLoader(c.File).LoadManifest()
	if err != nil {
		logViolations(g.Logger, err)
		return err
	}

	var buf bytes.Buffer
	if err := render.Render(&buf, m, format); err != nil {
		return err
	}

	if c.Output == "" {
		_, err := g.Out.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(c.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Output, err)
	}
	g.Logger.Info("manifest rendered",
		logger.String("file", c.File),
		logger.String("output", c.Output),
		logger.String("format", string(format)))
	return nil
}
