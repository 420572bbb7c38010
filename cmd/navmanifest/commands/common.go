package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/MrSnakeDoc/navmanifest/internal/domain"
	"github.com/MrSnakeDoc/navmanifest/internal/logger"
)

// Global is bound into every command's Run.
type Global struct {
	Logger logger.Logger
	Out    io.Writer
}

// CLI definition & global flags.
type CLI struct {
	LogLevel  string           `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info" env:"NAV_LOG_LEVEL"`
	PrettyLog bool             `name:"pretty-log" help:"Human readable logs instead of JSON" default:"true" negatable:"" env:"NAV_PRETTY_LOG"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Validate ValidateCmd `cmd:"" help:"Validate a sidebars file (and optionally the site config and docs directory)"`
	Render   RenderCmd   `cmd:"" help:"Render a sidebars file as JSON, YAML or a JS module"`
	Lint     LintCmd     `cmd:"" help:"Report manifest smells such as docs listed under several groups"`
	Serve    ServeCmd    `cmd:"" help:"Serve the manifest over HTTP and reload it on change"`
}

// AfterApply rejects unknown log levels before any command runs.
func (c *CLI) AfterApply() error {
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}

// NewGlobal builds the shared state from the parsed flags.
func (c *CLI) NewGlobal() *Global {
	return &Global{
		Logger: logger.New(c.LogLevel, c.PrettyLog),
		Out:    os.Stdout,
	}
}

// logViolations logs one line per validation error so every problem of a
// file is reported, not only the first.
func logViolations(log logger.Logger, err error) {
	for _, v := range domain.Violations(err) {
		log.Error("invalid manifest",
			logger.String("kind", v.Kind.Error()),
			logger.String("sidebar", v.Sidebar),
			logger.String("group", v.Group),
			logger.String("doc_ref", v.DocRef))
	}
}
