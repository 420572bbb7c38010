package scheduler

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/navmanifest/internal/logger"
	"github.com/MrSnakeDoc/navmanifest/internal/resolve"
	"github.com/MrSnakeDoc/navmanifest/internal/sources/docusaurus"
)

// Source produces a validated manifest for each reload.
type Source interface {
	Load(ctx context.Context) (*docusaurus.Loaded, error)
	Name() string
}

// ProjectSource loads a docusaurus project from disk and applies the site's
// broken-link policy to unresolved doc-refs.
type ProjectSource struct {
	project docusaurus.Project
	logger  logger.Logger
}

// NewProjectSource creates a source for the given project files
func NewProjectSource(project docusaurus.Project, log logger.Logger) *ProjectSource {
	return &ProjectSource{project: project, logger: log}
}

func (s *ProjectSource) Name() string { return s.project.SidebarsFile }

func (s *ProjectSource) Load(ctx context.Context) (*docusaurus.Loaded, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loaded, err := s.project.Load()
	if err != nil {
		return nil, err
	}
	if err := resolve.Enforce(loaded.Unresolved, loaded.Policy(), s.logger); err != nil {
		return nil, fmt.Errorf("doc-ref check failed: %w", err)
	}
	return loaded, nil
}
