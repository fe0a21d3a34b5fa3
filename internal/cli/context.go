package cli

import (
	"context"

	"github.com/brandonbloom/cargo-rr/internal/project"
)

func (a *app) loadProject(ctx context.Context, manifestPath string) (*project.Project, string, error) {
	wd, err := a.getwd()
	if err != nil {
		return nil, "", err
	}
	proj, err := withTraceRegion(ctx, "discover project", func() (*project.Project, error) {
		return project.Discover(ctx, a.cargo, wd, manifestPath)
	})
	if err != nil {
		return nil, "", err
	}
	a.log.Debug("project", "root", proj.Root, "traces", proj.Traces.Root, "config", proj.ConfigPath)
	return proj, wd, nil
}
