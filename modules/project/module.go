package project

import (
	"context"
	"maps"
	"slices"

	"github.com/specialistvlad/devicefarm/internal/ctxlog"
	"github.com/specialistvlad/devicefarm/internal/registry"
	"github.com/specialistvlad/devicefarm/internal/resolve"
	"github.com/specialistvlad/devicefarm/internal/session"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// CreateInput defines the arguments for create_project.
type CreateInput struct {
	Name            string
	Type            string
	PermitDuplicate bool
}

// UseInput defines the arguments for use_existing_project.
type UseInput struct {
	Project resolve.Selector
}

// SetConfigsInput defines the arguments for set_project_configs.
type SetConfigsInput struct {
	Values map[string]any
	Path   string
}

func decodeCreate(a *registry.Arguments) (CreateInput, error) {
	a.Require("project_name", "project_type")
	return CreateInput{
		Name:            a.String("project_name"),
		Type:            a.String("project_type"),
		PermitDuplicate: a.Bool("permit_duplicate", false),
	}, nil
}

func decodeUse(a *registry.Arguments) (UseInput, error) {
	return UseInput{Project: a.RequireSelector("project")}, nil
}

func decodeSetConfigs(a *registry.Arguments) (SetConfigsInput, error) {
	in := SetConfigsInput{Values: a.Map("new_values"), Path: a.String("path")}
	if len(in.Values) == 0 && in.Path == "" {
		a.Fail("provide one of: new_values, path")
	}
	return in, nil
}

// OnCreateProject is the handler for create_project.
func OnCreateProject(ctx context.Context, s *session.Session, in CreateInput) error {
	return s.CreateProject(ctx, in.Name, in.Type, in.PermitDuplicate)
}

// OnUseExistingProject is the handler for use_existing_project.
func OnUseExistingProject(ctx context.Context, s *session.Session, in UseInput) error {
	return s.UseExistingProject(ctx, in.Project)
}

// OnGetProjectConfigs logs the bound project's configuration.
func OnGetProjectConfigs(ctx context.Context, s *session.Session, _ struct{}) error {
	cfg, err := s.ProjectConfig(ctx)
	if err != nil {
		return err
	}
	logger := ctxlog.FromContext(ctx)
	for _, k := range slices.Sorted(maps.Keys(cfg)) {
		logger.Info("Project configuration.", "key", k, "value", cfg[k])
	}
	return nil
}

// OnSetProjectConfigs is the handler for set_project_configs.
func OnSetProjectConfigs(ctx context.Context, s *session.Session, in SetConfigsInput) error {
	return s.SetProjectConfig(ctx, in.Values, in.Path)
}

func noArgs(*registry.Arguments) (struct{}, error) { return struct{}{}, nil }

// Register registers the handlers with the registry.
func (m *Module) Register(r *registry.Registry) {
	registry.Register(r, registry.CreateProject, decodeCreate, OnCreateProject)
	registry.Register(r, registry.UseExistingProject, decodeUse, OnUseExistingProject)
	registry.Register(r, registry.GetProjectConfigs, noArgs, OnGetProjectConfigs)
	registry.Register(r, registry.SetProjectConfigs, decodeSetConfigs, OnSetProjectConfigs)
}
