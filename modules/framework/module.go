package framework

import (
	"context"

	"github.com/specialistvlad/devicefarm/internal/registry"
	"github.com/specialistvlad/devicefarm/internal/resolve"
	"github.com/specialistvlad/devicefarm/internal/session"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input defines the arguments for set_project_framework.
type Input struct {
	Framework resolve.Selector
}

// OnSetProjectFramework is the handler for set_project_framework.
func OnSetProjectFramework(ctx context.Context, s *session.Session, in Input) error {
	return s.SetProjectFramework(ctx, in.Framework)
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	registry.Register(r, registry.SetProjectFramework,
		func(a *registry.Arguments) (Input, error) {
			return Input{Framework: a.RequireSelector("framework")}, nil
		},
		OnSetProjectFramework)
}
