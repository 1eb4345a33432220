package parameters

import (
	"context"
	"fmt"

	"github.com/specialistvlad/devicefarm/internal/registry"
	"github.com/specialistvlad/devicefarm/internal/resolve"
	"github.com/specialistvlad/devicefarm/internal/session"
	"github.com/specialistvlad/devicefarm/internal/testdroid"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// SetInput defines the arguments for set_project_parameters.
type SetInput struct {
	Parameters     []testdroid.Parameter
	ForceOverwrite bool
}

// DeleteInput defines the arguments for delete_project_parameter.
type DeleteInput struct {
	Parameter resolve.Specifier
}

func decodeSet(a *registry.Arguments) (SetInput, error) {
	a.Require("parameters")
	in := SetInput{ForceOverwrite: a.Bool("force_overwrite", false)}
	for i, raw := range a.List("parameters") {
		m, ok := raw.(map[string]any)
		if !ok {
			a.Fail("parameters[%d] must be a mapping with key and value", i)
			continue
		}
		key, _ := m["key"].(string)
		if key == "" {
			a.Fail("parameters[%d] has no key", i)
			continue
		}
		value := ""
		if v, ok := m["value"]; ok && v != nil {
			value = fmt.Sprint(v)
		}
		in.Parameters = append(in.Parameters, testdroid.Parameter{Key: key, Value: value})
	}
	return in, nil
}

func decodeDelete(a *registry.Arguments) (DeleteInput, error) {
	a.Require("parameter")
	return DeleteInput{Parameter: a.Specifier("parameter")}, nil
}

// OnSetProjectParameters is the handler for set_project_parameters.
func OnSetProjectParameters(ctx context.Context, s *session.Session, in SetInput) error {
	return s.SetProjectParameters(ctx, in.Parameters, in.ForceOverwrite)
}

// OnDeleteProjectParameter is the handler for delete_project_parameter.
func OnDeleteProjectParameter(ctx context.Context, s *session.Session, in DeleteInput) error {
	return s.DeleteProjectParameter(ctx, in.Parameter)
}

// Register registers the handlers with the registry.
func (m *Module) Register(r *registry.Registry) {
	registry.Register(r, registry.SetProjectParameters, decodeSet, OnSetProjectParameters)
	registry.Register(r, registry.DeleteProjectParameter, decodeDelete, OnDeleteProjectParameter)
}
