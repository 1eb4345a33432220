package executor

import (
	"context"

	"github.com/specialistvlad/devicefarm/internal/recipe"
	"github.com/specialistvlad/devicefarm/internal/registry"
	"github.com/specialistvlad/devicefarm/internal/session"
)

// establish binds the session's project as the directive asks.
type establish func(ctx context.Context, s *session.Session) error

// bindDirective decodes the directive arguments. Defects are *recipe.Error.
func bindDirective(d recipe.Directive) (establish, error) {
	args := registry.NewArguments(recipe.Task{Index: -1, Action: "project " + string(d.Status), Arguments: d.Arguments})

	var fn establish
	switch d.Status {
	case recipe.StatusNew:
		args.Require("project_name", "project_type")
		name := args.String("project_name")
		typ := args.String("project_type")
		permit := args.Bool("permit_duplicate", false)
		fn = func(ctx context.Context, s *session.Session) error {
			return s.CreateProject(ctx, name, typ, permit)
		}
	default:
		sel := args.RequireSelector("project")
		fn = func(ctx context.Context, s *session.Session) error {
			return s.UseExistingProject(ctx, sel)
		}
	}

	if err := args.Err(); err != nil {
		return nil, err
	}
	return fn, nil
}
