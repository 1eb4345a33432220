package registry

import (
	"github.com/specialistvlad/devicefarm/internal/recipe"
)

// Step is a task bound to its handler. Handler is nil when the action is not
// implemented; Action is Unknown when the name is not recognized at all.
type Step struct {
	Task    recipe.Task
	Action  Action
	Handler Handler
}

// Implemented reports whether the step can run.
func (s Step) Implemented() bool { return s.Handler != nil }

// Plan binds every task in order. An argument defect in any task fails the
// whole plan with a *recipe.Error.
func (r *Registry) Plan(tasks []recipe.Task) ([]Step, error) {
	steps := make([]Step, 0, len(tasks))
	for _, t := range tasks {
		step, err := r.Bind(t)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// Bind resolves one task's action and decodes its arguments.
func (r *Registry) Bind(t recipe.Task) (Step, error) {
	a, ok := ParseAction(t.Action)
	if !ok {
		return Step{Task: t}, nil
	}
	b, ok := r.binders[a]
	if !ok {
		return Step{Task: t, Action: a}, nil
	}
	h, err := b(NewArguments(t))
	if err != nil {
		return Step{}, err
	}
	return Step{Task: t, Action: a, Handler: h}, nil
}
