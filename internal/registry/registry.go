package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/devicefarm/internal/session"
)

// Module is the interface that every action group implements to be registered.
type Module interface {
	Register(r *Registry)
}

// Handler runs one bound task against the session.
type Handler func(ctx context.Context, s *session.Session) error

// Binder decodes a task's arguments and returns the handler that runs it.
type Binder func(args *Arguments) (Handler, error)

// Registry maps each Action to its Binder for one application instance.
type Registry struct {
	binders map[Action]Binder
}

// New creates a registry and registers the given modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{binders: make(map[Action]Binder)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterBinder registers the binder for an action. Registering an action
// twice is a programming error.
func (r *Registry) RegisterBinder(a Action, b Binder) {
	if _, exists := r.binders[a]; exists {
		panic(fmt.Sprintf("handler for action '%s' already registered", a))
	}
	slog.Debug("Registering action handler.", "action", a.String())
	r.binders[a] = b
}

// Register registers a typed handler: decode reads the arguments into a T and
// fn receives it when the task runs.
func Register[T any](r *Registry, a Action, decode func(*Arguments) (T, error), fn func(context.Context, *session.Session, T) error) {
	r.RegisterBinder(a, func(args *Arguments) (Handler, error) {
		in, err := decode(args)
		if err != nil {
			return nil, err
		}
		if err := args.Err(); err != nil {
			return nil, err
		}
		return func(ctx context.Context, s *session.Session) error {
			return fn(ctx, s, in)
		}, nil
	})
}

// Lookup returns the binder registered for a.
func (r *Registry) Lookup(a Action) (Binder, bool) {
	b, ok := r.binders[a]
	return b, ok
}
