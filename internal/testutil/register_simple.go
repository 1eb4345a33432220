package testutil

import (
	"context"
	"sync"

	"github.com/specialistvlad/devicefarm/internal/registry"
	"github.com/specialistvlad/devicefarm/internal/session"
)

// SimpleModule registers one action whose handler ignores its arguments and
// records the task indices it ran for.
type SimpleModule struct {
	Action registry.Action
	// Fn runs after the call is recorded. Nil succeeds.
	Fn func(ctx context.Context, s *session.Session) error

	mu  sync.Mutex
	ran int
}

// Register implements the registry.Module interface.
func (m *SimpleModule) Register(r *registry.Registry) {
	registry.Register(r, m.Action,
		func(a *registry.Arguments) (struct{}, error) {
			a.Rest()
			return struct{}{}, nil
		},
		func(ctx context.Context, s *session.Session, _ struct{}) error {
			m.mu.Lock()
			m.ran++
			m.mu.Unlock()
			if m.Fn != nil {
				return m.Fn(ctx, s)
			}
			return nil
		})
}

// Ran reports how many times the handler ran.
func (m *SimpleModule) Ran() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ran
}
