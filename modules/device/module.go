package device

import (
	"context"

	"github.com/specialistvlad/devicefarm/internal/registry"
	"github.com/specialistvlad/devicefarm/internal/resolve"
	"github.com/specialistvlad/devicefarm/internal/session"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Input selects one device or device group by id, name, or either.
type Input struct {
	Selector resolve.Selector
}

// OnSetDevice is the handler for set_device.
func OnSetDevice(ctx context.Context, s *session.Session, in Input) error {
	return s.SetDevice(ctx, in.Selector)
}

// OnSetDeviceGroup is the handler for set_device_group.
func OnSetDeviceGroup(ctx context.Context, s *session.Session, in Input) error {
	return s.SetDeviceGroup(ctx, in.Selector)
}

func decoder(base string) func(*registry.Arguments) (Input, error) {
	return func(a *registry.Arguments) (Input, error) {
		return Input{Selector: a.RequireSelector(base)}, nil
	}
}

// Register registers the handlers with the registry.
func (m *Module) Register(r *registry.Registry) {
	registry.Register(r, registry.SetDevice, decoder("device"), OnSetDevice)
	registry.Register(r, registry.SetDeviceGroup, decoder("group"), OnSetDeviceGroup)
}
