package session

import (
	"context"

	"github.com/specialistvlad/devicefarm/internal/ctxlog"
	"github.com/specialistvlad/devicefarm/internal/resolve"
	"github.com/specialistvlad/devicefarm/internal/testdroid"
)

var (
	frameworkKeys = resolve.Keys[testdroid.Framework]{
		ID:   func(f testdroid.Framework) int64 { return f.ID },
		Name: func(f testdroid.Framework) string { return f.Name },
	}
	groupKeys = resolve.Keys[testdroid.DeviceGroup]{
		ID:   func(g testdroid.DeviceGroup) int64 { return g.ID },
		Name: func(g testdroid.DeviceGroup) string { return g.DisplayName },
	}
	deviceKeys = resolve.Keys[testdroid.Device]{
		ID:   func(d testdroid.Device) int64 { return d.ID },
		Name: func(d testdroid.Device) string { return d.DisplayName },
	}
)

// SetProjectFramework resolves a framework and assigns it to the bound project.
func (s *Session) SetProjectFramework(ctx context.Context, sel resolve.Selector) error {
	projectID, err := s.requireProject()
	if err != nil {
		return err
	}

	frameworks, err := s.api.GetFrameworks(ctx)
	if err != nil {
		return err
	}
	f, note, err := resolve.Select(sel, frameworks, frameworkKeys)
	if err != nil {
		return &FrameworkError{Kind: FrameworkNotFound, Selector: sel.String(), Err: err}
	}
	logNote(ctx, note, "framework", sel, f.ID, f.Name)

	if err := s.api.SetProjectFramework(ctx, projectID, f.ID); err != nil {
		return &FrameworkError{Kind: FrameworkRemote, Selector: sel.String(), StatusCode: statusOf(err), Err: err}
	}
	bind(&s.framework, f.ID, f.Name)
	s.advance(Configured)

	ctxlog.FromContext(ctx).Info("Set project framework.", "framework_id", f.ID, "framework_name", f.Name)
	return nil
}

// SetDeviceGroup binds the device group runs will target.
func (s *Session) SetDeviceGroup(ctx context.Context, sel resolve.Selector) error {
	groups, err := s.api.GetDeviceGroups(ctx)
	if err != nil {
		return err
	}
	g, note, err := resolve.Select(sel, groups, groupKeys)
	if err != nil {
		return &DeviceError{Kind: DeviceGroupNotFound, Selector: sel.String(), Err: err}
	}
	logNote(ctx, note, "device group", sel, g.ID, g.DisplayName)

	bind(&s.deviceGroup, g.ID, g.DisplayName)
	s.advanceConfigured()
	ctxlog.FromContext(ctx).Info("Set device group.", "device_group_id", g.ID, "device_group_name", g.DisplayName)
	return nil
}

// SetDevice binds the single device runs will target.
func (s *Session) SetDevice(ctx context.Context, sel resolve.Selector) error {
	devices, err := s.api.GetDevices(ctx)
	if err != nil {
		return err
	}
	d, note, err := resolve.Select(sel, devices, deviceKeys)
	if err != nil {
		return &DeviceError{Kind: DeviceNotFound, Selector: sel.String(), Err: err}
	}
	logNote(ctx, note, "device", sel, d.ID, d.DisplayName)

	bind(&s.device, d.ID, d.DisplayName)
	s.advanceConfigured()
	ctxlog.FromContext(ctx).Info("Set device.", "device_id", d.ID, "device_name", d.DisplayName)
	return nil
}

// advanceConfigured moves to Configured only once a project is bound, so a
// device chosen ahead of the project does not skip Identified.
func (s *Session) advanceConfigured() {
	if s.project != nil {
		s.advance(Configured)
	}
}
