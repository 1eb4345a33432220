package testrun

import (
	"context"
	"time"

	"github.com/specialistvlad/devicefarm/internal/ctxlog"
	"github.com/specialistvlad/devicefarm/internal/monitor"
	"github.com/specialistvlad/devicefarm/internal/registry"
	"github.com/specialistvlad/devicefarm/internal/resolve"
	"github.com/specialistvlad/devicefarm/internal/session"
)

// Module implements the registry.Module interface for this package. Interval
// and Timeout are the await_completion defaults. A zero Interval or a nil
// Timeout takes the monitor's; a zero Timeout is kept.
type Module struct {
	Interval time.Duration
	Timeout  *time.Duration
	// Sleep replaces the monitor's wall-clock sleep.
	Sleep monitor.SleepFunc
}

// GetInput defines the arguments for get_test_run.
type GetInput struct {
	ID   int64
	Name string
}

// StartInput defines the arguments for start_test_run. Ignored holds keys
// that have no meaning for a run.
type StartInput struct {
	session.StartOptions
	Ignored []string
}

func decodeStart(a *registry.Arguments) (StartInput, error) {
	in := StartInput{StartOptions: session.StartOptions{
		Name:             a.String("name"),
		Project:          a.Specifier("project_id"),
		Group:            idAlias(a, a.Specifier("group"), "group_id", "device_group_id"),
		Device:           idAlias(a, a.Specifier("device"), "device_id"),
		AdditionalParams: a.Map("additional_params"),
	}}
	in.Ignored = a.Rest()
	return in, nil
}

// idAlias fills an unset specifier from the first of keys that holds an id.
func idAlias(a *registry.Arguments, spec resolve.Specifier, keys ...string) resolve.Specifier {
	for _, k := range keys {
		if !a.Has(k) {
			continue
		}
		id := a.Int(k, 0)
		if spec.IsZero() && id != 0 {
			spec = resolve.ID(id)
		}
	}
	return spec
}

func decodeGet(a *registry.Arguments) (GetInput, error) {
	in := GetInput{ID: a.Int("test_run_id", 0), Name: a.String("test_run_name")}
	if in.ID == 0 && in.Name == "" {
		a.Fail("provide one of: test_run_id, test_run_name")
	}
	return in, nil
}

func (m *Module) decodeAwait(a *registry.Arguments) (monitor.Options, error) {
	def := monitor.DefaultOptions()
	if m.Interval > 0 {
		def.Interval = m.Interval
	}
	if m.Timeout != nil {
		def.Timeout = *m.Timeout
	}
	opts := monitor.Options{
		Interval: a.Seconds("interval", def.Interval),
		Timeout:  a.Seconds("timeout", def.Timeout),
		Sleep:    m.Sleep,
	}
	if a.Has("interval") && opts.Interval == 0 {
		a.Fail("interval must be positive")
	}
	return opts, nil
}

// OnStartTestRun is the handler for start_test_run.
func OnStartTestRun(ctx context.Context, s *session.Session, in StartInput) error {
	if len(in.Ignored) > 0 {
		ctxlog.FromContext(ctx).Warn("Ignoring arguments start_test_run does not use.", "keys", in.Ignored)
	}
	return s.StartTestRun(ctx, in.StartOptions)
}

// OnGetTestRun logs the selected run.
func OnGetTestRun(ctx context.Context, s *session.Session, in GetInput) error {
	run, err := s.GetTestRun(ctx, in.ID, in.Name)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("Test run.",
		"test_run_id", run.ID,
		"test_run_name", run.DisplayName,
		"number", run.Number,
		"state", run.State,
		"success_ratio", run.SuccessRatio,
	)
	return nil
}

// OnAwaitCompletion is the handler for await_completion.
func OnAwaitCompletion(ctx context.Context, s *session.Session, opts monitor.Options) error {
	_, err := s.AwaitCompletion(ctx, opts)
	return err
}

// Register registers the handlers with the registry.
func (m *Module) Register(r *registry.Registry) {
	registry.Register(r, registry.StartTestRun, decodeStart, OnStartTestRun)
	registry.Register(r, registry.GetTestRun, decodeGet, OnGetTestRun)
	registry.Register(r, registry.AwaitCompletion, m.decodeAwait, OnAwaitCompletion)
}
