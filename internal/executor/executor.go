package executor

import (
	"context"
	"errors"
	"time"

	"github.com/specialistvlad/devicefarm/internal/ctxlog"
	"github.com/specialistvlad/devicefarm/internal/metrics"
	"github.com/specialistvlad/devicefarm/internal/recipe"
	"github.com/specialistvlad/devicefarm/internal/registry"
	"github.com/specialistvlad/devicefarm/internal/session"
	"github.com/specialistvlad/devicefarm/internal/testdroid"
)

// Executor runs recipes against one remote farm.
type Executor struct {
	registry *registry.Registry
	api      session.API
	session  *session.Config
	metrics  *metrics.Metrics
}

// Option configures an Executor.
type Option func(*Executor)

// WithSessionConfig sets the configuration every new session receives.
func WithSessionConfig(cfg *session.Config) Option {
	return func(e *Executor) { e.session = cfg }
}

// WithMetrics records task outcomes into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// New creates an executor dispatching through reg against api.
func New(reg *registry.Registry, api session.API, opts ...Option) *Executor {
	e := &Executor{registry: reg, api: api}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes r. Every task is bound before the session is created, so a
// malformed argument anywhere aborts the run before any remote call. The
// returned error is non-nil only when the run aborted; contained task
// failures are listed in the report.
func (e *Executor) Run(ctx context.Context, r *recipe.Recipe) (*Report, error) {
	logger := ctxlog.FromContext(ctx)

	establish, err := bindDirective(r.Directive)
	if err != nil {
		return &Report{Skipped: len(r.Tasks)}, err
	}
	steps, err := e.registry.Plan(r.Tasks)
	if err != nil {
		return &Report{Skipped: len(r.Tasks)}, err
	}
	logger.Debug("Recipe planned.", "directive", r.Directive.Status, "tasks", len(steps))

	s := session.New(e.api, e.session)
	if err := establish(ctx, s); err != nil {
		e.observeRemote(err)
		logger.Error("Project directive failed.", "status", r.Directive.Status, "error", err)
		return &Report{Skipped: len(steps), State: s.State()}, &DirectiveError{Status: r.Directive.Status, Err: err}
	}

	report := &Report{Tasks: make([]TaskResult, 0, len(steps))}
	for i, step := range steps {
		res := e.runStep(ctx, s, step)
		report.Tasks = append(report.Tasks, res)
		if res.Fatal {
			report.Skipped = len(steps) - i - 1
			report.State = s.State()
			return report, res.Err
		}
	}
	report.State = s.State()
	logger.Info("Recipe finished.", "tasks", len(report.Tasks), "failed", len(report.Failed()))
	return report, nil
}

func (e *Executor) runStep(ctx context.Context, s *session.Session, step registry.Step) TaskResult {
	logger := ctxlog.FromContext(ctx).With("action", step.Task.Action, "index", step.Task.Index)
	res := TaskResult{Index: step.Task.Index, Action: step.Task.Action}

	if !step.Implemented() {
		res.Err = &ActionNotImplementedError{Action: step.Task.Action, Index: step.Task.Index}
		res.Fatal = true
		logger.Error("Action not implemented.", "error", res.Err)
		e.metrics.ObserveTask(step.Action.String(), metrics.OutcomeNotImplemented, 0)
		return res
	}

	logger.Info("▶️ Starting task")
	start := time.Now()
	err := step.Handler(ctxlog.WithLogger(ctx, logger), s)
	res.Duration = time.Since(start)

	if err == nil {
		logger.Info("✅ Finished task", "duration", res.Duration)
		e.metrics.ObserveTask(step.Action.String(), metrics.OutcomeSucceeded, res.Duration)
		return res
	}

	res.Err = err
	res.Fatal = IsFatal(err)
	e.observeRemote(err)

	attrs := []any{"error", err}
	if code, ok := testdroid.StatusCode(err); ok {
		attrs = append(attrs, "status_code", code)
	}
	if res.Fatal {
		logger.Error("Task failed, aborting run.", attrs...)
		e.metrics.ObserveTask(step.Action.String(), metrics.OutcomeAborted, res.Duration)
	} else {
		logger.Error("Task failed, continuing.", attrs...)
		e.metrics.ObserveTask(step.Action.String(), metrics.OutcomeFailed, res.Duration)
	}
	return res
}

func (e *Executor) observeRemote(err error) {
	var apiErr *testdroid.APIError
	if errors.As(err, &apiErr) {
		e.metrics.ObserveRemoteError(apiErr.StatusCode)
	}
}
