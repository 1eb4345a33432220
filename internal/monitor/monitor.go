// Package monitor waits for a started test run to reach its terminal state.
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/specialistvlad/devicefarm/internal/ctxlog"
	"github.com/specialistvlad/devicefarm/internal/testdroid"
)

const (
	DefaultInterval = 30 * time.Second
	DefaultTimeout  = 300 * time.Second
)

// ErrInvalidInterval is returned for a non-positive poll interval.
var ErrInvalidInterval = errors.New("monitor: poll interval must be positive")

// PollFunc fetches the current state of the watched run.
type PollFunc func(ctx context.Context) (testdroid.TestRun, error)

// SleepFunc blocks for d. It returns early only if ctx is done; the CLI
// cancels ctx on SIGINT or SIGTERM and nothing else does.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options tune a wait. Interval must be positive. A zero Timeout is a real
// budget: one poll, one sleep, then the final fetch. A nil Sleep uses the
// wall clock.
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
	Sleep    SleepFunc
}

// DefaultOptions returns the 30s interval and 300s timeout.
func DefaultOptions() Options {
	return Options{Interval: DefaultInterval, Timeout: DefaultTimeout}
}

// Result is the outcome of a wait. A timeout is reported, never returned as
// an error.
type Result struct {
	Run      testdroid.TestRun
	Waited   time.Duration
	TimedOut bool
}

// Await polls every Interval until the run is finished or the accumulated
// wait exceeds Timeout, then fetches the final state once more. It returns
// within Timeout+Interval of accumulated sleep. The only early exit is ctx
// being done, which happens on a process signal.
func Await(ctx context.Context, poll PollFunc, opts Options) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	if opts.Sleep == nil {
		opts.Sleep = sleep
	}
	if opts.Interval <= 0 {
		return Result{}, ErrInvalidInterval
	}

	var waited time.Duration
	finished := false
	for waited <= opts.Timeout {
		run, err := poll(ctx)
		if err != nil {
			return Result{Waited: waited}, err
		}
		if run.Finished() {
			finished = true
			break
		}
		if err := opts.Sleep(ctx, opts.Interval); err != nil {
			return Result{Run: run, Waited: waited}, err
		}
		waited += opts.Interval
		logger.Debug("Checking test run state.", "run", run.DisplayName, "state", run.State, "waited", waited)
	}

	run, err := poll(ctx)
	if err != nil {
		return Result{Waited: waited}, err
	}

	res := Result{Run: run, Waited: waited, TimedOut: !finished && !run.Finished()}
	if res.TimedOut {
		logger.Warn("Test run did not complete before timeout.", "timeout", opts.Timeout, "state", run.State)
	}
	return res, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
