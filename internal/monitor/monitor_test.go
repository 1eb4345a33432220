package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/specialistvlad/devicefarm/internal/testdroid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock accumulates virtual sleep so tests never block.
type fakeClock struct {
	slept time.Duration
	calls int
}

func (c *fakeClock) sleep(_ context.Context, d time.Duration) error {
	c.slept += d
	c.calls++
	return nil
}

// finishAfter returns a poller whose run reports FINISHED from the n-th call on.
func finishAfter(n int) (PollFunc, *int) {
	calls := 0
	return func(context.Context) (testdroid.TestRun, error) {
		calls++
		state := "RUNNING"
		if calls >= n {
			state = testdroid.StateFinished
		}
		return testdroid.TestRun{ID: 757, DisplayName: "run_a", State: state}, nil
	}, &calls
}

func TestAwait_FinishesBeforeTimeout(t *testing.T) {
	clock := &fakeClock{}
	poll, calls := finishAfter(3)

	res, err := Await(context.Background(), poll, Options{Interval: 10 * time.Second, Timeout: time.Minute, Sleep: clock.sleep})
	require.NoError(t, err)

	assert.False(t, res.TimedOut)
	assert.True(t, res.Run.Finished())
	assert.Equal(t, 20*time.Second, res.Waited)
	assert.Equal(t, 2, clock.calls)
	assert.Equal(t, 4, *calls, "three polls in the loop plus the final fetch")
}

func TestAwait_TimeoutIsAdvisory(t *testing.T) {
	tests := []struct {
		name     string
		interval time.Duration
		timeout  time.Duration
	}{
		{name: "divisible", interval: 30 * time.Second, timeout: 300 * time.Second},
		{name: "not divisible", interval: 7 * time.Second, timeout: 20 * time.Second},
		{name: "interval larger than timeout", interval: time.Minute, timeout: 10 * time.Second},
		{name: "zero budget", interval: time.Second, timeout: time.Nanosecond},
		{name: "explicit zero timeout", interval: time.Second, timeout: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clock := &fakeClock{}
			poll, _ := finishAfter(1 << 30)

			res, err := Await(context.Background(), poll, Options{Interval: tc.interval, Timeout: tc.timeout, Sleep: clock.sleep})
			require.NoError(t, err, "a timeout never raises")

			assert.True(t, res.TimedOut)
			assert.Equal(t, "RUNNING", res.Run.State)
			assert.Greater(t, clock.slept, tc.timeout)
			assert.LessOrEqual(t, clock.slept, tc.timeout+tc.interval)
		})
	}
}

func TestAwait_PollErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	poll := func(context.Context) (testdroid.TestRun, error) { return testdroid.TestRun{}, boom }

	_, err := Await(context.Background(), poll, Options{Interval: time.Second, Sleep: (&fakeClock{}).sleep})
	require.ErrorIs(t, err, boom)
}

func TestAwait_RejectsNonPositiveInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		poll, calls := finishAfter(1)
		_, err := Await(context.Background(), poll, Options{Interval: interval, Timeout: time.Minute})
		require.ErrorIs(t, err, ErrInvalidInterval)
		assert.Zero(t, *calls)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 30*time.Second, opts.Interval)
	assert.Equal(t, 300*time.Second, opts.Timeout)
	assert.Nil(t, opts.Sleep)
}

func TestAwait_ContextCancelStopsSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	poll, _ := finishAfter(1 << 30)

	_, err := Await(ctx, poll, Options{Interval: time.Hour, Timeout: time.Hour})
	require.ErrorIs(t, err, context.Canceled)
}
