package executor

import (
	"time"

	"github.com/specialistvlad/devicefarm/internal/session"
)

// TaskResult is the outcome of one task. Err is nil on success.
type TaskResult struct {
	Index    int
	Action   string
	Err      error
	Fatal    bool
	Duration time.Duration
}

// Report describes a finished or aborted run.
type Report struct {
	Tasks []TaskResult
	// Skipped counts tasks not reached because the run aborted.
	Skipped int
	State   session.State
}

// Failed returns the results that carry an error.
func (r *Report) Failed() []TaskResult {
	var out []TaskResult
	for _, t := range r.Tasks {
		if t.Err != nil {
			out = append(out, t)
		}
	}
	return out
}
