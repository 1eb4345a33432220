package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertTaskRan checks the log output for the completion record of the task
// at index running action.
func AssertTaskRan(t *testing.T, result *HarnessResult, action string, index int) {
	t.Helper()
	require.True(t, hasTaskLine(result.LogOutput, "Finished task", action, index),
		"expected a completion record for %s at index %d", action, index)
}

// AssertTaskFailed checks the log output for a failure record of the task at
// index running action.
func AssertTaskFailed(t *testing.T, result *HarnessResult, action string, index int) {
	t.Helper()
	require.True(t, hasTaskLine(result.LogOutput, "Task failed", action, index),
		"expected a failure record for %s at index %d", action, index)
}

func hasTaskLine(logs, msg, action string, index int) bool {
	attrs := fmt.Sprintf("action=%s index=%d", action, index)
	for _, line := range strings.Split(logs, "\n") {
		if strings.Contains(line, msg) && strings.Contains(line, attrs) {
			return true
		}
	}
	return false
}
