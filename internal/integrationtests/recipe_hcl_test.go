package integration_tests

import (
	"testing"

	"github.com/specialistvlad/devicefarm/internal/executor"
	"github.com/specialistvlad/devicefarm/internal/session"
	"github.com/specialistvlad/devicefarm/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHCLRecipe_ExistingProjectToFinishedRun drives a full recipe written in
// HCL from project selection to a finished test run.
func TestHCLRecipe_ExistingProjectToFinishedRun(t *testing.T) {
	// --- Arrange ---
	recipeHCL := `
project "existing" {
  arguments {
    project_id = 11
  }
}

action "set_project_framework" {
  arguments = { framework = "mock_framework" }
}

action "set_device" {
  arguments = { device = "mock_device_1" }
}

action "set_project_parameters" {
  arguments = {
    parameters = [{ key = "build", value = env("BUILD_ID", "local") }]
  }
}

action "start_test_run" {
  arguments = { name = "nightly" }
}

action "await_completion" {
  arguments = { interval = 1, timeout = 5 }
}
`
	farm := testutil.NewFakeFarm()
	farm.PollsToFinish = 1

	// --- Act ---
	result := testutil.RunRecipe(t, "recipe.hcl", recipeHCL, farm)

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertTaskRan(t, result, "set_project_framework", 1)
	testutil.AssertTaskRan(t, result, "set_device", 2)
	testutil.AssertTaskRan(t, result, "start_test_run", 4)
	testutil.AssertTaskRan(t, result, "await_completion", 5)

	require.Len(t, farm.Started, 1)
	assert.Equal(t, "nightly", farm.Started[0].Name)
	assert.Equal(t, []int64{707}, farm.Started[0].DeviceIDs)
	assert.Contains(t, result.LogOutput, "phase=terminal")
}

// TestHCLRecipe_ContainedFailureKeepsGoing checks that a missing device is
// logged and the recipe carries on.
func TestHCLRecipe_ContainedFailureKeepsGoing(t *testing.T) {
	// --- Arrange ---
	recipeHCL := `
project "existing" {
  arguments = { project_name = "mock_project" }
}
action "set_device" {
  arguments = { device = "no_such_device" }
}
action "set_device_group" {
  arguments = { group_id = 7070 }
}
action "start_test_run" {
  arguments = { name = "after_failure" }
}
`
	farm := testutil.NewFakeFarm()

	// --- Act ---
	result := testutil.RunRecipe(t, "recipe.hcl", recipeHCL, farm)

	// --- Assert ---
	require.NoError(t, result.Err)
	testutil.AssertTaskFailed(t, result, "set_device", 1)
	testutil.AssertTaskRan(t, result, "start_test_run", 3)
	require.Len(t, farm.Started, 1)
	assert.Equal(t, int64(7070), farm.Started[0].DeviceGroupID)
}

// TestHCLRecipe_UnknownActionAborts checks that an unimplemented action
// stops the run at its position.
func TestHCLRecipe_UnknownActionAborts(t *testing.T) {
	// --- Arrange ---
	recipeHCL := `
project "existing" {
  arguments = { project_id = 11 }
}
action "set_device" {
  arguments = { device = 707 }
}
action "reboot_device" {
  arguments = {}
}
action "start_test_run" {
  arguments = { name = "never" }
}
`
	farm := testutil.NewFakeFarm()

	// --- Act ---
	result := testutil.RunRecipe(t, "recipe.hcl", recipeHCL, farm)

	// --- Assert ---
	var nerr *executor.ActionNotImplementedError
	require.ErrorAs(t, result.Err, &nerr)
	assert.Equal(t, "reboot_device", nerr.Action)
	testutil.AssertTaskRan(t, result, "set_device", 1)
	assert.Zero(t, farm.Calls("StartTestRun"))
}

// TestHCLRecipe_ParseErrorFailsBeforeRemoteCalls checks that a malformed file
// never reaches the farm.
func TestHCLRecipe_ParseErrorFailsBeforeRemoteCalls(t *testing.T) {
	farm := testutil.NewFakeFarm()
	result := testutil.RunRecipe(t, "recipe.hcl", `project "existing" {`, farm)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "failed to load recipe")
	assert.Zero(t, farm.Calls("GetMe"))
}

// TestHCLRecipe_DuplicateRunNameIsFatal checks that reusing a run name aborts.
func TestHCLRecipe_DuplicateRunNameIsFatal(t *testing.T) {
	recipeHCL := `
project "existing" {
  arguments = { project_id = 11 }
}
action "set_device" {
  arguments = { device = "mock_device_1" }
}
action "start_test_run" {
  arguments = { name = "mock_test_run_1" }
}
`
	farm := testutil.NewFakeFarm()
	result := testutil.RunRecipe(t, "recipe.hcl", recipeHCL, farm)

	var terr *session.TestRunError
	require.ErrorAs(t, result.Err, &terr)
	assert.Equal(t, session.TestRunDuplicateName, terr.Kind)
	testutil.AssertTaskFailed(t, result, "start_test_run", 2)
}
