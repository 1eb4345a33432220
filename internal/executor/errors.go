package executor

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/devicefarm/internal/recipe"
	"github.com/specialistvlad/devicefarm/internal/session"
	"github.com/specialistvlad/devicefarm/internal/testdroid"
)

// ActionNotImplementedError is returned when a task names an action with no
// handler. It aborts the run.
type ActionNotImplementedError struct {
	Action string
	Index  int
}

func (e *ActionNotImplementedError) Error() string {
	return fmt.Sprintf("action not implemented: %q (element %d)", e.Action, e.Index)
}

// DirectiveError is a failure while establishing the project session.
type DirectiveError struct {
	Status recipe.Status
	Err    error
}

func (e *DirectiveError) Error() string {
	return fmt.Sprintf("project directive %q failed: %v", e.Status, e.Err)
}

func (e *DirectiveError) Unwrap() error { return e.Err }

// IsFatal reports whether err must abort the remaining tasks.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var (
		testRunErr   *session.TestRunError
		notImplErr   *ActionNotImplementedError
		recipeErr    *recipe.Error
		directiveErr *DirectiveError
	)
	switch {
	case errors.As(err, &testRunErr),
		errors.As(err, &notImplErr),
		errors.As(err, &recipeErr),
		errors.As(err, &directiveErr):
		return true
	}

	var (
		projectErr   *session.ProjectError
		deviceErr    *session.DeviceError
		frameworkErr *session.FrameworkError
		fileErr      *session.FileError
		apiErr       *testdroid.APIError
	)
	switch {
	case errors.As(err, &projectErr),
		errors.As(err, &deviceErr),
		errors.As(err, &frameworkErr),
		errors.As(err, &fileErr),
		errors.As(err, &apiErr):
		return false
	}
	return true
}
