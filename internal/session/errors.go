package session

import (
	"fmt"

	"github.com/specialistvlad/devicefarm/internal/testdroid"
)

// ProjectErrorKind enumerates ProjectError variants.
type ProjectErrorKind int

const (
	ProjectDuplicateName ProjectErrorKind = iota + 1
	ProjectNotFound
	ProjectNotIdentified
	ProjectInvalidArgument
	ProjectRemote
)

// ProjectError covers project selection, creation and configuration.
type ProjectError struct {
	Kind       ProjectErrorKind
	Name       string
	StatusCode int
	Err        error
}

func (e *ProjectError) Error() string {
	var msg string
	switch e.Kind {
	case ProjectDuplicateName:
		msg = fmt.Sprintf("project name already exists: %q", e.Name)
	case ProjectNotFound:
		msg = fmt.Sprintf("project %s did not correspond to one unique project", e.Name)
	case ProjectNotIdentified:
		msg = "no project is bound to the session"
	case ProjectInvalidArgument:
		msg = "invalid project argument"
	default:
		msg = "project operation failed"
	}
	return wrapMsg(msg, e.StatusCode, e.Err)
}

func (e *ProjectError) Unwrap() error { return e.Err }

// DeviceErrorKind enumerates DeviceError variants.
type DeviceErrorKind int

const (
	DeviceNotFound DeviceErrorKind = iota + 1
	DeviceGroupNotFound
	DeviceNotConfigured
)

// DeviceError covers device and device group selection.
type DeviceError struct {
	Kind     DeviceErrorKind
	Selector string
	Err      error
}

func (e *DeviceError) Error() string {
	var msg string
	switch e.Kind {
	case DeviceNotFound:
		msg = fmt.Sprintf("device %s did not match one device", e.Selector)
	case DeviceGroupNotFound:
		msg = fmt.Sprintf("device group %s did not match one device group", e.Selector)
	default:
		msg = "neither a device nor a device group is set"
	}
	return wrapMsg(msg, 0, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// FrameworkErrorKind enumerates FrameworkError variants.
type FrameworkErrorKind int

const (
	FrameworkNotFound FrameworkErrorKind = iota + 1
	FrameworkRemote
)

// FrameworkError covers framework selection and assignment.
type FrameworkError struct {
	Kind       FrameworkErrorKind
	Selector   string
	StatusCode int
	Err        error
}

func (e *FrameworkError) Error() string {
	msg := fmt.Sprintf("framework %s did not match one framework", e.Selector)
	if e.Kind == FrameworkRemote {
		msg = fmt.Sprintf("could not assign framework %s", e.Selector)
	}
	return wrapMsg(msg, e.StatusCode, e.Err)
}

func (e *FrameworkError) Unwrap() error { return e.Err }

// FileErrorKind enumerates FileError variants.
type FileErrorKind int

const (
	FileUnsupportedType FileErrorKind = iota + 1
	FileNotFoundLocally
	FileUploadFailed
)

// FileError covers local files and uploads.
type FileError struct {
	Kind       FileErrorKind
	Path       string
	FileType   string
	StatusCode int
	Err        error
}

func (e *FileError) Error() string {
	var msg string
	switch e.Kind {
	case FileUnsupportedType:
		msg = fmt.Sprintf("unsupported file type: %q", e.FileType)
	case FileNotFoundLocally:
		msg = fmt.Sprintf("failed to locate on disk: %s", e.Path)
	default:
		msg = fmt.Sprintf("upload of %s failed", e.Path)
	}
	return wrapMsg(msg, e.StatusCode, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// TestRunErrorKind enumerates TestRunError variants.
type TestRunErrorKind int

const (
	TestRunDuplicateName TestRunErrorKind = iota + 1
	TestRunInvalidID
	TestRunRemote
)

// TestRunError invalidates the rest of a recipe; the dispatcher treats it as fatal.
type TestRunError struct {
	Kind       TestRunErrorKind
	RunID      int64
	Name       string
	StatusCode int
	Err        error
}

func (e *TestRunError) Error() string {
	var msg string
	switch e.Kind {
	case TestRunDuplicateName:
		msg = fmt.Sprintf("test run name is not unique: %q", e.Name)
	case TestRunInvalidID:
		msg = "test run id could not be determined"
		if e.Name != "" {
			msg = fmt.Sprintf("no test run id for %q", e.Name)
		}
	default:
		msg = fmt.Sprintf("fetching test run %d failed", e.RunID)
	}
	return wrapMsg(msg, e.StatusCode, e.Err)
}

func (e *TestRunError) Unwrap() error { return e.Err }

func wrapMsg(msg string, status int, err error) string {
	if status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, status)
	}
	if err != nil {
		msg += ": " + err.Error()
	}
	return msg
}

func statusOf(err error) int {
	code, _ := testdroid.StatusCode(err)
	return code
}
