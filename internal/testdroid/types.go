package testdroid

// StateFinished is the terminal state reported by the farm for a test run.
const StateFinished = "FINISHED"

// User is the authenticated account, as returned by the "me" endpoint.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Project is a remote project record.
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	OSType      string `json:"osType"`
	FrameworkID int64  `json:"frameworkId"`
}

// Framework is a test framework that can be assigned to a project.
type Framework struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	OSType string `json:"osType"`
	Type   string `json:"type"`
}

// DeviceGroup is a named set of devices a run can target.
type DeviceGroup struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	DeviceCount int    `json:"deviceCount"`
	OSType      string `json:"osType"`
	UserID      int64  `json:"userId"`
}

// Device is a single device model available on the farm.
type Device struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	OSType      string `json:"osType"`
}

// File is an input file previously uploaded by the user.
type File struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Direction string `json:"direction"`
}

// Parameter is a project-level key/value test run parameter.
type Parameter struct {
	ID    int64  `json:"id,omitempty"`
	Key   string `json:"key"`
	Value string `json:"value"`
}

// TestRun is a remote execution of a project against a device selection.
type TestRun struct {
	ID           int64   `json:"id"`
	Number       int64   `json:"number"`
	DisplayName  string  `json:"displayName"`
	State        string  `json:"state"`
	SuccessRatio float64 `json:"successRatio"`
}

// Finished reports whether the run reached the terminal state.
func (r TestRun) Finished() bool {
	return r.State == StateFinished
}

// ProjectConfig is the free-form configuration document of a project.
type ProjectConfig map[string]any

// StartRunRequest describes a test run launch.
type StartRunRequest struct {
	ProjectID        int64
	DeviceGroupID    int64
	DeviceIDs        []int64
	Name             string
	AdditionalParams map[string]any
}

// page is the envelope used by every list endpoint.
type page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}
