package testutil

import (
	"context"
	"maps"
	"net/http"
	"path/filepath"
	"slices"
	"sync"

	"github.com/specialistvlad/devicefarm/internal/testdroid"
)

// FakeFarm is an in-memory device farm. It is seeded with a fixed set of
// projects, device groups, devices, parameters and test runs, and counts
// every call so tests can assert on remote writes.
type FakeFarm struct {
	mu sync.Mutex

	Me           testdroid.User
	Projects     []testdroid.Project
	Frameworks   []testdroid.Framework
	DeviceGroups []testdroid.DeviceGroup
	Devices      []testdroid.Device
	Files        []testdroid.File
	Parameters   []testdroid.Parameter
	Configs      map[int64]testdroid.ProjectConfig
	Runs         []testdroid.TestRun

	// Started records every accepted StartTestRun request.
	Started []testdroid.StartRunRequest
	// FrameworkSet maps project id to the last framework assigned to it.
	FrameworkSet map[int64]int64
	// Uploads records the API path of every upload.
	Uploads []string

	// PollsToFinish, when positive, makes GetTestRun report a run as
	// FINISHED from that many polls on.
	PollsToFinish int
	// DropUploads accepts uploads without listing the file afterwards.
	DropUploads bool
	// Fail injects an error returned by the named method.
	Fail map[string]error

	calls  map[string]int
	polls  map[int64]int
	nextID int64
}

// NewFakeFarm returns a farm holding the standard fixture data.
func NewFakeFarm() *FakeFarm {
	return &FakeFarm{
		Me: testdroid.User{ID: 1, Name: "Mock User"},
		Projects: []testdroid.Project{
			{ID: 11, Name: "mock_project", Type: "mock_type", OSType: "mock_type", FrameworkID: 99},
			{ID: 99, Name: "another_mock_project", Type: "second_mock_type", OSType: "second_mock_type", FrameworkID: 88},
			{ID: 10000, Name: "yet_another_mock_project", Type: "third_mock_type", OSType: "third_mock_type", FrameworkID: 12345},
			{ID: 99999, Name: "mock_project_4", Type: "fourth_mock_type", OSType: "fourth_mock_type", FrameworkID: 12345},
		},
		Frameworks: []testdroid.Framework{
			{ID: 1, Name: "mock_framework"},
			{ID: 100, Name: "another_mock_framework"},
			{ID: 2, Name: "mock_unicode_framework"},
		},
		DeviceGroups: []testdroid.DeviceGroup{
			{ID: 7070, DisplayName: "mock_device_group", DeviceCount: 20, OSType: "mock_os", UserID: 8080},
			{ID: 7171, DisplayName: "second_mock_group", DeviceCount: 10, OSType: "different_mock_os", UserID: 8080},
		},
		Devices: []testdroid.Device{
			{ID: 707, DisplayName: "mock_device_1", OSType: "mock_os"},
			{ID: 717, DisplayName: "mock_device_2", OSType: "mock_os"},
			{ID: 727, DisplayName: "mock_device_3", OSType: "mock_os"},
		},
		Files: []testdroid.File{
			{ID: 1, Name: "mock_file.zip", Direction: "INPUT"},
			{ID: 2, Name: "mocked_application_file.apk", Direction: "INPUT"},
			{ID: 3, Name: "mocked_unicode_file.apk", Direction: "INPUT"},
		},
		Parameters: []testdroid.Parameter{
			{ID: 319, Key: "mock_project_parameter_1", Value: "mock_value_1"},
			{ID: 320, Key: "mock_project_parameter_2", Value: "mock_value_2"},
			{ID: 321, Key: "mock_project_parameter_3", Value: "mock_value_3"},
		},
		Configs: map[int64]testdroid.ProjectConfig{},
		Runs: []testdroid.TestRun{
			{ID: 757, Number: 8, DisplayName: "mock_test_run_1"},
			{ID: 767, Number: 9, DisplayName: "mock_test_run_2"},
			{ID: 777, Number: 10, DisplayName: "mock_test_run_3"},
		},
		FrameworkSet: map[int64]int64{},
		Fail:         map[string]error{},
		calls:        map[string]int{},
		polls:        map[int64]int{},
		nextID:       1000,
	}
}

// Calls returns how many times the named method was invoked.
func (f *FakeFarm) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// enter records a call and returns the injected failure, if any. The caller
// must hold f.mu.
func (f *FakeFarm) enter(method string) error {
	f.calls[method]++
	return f.Fail[method]
}

func (f *FakeFarm) id() int64 {
	f.nextID++
	return f.nextID
}

func apiErr(status int, method, path string) error {
	return &testdroid.APIError{StatusCode: status, Method: method, Path: path, Message: "mock"}
}

func (f *FakeFarm) GetMe(context.Context) (testdroid.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetMe"); err != nil {
		return testdroid.User{}, err
	}
	return f.Me, nil
}

func (f *FakeFarm) GetProjects(context.Context) ([]testdroid.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetProjects"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Projects), nil
}

func (f *FakeFarm) GetProject(_ context.Context, projectID int64) (testdroid.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetProject"); err != nil {
		return testdroid.Project{}, err
	}
	for _, p := range f.Projects {
		if p.ID == projectID {
			return p, nil
		}
	}
	return testdroid.Project{}, apiErr(http.StatusNotFound, http.MethodGet, "/me/projects")
}

func (f *FakeFarm) CreateProject(_ context.Context, name, projectType string) (testdroid.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateProject"); err != nil {
		return testdroid.Project{}, err
	}
	p := testdroid.Project{ID: f.id(), Name: name, Type: projectType, OSType: projectType}
	f.Projects = append(f.Projects, p)
	return p, nil
}

func (f *FakeFarm) GetFrameworks(context.Context) ([]testdroid.Framework, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetFrameworks"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Frameworks), nil
}

func (f *FakeFarm) SetProjectFramework(_ context.Context, projectID, frameworkID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("SetProjectFramework"); err != nil {
		return err
	}
	f.FrameworkSet[projectID] = frameworkID
	return nil
}

func (f *FakeFarm) GetDeviceGroups(context.Context) ([]testdroid.DeviceGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetDeviceGroups"); err != nil {
		return nil, err
	}
	return slices.Clone(f.DeviceGroups), nil
}

func (f *FakeFarm) GetDevices(context.Context) ([]testdroid.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetDevices"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Devices), nil
}

func (f *FakeFarm) GetInputFiles(context.Context) ([]testdroid.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetInputFiles"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Files), nil
}

func (f *FakeFarm) Upload(_ context.Context, path, filename string) (testdroid.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("Upload"); err != nil {
		return testdroid.File{}, err
	}
	f.Uploads = append(f.Uploads, path)
	file := testdroid.File{ID: f.id(), Name: filepath.Base(filename), Direction: "INPUT"}
	if !f.DropUploads {
		f.Files = append(f.Files, file)
	}
	return file, nil
}

func (f *FakeFarm) GetProjectParameters(_ context.Context, _ int64) ([]testdroid.Parameter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetProjectParameters"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Parameters), nil
}

// SetProjectParameter answers 400 for the key "unacceptable_key" and 409 for
// a key that is already set.
func (f *FakeFarm) SetProjectParameter(_ context.Context, _ int64, p testdroid.Parameter) (testdroid.Parameter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	const path = "/me/projects/config/parameters"
	if err := f.enter("SetProjectParameter"); err != nil {
		return testdroid.Parameter{}, err
	}
	if p.Key == "unacceptable_key" {
		return testdroid.Parameter{}, apiErr(http.StatusBadRequest, http.MethodPost, path)
	}
	for _, existing := range f.Parameters {
		if existing.Key == p.Key {
			return testdroid.Parameter{}, apiErr(http.StatusConflict, http.MethodPost, path)
		}
	}
	p.ID = f.id()
	f.Parameters = append(f.Parameters, p)
	return p, nil
}

func (f *FakeFarm) DeleteProjectParameter(_ context.Context, _ int64, parameterID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteProjectParameter"); err != nil {
		return err
	}
	i := slices.IndexFunc(f.Parameters, func(p testdroid.Parameter) bool { return p.ID == parameterID })
	if i < 0 {
		return apiErr(http.StatusNotFound, http.MethodDelete, "/me/projects/config/parameters")
	}
	f.Parameters = slices.Delete(f.Parameters, i, i+1)
	return nil
}

// GetProjectConfig returns the stored config, seeded with defaults on first use.
func (f *FakeFarm) GetProjectConfig(_ context.Context, projectID int64) (testdroid.ProjectConfig, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetProjectConfig"); err != nil {
		return nil, err
	}
	return maps.Clone(f.config(projectID)), nil
}

func (f *FakeFarm) SetProjectConfig(_ context.Context, projectID int64, values map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("SetProjectConfig"); err != nil {
		return err
	}
	maps.Copy(f.config(projectID), values)
	return nil
}

func (f *FakeFarm) config(projectID int64) testdroid.ProjectConfig {
	c, ok := f.Configs[projectID]
	if !ok {
		c = testdroid.ProjectConfig{
			"projectId": float64(projectID),
			"scheduler": "PARALLEL",
			"timeout":   float64(600),
		}
		f.Configs[projectID] = c
	}
	return c
}

func (f *FakeFarm) GetProjectTestRuns(_ context.Context, _ int64) ([]testdroid.TestRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetProjectTestRuns"); err != nil {
		return nil, err
	}
	return slices.Clone(f.Runs), nil
}

func (f *FakeFarm) GetTestRun(_ context.Context, _ int64, runID int64) (testdroid.TestRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetTestRun"); err != nil {
		return testdroid.TestRun{}, err
	}
	i := slices.IndexFunc(f.Runs, func(r testdroid.TestRun) bool { return r.ID == runID })
	if i < 0 {
		return testdroid.TestRun{}, apiErr(http.StatusNotFound, http.MethodGet, "/me/projects/runs")
	}
	f.polls[runID]++
	if f.PollsToFinish > 0 && f.polls[runID] >= f.PollsToFinish {
		f.Runs[i].State = testdroid.StateFinished
		f.Runs[i].SuccessRatio = 1
	}
	return f.Runs[i], nil
}

// StartTestRun appends a RUNNING run and returns its id.
func (f *FakeFarm) StartTestRun(_ context.Context, req testdroid.StartRunRequest) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("StartTestRun"); err != nil {
		return 0, err
	}
	if req.DeviceGroupID == 0 && len(req.DeviceIDs) == 0 {
		return 0, apiErr(http.StatusBadRequest, http.MethodPost, "/me/runs")
	}
	run := testdroid.TestRun{ID: f.id(), Number: int64(len(f.Runs) + 8), DisplayName: req.Name, State: "RUNNING"}
	f.Runs = append(f.Runs, run)
	f.Started = append(f.Started, req)
	return run.ID, nil
}
