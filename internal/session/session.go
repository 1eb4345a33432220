package session

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/specialistvlad/devicefarm/internal/testdroid"
)

// API is the capability set the session needs from the remote farm.
// *testdroid.Client implements it.
type API interface {
	GetMe(ctx context.Context) (testdroid.User, error)
	GetProjects(ctx context.Context) ([]testdroid.Project, error)
	GetProject(ctx context.Context, projectID int64) (testdroid.Project, error)
	CreateProject(ctx context.Context, name, projectType string) (testdroid.Project, error)
	GetFrameworks(ctx context.Context) ([]testdroid.Framework, error)
	SetProjectFramework(ctx context.Context, projectID, frameworkID int64) error
	GetDeviceGroups(ctx context.Context) ([]testdroid.DeviceGroup, error)
	GetDevices(ctx context.Context) ([]testdroid.Device, error)
	GetInputFiles(ctx context.Context) ([]testdroid.File, error)
	Upload(ctx context.Context, path, filename string) (testdroid.File, error)
	GetProjectParameters(ctx context.Context, projectID int64) ([]testdroid.Parameter, error)
	SetProjectParameter(ctx context.Context, projectID int64, p testdroid.Parameter) (testdroid.Parameter, error)
	DeleteProjectParameter(ctx context.Context, projectID, parameterID int64) error
	GetProjectConfig(ctx context.Context, projectID int64) (testdroid.ProjectConfig, error)
	SetProjectConfig(ctx context.Context, projectID int64, values map[string]any) error
	GetProjectTestRuns(ctx context.Context, projectID int64) ([]testdroid.TestRun, error)
	GetTestRun(ctx context.Context, projectID, runID int64) (testdroid.TestRun, error)
	StartTestRun(ctx context.Context, req testdroid.StartRunRequest) (int64, error)
}

var _ API = (*testdroid.Client)(nil)

// Config tunes session behavior.
type Config struct {
	// FileTypes lists the accepted upload kinds.
	FileTypes []string
	// NewRunName generates a name when start_test_run is given none.
	NewRunName func() string
}

// DefaultConfig returns the farm's upload kinds and UUID run names.
func DefaultConfig() Config {
	return Config{
		FileTypes:  []string{"application", "test", "data"},
		NewRunName: uuid.NewString,
	}
}

// Phase is the lifecycle position of a session. It only moves forward.
type Phase int

const (
	Uninitialized Phase = iota
	Identified
	Configured
	Started
	Terminal
)

func (p Phase) String() string {
	switch p {
	case Identified:
		return "identified"
	case Configured:
		return "configured"
	case Started:
		return "started"
	case Terminal:
		return "terminal"
	default:
		return "uninitialized"
	}
}

// Ref is an id and a name taken from one resolved remote record.
type Ref struct {
	ID   int64
	Name string
}

// ProjectRef is the bound project.
type ProjectRef struct {
	ID   int64
	Name string
	Type string
}

// State is a snapshot of a session. A nil reference is unset.
type State struct {
	Phase       Phase
	Project     *ProjectRef
	DeviceGroup *Ref
	Device      *Ref
	Framework   *Ref
	TestRun     *Ref
}

// Session models one remote project across one recipe run. It is owned by a
// single dispatcher and is not safe for concurrent use.
type Session struct {
	api API
	cfg Config

	phase       Phase
	project     *ProjectRef
	deviceGroup *Ref
	device      *Ref
	framework   *Ref
	testRun     *Ref
	userID      *int64
}

// New returns an uninitialized session. cfg may be nil for DefaultConfig.
func New(api API, cfg *Config) *Session {
	c := DefaultConfig()
	if cfg != nil {
		if len(cfg.FileTypes) > 0 {
			c.FileTypes = slices.Clone(cfg.FileTypes)
		}
		if cfg.NewRunName != nil {
			c.NewRunName = cfg.NewRunName
		}
	}
	return &Session{api: api, cfg: c}
}

// State returns a copy of the current session state.
func (s *Session) State() State {
	st := State{Phase: s.phase}
	if s.project != nil {
		p := *s.project
		st.Project = &p
	}
	st.DeviceGroup = cloneRef(s.deviceGroup)
	st.Device = cloneRef(s.device)
	st.Framework = cloneRef(s.framework)
	st.TestRun = cloneRef(s.testRun)
	return st
}

// bind sets both halves of a reference from one record in a single step.
func bind(slot **Ref, id int64, name string) {
	*slot = &Ref{ID: id, Name: name}
}

func (s *Session) bindProject(p testdroid.Project) {
	s.project = &ProjectRef{ID: p.ID, Name: p.Name, Type: p.Type}
	s.advance(Identified)
}

func (s *Session) advance(p Phase) {
	if p > s.phase {
		s.phase = p
	}
}

func (s *Session) requireProject() (int64, error) {
	if s.project == nil {
		return 0, &ProjectError{Kind: ProjectNotIdentified}
	}
	return s.project.ID, nil
}

func cloneRef(r *Ref) *Ref {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
