package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"reflect"

	"github.com/specialistvlad/devicefarm/internal/ctxlog"
	"github.com/specialistvlad/devicefarm/internal/resolve"
	"github.com/specialistvlad/devicefarm/internal/testdroid"
)

var projectKeys = resolve.Keys[testdroid.Project]{
	ID:   func(p testdroid.Project) int64 { return p.ID },
	Name: func(p testdroid.Project) string { return p.Name },
}

// CreateProject creates a remote project and binds it. Unless
// permitDuplicate is set, an existing project with the same name is an error.
func (s *Session) CreateProject(ctx context.Context, name, projectType string, permitDuplicate bool) error {
	logger := ctxlog.FromContext(ctx)
	if name == "" || projectType == "" {
		return &ProjectError{Kind: ProjectInvalidArgument, Err: errors.New("project_name and project_type are required")}
	}

	if !permitDuplicate {
		existing, err := s.api.GetProjects(ctx)
		if err != nil {
			return err
		}
		for _, p := range existing {
			if p.Name == name {
				return &ProjectError{Kind: ProjectDuplicateName, Name: name}
			}
		}
	}

	p, err := s.api.CreateProject(ctx, name, projectType)
	if err != nil {
		return &ProjectError{Kind: ProjectRemote, Name: name, StatusCode: statusOf(err), Err: err}
	}
	s.bindProject(p)
	logger.Info("Created project.", "project_id", p.ID, "project_name", p.Name, "project_type", p.Type)
	return nil
}

// UseExistingProject binds the session to a project already on the farm.
func (s *Session) UseExistingProject(ctx context.Context, sel resolve.Selector) error {
	logger := ctxlog.FromContext(ctx)
	if sel.IsZero() {
		return &ProjectError{Kind: ProjectInvalidArgument, Err: errors.New("provide one of: project_name, project_id")}
	}

	projects, err := s.api.GetProjects(ctx)
	if err != nil {
		return err
	}
	p, note, err := resolve.Select(sel, projects, projectKeys)
	if err != nil {
		return &ProjectError{Kind: ProjectNotFound, Name: sel.String(), Err: err}
	}
	logNote(ctx, note, "project", sel, p.ID, p.Name)

	s.bindProject(p)
	logger.Info("Using existing project.", "project_id", p.ID, "project_name", p.Name)
	return nil
}

// ProjectConfig fetches the bound project's configuration.
func (s *Session) ProjectConfig(ctx context.Context) (testdroid.ProjectConfig, error) {
	projectID, err := s.requireProject()
	if err != nil {
		return nil, err
	}
	return s.api.GetProjectConfig(ctx, projectID)
}

// SetProjectConfig writes the entries of values (or of the JSON object stored
// at path) that differ from the remote configuration.
func (s *Session) SetProjectConfig(ctx context.Context, values map[string]any, path string) error {
	logger := ctxlog.FromContext(ctx)
	projectID, err := s.requireProject()
	if err != nil {
		return err
	}
	if len(values) == 0 && path == "" {
		return &ProjectError{Kind: ProjectInvalidArgument, Err: errors.New("neither new_values nor path is set")}
	}

	wanted := maps.Clone(values)
	if len(wanted) == 0 {
		wanted, err = loadConfigFile(path)
		if err != nil {
			return err
		}
	}

	current, err := s.api.GetProjectConfig(ctx, projectID)
	if err != nil {
		return err
	}
	maps.DeleteFunc(wanted, func(k string, v any) bool {
		cur, ok := current[k]
		return ok && sameValue(cur, v)
	})
	if len(wanted) == 0 {
		logger.Info("No project configuration values need to be updated.")
		return nil
	}

	if err := s.api.SetProjectConfig(ctx, projectID, wanted); err != nil {
		return &ProjectError{Kind: ProjectRemote, Name: s.project.Name, StatusCode: statusOf(err), Err: err}
	}
	logger.Info("Updated project configuration.", "keys", len(wanted))
	return nil
}

func loadConfigFile(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Kind: FileNotFoundLocally, Path: path, Err: err}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &ProjectError{Kind: ProjectInvalidArgument, Err: fmt.Errorf("%s: loaded config is not a JSON object: %w", path, err)}
	}
	return out, nil
}

// sameValue compares a decoded recipe value with a decoded JSON value, where
// numbers may differ only in their Go type.
func sameValue(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func logNote(ctx context.Context, note resolve.Note, what string, sel resolve.Selector, id int64, name string) {
	logger := ctxlog.FromContext(ctx)
	switch note {
	case resolve.NameMismatch:
		logger.Warn("Supplied name does not match the record selected by id; using id.", "resource", what, "selector", sel.String(), "id", id, "name", name)
	case resolve.IDMismatch:
		logger.Warn("Supplied id matched nothing; using the record selected by name.", "resource", what, "selector", sel.String(), "id", id, "name", name)
	}
}
