package session

import (
	"context"

	"github.com/specialistvlad/devicefarm/internal/ctxlog"
	"github.com/specialistvlad/devicefarm/internal/resolve"
	"github.com/specialistvlad/devicefarm/internal/testdroid"
)

var parameterKeys = resolve.Keys[testdroid.Parameter]{
	ID:   func(p testdroid.Parameter) int64 { return p.ID },
	Name: func(p testdroid.Parameter) string { return p.Key },
}

// SetProjectParameters adds params to the bound project. A key that is
// already set is kept unless forceOverwrite is true, in which case the
// existing parameter is deleted first.
func (s *Session) SetProjectParameters(ctx context.Context, params []testdroid.Parameter, forceOverwrite bool) error {
	logger := ctxlog.FromContext(ctx)
	projectID, err := s.requireProject()
	if err != nil {
		return err
	}

	if forceOverwrite {
		for _, p := range params {
			if err := s.DeleteProjectParameter(ctx, resolve.Name(p.Key)); err != nil {
				return err
			}
		}
	}

	for _, p := range params {
		_, err := s.api.SetProjectParameter(ctx, projectID, p)
		switch {
		case err == nil:
			logger.Info("Set project parameter.", "key", p.Key)
		case testdroid.IsConflict(err):
			logger.Debug("Project parameter already set, skipping.", "key", p.Key, "error", err)
		default:
			return &ProjectError{Kind: ProjectRemote, Name: s.project.Name, StatusCode: statusOf(err), Err: err}
		}
	}
	return nil
}

// DeleteProjectParameter removes a parameter selected by id or key. A key
// that is not set is not an error.
func (s *Session) DeleteProjectParameter(ctx context.Context, spec resolve.Specifier) error {
	logger := ctxlog.FromContext(ctx)
	projectID, err := s.requireProject()
	if err != nil {
		return err
	}

	parameterID, ok := spec.IDValue()
	if !ok {
		params, err := s.api.GetProjectParameters(ctx, projectID)
		if err != nil {
			return err
		}
		p, found, err := resolve.Lookup(spec, params, parameterKeys)
		if err != nil {
			return &ProjectError{Kind: ProjectInvalidArgument, Name: s.project.Name, Err: err}
		}
		if !found {
			logger.Info("Parameter is not set for project, skipping deletion.", "parameter", spec.String())
			return nil
		}
		parameterID = p.ID
	}

	if err := s.api.DeleteProjectParameter(ctx, projectID, parameterID); err != nil {
		return &ProjectError{Kind: ProjectRemote, Name: s.project.Name, StatusCode: statusOf(err), Err: err}
	}
	logger.Info("Deleted project parameter.", "parameter", spec.String(), "parameter_id", parameterID)
	return nil
}
