package session

import (
	"context"
	"errors"

	"github.com/specialistvlad/devicefarm/internal/ctxlog"
	"github.com/specialistvlad/devicefarm/internal/monitor"
	"github.com/specialistvlad/devicefarm/internal/resolve"
	"github.com/specialistvlad/devicefarm/internal/testdroid"
)

// StartOptions describe a test run launch. Project, Group and Device are
// bound first when the session has none yet.
type StartOptions struct {
	Name             string
	Project          resolve.Specifier
	Group            resolve.Specifier
	Device           resolve.Specifier
	AdditionalParams map[string]any
}

// StartTestRun launches a run of the bound project on the bound device
// group or device. The run name must not be used by any earlier run.
func (s *Session) StartTestRun(ctx context.Context, opts StartOptions) error {
	logger := ctxlog.FromContext(ctx)

	if s.project == nil && !opts.Project.IsZero() {
		if err := s.UseExistingProject(ctx, resolve.Of(opts.Project)); err != nil {
			return err
		}
	}
	if s.deviceGroup == nil && !opts.Group.IsZero() {
		if err := s.SetDeviceGroup(ctx, resolve.Of(opts.Group)); err != nil {
			return err
		}
	}
	if s.device == nil && !opts.Device.IsZero() {
		if err := s.SetDevice(ctx, resolve.Of(opts.Device)); err != nil {
			return err
		}
	}

	projectID, err := s.requireProject()
	if err != nil {
		return err
	}
	if s.deviceGroup == nil && s.device == nil {
		return &DeviceError{Kind: DeviceNotConfigured}
	}

	name := opts.Name
	if name == "" {
		name = s.cfg.NewRunName()
		logger.Warn("Test run name was not given; generated one.", "name", name)
	}

	runs, err := s.api.GetProjectTestRuns(ctx, projectID)
	if err != nil {
		return err
	}
	for _, r := range runs {
		if r.DisplayName == name {
			return &TestRunError{Kind: TestRunDuplicateName, Name: name}
		}
	}

	req := testdroid.StartRunRequest{
		ProjectID:        projectID,
		Name:             name,
		AdditionalParams: opts.AdditionalParams,
	}
	if s.deviceGroup != nil {
		req.DeviceGroupID = s.deviceGroup.ID
	}
	if s.device != nil {
		req.DeviceIDs = []int64{s.device.ID}
	}

	runID, err := s.api.StartTestRun(ctx, req)
	if err != nil {
		return err
	}
	if runID == 0 {
		return &TestRunError{Kind: TestRunInvalidID, Name: name}
	}
	bind(&s.testRun, runID, name)
	s.advance(Started)

	logger.Info("Started test run.", "test_run_id", runID, "test_run_name", name)
	return nil
}

// GetTestRun fetches a run of the bound project by id, or by name when id is zero.
func (s *Session) GetTestRun(ctx context.Context, id int64, name string) (testdroid.TestRun, error) {
	projectID, err := s.requireProject()
	if err != nil {
		return testdroid.TestRun{}, err
	}

	if name != "" {
		runs, err := s.api.GetProjectTestRuns(ctx, projectID)
		if err != nil {
			return testdroid.TestRun{}, &TestRunError{Kind: TestRunRemote, Name: name, StatusCode: statusOf(err), Err: err}
		}
		for _, r := range runs {
			if r.DisplayName == name {
				id = r.ID
				break
			}
		}
	}
	if id <= 0 {
		return testdroid.TestRun{}, &TestRunError{Kind: TestRunInvalidID, Name: name}
	}

	run, err := s.api.GetTestRun(ctx, projectID, id)
	if err != nil {
		return testdroid.TestRun{}, &TestRunError{Kind: TestRunRemote, RunID: id, StatusCode: statusOf(err), Err: err}
	}
	return run, nil
}

// AwaitCompletion blocks until the started run finishes or the monitor's
// timeout elapses, then logs a summary. A timeout is not an error.
func (s *Session) AwaitCompletion(ctx context.Context, opts monitor.Options) (monitor.Result, error) {
	if s.testRun == nil {
		return monitor.Result{}, &TestRunError{Kind: TestRunInvalidID, Err: errors.New("no test run was started")}
	}
	runID := s.testRun.ID

	res, err := monitor.Await(ctx, func(ctx context.Context) (testdroid.TestRun, error) {
		return s.GetTestRun(ctx, runID, "")
	}, opts)
	if err != nil {
		return res, err
	}
	s.advance(Terminal)
	s.logSummary(ctx, res)
	return res, nil
}

func (s *Session) logSummary(ctx context.Context, res monitor.Result) {
	args := []any{
		"test_run_name", s.testRun.Name,
		"state", res.Run.State,
		"success_ratio", res.Run.SuccessRatio,
		"timed_out", res.TimedOut,
	}
	if s.project != nil {
		args = append(args, "project_name", s.project.Name)
	}
	if s.framework != nil {
		args = append(args, "framework_name", s.framework.Name)
	}
	if s.deviceGroup != nil {
		args = append(args, "device_group_name", s.deviceGroup.Name)
	}
	if s.device != nil {
		args = append(args, "device_name", s.device.Name)
	}
	ctxlog.FromContext(ctx).Info("Test run summary.", args...)
}
