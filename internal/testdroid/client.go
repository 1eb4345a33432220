package testdroid

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"resty.dev/v3"
)

// DefaultTimeout bounds a single round trip when Config.Timeout is unset.
const DefaultTimeout = 60 * time.Second

// oauthClientID is the public client id the farm expects for password grants.
const oauthClientID = "testdroid-cloud-api"

// Config holds the connection settings for one farm account. It is built once
// by the credentials layer and passed by pointer to New.
type Config struct {
	URL      string
	Username string
	Password string
	APIKey   string
	Timeout  time.Duration
}

// ErrMissingURL and ErrMissingCredentials describe an unusable Config.
var (
	ErrMissingURL         = errors.New("testdroid: cloud URL is not set")
	ErrMissingCredentials = errors.New("testdroid: set an API key or both username and password")
)

// Validate checks that the config carries a URL and one usable auth method.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return ErrMissingURL
	}
	if c.APIKey == "" && (c.Username == "" || c.Password == "") {
		return ErrMissingCredentials
	}
	return nil
}

// Client talks to the farm's v2 REST API. One method is one round trip.
type Client struct {
	rc *resty.Client
}

// New builds a client for cfg. API keys are sent as basic auth; a
// username/password pair is exchanged for an OAuth token first.
func New(ctx context.Context, cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base := strings.TrimRight(cfg.URL, "/")

	var rc *resty.Client
	if cfg.APIKey != "" {
		rc = resty.New().SetBasicAuth(cfg.APIKey, "")
	} else {
		oc := &oauth2.Config{
			ClientID: oauthClientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  base + "/oauth/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
		token, err := oc.PasswordCredentialsToken(ctx, cfg.Username, cfg.Password)
		if err != nil {
			return nil, fmt.Errorf("testdroid: obtain oauth token: %w", err)
		}
		rc = resty.NewWithClient(oc.Client(ctx, token))
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc.SetBaseURL(base+"/api/v2").
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetError(&errorBody{})

	return &Client{rc: rc}, nil
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.rc.Close()
}

// do executes one request and turns non-2xx answers (or answers outside want,
// when given) into *APIError.
func (c *Client) do(ctx context.Context, method, path string, build func(*resty.Request), out any, want ...int) error {
	req := c.rc.R().SetContext(ctx)
	if out != nil {
		req.SetResult(out)
	}
	if build != nil {
		build(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("testdroid: %s %s: %w", method, path, err)
	}

	ok := resp.IsSuccess()
	if len(want) > 0 {
		ok = slices.Contains(want, resp.StatusCode())
	}
	if ok {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode(), Method: method, Path: path}
	if body, isBody := resp.Error().(*errorBody); isBody && body != nil {
		apiErr.Message = body.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(resp.String())
	}
	return apiErr
}

func list[T any](ctx context.Context, c *Client, path string, query map[string]string) ([]T, error) {
	var out page[T]
	err := c.do(ctx, http.MethodGet, path, func(r *resty.Request) {
		r.SetQueryParam("limit", "0")
		r.SetQueryParams(query)
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data, nil
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

// GetMe returns the authenticated user.
func (c *Client) GetMe(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/me", nil, &u)
	return u, err
}

// GetProjects lists every project visible to the user.
func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	return list[Project](ctx, c, "/me/projects", nil)
}

// GetProject fetches one project.
func (c *Client) GetProject(ctx context.Context, projectID int64) (Project, error) {
	var p Project
	err := c.do(ctx, http.MethodGet, "/me/projects/"+id(projectID), nil, &p)
	return p, err
}

// CreateProject creates a project and returns the stored record.
func (c *Client) CreateProject(ctx context.Context, name, projectType string) (Project, error) {
	var p Project
	err := c.do(ctx, http.MethodPost, "/me/projects", func(r *resty.Request) {
		r.SetFormData(map[string]string{"name": name, "type": projectType})
	}, &p)
	return p, err
}

// GetFrameworks lists the frameworks available to the user.
func (c *Client) GetFrameworks(ctx context.Context) ([]Framework, error) {
	return list[Framework](ctx, c, "/me/available-frameworks", nil)
}

// SetProjectFramework assigns a framework to a project.
func (c *Client) SetProjectFramework(ctx context.Context, projectID, frameworkID int64) error {
	return c.do(ctx, http.MethodPost, "/me/projects/"+id(projectID)+"/frameworks", func(r *resty.Request) {
		r.SetFormData(map[string]string{"frameworkId": id(frameworkID)})
	}, nil)
}

// GetDeviceGroups lists private and public device groups.
func (c *Client) GetDeviceGroups(ctx context.Context) ([]DeviceGroup, error) {
	return list[DeviceGroup](ctx, c, "/me/device-groups", map[string]string{"withPublic": "true"})
}

// GetDevices lists the device models of the farm.
func (c *Client) GetDevices(ctx context.Context) ([]Device, error) {
	return list[Device](ctx, c, "/devices", nil)
}

// GetInputFiles lists files the user uploaded as test inputs.
func (c *Client) GetInputFiles(ctx context.Context) ([]File, error) {
	return list[File](ctx, c, "/me/files", map[string]string{"filter": "s_direction_eq_INPUT"})
}

// Upload sends the local file at filename as multipart form data to path,
// which is relative to the API root (users/{user}/projects/{project}/files/{type}).
func (c *Client) Upload(ctx context.Context, path, filename string) (File, error) {
	var f File
	err := c.do(ctx, http.MethodPost, "/"+strings.TrimLeft(path, "/"), func(r *resty.Request) {
		r.SetFile("file", filename)
	}, &f)
	return f, err
}

// GetProjectParameters lists the parameters set on a project.
func (c *Client) GetProjectParameters(ctx context.Context, projectID int64) ([]Parameter, error) {
	return list[Parameter](ctx, c, "/me/projects/"+id(projectID)+"/config/parameters", nil)
}

// SetProjectParameter adds one parameter. The farm answers 409 for an existing key.
func (c *Client) SetProjectParameter(ctx context.Context, projectID int64, p Parameter) (Parameter, error) {
	var out Parameter
	err := c.do(ctx, http.MethodPost, "/me/projects/"+id(projectID)+"/config/parameters", func(r *resty.Request) {
		r.SetFormData(map[string]string{"key": p.Key, "value": p.Value})
	}, &out)
	return out, err
}

// DeleteProjectParameter removes a parameter; only 204 counts as success.
func (c *Client) DeleteProjectParameter(ctx context.Context, projectID, parameterID int64) error {
	path := "/me/projects/" + id(projectID) + "/config/parameters/" + id(parameterID)
	return c.do(ctx, http.MethodDelete, path, nil, nil, http.StatusNoContent)
}

// GetProjectConfig fetches a project's configuration document.
func (c *Client) GetProjectConfig(ctx context.Context, projectID int64) (ProjectConfig, error) {
	out := ProjectConfig{}
	err := c.do(ctx, http.MethodGet, "/me/projects/"+id(projectID)+"/config", nil, &out)
	return out, err
}

// SetProjectConfig posts changed configuration values.
func (c *Client) SetProjectConfig(ctx context.Context, projectID int64, values map[string]any) error {
	form := make(map[string]string, len(values))
	for k, v := range values {
		form[k] = fmt.Sprint(v)
	}
	return c.do(ctx, http.MethodPost, "/me/projects/"+id(projectID)+"/config", func(r *resty.Request) {
		r.SetFormData(form)
	}, nil)
}

// GetProjectTestRuns lists every run of a project.
func (c *Client) GetProjectTestRuns(ctx context.Context, projectID int64) ([]TestRun, error) {
	return list[TestRun](ctx, c, "/me/projects/"+id(projectID)+"/runs", nil)
}

// GetTestRun fetches one run of a project.
func (c *Client) GetTestRun(ctx context.Context, projectID, runID int64) (TestRun, error) {
	var r TestRun
	err := c.do(ctx, http.MethodGet, "/me/projects/"+id(projectID)+"/runs/"+id(runID), nil, &r)
	return r, err
}

// StartTestRun launches a run and returns its id.
func (c *Client) StartTestRun(ctx context.Context, req StartRunRequest) (int64, error) {
	body := map[string]any{
		"projectId":   req.ProjectID,
		"testRunName": req.Name,
	}
	if req.DeviceGroupID != 0 {
		body["deviceGroupId"] = req.DeviceGroupID
	}
	if len(req.DeviceIDs) > 0 {
		body["deviceIds"] = req.DeviceIDs
	}
	for k, v := range req.AdditionalParams {
		if _, reserved := body[k]; !reserved {
			body[k] = v
		}
	}

	var run TestRun
	err := c.do(ctx, http.MethodPost, "/me/runs", func(r *resty.Request) {
		r.SetHeader("Content-Type", "application/json").SetBody(body)
	}, &run)
	if err != nil {
		return 0, err
	}
	return run.ID, nil
}
