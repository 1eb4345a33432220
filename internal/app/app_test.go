package app

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/specialistvlad/devicefarm/internal/credentials"
	"github.com/specialistvlad/devicefarm/internal/testdroid"
	"github.com/specialistvlad/devicefarm/modules/testrun"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "valid", cfg: Config{RecipePath: "r.hcl", PollInterval: time.Second}},
		{name: "missing recipe", cfg: Config{}, wantErr: "RecipePath is a required"},
		{name: "negative timeout", cfg: Config{RecipePath: "r.hcl", PollTimeout: -time.Second}, wantErr: "poll-timeout must not be negative"},
		{name: "bad port", cfg: Config{RecipePath: "r.hcl", HealthcheckPort: 70000}, wantErr: "out of range"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg, *cfg)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	newLogger("nonsense", "text", &buf).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestNewApp_RegistersEveryAction(t *testing.T) {
	a := NewApp(io.Discard, &Config{RecipePath: "r.hcl"})
	require.NoError(t, a.Registry().Validate(context.Background()))
}

func TestHealthMux(t *testing.T) {
	a := NewApp(io.Discard, &Config{RecipePath: "r.hcl"})
	a.metrics.ObserveTask("set_device", "succeeded", time.Millisecond)
	srv := httptest.NewServer(a.healthMux())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK\n", string(body))

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `devicefarm_tasks_total{action="set_device",outcome="succeeded"} 1`)
}

func TestRun_MissingCredentialsIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- project: existing\n  arguments: {project_id: 11}\n"), 0o644))

	a := NewApp(io.Discard, &Config{RecipePath: path}, WithLookupEnv(func(string) (string, bool) { return "", false }))
	err := a.Run(context.Background())

	var cerr *credentials.Error
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, testdroid.ErrMissingURL)
}

func TestRun_UnsupportedRecipeFormat(t *testing.T) {
	a := NewApp(io.Discard, &Config{RecipePath: "recipe.txt"})
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to load recipe"), err.Error())
}

func TestCoreModules_ZeroPollTimeoutReachesTestRunModule(t *testing.T) {
	cfg := &Config{RecipePath: "r.hcl", PollInterval: 5 * time.Second}
	var tr *testrun.Module
	for _, m := range coreModules(cfg) {
		if got, ok := m.(*testrun.Module); ok {
			tr = got
		}
	}
	require.NotNil(t, tr)
	assert.Equal(t, 5*time.Second, tr.Interval)
	require.NotNil(t, tr.Timeout)
	assert.Zero(t, *tr.Timeout)
}
