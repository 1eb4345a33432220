package testdroid

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(context.Background(), &Config{URL: srv.URL + "/", APIKey: "key"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{name: "api key", cfg: Config{URL: "https://farm", APIKey: "k"}},
		{name: "password", cfg: Config{URL: "https://farm", Username: "u", Password: "p"}},
		{name: "no url", cfg: Config{APIKey: "k"}, want: ErrMissingURL},
		{name: "username only", cfg: Config{URL: "https://farm", Username: "u"}, want: ErrMissingCredentials},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.cfg.Validate(), tc.want)
		})
	}
}

func TestClient_ListsAndAuth(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v2/me/projects", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Empty(t, pass)
		assert.Equal(t, "0", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{"data": []Project{{ID: 11, Name: "mock_project"}}, "total": 1})
	})
	mux.HandleFunc("GET /api/v2/me/device-groups", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("withPublic"))
		writeJSON(w, http.StatusOK, map[string]any{"data": []DeviceGroup{{ID: 7070, DisplayName: "g"}}})
	})
	c := newTestClient(t, mux)

	projects, err := c.GetProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Project{{ID: 11, Name: "mock_project"}}, projects)

	groups, err := c.GetDeviceGroups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7070), groups[0].ID)
}

func TestClient_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v2/me/projects/11/config/parameters", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{"message": "parameter exists", "statusCode": 409})
	})
	mux.HandleFunc("GET /api/v2/me", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	})
	c := newTestClient(t, mux)

	_, err := c.SetProjectParameter(context.Background(), 11, Parameter{Key: "k", Value: "v"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "parameter exists", apiErr.Message)
	assert.True(t, IsConflict(err))

	_, err = c.GetMe(context.Background())
	code, ok := StatusCode(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Contains(t, err.Error(), "upstream down")
}

func TestClient_DeleteRequiresNoContent(t *testing.T) {
	status := http.StatusOK
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v2/me/projects/11/config/parameters/319", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	c := newTestClient(t, mux)

	err := c.DeleteProjectParameter(context.Background(), 11, 319)
	code, _ := StatusCode(err)
	assert.Equal(t, http.StatusOK, code)

	status = http.StatusNoContent
	assert.NoError(t, c.DeleteProjectParameter(context.Background(), 11, 319))
}

func TestClient_StartTestRun(t *testing.T) {
	var got map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v2/me/runs", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, TestRun{ID: 1234, State: "WAITING"})
	})
	c := newTestClient(t, mux)

	id, err := c.StartTestRun(context.Background(), StartRunRequest{
		ProjectID:        11,
		DeviceIDs:        []int64{707},
		Name:             "run_a",
		AdditionalParams: map[string]any{"limitationType": "PACKAGE", "projectId": 99},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1234), id)
	assert.Equal(t, map[string]any{
		"projectId":      float64(11),
		"testRunName":    "run_a",
		"deviceIds":      []any{float64(707)},
		"limitationType": "PACKAGE",
	}, got)
}

func TestClient_Upload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.apk")
	require.NoError(t, os.WriteFile(path, []byte("apk-bytes"), 0o644))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v2/users/1/projects/11/files/application", func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "app.apk", hdr.Filename)
		assert.Equal(t, "apk-bytes", string(body))
		writeJSON(w, http.StatusCreated, File{ID: 5, Name: hdr.Filename})
	})
	c := newTestClient(t, mux)

	f, err := c.Upload(context.Background(), "users/1/projects/11/files/application", path)
	require.NoError(t, err)
	assert.Equal(t, File{ID: 5, Name: "app.apk"}, f)
}

func TestNew_PasswordGrant(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.Form.Get("grant_type"))
		assert.Equal(t, "user", r.Form.Get("username"))
		assert.Equal(t, oauthClientID, r.Form.Get("client_id"))
		writeJSON(w, http.StatusOK, map[string]any{"access_token": "tok", "token_type": "bearer", "expires_in": 3600})
	})
	mux.HandleFunc("GET /api/v2/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, User{ID: 1, Email: "u@example.com"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := New(context.Background(), &Config{URL: srv.URL, Username: "user", Password: "pass"})
	require.NoError(t, err)
	defer c.Close()

	me, err := c.GetMe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), me.ID)
}
