package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/appbuilder/internal/history"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	dir := filepath.Join(t.TempDir(), "schema")
	srv := httptest.NewServer(NewRouter(Config{
		SchemaDir: dir,
		Store:     history.NewMemoryStore(),
		Log:       log,
	}))
	t.Cleanup(srv.Close)
	return srv, dir
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRoutes(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := get(t, srv.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	for _, path := range []string{"/", "/schema"} {
		resp, body = get(t, srv.URL+path)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		assert.Contains(t, body, "/save-schema/")
	}

	resp, body = get(t, srv.URL+"/api/field-types")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"CharField"`)

	resp, _ = get(t, srv.URL+"/api/runs")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Content-Type"))
}

func TestSaveSchemaRoute(t *testing.T) {
	srv, dir := newTestServer(t)

	resp, err := http.Post(srv.URL+"/save-schema/", "application/json",
		strings.NewReader(`{"projectName":"Shop","apps":[]}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.FileExists(t, filepath.Join(dir, "shop_schema.json"))

	resp, _ = get(t, srv.URL+"/save-schema/")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/save-schema", "application/json", strings.NewReader(`{`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, _ := get(t, srv.URL+"/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
