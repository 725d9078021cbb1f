package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/appbuilder/internal/config"
	"github.com/matthewbaird/appbuilder/internal/scaffold"
)

const blogSchema = `{"appName":"Blog","models":[{"modelName":"Post","fields":[
	{"fieldName":"title","fieldType":"CharField","attributes":{"max_length":"254"}},
	{"fieldName":"author","fieldType":"ForeignKey","attributes":{"to":"Author","on_delete":"models.CASCADE"}}]}]}`

type result struct {
	out, err string
	fail     error
}

func run(t *testing.T, fake *scaffold.FakeRunner, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	app := &App{Out: &out, Err: &errOut}
	if fake != nil {
		app.Runner = fake
	}
	root := NewRootCmd(app)
	root.SetArgs(args)
	err := root.Execute()
	return result{out: out.String(), err: errOut.String(), fail: err}
}

func hostProject(t *testing.T, schemas map[string]string) string {
	t.Helper()
	base := filepath.Join(t.TempDir(), "Builder")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "Builder"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(base, "schema"), 0o755))
	for name, body := range schemas {
		require.NoError(t, os.WriteFile(filepath.Join(base, "schema", name), []byte(body), 0o644))
	}
	return base
}

func TestGenerateModels(t *testing.T) {
	base := hostProject(t, map[string]string{"blog_schema.json": blogSchema})
	fake := &scaffold.FakeRunner{}

	res := run(t, fake, "generate_models_from_schema", "--base-dir", base, "--no-history", "--log-level", "error")
	require.NoError(t, res.fail, res.out)
	assert.Contains(t, res.out, "SUCCESS")
	assert.Contains(t, res.out, `Models for app "Blog" have been generated.`)
	assert.FileExists(t, filepath.Join(base, "Blog", "models.py"))
	assert.FileExists(t, filepath.Join(base, "Builder", "settings.py"))
}

func TestGenerateModels_EmptySchemaDirectory(t *testing.T) {
	base := hostProject(t, nil)
	res := run(t, &scaffold.FakeRunner{}, "generate-models", "--base-dir", base, "--no-history", "--log-level", "error")
	require.Error(t, res.fail)
	assert.ErrorIs(t, res.fail, errReported)
	assert.Contains(t, res.out, "No schema files found")
}

func TestCreateProject_RecordsHistory(t *testing.T) {
	base := hostProject(t, map[string]string{"shop_schema.json": `{"projectName":"Shop","apps":[` + blogSchema + `]}`})
	t.Setenv("APPBUILDER_HISTORY_DSN", config.SQLiteDSN(filepath.Join(t.TempDir(), "h.db")))
	fake := &scaffold.FakeRunner{}

	res := run(t, fake, "create-project", "--base-dir", base, "--log-level", "error")
	require.NoError(t, res.fail, res.out)
	assert.Contains(t, res.out, "Project Shop is built successfully.")
	assert.Contains(t, res.out, "manage.py migrate")
	assert.FileExists(t, filepath.Join(base, "Shop", "Blog", "views.py"))

	res = run(t, fake, "history", "--base-dir", base)
	require.NoError(t, res.fail)
	assert.Contains(t, res.out, "project")
	assert.Contains(t, res.out, "success")

	lines := strings.Split(strings.TrimSpace(res.out), "\n")
	require.Len(t, lines, 2)
	runID := strings.Fields(lines[1])[0]

	res = run(t, fake, "history", runID, "--base-dir", base)
	require.NoError(t, res.fail)
	assert.Contains(t, res.out, "Project Shop is built successfully.")
	assert.Contains(t, res.out, "manage.py migrate")
}

func TestValidate(t *testing.T) {
	base := hostProject(t, map[string]string{
		"blog_schema.json": blogSchema,
		"bad_schema.json":  `{"appName":"Bad","models":[{"modelName":"M","fields":[{"fieldName":"f","fieldType":"Nope"}]}]}`,
	})
	res := run(t, nil, "validate", "--base-dir", base, "--no-history")
	require.Error(t, res.fail)
	assert.Contains(t, res.out, "blog_schema.json: app Blog is valid.")
	assert.Contains(t, res.out, "bad_schema.json:")
	assert.Contains(t, res.out, "problem(s)")
	assert.Contains(t, res.out, "not a known field type")
}

func TestFieldTypes(t *testing.T) {
	res := run(t, nil, "field-types", "CharField", "--base-dir", t.TempDir())
	require.NoError(t, res.fail)
	var opts map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.out), &opts))
	assert.Equal(t, "required", opts["max_length"])

	res = run(t, nil, "field-types", "Gizmo", "--base-dir", t.TempDir())
	assert.Error(t, res.fail)
}

func TestJSONSchema(t *testing.T) {
	res := run(t, nil, "jsonschema", "app", "--base-dir", t.TempDir())
	require.NoError(t, res.fail)
	assert.Contains(t, res.out, `"App schema"`)

	res = run(t, nil, "jsonschema", "widget", "--base-dir", t.TempDir())
	assert.Error(t, res.fail)
}
