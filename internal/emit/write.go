package emit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matthewbaird/appbuilder/internal/fsutil"
	"github.com/matthewbaird/appbuilder/internal/schema"
)

// Artifact is one generated file of an app.
type Artifact struct {
	File   string
	Label  string // used in progress messages, e.g. "Models"
	Render func(schema.AppSchema) (string, error)
}

// Artifacts lists the files written for every app, in write order.
var Artifacts = []Artifact{
	{File: "models.py", Label: "Models", Render: Models},
	{File: "admin.py", Label: "Admin", Render: Admin},
	{File: "serializers.py", Label: "Serializers", Render: Serializers},
	{File: "views.py", Label: "Views", Render: Views},
	{File: "urls.py", Label: "URLs", Render: URLs},
}

// RenderApp renders every artifact of app without touching the filesystem.
func RenderApp(app schema.AppSchema) (map[string]string, error) {
	out := make(map[string]string, len(Artifacts))
	for _, a := range Artifacts {
		src, err := a.Render(app)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", a.File, err)
		}
		out[a.File] = src
	}
	return out, nil
}

// WriteApp renders app and writes its artifacts into appDir, replacing
// existing files. Everything is rendered before the first write, so a render
// error leaves appDir untouched. A write error stops at the failing file.
// It returns the artifacts written, in order.
func WriteApp(appDir string, app schema.AppSchema) ([]Artifact, error) {
	rendered, err := RenderApp(app)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(appDir, 0o755); err != nil {
		return nil, fmt.Errorf("create app directory: %w", err)
	}
	var written []Artifact
	for _, a := range Artifacts {
		if err := fsutil.WriteFile(filepath.Join(appDir, a.File), []byte(rendered[a.File])); err != nil {
			return written, fmt.Errorf("write %s: %w", a.File, err)
		}
		written = append(written, a)
	}
	return written, nil
}
