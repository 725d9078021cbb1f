package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/matthewbaird/appbuilder/internal/fsutil"
)

// WriteProject renders settings.py and urls.py and writes both into
// <projectDir>/<ProjectName>/. Both files are rendered before either is
// written.
func WriteProject(projectDir string, s Settings) ([]string, error) {
	settings, err := RenderSettings(s)
	if err != nil {
		return nil, err
	}
	urls, err := RenderRootURLs(s)
	if err != nil {
		return nil, err
	}

	pkg := filepath.Join(projectDir, s.ProjectName)
	if !fsutil.IsDir(pkg) {
		return nil, fmt.Errorf("project package %s does not exist", pkg)
	}
	var written []string
	for _, f := range []struct {
		name string
		data []byte
	}{
		{"settings.py", settings},
		{"urls.py", urls},
	} {
		path := filepath.Join(pkg, f.name)
		if err := fsutil.WriteFile(path, f.data); err != nil {
			return written, fmt.Errorf("write %s: %w", f.name, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// WriteAuthApp writes the Authentication app's models.py and admin.py and the
// landing page template into appDir.
func WriteAuthApp(appDir string, s Settings) ([]string, error) {
	models, err := render("auth_models.py.tmpl", authDefaults)
	if err != nil {
		return nil, err
	}
	admin, err := render("auth_admin.py.tmpl", authDefaults)
	if err != nil {
		return nil, err
	}
	index, err := RenderIndex(s)
	if err != nil {
		return nil, err
	}

	tmplDir := filepath.Join(appDir, "templates")
	if err := os.MkdirAll(tmplDir, 0o755); err != nil {
		return nil, fmt.Errorf("create templates directory: %w", err)
	}
	var written []string
	for _, f := range []struct {
		path string
		data []byte
	}{
		{filepath.Join(appDir, "models.py"), models},
		{filepath.Join(appDir, "admin.py"), admin},
		{filepath.Join(tmplDir, "index.html"), index},
	} {
		if err := fsutil.WriteFile(f.path, f.data); err != nil {
			return written, fmt.Errorf("write %s: %w", filepath.Base(f.path), err)
		}
		written = append(written, f.path)
	}
	return written, nil
}
