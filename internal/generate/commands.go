package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matthewbaird/appbuilder/internal/emit"
	"github.com/matthewbaird/appbuilder/internal/fsutil"
	"github.com/matthewbaird/appbuilder/internal/project"
	"github.com/matthewbaird/appbuilder/internal/report"
	"github.com/matthewbaird/appbuilder/internal/scaffold"
	"github.com/matthewbaird/appbuilder/internal/schema"
)

// models generates every app of every document in place inside the host
// Django project, then rewrites the host settings and root URLs.
func (g *Generator) models(ctx context.Context, rep *report.Reporter, sum *Summary) error {
	rep.Noticef("Starting the app and model generation process...")

	docs, err := schema.Load(g.opts.schemaDir())
	if err != nil {
		return err
	}
	base := g.opts.BaseDir
	host := g.opts.hostProject()
	if !fsutil.IsDir(filepath.Join(base, host)) {
		return fmt.Errorf("%w: %s", ErrHostProjectNotFound, filepath.Join(base, host))
	}

	var generated []string
	for _, doc := range docs {
		for _, app := range doc.Apps() {
			if g.app(ctx, rep, base, app) {
				generated = append(generated, app.AppName)
				sum.Generated++
			} else {
				sum.Skipped++
			}
		}
	}

	s := project.NewSettings(host, generated, g.opts.Settings)
	if err := g.authApp(ctx, rep, base, s); err != nil {
		return err
	}
	if _, err := project.WriteProject(base, s); err != nil {
		return err
	}
	rep.Successf("settings.py and urls.py have been updated successfully.")
	rep.Successf("Completed app and model generation process.")
	return nil
}

// projects builds one Django project per project document.
func (g *Generator) projects(ctx context.Context, rep *report.Reporter, sum *Summary) error {
	docs, err := schema.Load(g.opts.schemaDir())
	if err != nil {
		return err
	}

	found := 0
	for _, doc := range docs {
		if doc.Kind != schema.KindProject {
			rep.Warnf("%s is an app schema; create-project only reads project schemas.", doc.File)
			continue
		}
		found++
		rep.Successf("Project Name (from %s): %s", doc.File, doc.Name())
		if err := g.project(ctx, rep, doc, sum); err != nil {
			return err
		}
	}
	if found == 0 {
		return fmt.Errorf("%w in %s", ErrNoProjectSchema, g.opts.schemaDir())
	}
	return nil
}

func (g *Generator) project(ctx context.Context, rep *report.Reporter, doc schema.Document, sum *Summary) error {
	p := doc.Project
	apps := doc.Apps()
	if vs := projectViolations(doc); len(vs) > 0 {
		rep.Errorf("Project schema %s is invalid:", doc.File)
		for _, v := range vs {
			rep.Errorf("  %s", v)
		}
		sum.Skipped += len(apps)
		return nil
	}

	res, err := g.scaffolder.Project(ctx, g.opts.BaseDir, p.ProjectName)
	if err != nil {
		rep.Errorf("An error occurred while creating project %s: %v", p.ProjectName, err)
		sum.Skipped += len(apps)
		return nil
	}
	if res == scaffold.Skipped {
		rep.Noticef("Project directory %s already exists; reusing it.", p.ProjectName)
	} else {
		rep.Successf("Project Created: %s", p.ProjectName)
	}
	projectDir := filepath.Join(g.opts.BaseDir, p.ProjectName)

	var generated []string
	for _, app := range apps {
		if g.app(ctx, rep, projectDir, app) {
			generated = append(generated, app.AppName)
			sum.Generated++
		} else {
			sum.Skipped++
		}
	}

	s := project.NewSettings(p.ProjectName, generated, g.opts.Settings)
	if err := g.authApp(ctx, rep, projectDir, s); err != nil {
		return err
	}
	rep.Successf("index.html has been generated in the templates folder.")
	if _, err := project.WriteProject(projectDir, s); err != nil {
		return err
	}
	rep.Successf("settings.py and urls.py have been updated successfully.")

	steps, err := project.NextSteps(s)
	if err != nil {
		return err
	}
	rep.Block(fmt.Sprintf("Project %s is built successfully.", p.ProjectName), steps)
	return nil
}

// projectViolations returns the violations outside the apps list; app
// violations are reported per app.
func projectViolations(doc schema.Document) []schema.Violation {
	var out []schema.Violation
	for _, v := range schema.Validate(doc) {
		if v.Path == "apps" || !strings.HasPrefix(v.Path, "apps.") {
			out = append(out, v)
		}
	}
	return out
}

// app scaffolds and emits one app inside dir. It reports false when the app
// was skipped.
func (g *Generator) app(ctx context.Context, rep *report.Reporter, dir string, app schema.AppSchema) bool {
	name := app.AppName
	if vs := schema.ValidateApp(app); len(vs) > 0 {
		label := name
		if label == "" {
			label = "(unnamed)"
		}
		rep.Errorf("App %s skipped: the schema has %d problem(s).", label, len(vs))
		for _, v := range vs {
			rep.Errorf("  %s", v)
		}
		return false
	}

	res, err := g.scaffolder.App(ctx, dir, name)
	if err != nil {
		rep.Errorf("An error occurred while creating app %s: %v", name, err)
		return false
	}
	if res == scaffold.Skipped {
		rep.Noticef("Django app %s already exists.", name)
	} else {
		rep.Successf("App Created: %s", name)
	}

	written, err := emit.WriteApp(filepath.Join(dir, name), app)
	for _, a := range written {
		rep.Successf("%s for app %q have been generated.", a.Label, name)
	}
	if err != nil {
		rep.Errorf("An error occurred while generating app %s: %v", name, err)
		return false
	}
	return true
}

// authApp scaffolds the Authentication app and writes its fixed content.
func (g *Generator) authApp(ctx context.Context, rep *report.Reporter, dir string, s project.Settings) error {
	res, err := g.scaffolder.App(ctx, dir, project.AuthApp)
	if err != nil {
		return fmt.Errorf("create the %s app: %w", project.AuthApp, err)
	}
	if res == scaffold.Skipped {
		rep.Noticef("Django app %s already exists.", project.AuthApp)
	}
	if _, err := project.WriteAuthApp(filepath.Join(dir, project.AuthApp), s); err != nil {
		return fmt.Errorf("write the %s app: %w", project.AuthApp, err)
	}
	rep.Successf("App %q has been created with content.", project.AuthApp)
	return nil
}

// flutter creates a Flutter project for the first project document and
// writes one Dart class per model.
func (g *Generator) flutter(ctx context.Context, rep *report.Reporter, sum *Summary) error {
	docs, err := schema.Load(g.opts.schemaDir())
	if err != nil {
		return err
	}
	var doc *schema.Document
	for i := range docs {
		if docs[i].Kind == schema.KindProject {
			doc = &docs[i]
			break
		}
	}
	if doc == nil || doc.Name() == "" {
		return fmt.Errorf("%w in %s", ErrNoProjectSchema, g.opts.schemaDir())
	}

	name := doc.Name()
	res, err := g.scaffolder.Flutter(ctx, g.opts.BaseDir, name)
	if err != nil {
		return fmt.Errorf("create the Flutter project: %w", err)
	}
	flutterName := scaffold.FlutterName(name)
	if res == scaffold.Skipped {
		rep.Noticef("Flutter project %s already exists.", flutterName)
	}

	modelsDir := filepath.Join(g.opts.BaseDir, flutterName, "lib", "models")
	if err := os.MkdirAll(modelsDir, 0o755); err != nil {
		return fmt.Errorf("create models directory: %w", err)
	}
	for _, app := range doc.Apps() {
		for _, m := range app.Models {
			src, err := emit.DartModel(m)
			if err != nil {
				rep.Errorf("Dart model skipped in app %s: %v", app.AppName, err)
				sum.Skipped++
				continue
			}
			if err := fsutil.WriteFile(filepath.Join(modelsDir, emit.DartFileName(m.ModelName)), []byte(src)); err != nil {
				return err
			}
			sum.Generated++
			rep.Successf("Dart model %s has been generated.", m.ModelName)
		}
	}
	rep.Successf("Successfully created Flutter project %q based on the schema", flutterName)
	return nil
}
