// Package cli implements the appbuilder command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matthewbaird/appbuilder/internal/config"
	"github.com/matthewbaird/appbuilder/internal/generate"
	"github.com/matthewbaird/appbuilder/internal/history"
	"github.com/matthewbaird/appbuilder/internal/logger"
	"github.com/matthewbaird/appbuilder/internal/report"
	"github.com/matthewbaird/appbuilder/internal/scaffold"
)

// Version is set at build time.
var Version = "dev"

// errReported marks failures already shown to the operator as console lines.
var errReported = errors.New("reported")

// App holds the state shared by all commands.
type App struct {
	Out io.Writer
	Err io.Writer
	// Runner runs the bootstrap commands. Nil uses os/exec.
	Runner scaffold.Runner

	v   *viper.Viper
	cfg config.Config
	log *logrus.Logger
}

// NewApp creates an App writing to stdout and stderr.
func NewApp() *App {
	return &App{Out: os.Stdout, Err: os.Stderr}
}

// NewRootCmd builds the command tree for app.
func NewRootCmd(app *App) *cobra.Command {
	app.v = config.New()

	root := &cobra.Command{
		Use:   "appbuilder",
		Short: "Generate Django backends from JSON schema documents",
		Long: `appbuilder reads project and app schema documents from the schema
directory and generates a Django + Django REST Framework backend: models,
admin registrations, serializers, viewsets, routers, settings and root URLs.

The serve command hosts a browser page for authoring the schema documents.`,
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.setup,
	}
	root.SetOut(app.Out)
	root.SetErr(app.Err)

	pf := root.PersistentFlags()
	pf.String("base-dir", ".", "Directory projects are generated in")
	pf.String("config", "", "Config file (default: <base-dir>/appbuilder.yaml)")
	pf.String("schema-dir", "", "Schema directory (default: <base-dir>/schema)")
	pf.String("host-project", "", "Settings package rewritten by generate-models (default: base directory name)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.Bool("no-history", false, "Do not record runs in the run ledger")
	for flag, key := range map[string]string{
		"base-dir":     "base_dir",
		"config":       "config",
		"schema-dir":   "schema_dir",
		"host-project": "host_project",
		"log-level":    "log.level",
	} {
		_ = app.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newBatchCmd(app, generate.CommandModels),
		newBatchCmd(app, generate.CommandProject),
		newBatchCmd(app, generate.CommandFlutter),
		newValidateCmd(app),
		newFieldTypesCmd(app),
		newJSONSchemaCmd(app),
		newHistoryCmd(app),
		newServeCmd(app),
	)
	return root
}

func (a *App) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		cfg.History.Enabled = false
	}
	log, err := logger.New(a.Err, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	if cfg.File != "" {
		log.WithField("file", cfg.File).Debug("config loaded")
	}
	return nil
}

// openStore opens the run ledger, or an in-memory store when it is disabled.
func (a *App) openStore(ctx context.Context) (history.Store, func(), error) {
	if !a.cfg.History.Enabled {
		return history.NewMemoryStore(), func() {}, nil
	}
	if path := config.DSNPath(a.cfg.History.DSN); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	s, err := history.Open(ctx, a.cfg.History.DSN)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { s.Close() }, nil
}

func (a *App) scaffolder() *scaffold.Scaffolder {
	runner := a.Runner
	if runner == nil {
		runner = scaffold.ExecRunner{Out: a.Err}
	}
	return scaffold.New(runner, a.cfg.Commands())
}

func (a *App) generator(store history.Store, sinks ...report.Sink) *generate.Generator {
	opts := generate.Options{
		BaseDir:     a.cfg.BaseDir,
		SchemaDir:   a.cfg.SchemaDir,
		HostProject: a.cfg.HostProject,
		Settings:    a.cfg.ProjectOptions(),
	}
	return generate.New(opts, a.scaffolder(), store, a.log, sinks...)
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	app := NewApp()
	root := NewRootCmd(app)
	if err := root.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(app.Err, "Error:", err)
		}
		return 1
	}
	return 0
}
