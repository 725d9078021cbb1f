// Package generate runs the batch commands: it loads the schema directory,
// scaffolds projects and apps, writes every artifact and records the run in
// the ledger.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/matthewbaird/appbuilder/internal/history"
	"github.com/matthewbaird/appbuilder/internal/project"
	"github.com/matthewbaird/appbuilder/internal/report"
	"github.com/matthewbaird/appbuilder/internal/scaffold"
	"github.com/matthewbaird/appbuilder/internal/schema"
)

var (
	// ErrUnknownCommand is returned by ParseCommand.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrHostProjectNotFound is returned when generate-models runs outside a
	// Django project.
	ErrHostProjectNotFound = errors.New("host project not found")
	// ErrNoProjectSchema is returned when a command needs a project document
	// and the schema directory holds none.
	ErrNoProjectSchema = errors.New("no project schema found")
)

// Command names a batch command.
type Command string

const (
	CommandModels  Command = "models"
	CommandProject Command = "project"
	CommandFlutter Command = "flutter"
)

var commandAliases = map[string]Command{
	"models":                      CommandModels,
	"generate-models":             CommandModels,
	"generate_models_from_schema": CommandModels,
	"project":                     CommandProject,
	"create-project":              CommandProject,
	"create_project_from_schema":  CommandProject,
	"flutter":                     CommandFlutter,
	"build-flutter":               CommandFlutter,
	"buildflutter":                CommandFlutter,
}

// ParseCommand resolves a command name or one of its aliases.
func ParseCommand(s string) (Command, error) {
	if c, ok := commandAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// Options locates the inputs and outputs of a run.
type Options struct {
	// BaseDir is where projects are created. For generate-models it is the
	// Django project root holding manage.py.
	BaseDir string
	// SchemaDir holds the *_schema.json documents. Defaults to BaseDir/schema.
	SchemaDir string
	// HostProject is the settings package rewritten by generate-models.
	// Defaults to the base name of BaseDir.
	HostProject string
	Settings    project.Options
}

func (o Options) schemaDir() string {
	if o.SchemaDir != "" {
		return o.SchemaDir
	}
	return filepath.Join(o.BaseDir, "schema")
}

func (o Options) hostProject() string {
	if o.HostProject != "" {
		return o.HostProject
	}
	return filepath.Base(filepath.Clean(o.BaseDir))
}

// Summary is the outcome of one run.
type Summary struct {
	RunID     string         `json:"run_id"`
	Command   Command        `json:"command"`
	Status    history.Status `json:"status"`
	Generated int            `json:"generated"`
	Skipped   int            `json:"skipped"`
	Message   string         `json:"message,omitempty"`
}

// Generator executes batch commands. Runs are serialised.
type Generator struct {
	opts       Options
	scaffolder *scaffold.Scaffolder
	store      history.Store
	sinks      []report.Sink
	log        logrus.FieldLogger
	now        func() time.Time

	mu sync.Mutex
}

// New creates a Generator. A nil store disables the ledger.
func New(opts Options, sc *scaffold.Scaffolder, store history.Store, log logrus.FieldLogger, sinks ...report.Sink) *Generator {
	if log == nil {
		l := logrus.New()
		l.Out = io.Discard
		log = l
	}
	return &Generator{
		opts:       opts,
		scaffolder: sc,
		store:      store,
		sinks:      sinks,
		log:        log,
		now:        time.Now,
	}
}

// Options returns the run options.
func (g *Generator) Options() Options { return g.opts }

// Run executes cmd, reporting to the generator's sinks plus extra. The
// returned error is non-nil when the run failed as a whole; per-app failures
// only show up as a partial status.
func (g *Generator) Run(ctx context.Context, cmd Command, extra ...report.Sink) (sum Summary, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	sum = Summary{RunID: uuid.NewString(), Command: cmd, Status: history.StatusRunning}
	log := g.log.WithFields(logrus.Fields{"run": sum.RunID, "command": string(cmd)})

	sinks := append(append([]report.Sink{}, g.sinks...), extra...)
	if g.store != nil {
		started := history.Run{
			ID:        sum.RunID,
			Command:   string(cmd),
			BaseDir:   g.opts.BaseDir,
			Status:    history.StatusRunning,
			StartedAt: g.now(),
		}
		if serr := g.store.StartRun(ctx, started); serr != nil {
			log.WithError(serr).Warn("run not recorded")
		} else {
			sinks = append(sinks, history.NewRecorder(context.WithoutCancel(ctx), g.store, sum.RunID, log))
		}
	}
	rep := report.New(sinks...)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
			rep.Errorf("An error occurred: %v", r)
			log.WithField("panic", r).Error("generation run panicked")
		}
		sum.Status = status(sum, err)
		if err != nil {
			sum.Message = err.Error()
		}
		g.finish(ctx, log, sum)
	}()

	log.Info("generation run started")
	switch cmd {
	case CommandModels:
		err = g.models(ctx, rep, &sum)
	case CommandProject:
		err = g.projects(ctx, rep, &sum)
	case CommandFlutter:
		err = g.flutter(ctx, rep, &sum)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, string(cmd))
	}
	if err != nil {
		if isInputError(err) {
			rep.Errorf("%s", capitalize(err.Error()))
		} else {
			rep.Errorf("An error occurred: %v", err)
		}
	}
	return sum, err
}

func (g *Generator) finish(ctx context.Context, log logrus.FieldLogger, sum Summary) {
	log = log.WithFields(logrus.Fields{
		"status":    string(sum.Status),
		"generated": sum.Generated,
		"skipped":   sum.Skipped,
	})
	log.Info("generation run finished")
	if g.store == nil {
		return
	}
	done := g.now()
	run := history.Run{
		ID:         sum.RunID,
		Status:     sum.Status,
		Message:    sum.Message,
		Generated:  sum.Generated,
		Skipped:    sum.Skipped,
		FinishedAt: &done,
	}
	// The run context may already be cancelled; the ledger still gets the
	// final status.
	if err := g.store.FinishRun(context.WithoutCancel(ctx), run); err != nil && !errors.Is(err, history.ErrRunNotFound) {
		log.WithError(err).Warn("run status not recorded")
	}
}

func status(sum Summary, err error) history.Status {
	switch {
	case err != nil:
		return history.StatusFailed
	case sum.Skipped > 0:
		return history.StatusPartial
	default:
		return history.StatusSuccess
	}
}

func isInputError(err error) bool {
	for _, target := range []error{
		schema.ErrDirectoryNotFound,
		schema.ErrNoSchemaFiles,
		schema.ErrMalformedSchema,
		ErrHostProjectNotFound,
		ErrNoProjectSchema,
		ErrUnknownCommand,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
