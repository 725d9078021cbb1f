// Package scaffold creates empty project and app skeletons by invoking the
// framework's own bootstrap commands.
package scaffold

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/matthewbaird/appbuilder/internal/fsutil"
)

var (
	// ErrCommandNotFound is returned when a bootstrap executable is not on PATH.
	ErrCommandNotFound = errors.New("command not found")
	// ErrCommandFailed is returned when a bootstrap command exits non-zero or
	// does not produce the expected directory.
	ErrCommandFailed = errors.New("scaffold command failed")
)

// Result tells whether a skeleton was created or already present.
type Result int

const (
	Created Result = iota
	Skipped
)

func (r Result) String() string {
	if r == Skipped {
		return "skipped"
	}
	return "created"
}

// Runner runs an external command in dir.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands with os/exec. Stdout is forwarded to Out; stderr
// is forwarded to Out and kept for the error message.
type ExecRunner struct {
	Out io.Writer
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	path, err := exec.LookPath(name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrCommandNotFound, name)
	}
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	out := r.Out
	if out == nil {
		out = io.Discard
	}
	cmd.Stdout = out
	cmd.Stderr = io.MultiWriter(out, &stderr)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%w: %s %s: %s", ErrCommandFailed, name, strings.Join(args, " "), msg)
	}
	return nil
}

// Commands names the bootstrap executables.
type Commands struct {
	Admin   string // django-admin
	Python  string // interpreter running manage.py
	Flutter string
}

// DefaultCommands returns the executables found on a typical PATH.
func DefaultCommands() Commands {
	return Commands{Admin: "django-admin", Python: "python", Flutter: "flutter"}
}

// Scaffolder creates skeletons. Existing target directories are never merged
// or cleared: the call returns Skipped and leaves them alone.
type Scaffolder struct {
	runner Runner
	cmds   Commands
}

// New creates a Scaffolder.
func New(runner Runner, cmds Commands) *Scaffolder {
	def := DefaultCommands()
	if cmds.Admin == "" {
		cmds.Admin = def.Admin
	}
	if cmds.Python == "" {
		cmds.Python = def.Python
	}
	if cmds.Flutter == "" {
		cmds.Flutter = def.Flutter
	}
	return &Scaffolder{runner: runner, cmds: cmds}
}

// Commands returns the configured executables.
func (s *Scaffolder) Commands() Commands { return s.cmds }

// Project runs "django-admin startproject <name>" in baseDir.
func (s *Scaffolder) Project(ctx context.Context, baseDir, name string) (Result, error) {
	return s.create(ctx, baseDir, name, s.cmds.Admin, "startproject", name)
}

// App runs "python manage.py startapp <name>" in projectDir.
func (s *Scaffolder) App(ctx context.Context, projectDir, name string) (Result, error) {
	return s.create(ctx, projectDir, name, s.cmds.Python, "manage.py", "startapp", name)
}

// FlutterName returns the Flutter package name of a project.
func FlutterName(projectName string) string {
	return strings.ToLower(projectName)
}

// Flutter runs "flutter create <name>" in baseDir with the lowercased name.
func (s *Scaffolder) Flutter(ctx context.Context, baseDir, name string) (Result, error) {
	name = FlutterName(name)
	return s.create(ctx, baseDir, name, s.cmds.Flutter, "create", name)
}

func (s *Scaffolder) create(ctx context.Context, dir, name, command string, args ...string) (Result, error) {
	if name == "" {
		return Created, fmt.Errorf("%w: empty name", ErrCommandFailed)
	}
	target := filepath.Join(dir, name)
	if fsutil.Exists(target) {
		return Skipped, nil
	}
	if err := s.runner.Run(ctx, dir, command, args...); err != nil {
		return Created, err
	}
	if !fsutil.IsDir(target) {
		return Created, fmt.Errorf("%w: %s did not create %s", ErrCommandFailed, command, target)
	}
	return Created, nil
}
