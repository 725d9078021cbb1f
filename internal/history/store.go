// Package history keeps the run ledger: one record per batch command and
// every progress line the run reported.
package history

import (
	"context"
	"errors"
	"time"
)

// ErrRunNotFound is returned for an unknown run id.
var ErrRunNotFound = errors.New("run not found")

// Status is the outcome of a run.
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusPartial Status = "partial" // some apps were skipped
	StatusFailed  Status = "failed"
)

// Run is one batch command execution.
type Run struct {
	ID         string     `json:"id"`
	Command    string     `json:"command"`
	BaseDir    string     `json:"base_dir"`
	Status     Status     `json:"status"`
	Message    string     `json:"message,omitempty"`
	Generated  int        `json:"generated"`
	Skipped    int        `json:"skipped"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Entry is one progress line of a run.
type Entry struct {
	RunID   string    `json:"run_id"`
	Seq     int       `json:"seq"`
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"` // Markdown block, if any
	At      time.Time `json:"at"`
}

// Store reads and writes the run ledger.
type Store interface {
	// StartRun records a new run.
	StartRun(ctx context.Context, run Run) error

	// AppendEntry records one progress line of a run.
	AppendEntry(ctx context.Context, e Entry) error

	// FinishRun stores the final status, counts and finish time of run.ID.
	FinishRun(ctx context.Context, run Run) error

	// GetRun returns one run.
	GetRun(ctx context.Context, id string) (Run, error)

	// ListRuns returns the most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	// Entries returns the progress lines of a run in order.
	Entries(ctx context.Context, runID string) ([]Entry, error)
}
