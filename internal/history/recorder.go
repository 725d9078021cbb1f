package history

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/matthewbaird/appbuilder/internal/report"
)

// Recorder is a report sink that appends every progress line of one run to
// the store. Write failures are logged and do not interrupt the run.
type Recorder struct {
	ctx   context.Context
	store Store
	runID string
	log   logrus.FieldLogger

	mu  sync.Mutex
	seq int
}

// NewRecorder creates a Recorder for runID.
func NewRecorder(ctx context.Context, store Store, runID string, log logrus.FieldLogger) *Recorder {
	return &Recorder{ctx: ctx, store: store, runID: runID, log: log}
}

// Emit implements report.Sink.
func (r *Recorder) Emit(e report.Entry) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	err := r.store.AppendEntry(r.ctx, Entry{
		RunID:   r.runID,
		Seq:     seq,
		Level:   string(e.Level),
		Message: e.Message,
		Detail:  e.Detail,
		At:      e.Time,
	})
	if err != nil && r.log != nil {
		r.log.WithError(err).WithField("run", r.runID).Warn("history entry not recorded")
	}
}
