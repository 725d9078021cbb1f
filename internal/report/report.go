// Package report carries the operator-facing progress lines of a generation
// run to any number of sinks: the console, the run ledger, a WebSocket.
package report

import (
	"fmt"
	"sync"
	"time"
)

// Level tags a progress line.
type Level string

const (
	Notice  Level = "NOTICE"
	Success Level = "SUCCESS"
	Warning Level = "WARNING"
	Error   Level = "ERROR"
)

// Entry is one progress line. Detail holds an optional Markdown block shown
// below the message.
type Entry struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
	Time    time.Time `json:"time"`
}

// Sink receives entries in emission order.
type Sink interface {
	Emit(Entry)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Entry)

// Emit implements Sink.
func (f SinkFunc) Emit(e Entry) { f(e) }

// Reporter fans entries out to its sinks synchronously.
type Reporter struct {
	sinks []Sink
	now   func() time.Time
}

// New creates a Reporter writing to sinks.
func New(sinks ...Sink) *Reporter {
	return &Reporter{sinks: sinks, now: time.Now}
}

// Emit sends e to every sink, stamping the time when unset.
func (r *Reporter) Emit(e Entry) {
	if e.Time.IsZero() {
		e.Time = r.now()
	}
	for _, s := range r.sinks {
		s.Emit(e)
	}
}

func (r *Reporter) emitf(level Level, format string, args ...any) {
	r.Emit(Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Noticef reports an informational line.
func (r *Reporter) Noticef(format string, args ...any) { r.emitf(Notice, format, args...) }

// Successf reports a completed step.
func (r *Reporter) Successf(format string, args ...any) { r.emitf(Success, format, args...) }

// Warnf reports a step that was skipped or degraded.
func (r *Reporter) Warnf(format string, args ...any) { r.emitf(Warning, format, args...) }

// Errorf reports a failed step.
func (r *Reporter) Errorf(format string, args ...any) { r.emitf(Error, format, args...) }

// Block reports a success line followed by a Markdown block.
func (r *Reporter) Block(message, markdown string) {
	r.Emit(Entry{Level: Success, Message: message, Detail: markdown})
}

// Collector is a Sink that keeps every entry.
type Collector struct {
	mu      sync.Mutex
	entries []Entry
}

// Emit implements Sink.
func (c *Collector) Emit(e Entry) {
	c.mu.Lock()
	c.entries = append(c.entries, e)
	c.mu.Unlock()
}

// Entries returns a copy of the collected entries.
func (c *Collector) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Messages returns "LEVEL message" for each collected entry.
func (c *Collector) Messages() []string {
	entries := c.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = string(e.Level) + " " + e.Message
	}
	return out
}
