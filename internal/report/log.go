package report

import "github.com/sirupsen/logrus"

// LogSink forwards entries to a logrus logger. The server uses it so runs
// started over the WebSocket also show up in the process log.
type LogSink struct {
	Log logrus.FieldLogger
}

// Emit implements Sink.
func (s LogSink) Emit(e Entry) {
	l := s.Log.WithField("tag", string(e.Level))
	switch e.Level {
	case Error:
		l.Error(e.Message)
	case Warning:
		l.Warn(e.Message)
	default:
		l.Info(e.Message)
	}
}
