package wire

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"

	"github.com/matthewbaird/appbuilder/internal/generate"
	"github.com/matthewbaird/appbuilder/internal/report"
)

// Runner executes a batch command, reporting to extra sinks.
type Runner interface {
	Run(ctx context.Context, cmd generate.Command, extra ...report.Sink) (generate.Summary, error)
}

// Handler manages WebSocket connections that trigger generation runs.
type Handler struct {
	runner Runner
	log    logrus.FieldLogger
}

// NewHandler creates a WebSocket handler.
func NewHandler(runner Runner, log logrus.FieldLogger) *Handler {
	return &Handler{runner: runner, log: log}
}

// ServeHTTP upgrades to WebSocket and runs the message loop.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.WithError(err).Warn("wire: websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	for {
		var msg ClientMessage
		err := wsjson.Read(ctx, conn, &msg)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				h.log.WithField("status", websocket.CloseStatus(err)).Debug("wire: connection closed")
			}
			return
		}

		switch msg.Type {
		case "generate":
			h.handleGenerate(ctx, conn, msg)
		case "ping":
			h.send(ctx, conn, ServerMessage{Type: "pong", RequestID: msg.ID})
		default:
			h.sendError(ctx, conn, msg.ID, "unknown_type", fmt.Sprintf("unknown message type: %s", msg.Type))
		}
	}
}

func (h *Handler) handleGenerate(ctx context.Context, conn *websocket.Conn, msg ClientMessage) {
	var data GenerateData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		h.sendError(ctx, conn, msg.ID, "invalid_data", "invalid generate data")
		return
	}
	cmd, err := generate.ParseCommand(data.Command)
	if err != nil {
		h.sendError(ctx, conn, msg.ID, "unknown_command", err.Error())
		return
	}

	stream := report.SinkFunc(func(e report.Entry) {
		h.send(ctx, conn, ServerMessage{Type: "line", RequestID: msg.ID, Data: LineData(e)})
	})
	sum, err := h.runner.Run(ctx, cmd, stream)
	if err != nil {
		h.send(ctx, conn, ServerMessage{
			Type:      "error",
			RequestID: msg.ID,
			Data:      ErrorData{Code: "run_failed", Message: err.Error(), RunID: sum.RunID},
		})
		return
	}
	h.send(ctx, conn, ServerMessage{Type: "done", RequestID: msg.ID, Data: DoneData(sum)})
}

func (h *Handler) send(ctx context.Context, conn *websocket.Conn, msg ServerMessage) {
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		h.log.WithError(err).Debug("wire: write error")
	}
}

func (h *Handler) sendError(ctx context.Context, conn *websocket.Conn, requestID, code, message string) {
	h.send(ctx, conn, ServerMessage{
		Type:      "error",
		RequestID: requestID,
		Data: ErrorData{
			Code:    code,
			Message: message,
		},
	})
}
