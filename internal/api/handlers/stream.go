package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/minslab/revmomo/internal/pipeline"
	"github.com/minslab/revmomo/pkg/logger"
)

const pingInterval = 30 * time.Second

// StreamHandler streams pipeline run events over a websocket.
// SSOT: the run event stream lives here only.
type StreamHandler struct {
	runner   *pipeline.Runner
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewStreamHandler creates a run event stream handler.
func NewStreamHandler(runner *pipeline.Runner, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		runner: runner,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: log,
	}
}

// ServeWS upgrades the connection and forwards run events until the
// client disconnects.
func (h *StreamHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	events := h.runner.Subscribe()
	defer h.runner.Unsubscribe(events)

	h.logger.WithField("remote", conn.RemoteAddr().String()).Info("Run stream connected")

	// Reads are discarded; a read error means the client went away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ping.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.WithError(err).Debug("Run stream write failed")
				return
			}
		}
	}
}
