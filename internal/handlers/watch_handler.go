package handlers

import (
	"net/http"
	"time"

	"jobprep/interview/internal/interview"
	"jobprep/interview/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

// WSFrame is a server to client message on the session stream.
type WSFrame struct {
	Type string             `json:"type"`
	Data interview.Snapshot `json:"data"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are enforced by the CORS layer and the bearer token
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WatchInterview streams session snapshots, including every countdown tick, over a
// WebSocket until the session goes away or the client disconnects.
func (h *InterviewHandler) WatchInterview(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)
	sessionID := chi.URLParam(r, "id")

	updates, cancel, err := h.sessions.Watch(userID, sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer cancel()
	e, err := h.sessions.Get(userID, sessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// reader: only needed to notice the client going away and to answer pongs
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	send := func(frame WSFrame) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(frame) == nil
	}

	if !send(WSFrame{Type: "snapshot", Data: e.Snapshot()}) {
		return
	}

	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case snap, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(wsWriteWait))
				return
			}
			if !send(WSFrame{Type: "snapshot", Data: snap}) {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
