package api

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/colonysim/internal/engine"
)

const (
	maxStreamConns = 8
	pingInterval   = 30 * time.Second
	writeWait      = 10 * time.Second
)

// streamHub pushes every tick report to websocket clients as JSON.
type streamHub struct {
	sim      *engine.Simulation
	upgrader websocket.Upgrader
	conns    int32
}

func newStreamHub(sim *engine.Simulation) *streamHub {
	return &streamHub{
		sim: sim,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Read-only stream, any origin may watch
			},
		},
	}
}

func (h *streamHub) handle(w http.ResponseWriter, r *http.Request) {
	current := atomic.AddInt32(&h.conns, 1)
	defer atomic.AddInt32(&h.conns, -1)
	if current > maxStreamConns {
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	subID, reports := h.sim.Subscribe()
	defer h.sim.Unsubscribe(subID)
	slog.Info("stream client connected", "sub_id", subID, "remote", r.RemoteAddr)

	// Catch-up: the latest report.
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(h.sim.LastReport()); err != nil {
		return
	}

	// Read pump: clients send nothing, but reading surfaces close frames.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case rep, ok := <-reports:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(rep); err != nil {
				slog.Debug("stream write failed", "sub_id", subID, "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				slog.Debug("stream ping failed", "sub_id", subID, "error", err)
				return
			}
		case <-closed:
			slog.Info("stream client disconnected", "sub_id", subID)
			return
		}
	}
}
