// Package monitor exposes a node's transport.Status over HTTP/WebSocket,
// for a gateway's observability surface (grounded on the meshigo-kore
// ydin/api package's event-stream handler: net/http plus
// github.com/gorilla/websocket, no router framework).
package monitor

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ystepanoff/meshtransport/transport"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Server serves a single node's status, polled from snapshot.
type Server struct {
	snapshot func() transport.Status
	log      transport.Logger
}

// New builds a Server that calls snapshot on demand for the current
// Status; snapshot is typically core.GetStatus. log may be nil.
func New(snapshot func() transport.Status, log transport.Logger) *Server {
	if log == nil {
		log = transport.NopLogger{}
	}
	return &Server{snapshot: snapshot, log: log}
}

// Handler returns the mux serving GET /status and GET /status/stream.
func (s *Server) Handler() http.Handler {
	// Plain path patterns: the module's go directive (1.21) selects the
	// ServeMux that does not route method-prefixed patterns. The websocket
	// upgrade already rejects anything but GET on /status/stream.
	mux := http.NewServeMux()
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.getStatus(w, r)
	})
	mux.HandleFunc("/status/stream", s.streamStatus)
	return mux
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.snapshot())
}

// streamStatus pushes a Status snapshot every pollInterval until the
// client disconnects.
func (s *Server) streamStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("monitor: ws upgrade", "err", err)
		return
	}
	defer conn.Close()

	tick := time.NewTicker(pollInterval)
	defer tick.Stop()

	for {
		select {
		case <-tick.C:
			if err := conn.WriteJSON(s.snapshot()); err != nil {
				s.log.Debug("monitor: ws write", "err", err)
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

const pollInterval = 2 * time.Second
