package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Server upgrades HTTP requests to websocket sessions keyed by the user
// identifier in the URL path.
type Server struct {
	registry *Registry
	upgrader *websocket.Upgrader
}

func NewServer(registry *Registry) *Server {
	return &Server{
		registry: registry,
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for now
			},
		},
	}
}

// HandleConnection serves GET /ws/{user}. Unknown users are closed with
// CloseUnknownUser before the receive loop starts. The receive loop only
// echoes inbound frames; its termination is what triggers Unbind.
func (s *Server) HandleConnection(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("user")

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("error upgrading to websocket: %v", err)
		return
	}

	conn := newGorillaConn(ws)
	if err := s.registry.Bind(userID, conn); err != nil {
		// Bind already closed the connection with a distinguishable code.
		return
	}
	defer s.registry.UnbindConn(userID, conn)

	for {
		msgType, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		if err := conn.echo(data); err != nil {
			return
		}
	}
}
