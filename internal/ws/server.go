package ws

import (
	"log"
	"net/http"

	"perepiska/internal/metrics"

	"github.com/gorilla/websocket"
)

type Server struct {
	hub        *Hub
	dispatcher Dispatcher
	metrics    *metrics.Metrics
	upgrader   *websocket.Upgrader
}

func NewServer(hub *Hub, dispatcher Dispatcher, m *metrics.Metrics) *Server {
	return &Server{
		hub:        hub,
		dispatcher: dispatcher,
		metrics:    m,
		upgrader:   &websocket.Upgrader{},
	}
}

// HandleConnections upgrades the request and serves view events until the socket closes.
// The default upgrader only accepts same-origin requests.
func (s *Server) HandleConnections(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("error upgrading to websocket: %v", err)
		return
	}

	c := NewConnection(s.hub, s.dispatcher, conn)
	s.metrics.ViewConnections.Inc()
	defer s.metrics.ViewConnections.Dec()

	if err := c.Handle(r.Context()); err != nil && !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
		log.Printf("view connection closed: %v", err)
	}
}
