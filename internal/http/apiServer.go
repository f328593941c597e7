package http

import (
	"context"
	"log"
	"net/http"
	"sync"

	"perepiska/internal/api"
	"perepiska/internal/ws"
	"perepiska/static"
)

type APIServer struct {
	server *http.Server
	wg     sync.WaitGroup
}

func NewAPIServer(apiHandlers *api.API, wsServer *ws.Server, addr string) *APIServer {
	mux := http.NewServeMux()

	// Application page and embedded assets
	mux.HandleFunc("GET /{$}", apiHandlers.IndexHandler)
	mux.Handle("GET /static/", http.StripPrefix("/static", NewFileServerHandler(static.Content)))

	// API endpoints
	mux.HandleFunc("GET /api/conversations", apiHandlers.ConversationsHandler)
	mux.HandleFunc("POST /api/conversations/{id}/select", api.RequireSameOrigin(apiHandlers.SelectHandler))
	mux.HandleFunc("GET /api/thread", apiHandlers.ThreadHandler)
	mux.HandleFunc("POST /api/messages", api.RequireSameOrigin(apiHandlers.SendMessageHandler))
	mux.HandleFunc("POST /api/upload", api.RequireSameOrigin(apiHandlers.UploadHandler))
	mux.HandleFunc("GET /api/files/{id}", apiHandlers.FileHandler)

	// WebSocket endpoint
	mux.HandleFunc("GET /api/ws", wsServer.HandleConnections)

	if addr == "" {
		addr = ":8080"
	}

	return &APIServer{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *APIServer) Start() error {
	log.Printf("Server started on %s", s.server.Addr)
	s.wg.Add(1)
	defer s.wg.Done()

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *APIServer) Shutdown(ctx context.Context) error {
	defer s.wg.Wait()
	return s.server.Shutdown(ctx)
}
