package http

import (
	"context"
	"log"
	"net/http"
	"sync"

	"perepiska/internal/api"
	"perepiska/internal/metrics"
)

type AdminServer struct {
	server *http.Server
	wg     sync.WaitGroup
}

func NewAdminServer(adminHandler *api.AdminHandler, m *metrics.Metrics, addr string) *AdminServer {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", adminHandler.HealthHandler)
	mux.HandleFunc("GET /admin/files", adminHandler.FilesHandler)
	mux.Handle("GET /metrics", m.Handler())

	if addr == "" {
		addr = "localhost:8081"
	}

	return &AdminServer{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

func (s *AdminServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *AdminServer) Start() error {
	log.Printf("Admin API started on %s", s.server.Addr)
	s.wg.Add(1)
	defer s.wg.Done()

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *AdminServer) Shutdown(ctx context.Context) error {
	defer s.wg.Wait()
	return s.server.Shutdown(ctx)
}
