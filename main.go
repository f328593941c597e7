package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	oshttp "net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"perepiska/internal/api"
	"perepiska/internal/chat"
	"perepiska/internal/config"
	"perepiska/internal/filestore"
	"perepiska/internal/http"
	"perepiska/internal/loader"
	"perepiska/internal/message"
	"perepiska/internal/metrics"
	"perepiska/internal/render"
	"perepiska/internal/storage"
	"perepiska/internal/store"
	"perepiska/internal/stubs"
	"perepiska/internal/ws"

	"golang.org/x/sync/errgroup"
)

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	sessionDir, cleanup, err := openSessionDir(cfg.SessionDir)
	if err != nil {
		return err
	}
	defer cleanup()

	blobs, err := filestore.NewLocalFileStore(filepath.Join(sessionDir, "files"))
	if err != nil {
		return err
	}

	bbStorage, err := storage.NewBboltStorage(filepath.Join(sessionDir, "session.db"))
	if err != nil {
		return err
	}
	defer func() { _ = bbStorage.Close() }()

	m := metrics.New()
	conversations := store.New(store.Config{})

	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.LoadTimeout)
	fallback := loader.Populate(loadCtx, conversations, cfg.DataSource, time.Now())
	cancelLoad()
	if fallback {
		m.DataLoads.WithLabelValues("fallback").Inc()
	} else {
		m.DataLoads.WithLabelValues("loaded").Inc()
	}

	hub := ws.NewHub()
	chatService := chat.New(chat.Config{
		User:    stubs.CurrentUser,
		Store:   conversations,
		Factory: message.NewFactory(message.Config{}),
		Blobs:   blobs,
		Files:   bbStorage,
		Hub:     hub,
		Metrics: m,
	})

	renderer, err := render.New(render.Config{CurrentUser: stubs.CurrentUser})
	if err != nil {
		return err
	}

	wsServer := ws.NewServer(hub, chatService, m)
	adminServer := http.NewAdminServer(api.NewAdminHandler(chatService), m, cfg.AdminAddr)
	apiServer := http.NewAPIServer(api.New(chatService, renderer, cfg.Title), wsServer, cfg.APIAddr)

	g, gCtx := errgroup.WithContext(ctx)

	// Start Admin Server
	g.Go(func() error {
		err := adminServer.Start()
		if err != nil && err != oshttp.ErrServerClosed {
			return err
		}
		return nil
	})

	// Start API Server
	g.Go(func() error {
		err := apiServer.Start()
		if err != nil && err != oshttp.ErrServerClosed {
			return err
		}
		return nil
	})

	// Wait for context cancellation (signal)
	g.Go(func() error {
		<-gCtx.Done()
		log.Println("Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := adminServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Admin server shutdown error: %v", err)
		}
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
		return nil
	})

	return g.Wait()
}

// openSessionDir returns the directory holding this session's uploads.
// A directory created here is removed by cleanup; a configured one is kept.
func openSessionDir(dir string) (string, func(), error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", nil, fmt.Errorf("failed to create session dir: %w", err)
		}
		return dir, func() {}, nil
	}

	dir, err := os.MkdirTemp("", "perepiska-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create session dir: %w", err)
	}
	return dir, func() {
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("failed to remove session dir %s: %v", dir, err)
		}
	}, nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Application error: %v", err)
	}
}
