// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/munin-vault/munin/internal/api"
	"github.com/munin-vault/munin/internal/classifier"
	"github.com/munin-vault/munin/internal/enrich"
	"github.com/munin-vault/munin/internal/ingest"
	"github.com/munin-vault/munin/internal/queue"
	"github.com/munin-vault/munin/internal/sse"
	"github.com/munin-vault/munin/internal/store"
	"github.com/munin-vault/munin/internal/vaultservice"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.Bool("extractor", cfg.Extractor.Enabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize the store.
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer db.Close()

	// SSE broker doubles as the notification sink and the event channel.
	broker := sse.NewBroker()
	defer broker.Close()

	var extractor enrich.Extractor
	if cfg.Extractor.Enabled() {
		extractor = &enrich.HTTPExtractor{Endpoint: cfg.Extractor.Endpoint}
	}

	cls := &classifier.Classifier{
		Readme:    &enrich.ReadmeFetcher{},
		Video:     &enrich.VideoMeta{},
		Extractor: extractor,
		Sink:      broker,
	}

	svc := vaultservice.New(db, cls, broker, broker, logger)

	// No extractor means no queue: the endpoint then answers 503 instead of
	// sweeping into guaranteed failures.
	var proc *queue.Processor
	if extractor != nil {
		proc = &queue.Processor{DB: db, Extractor: extractor, Sink: broker, Log: logger}
	}

	apiRouter := api.NewRouter(svc, proc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Sweep the deferred-extraction queue shortly after startup: captures
	// made offline get their article content once we are back up.
	if proc != nil {
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return nil
			case <-time.After(5 * time.Second):
			}
			if err := proc.ProcessPending(gCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("queue sweep failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Drop-folder watcher.
	if cfg.Ingest.Dir != "" {
		watcher := &ingest.Watcher{Dir: cfg.Ingest.Dir, Service: svc, Log: logger}
		g.Go(func() error {
			if err := watcher.Run(gCtx); err != nil {
				logger.Error("ingest watcher error", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
