package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/towxml/internal/api"
	"github.com/dgallion1/towxml/internal/backend"
	"github.com/dgallion1/towxml/internal/config"
	"github.com/dgallion1/towxml/internal/export"
	"github.com/dgallion1/towxml/internal/stats"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.ExportDir, 0o755); err != nil {
		log.Error("create export dir", "dir", cfg.ExportDir, "error", err)
		os.Exit(1)
	}

	be := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	srv := api.NewServer(be, export.New(cfg.ExportDir), stats.NewRenderStats(cfg.StatsWindow), log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		be.Close()
	}()

	log.Info("starting towxml", "port", cfg.Port, "backend", be.BaseURL())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
