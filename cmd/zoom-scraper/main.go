package main

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

	"github.com/maltedev/zoom-price-scraper/internal/api"
	"github.com/maltedev/zoom-price-scraper/internal/app"
	"github.com/maltedev/zoom-price-scraper/internal/config"
	"github.com/maltedev/zoom-price-scraper/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// run serves until ctx is cancelled or the listener fails. The stack is
// closed before it returns in both cases.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stack, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize scraper: %w", err)
	}
	defer func() {
		if err := stack.Close(); err != nil {
			log.Error("failed to close resources", "error", err)
		}
	}()

	if stack.Relay != nil {
		go func() {
			if err := stack.Relay.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("relay stopped with error", "error", err)
			}
		}()
	}

	handlers := api.NewHandlers(stack.Dispatcher, stack.Health, log)
	router := api.NewRouter(handlers, api.RouterOptions{
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		<-ctx.Done()

		log.Info("shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
	}()

	log.Info("server starting", "port", cfg.Server.Port, "base_url", cfg.Server.BaseURL)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on :%d: %w", cfg.Server.Port, err)
	}
	return nil
}
