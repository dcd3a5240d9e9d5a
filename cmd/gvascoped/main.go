package main

import (
	"context"
	"flag"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gvascope/gvascope/internal/config"
	"github.com/gvascope/gvascope/internal/server"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{})))

	var bind string
	var configPath string
	flag.StringVar(&bind, "bind", "", "address to listen on (defaults to the config's api_bind)")
	flag.StringVar(&configPath, "config", "", "override config path (optional)")
	flag.Parse()

	if bind == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			slog.Error("load config", "err", err)
			os.Exit(1)
		}
		bind = cfg.APIBind
	}

	mux := server.NewServer(slog.Default())

	srv := &nethttp.Server{
		Addr:              bind,
		Handler:           mux,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", bind)
		if err := srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-done:
		// proceed to shutdown
	case err := <-errCh:
		slog.Error("listen failed", "err", err)
		os.Exit(1)
	}
	slog.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Warn("graceful shutdown failed", "err", err)
		_ = srv.Close()
	}
	slog.Info("server stopped")
}
