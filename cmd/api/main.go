package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"ticklist/internal/app"
	"ticklist/internal/config"
	"ticklist/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Errorf("configuration error: %v", err)
		os.Exit(1)
	}
	logger.Init(cfg.Debug)

	service := app.New(cfg)

	// The collection schema must be in place before the first request.
	ctx := context.Background()
	if err := service.Bootstrap(ctx); err != nil {
		logrus.Fatalf("schema bootstrap failed: %v", err)
	}

	httpServer := app.NewHTTPServer(service, cfg)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logrus.Infof("ticklist listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("shutdown error: %v", err)
	}
}
