package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"cardiorisk/client"
	"cardiorisk/logging"
)

func main() {
	addr := flag.String("addr", ":8501", "listen address for the form")
	assetsDir := flag.String("assets", "assets", "directory holding the performance charts")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	logCfg := logging.DefaultConfig()
	logCfg.Level = *logLevel
	logger, err := logging.New(logCfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	api := client.NewAPIClient(client.BaseURLFromEnv(), client.DefaultTimeout, logger)
	assets, err := client.NewAssetStore(*assetsDir, len(client.PerformanceCharts))
	if err != nil {
		logger.Fatal("failed to create asset store", zap.Error(err))
	}
	app, err := client.NewApp(api, assets, logger)
	if err != nil {
		logger.Fatal("failed to build form", zap.Error(err))
	}

	mux := http.NewServeMux()
	app.Register(mux)
	server := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("serving form", zap.String("addr", *addr), zap.String("api", api.BaseURL()))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("form server failed", zap.Error(err))
	}
}
