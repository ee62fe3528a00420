package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"kcalcount/internal"
	"kcalcount/internal/config"
	"kcalcount/internal/container"
	"kcalcount/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, _ := internal.ParseLogLevel(appConfig.Log.Level)
	logger := internal.NewLoggerWithOptions(internal.LogOptions{
		Level:  level,
		Format: appConfig.Log.Format,
		File:   appConfig.Log.File,
	})
	internal.DefaultLogger = logger

	// Create dependency injection container; this loads the model and must
	// succeed before anything listens
	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	server, err := ui.NewServer(appContainer.Predictor, ui.Options{
		GinMode:         appConfig.Server.GinMode,
		ReadTimeout:     appConfig.Server.ReadTimeout,
		WriteTimeout:    appConfig.Server.WriteTimeout,
		ShutdownTimeout: appConfig.Server.ShutdownTimeout,
		ModelHash:       appContainer.ModelHash,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go servePprof(ctx, appConfig.Profiling.Port, logger)
	}

	if err := server.Run(ctx, ":"+appConfig.Server.Port); err != nil {
		logger.Error("Server stopped with error: %v", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

func servePprof(ctx context.Context, port string, logger *internal.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	srv := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Performance profiling server starting on :%s", port)
	logger.Info("View profiles: go tool pprof -http=:8081 http://localhost:%s/debug/pprof/profile?seconds=30", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("pprof server failed: %v", err)
	}
}
