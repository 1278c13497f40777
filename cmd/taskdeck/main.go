// Command taskdeck runs the board ordering service: HTTP API, storage, and
// event bus wired from configuration.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taskdeck/taskdeck/internal/board/api"
	"github.com/taskdeck/taskdeck/internal/board/repository"
	"github.com/taskdeck/taskdeck/internal/board/service"
	"github.com/taskdeck/taskdeck/internal/common/config"
	"github.com/taskdeck/taskdeck/internal/common/logger"
	"github.com/taskdeck/taskdeck/internal/db"
	"github.com/taskdeck/taskdeck/internal/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	repo, err := openRepository(cfg, log)
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer func() { _ = repo.Close() }()

	bus, err := events.NewEventBus(cfg.NATS, log)
	if err != nil {
		log.Fatal("Failed to create event bus", zap.Error(err))
	}
	defer bus.Close()

	svc := service.NewService(repo, bus, log, cfg.Board)

	if os.Getenv("TASKDECK_ENV") == "production" || os.Getenv("TASKDECK_ENV") == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, api.NewHandler(svc, log))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	go func() {
		log.Info("Starting taskdeck server",
			zap.String("addr", addr),
			zap.String("driver", cfg.Database.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}

func openRepository(cfg *config.Config, log *logger.Logger) (repository.Repository, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Info("Using in-memory storage")
		return repository.NewMemoryRepository(), nil
	case config.DriverSQLite:
		conn, err := db.OpenSQLite(cfg.Database.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("Using SQLite storage", zap.String("path", cfg.Database.SQLitePath))
		return repository.NewSQLRepository(conn)
	case config.DriverPostgres:
		conn, err := db.OpenPostgres(cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MinConns)
		if err != nil {
			return nil, err
		}
		log.Info("Using PostgreSQL storage", zap.String("host", cfg.Database.Host))
		return repository.NewSQLRepository(conn)
	default:
		return nil, fmt.Errorf("unknown database driver: %s", cfg.Database.Driver)
	}
}
