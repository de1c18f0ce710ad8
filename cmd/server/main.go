package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"estoque/internal/adapter"
	"estoque/internal/adapter/memory"
	"estoque/internal/adapter/mongo"
	"estoque/internal/adapter/sqlite"
	"estoque/internal/auth"
	"estoque/internal/config"
	"estoque/internal/infrastructure/logger"
	"estoque/internal/inventory"
	"estoque/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx := context.Background()

	backend, closeBackend, err := openBackend(ctx, cfg.Storage)
	if err != nil {
		zapLogger.Fatal("opening storage backend", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeBackend()
	zapLogger.Info("storage backend ready", zap.String("driver", cfg.Storage.Driver))

	store, invCtrl := inventory.NewModule(backend, inventory.PersistOptions{
		MaxAttempts: cfg.Persist.MaxAttempts,
		Backoff:     cfg.Persist.Backoff,
	}, zapLogger)
	defer store.Close()

	if err := store.Load(ctx); err != nil {
		zapLogger.Fatal("loading catalog", zap.Error(err))
	}

	sessions := auth.NewService(cfg.Auth.Username, cfg.Auth.Password, zapLogger)
	authCtrl := auth.NewController(sessions, zapLogger)

	router := server.NewRouter(authCtrl, invCtrl, sessions, zapLogger)
	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

func openBackend(ctx context.Context, cfg config.StorageConfig) (adapter.Adapter, func(), error) {
	switch cfg.Driver {
	case "memory":
		return memory.New(), func() {}, nil
	case "sqlite":
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case "mongo":
		store, err := mongo.New(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			store.Close(closeCtx)
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
