package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mateuszmatysiak/collab-list/internal/api"
	"github.com/mateuszmatysiak/collab-list/internal/config"
	"github.com/mateuszmatysiak/collab-list/internal/database"
	"github.com/mateuszmatysiak/collab-list/internal/store"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.Environment)
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		sugar.Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		sugar.Fatalw("migrations failed", "error", err)
	}
	if err := database.Seed(ctx, db); err != nil {
		sugar.Fatalw("seeding failed", "error", err)
	}

	router := api.SetupRouter(cfg, sugar, store.NewPostgres(db))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		sugar.Infow("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("shutdown failed", "error", err)
	}
}

func newLogger(environment string) *zap.Logger {
	var logger *zap.Logger
	var err error
	if environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	return logger
}
