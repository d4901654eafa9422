package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/court-reservation/internal/application"
	"github.com/example/court-reservation/internal/backup"
	"github.com/example/court-reservation/internal/config"
	"github.com/example/court-reservation/internal/server"
)

const shutdownGracePeriod = 3 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	roster, err := application.DefaultRoster(application.DefaultArgon2idParams)
	if err != nil {
		logger.Error("failed to build user roster", "error", err)
		os.Exit(1)
	}

	store := application.NewScheduleStore(logger)
	if cfg.BackupFile != "" {
		backups := backup.NewStore(cfg.BackupFile, logger)
		snapshot, err := backups.Load()
		if err != nil {
			logger.Warn("failed to load schedule snapshot, starting empty", "path", cfg.BackupFile, "error", err)
		} else if snapshot != nil {
			store.Load(snapshot)
			logger.Info("schedule seeded from snapshot", "path", cfg.BackupFile)
		}
		store.SetOnChange(backups.Hook())
	}

	tokenGenerator := uuid.NewString
	auth := application.NewAuthServiceWithLogger(roster, nil, tokenGenerator, time.Now, cfg.TokenTTL, logger)
	reservations := application.NewReservationServiceWithLogger(store, logger)
	handlers := server.NewHandlers(auth, reservations, logger)

	srv := server.New(server.Options{
		Addr:        cfg.ListenAddr,
		IdleTimeout: cfg.IdleTimeout,
		Auth:        auth,
		Handlers:    handlers,
		Logger:      logger,
	})

	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	done := make(chan struct{})
	go func() {
		srv.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownGracePeriod):
		logger.Warn("grace period exceeded, abandoning open connections")
	}
	logger.Info("shutdown complete")
}
