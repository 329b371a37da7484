// Package app initializes and runs the inspection agent: it wires the local
// progress database, the capture hardware adapter, object storage, the fleet
// data service client, and the device-UI HTTP server, and handles graceful
// shutdown.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"convoyinspect/internal/agent/api"
	"convoyinspect/internal/agent/capture"
	"convoyinspect/internal/agent/config"
	"convoyinspect/internal/agent/remote"
	"convoyinspect/internal/agent/repositories/progress"
	"convoyinspect/internal/agent/services"
	"convoyinspect/internal/agent/storage"
	"convoyinspect/internal/logging"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions *services.SessionService
	handler  *api.Handler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store := progress.NewSQLiteRepository(db)
	if removed, err := store.GarbageCollect(ctx, cfg.SnapshotRetention); err != nil {
		logger.Error(ctx, "snapshot garbage collection failed", "error", err)
	} else if removed > 0 {
		logger.Info(ctx, "stale progress snapshots removed", "count", removed)
	}

	objects, err := storage.NewS3Storage(ctx, cfg.S3Region, cfg.S3BaseEndpoint, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("s3 init error: %w", err)
	}

	rc := remote.NewHTTPClient(cfg.DataServiceURL, cfg.APIToken)
	camera := capture.NewSpoolAdapter(cfg.SpoolDir)

	uploads := services.NewUploadOrchestrator(objects, rc, logger)
	commits := services.NewCommitCoordinator(rc, uploads, store, logger)
	docs := services.NewDocumentSaver(objects, logger)
	sessions := services.NewSessionService(rc, store, camera, docs, commits, cfg.AutosaveDebounce, logger)

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		sessions: sessions,
		handler:  api.NewHandler(sessions, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the device-UI API until the context is cancelled or a shutdown
// signal arrives. Pending progress edits are flushed before exit.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting inspection agent", "addr", app.config.ListenAddr)

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.ListenAddr,
		Handler: app.handler.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		app.logger.Error(ctx, "http server failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "http server shutdown", "error", err)
	}

	app.sessions.Close()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing progress database", "error", err)
	}

	return runErr
}
