package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/zaqqye/signage_backend/internal/analytics"
	"github.com/zaqqye/signage_backend/internal/config"
	"github.com/zaqqye/signage_backend/internal/controllers"
	"github.com/zaqqye/signage_backend/internal/database"
	xlog "github.com/zaqqye/signage_backend/internal/log"
	"github.com/zaqqye/signage_backend/internal/middleware"
	"github.com/zaqqye/signage_backend/internal/routes"
	"github.com/zaqqye/signage_backend/internal/tasks"
	"github.com/zaqqye/signage_backend/internal/ws"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load .env (non-fatal if missing in production)
	_ = godotenv.Load()

	cfg := config.Load()
	xlog.Configure(xlog.Config{Level: cfg.LogLevel, Service: "signage-server"})
	logger := xlog.WithComponent("main")
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, fileStore, err := openStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("storage init failed")
	}
	defer store.Close()

	if err := database.SeedContent(ctx, store, cfg); err != nil {
		logger.Fatal().Err(err).Msg("content seed failed")
	}
	if cfg.MigrateLegacyLinks {
		n, err := database.MigrateLegacyLinks(ctx, store)
		if err != nil {
			logger.Fatal().Err(err).Msg("legacy link migration failed")
		}
		logger.Info().Int("devices", n).Msg("legacy playlist links migrated")
	}

	recorder, err := analytics.NewRecorder(store, cfg.AnalyticsTimezone)
	if err != nil {
		logger.Fatal().Err(err).Msg("analytics init failed")
	}
	dispatcher := tasks.NewDispatcher(xlog.WithComponent("tasks"))

	hubs := ws.NewHubs()
	hubsDone := make(chan struct{})
	go func() {
		hubs.Run(ctx)
		close(hubsDone)
	}()

	if fileStore != nil && cfg.WatchDataDir {
		watcher := database.NewWatcher(fileStore, xlog.WithComponent("watcher"), func(doc database.Document) {
			if doc == database.ContentDocument {
				controllers.NotifyAll(hubs)
			}
		})
		if err := watcher.Start(ctx); err != nil {
			logger.Warn().Err(err).Msg("data dir watcher disabled")
		} else {
			defer watcher.Stop()
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), middleware.Metrics())
	routes.Register(r, routes.Deps{
		Store:    store,
		Recorder: recorder,
		Tasks:    dispatcher,
		Hubs:     hubs,
		Cfg:      cfg,
	})

	port := cfg.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Str("storage", cfg.StorageDriver).Msg("server listening")
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server exited with error")
			stop()
			<-hubsDone
			dispatcher.Wait()
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
	stop()
	<-hubsDone
	dispatcher.Wait()
}

// openStore picks the storage backend. The file store is also returned on
// its own so the watcher can observe its directory.
func openStore(cfg *config.Config) (database.Store, *database.FileStore, error) {
	switch cfg.StorageDriver {
	case "postgres":
		s, err := database.NewPostgresStore(cfg)
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case "", "file":
		s, err := database.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	}
	return nil, nil, errors.New("unknown STORAGE_DRIVER " + cfg.StorageDriver)
}
