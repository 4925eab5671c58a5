package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/dfryer1193/signboard/display/application"
	"github.com/dfryer1193/signboard/display/persistence"
	"github.com/dfryer1193/signboard/internal/config"
	"github.com/dfryer1193/signboard/internal/middleware"
	"github.com/dfryer1193/signboard/internal/rest"
	"github.com/dfryer1193/signboard/internal/ws"
	"github.com/dfryer1193/signboard/shared/db/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 5 * time.Second

func main() {
	cfg := config.Load()

	database := sqlite.NewSQLiteDB(sqlite.NewSQLiteConfig())
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	if err := os.MkdirAll(cfg.ImageDir, 0755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.ImageDir).Msg("Failed to create image directory")
	}

	catalog := persistence.NewCatalogRepository(database.DB(), cfg.ImageDir)
	if err := catalog.ReconcileDir(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to reconcile image directory")
	}

	watcher, err := persistence.NewDirWatcher(catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to watch image directory")
	}
	defer watcher.Close()

	hub := ws.NewHub()
	service := application.NewDisplayService(catalog, hub, cfg.DefaultImage, cfg.MaxUploadBytes)

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	rest.NewApi(router, service, hub, cfg.AdminSecret, cfg.ImageDir)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
