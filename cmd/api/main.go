package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miarma/api/internal/config"
	"github.com/miarma/api/internal/database"
	"github.com/miarma/api/internal/filter"
	"github.com/miarma/api/internal/handler"
	"github.com/miarma/api/internal/logger"
	"github.com/miarma/api/internal/query"
	"github.com/miarma/api/internal/repository"
	"github.com/miarma/api/internal/router"
	"github.com/miarma/api/internal/server"
	"github.com/miarma/api/internal/service"
	"github.com/rs/zerolog"
)

const DefaultContextTimeout = 30

func main() {
	// Used until the configured logger exists.
	boot := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to load config")
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		boot.Fatal().Err(err).Msg("failed to start logger service")
	}
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	if err := database.Migrate(context.Background(), &log, cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	if srv.DB.Dialect() == query.SQLite {
		if err := database.MigrateSQLite(context.Background(), srv.DB); err != nil {
			log.Fatal().Err(err).Msg("failed to apply sqlite schema")
		}
	}

	repos, err := repository.NewRepositories(srv.DB, filter.Options{
		DefaultLimit: cfg.Query.DefaultLimit,
		MaxLimit:     cfg.Query.MaxLimit,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build repositories")
	}

	services := service.NewServices(srv, repos)
	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
