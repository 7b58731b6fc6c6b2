package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"itemtrack/internal/config"
	"itemtrack/internal/handlers"
	"itemtrack/internal/logger"
	"itemtrack/internal/repository"
	"itemtrack/internal/repository/db"
	"itemtrack/internal/server"
	"itemtrack/internal/service"
	"itemtrack/internal/token"

	_ "itemtrack/docs"
)

const shutdownTimeout = 10 * time.Second

// @title        itemtrack API
// @version      1.0
// @description  Multi-tenant item tracking with cookie-held JWT sessions.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger level comes from config, so fall back to a default logger here
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel)

	// open DB
	database, err := db.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	codec := token.NewCodec(cfg.Auth.SigningKey, cfg.Auth.TokenTTL)
	repos := repository.NewRepository(database)
	services := service.NewService(repos, codec)
	apiHandler := handlers.NewHandler(services, cfg.Auth, log)

	// start HTTP server
	srv := &server.Server{}
	go func() {
		if err := srv.Run(cfg.Port, apiHandler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
	log.Infow("server started", "port", cfg.Port)

	waitForShutdown(srv, log)
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
