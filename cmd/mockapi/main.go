// mockapi runs the bundled stand-in for the remote geolocation
// backend, so the dashboard can be exercised without real
// infrastructure.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geodash/db"
	"geodash/internal/config"
	"geodash/internal/logger"
	"geodash/internal/mockapi"
)

func main() {
	cfg, err := config.LoadMock()
	if err != nil {
		logger.NewDefault().Fatal().Err(err).Msg("loading configuration")
	}

	log := logger.NewDefault()

	conn, err := db.ConnectToSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("opening history database")
	}
	if err := db.InitializeSchema(conn); err != nil {
		log.Fatal().Err(err).Msg("initializing schema")
	}

	history := db.NewSQLiteHistoryRepository(conn)
	defer history.Close()

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: mockapi.NewServer(cfg, history, log).Routes(),
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("mock backend listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
