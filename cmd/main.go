package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geodash/internal/apiclient"
	"geodash/internal/auth"
	"geodash/internal/config"
	"geodash/internal/dashboard"
	"geodash/internal/ipecho"
	"geodash/internal/logger"
	"geodash/internal/metrics"
	"geodash/internal/web"
	"geodash/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault().Fatal().Err(err).Msg("loading configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	tokens, err := auth.NewTokenStore(cfg.TokenPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.TokenPath).Msg("loading token store")
	}

	var opts []apiclient.Option
	if cfg.DevFallback {
		log.Info().Msg("dev fallback enabled: failed lookups serve canned data")
		opts = append(opts, apiclient.WithDevFallback())
	}
	api := apiclient.New(cfg.BackendURL, tokens, log, opts...)

	resolver := ipecho.NewResolver(log)
	authService := auth.NewService(api, tokens, resolver, log)
	dash := dashboard.New(api, resolver, log)
	m := metrics.New()

	handler := web.NewWebHandler(dash, authService, tokens, m, cfg, log)
	mw := middleware.NewMiddleware(tokens)

	var root http.Handler = handler.SetupRoutes(mw)
	root = middleware.Metrics(m)(root)
	root = middleware.Logging(log)(root)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: root,
	}

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Str("backend", cfg.BackendURL).Msg("dashboard listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
