package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scrap-rally/internal/arena"
	"scrap-rally/internal/archive"
	"scrap-rally/internal/config"
	"scrap-rally/internal/logging"
	transporthttp "scrap-rally/internal/transport/http"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	if err := logging.Init(cfg.Log); err != nil {
		panic(err)
	}

	var sink arena.ResultSink
	var lb transporthttp.Leaderboarder
	var store *archive.Store
	if cfg.Server.PostgresDSN != "" {
		store, err = archive.New(context.Background(), cfg.Server.PostgresDSN, log.Logger)
		if err != nil {
			log.Fatal().Err(err).Msg("archive init failed")
		}
		if err := store.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		if err := store.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("ensure schema failed")
		}
		sink = store
		lb = store
	} else {
		log.Info().Msg("no POSTGRES_DSN, results archive disabled")
	}

	coord := arena.NewCoordinator(arena.Options{
		RoomTTL:        cfg.Server.RoomTTL,
		PumpInterval:   cfg.Server.PumpInterval,
		EventBufferMax: cfg.Server.EventBufferMax,
		Tunables:       cfg.Game.Tunables(),
		Sink:           sink,
		Log:            log.Logger,
	})
	coord.StartJanitor(context.Background(), cfg.Server.JanitorInterval)

	r := transporthttp.NewRouter(coord, lb, cfg.Server)
	transporthttp.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server stopped")
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	coord.Shutdown()
	if store != nil {
		store.Close()
	}
	log.Info().Msg("bye")
}
