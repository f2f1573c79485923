package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Pointing/internal/adapters/http"
	"github.com/dkeye/Pointing/internal/app"
	"github.com/dkeye/Pointing/internal/app/orch"
	"github.com/dkeye/Pointing/internal/config"
	"github.com/dkeye/Pointing/internal/core"
	"github.com/dkeye/Pointing/internal/domain"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	scale, err := domain.ParseScale(cfg.VoteScale)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid vote scale")
	}

	rooms := core.NewRegistry(scale)
	conns := app.NewConnRegistry()
	auth := app.NewTokenAuthority(cfg.Secret, cfg.TokenTTL, nil)

	o := &orch.Orchestrator{
		Rooms:           rooms,
		Conns:           conns,
		Auth:            auth,
		DefaultCapacity: cfg.DefaultCapacity,
		MaxCapacity:     cfg.MaxCapacity,
	}

	sweeper := &app.Sweeper{
		Registry:  rooms,
		Interval:  cfg.SweepInterval,
		IdleAfter: cfg.IdleTimeout,
	}
	go sweeper.Run(ctx)

	r := router.SetupRouter(ctx, cfg, o)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Pointing server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
