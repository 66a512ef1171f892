package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"pms_dashboard/internal/adapters/observability"
	"pms_dashboard/internal/adapters/pms"
	redisad "pms_dashboard/internal/adapters/redis"
	"pms_dashboard/internal/app"
	"pms_dashboard/internal/shared"
)

// warmer refreshes the cached room catalog of every configured hotel, so the
// first dashboard load after a deploy does not wait on RoomInfo.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	hotels, err := shared.LoadHotels(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("hotel registry")
	}
	codes := make([]string, 0, len(hotels.Hotels()))
	for _, h := range hotels.Hotels() {
		codes = append(codes, h.Code)
	}

	log.Info().
		Str("base", cfg.PMSBase).
		Int("workers", cfg.WarmWorkers).
		Int("hotels", len(codes)).
		Msg("warmer starting")

	client, err := pms.New(cfg.PMSBase, cfg.PMSRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PMS client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
	}

	svc := app.NewAvailabilityService(client, hotels, cache, cfg.CacheTTL)
	failed, err := svc.WarmCatalogs(ctx, codes, cfg.WarmWorkers)
	if err != nil {
		log.Error().Err(err).Msg("warm interrupted")
	}
	log.Info().Int("failed", failed).Int("total", len(codes)).Msg("warm completed")
	if failed > 0 || err != nil {
		os.Exit(1)
	}
}
