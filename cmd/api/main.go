package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "pms_dashboard/internal/adapters/http_server"
	"pms_dashboard/internal/adapters/observability"
	"pms_dashboard/internal/adapters/pms"
	redisad "pms_dashboard/internal/adapters/redis"
	"pms_dashboard/internal/app"
	"pms_dashboard/internal/domain"
	"pms_dashboard/internal/shared"
	"pms_dashboard/internal/storage/memory"
	mysqlrepo "pms_dashboard/internal/storage/mysql"
)

type store interface {
	domain.DirectoryRepository
	domain.RuleRepository
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	hotels, err := shared.LoadHotels(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("hotel registry")
	}

	client, err := pms.New(cfg.PMSBase, cfg.PMSRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PMS client")
	}

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		// cache errors degrade to misses
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
	}

	repo, closeRepo := openStore(cfg)
	defer closeRepo()

	avail := app.NewAvailabilityService(client, hotels, cache, cfg.CacheTTL)

	srv := server.New(cfg.CORSOrigins)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Avail:        avail,
		Board:        app.NewBoard(),
		Dir:          app.NewDirectoryService(repo, hotels),
		Rules:        app.NewRuleService(repo, hotels),
		Hotels:       hotels,
		DefaultHotel: cfg.HotelCode,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("pms", cfg.PMSBase).Int("hotels", len(hotels.Hotels())).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

// openStore picks MySQL when MYSQL_DSN is set and an in-memory store otherwise.
func openStore(cfg shared.Config) (store, func()) {
	if cfg.MySQLDSN == "" {
		log.Warn().Msg("MYSQL_DSN not set, directory data is kept in memory")
		return memory.New(), func() {}
	}
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")
	return mysqlrepo.New(db), func() { _ = db.Close() }
}
