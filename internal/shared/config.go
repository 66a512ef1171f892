package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	PMSBase       string
	PMSRPS        int
	HotelCode     string // default hotel for the edge endpoints
	HotelAuthCode string
	HotelsFile    string
	WarmWorkers   int
	CacheTTL      time.Duration
	CORSOrigins   []string
}

// Load reads the environment, after an optional .env file in the working directory.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env not loaded")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ""),
		MySQLDSN:      env("MYSQL_DSN", ""), // empty: in-memory directory
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisDB:       atoi("REDIS_DB", 0),
		RedisPass:     env("REDIS_PASSWORD", ""),
		PMSBase:       env("PMS_BASE_URL", "https://live.ipms247.com"),
		PMSRPS:        atoi("PMS_RPS", 5),
		HotelCode:     env("HOTEL_CODE", "102"),
		HotelAuthCode: env("HOTEL_AUTH_CODE", ""),
		HotelsFile:    env("HOTELS_FILE", ""),
		WarmWorkers:   atoi("WARM_WORKERS", 4),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		CORSOrigins:   splitList(env("CORS_ORIGINS", "*")),
	}
	if c.HotelAuthCode == "" {
		log.Warn().Msg("HOTEL_AUTH_CODE is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
