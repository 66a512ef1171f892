package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the process logger. APP_ENV=dev (or development) gets a
// console writer at debug level; anything else logs JSON at info level.
func NewLogger(env string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Str("service", "pmsgrid").Logger()
	}
	return zerolog.New(os.Stdout).
		Level(zerolog.InfoLevel).
		With().Timestamp().Str("service", "pmsgrid").Logger()
}
