package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/paylume/checkout/internal/env"
)

// New returns the service logger: JSON in production, console writer
// in development.
func New(service string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	if env.IsDevelopment() {
		writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
		return zerolog.New(writer).With().Timestamp().Str("service", service).Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Str("service", service).Logger()
}
