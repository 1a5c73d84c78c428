package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds the service logger. Development gets a human readable console
// writer, every other environment gets JSON lines.
func New(environment string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	env := strings.ToLower(strings.TrimSpace(environment))
	if env == "" || env == "development" || env == "local" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		return zerolog.New(output).
			Level(zerolog.DebugLevel).
			With().
			Timestamp().
			Str("service", "fleet-reports").
			Logger()
	}

	return zerolog.New(os.Stdout).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("service", "fleet-reports").
		Str("env", env).
		Logger()
}
