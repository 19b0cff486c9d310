// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/config"
)

// Init sets the global logger: human-readable console output in
// development, JSON lines everywhere else.
func Init(env config.Environment, level string) error {
	return initWriter(env, level, os.Stderr)
}

func initWriter(env config.Environment, level string, out io.Writer) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zerolog.TimeFieldFormat = time.RFC3339

	if env.IsDevelopment() {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Str("env", string(env)).Logger()
	zerolog.SetGlobalLevel(lvl)

	return nil
}

// GormLevel is the SQL logging level for an environment.
func GormLevel(env config.Environment) gormlogger.LogLevel {
	if env.IsDevelopment() {
		return gormlogger.Info
	}
	return gormlogger.Warn
}
