package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/config"
)

func TestInitWriter_JSONOutsideDevelopment(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	require.NoError(t, initWriter(config.EnvProduction, "info", &buf))

	log.Debug().Msg("hidden")
	log.Info().Str("book", "Dune").Msg("visible")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["message"])
	assert.Equal(t, "Dune", entry["book"])
	assert.Equal(t, "production", entry["env"])
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestInitWriter_ConsoleInDevelopment(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	var buf bytes.Buffer
	require.NoError(t, initWriter(config.EnvDevelopment, "debug", &buf))

	log.Debug().Msg("starting up")

	assert.Contains(t, buf.String(), "starting up")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestInitWriter_InvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, initWriter(config.EnvProduction, "loud", &buf))
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, GormLevel(config.EnvDevelopment))
	assert.Equal(t, gormlogger.Warn, GormLevel(config.EnvAcceptance))
	assert.Equal(t, gormlogger.Warn, GormLevel(config.EnvProduction))
}
