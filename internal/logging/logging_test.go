package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn", "json")

	logger.Info().Msg("hidden")
	logger.Warn().Str("driver", "mongo").Msg("shown")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "mongo", entry["driver"])
	assert.Contains(t, entry, "time")
}

func TestNewWithWriter_Levels(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, NewWithWriter(&bytes.Buffer{}, "DEBUG", "json").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewWithWriter(&bytes.Buffer{}, "", "json").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewWithWriter(&bytes.Buffer{}, "chatty", "json").GetLevel())
}

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info", "console")
	logger.Info().Msg("server starting")

	assert.Contains(t, buf.String(), "server starting")
	assert.False(t, json.Valid(buf.Bytes()))
}
