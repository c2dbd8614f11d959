package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := Component(New(Config{Level: "debug", Output: &buf}), "server")
	l.Debug().Int("page", 2).Msg("built feed page")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "server", entry["component"])
	assert.Equal(t, "built feed page", entry["message"])
	assert.EqualValues(t, 2, entry["page"])
	assert.Contains(t, entry, "time")
}

func TestNew_LevelFallback(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "chatty", Output: &buf})
	assert.Equal(t, zerolog.InfoLevel, l.GetLevel())

	l.Debug().Msg("hidden")
	assert.Zero(t, buf.Len())
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "info", Format: "console", Output: &buf})
	l.Info().Msg("listening")
	assert.Contains(t, buf.String(), "listening")
	assert.NotContains(t, buf.String(), `"message"`)
}
