package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/lsbacktest/pkg/config"
)

func jsonConfig(level string) *config.Config {
	return &config.Config{Env: "development", LogLevel: level, LogFormat: "json"}
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output: %s", buf.String())
	return entry
}

func TestNewWithWriter_SetsGlobalLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(jsonConfig(tt.level), &buf)
			require.NotNil(t, log)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"warning", zerolog.WarnLevel},
		{"off", zerolog.Disabled},
		{"invalid", zerolog.InfoLevel}, // Default
		{"", zerolog.InfoLevel},        // Default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(jsonConfig("debug"), &buf)

	log.WithFields(map[string]interface{}{
		"rows":    3,
		"tickers": 2,
	}).Info("panel loaded")

	entry := decode(t, &buf)
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "panel loaded", entry["message"])
	assert.Equal(t, "development", entry["env"])
	assert.EqualValues(t, 3, entry["rows"])
	assert.EqualValues(t, 2, entry["tickers"])
}

func TestLogger_WithError(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(jsonConfig("debug"), &buf)

	log.WithError(errors.New("file not found")).Error("load failed")

	entry := decode(t, &buf)
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "file not found", entry["error"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(jsonConfig("warn"), &buf)

	log.Debug("hidden")
	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warnf("threshold %d exceeds %d tickers", 40, 38)
	entry := decode(t, &buf)
	assert.Equal(t, "threshold 40 exceeds 38 tickers", entry["message"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().WithField("k", "v").Info("discarded")
	})
}
