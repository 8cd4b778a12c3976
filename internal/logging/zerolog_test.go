package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestNewZerologWriter_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := NewZerologWriter(&bytes.Buffer{}, tt.level, false)
			assert.Equal(t, tt.want, l.Zerolog().GetLevel())
		})
	}
}

func TestZerologLogger_Fields(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewZerologWriter(buf, "debug", false)

	l.Debug("HTTP request", "method", "GET", "endpoint", "/v1/posts/", "status", 200)
	l.Warn("Token refresh failed", "error", errors.New("401"), "access_token", "secret-value")
	l.Info("odd", "dangling")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 3)

	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, "HTTP request", lines[0]["message"])
	assert.Equal(t, "GET", lines[0]["method"])
	assert.Equal(t, float64(200), lines[0]["status"])
	assert.Equal(t, "board", lines[0]["component"])

	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, "401", lines[1]["error"])
	assert.Equal(t, maskValue, lines[1]["access_token"])

	assert.Equal(t, "dangling", lines[2]["!BADKEY"])
}

func TestZerologLogger_FiltersBelowLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewZerologWriter(buf, "warn", false)

	l.Debug("hidden")
	l.Info("hidden")
	l.Error("shown", "endpoint", "/v1/users/me")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestZerologLogger_Pretty(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewZerologWriter(buf, "info", true)

	l.Info("Access token refreshed", "password", "hunter2")

	out := buf.String()
	assert.Contains(t, out, "Access token refreshed")
	assert.NotContains(t, out, "hunter2")
}
