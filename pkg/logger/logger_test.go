package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "info", Format: "json", Output: &buf})

	log.Info("Rates loaded", "session", "abc", "count", 3)
	log.Debug("hidden below info")

	out := buf.String()
	assert.Contains(t, out, `"msg":"Rates loaded"`)
	assert.Contains(t, out, `"session":"abc"`)
	assert.NotContains(t, out, "hidden below info")
}

func TestLogger_WithKeepsFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Format: "logfmt", Output: &buf}).With("component", "service")

	log.Debug("Session mounted")

	assert.Contains(t, buf.String(), "component=service")
	assert.Contains(t, buf.String(), "Session mounted")
}

func TestParseLevel_FallsBackToInfo(t *testing.T) {
	assert.Equal(t, parseLevel("info"), parseLevel("nonsense"))
	assert.Equal(t, parseLevel("info"), parseLevel(""))
	assert.NotEqual(t, parseLevel("info"), parseLevel("DEBUG"))
}
