package logx

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-support-poc/server/internal/core"
)

func TestInit_ProductionWritesJSONAndFile(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	file := filepath.Join(t.TempDir(), "agent.log")
	Init(LoggerOpts{Environment: core.Production, File: file, Output: &buf})

	Debug().Msg("hidden")
	Info().Str("conversation_id", "c1").Msg("turn done")

	assert.Contains(t, buf.String(), `"message":"turn done"`)
	assert.Contains(t, buf.String(), `"conversation_id":"c1"`)
	assert.NotContains(t, buf.String(), "hidden")

	raw, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "turn done")
}

func TestInit_TestingUsesPlainConsole(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	Init(LoggerOpts{Environment: core.Testing, Output: &buf})

	Debug().Str("route", "intent").Msg("Dialogue turn resolved")

	out := buf.String()
	assert.Contains(t, out, "Dialogue turn resolved")
	assert.Contains(t, out, "route=intent")
	assert.NotContains(t, out, "\x1b[")
}
