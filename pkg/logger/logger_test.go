package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockceramique/stockceramique-api/pkg/logger"
)

func TestNew_JSONConNivelYApp(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", AppName: "stockceramique", Output: &buf})

	l.Info().Msg("no debe salir")
	l.Warn().Str("article_id", "a1").Msg("stock faible")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "stockceramique", entry["app"])
	assert.Equal(t, "a1", entry["article_id"])
}

func TestNew_NivelDesconocidoCaeAInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "verbose", Output: &buf})

	l.Debug().Msg("oculto")
	c := l.Component("stock")
	c.Info().Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "oculto")
	assert.Contains(t, out, `"component":"stock"`)
}
