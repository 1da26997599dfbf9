package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger_WritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLogger(&buf, "debug")
	ctx := context.Background()

	log.With("entry_id", "42").Warn(ctx, "save failed", "attempt", 2)
	require.NoError(t, log.Sync())

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "save failed", line["msg"])
	assert.Equal(t, "42", line["entry_id"])
	assert.EqualValues(t, 2, line["attempt"])
}

func TestZapLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log := NewZapLogger(&buf, "error")
	ctx := context.Background()

	log.Info(ctx, "hidden")
	log.Error(ctx, "shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestNew_Backends(t *testing.T) {
	for _, backend := range []string{"", BackendSlog, BackendSlogJSON, BackendZap} {
		var buf bytes.Buffer
		log, err := New(backend, "info", &buf)
		require.NoError(t, err, backend)
		log.Info(context.Background(), "hello", "k", "v")
		assert.True(t, strings.Contains(buf.String(), "hello"), backend)
	}

	_, err := New("syslog", "info", nil)
	require.Error(t, err)
}

func TestParseLevel_DefaultsToInfo(t *testing.T) {
	assert.Equal(t, "INFO", ParseLevel("verbose").String())
	assert.Equal(t, "DEBUG", ParseLevel("DEBUG").String())
	assert.Equal(t, "WARN", ParseLevel("warning").String())
}
