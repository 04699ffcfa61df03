package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRejectsUnknownLevel(t *testing.T) {
	err := Init(Config{Level: "loud"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "parse log level")
}

func TestCtxAddsRunIDToJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "debug", Format: FormatJSON, Output: &buf}))
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	ctx := ContextWithRunID(context.Background(), "abc12345")
	Ctx(ctx).Info().Str("steam_id", "7656").Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc12345", line["run_id"])
	assert.Equal(t, "7656", line["steam_id"])
	assert.Equal(t, "hello", line["message"])
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "warn", Format: FormatJSON, Output: &buf}))
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestRedirectKeepsLevelAndRestores(t *testing.T) {
	var base, redirected bytes.Buffer
	require.NoError(t, Init(Config{Level: "warn", Format: FormatJSON, Output: &base}))
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	restore := Redirect(&redirected)
	Info().Msg("filtered")
	Warn().Msg("during")
	restore()
	Warn().Msg("after")

	assert.NotContains(t, redirected.String(), "filtered")
	assert.Contains(t, redirected.String(), "during")
	assert.NotContains(t, redirected.String(), "after")
	assert.Contains(t, base.String(), "after")
	assert.NotContains(t, base.String(), "during")
}

func TestNewRunIDIsShort(t *testing.T) {
	assert.Len(t, NewRunID(), 8)
	assert.Empty(t, RunIDFromContext(context.Background()))
}
