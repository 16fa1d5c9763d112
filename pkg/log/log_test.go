package log

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup_FormatSelection(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	Setup("info", "json")
	assert.IsType(t, &slog.JSONHandler{}, slog.Default().Handler())

	Setup("info", "text")
	assert.IsType(t, &slog.TextHandler{}, slog.Default().Handler())

	// Unknown formats fall back to text.
	Setup("info", "xml")
	assert.IsType(t, &slog.TextHandler{}, slog.Default().Handler())
}

func TestSetup_LevelFallback(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	Setup("nope", "text")
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelInfo))
	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}
