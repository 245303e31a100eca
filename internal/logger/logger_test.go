package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs_RedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]any{"api_key", "sk-123", "skill", "SQL", "Authorization", "Bearer x"})
	assert.Equal(t, []any{"api_key", redacted, "skill", "SQL", "Authorization", redacted}, got)
}

func TestSanitizeKVs_OddLength(t *testing.T) {
	got := sanitizeKVs([]any{"skill", "SQL", "dangling"})
	assert.Equal(t, []any{"skill", "SQL", "dangling"}, got)
}

func TestLogger_WritesRedactedFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("provider", "mistral").Info("gateway configured", "token", "abc", "model", "mistral-small")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	ctx := entry.ContextMap()
	assert.Equal(t, "mistral", ctx["provider"])
	assert.Equal(t, redacted, ctx["token"])
	assert.Equal(t, "mistral-small", ctx["model"])
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("dev", "loud")
	require.Error(t, err)
}

func TestNew_DefaultLevelIsWarn(t *testing.T) {
	l, err := New("dev", "")
	require.NoError(t, err)
	assert.False(t, l.SugaredLogger.Desugar().Core().Enabled(zap.InfoLevel))
	assert.True(t, l.SugaredLogger.Desugar().Core().Enabled(zap.WarnLevel))
}
