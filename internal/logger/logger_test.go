package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := (&Logger{sugar: zap.New(core).Sugar()}).With("component", "api")

	l.Warn("upload rejected", "file", "a.pptx")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, "upload rejected", entry.Message)
	assert.Equal(t, map[string]any{"component": "api", "file": "a.pptx"}, entry.ContextMap())
}

func TestNewByEnv(t *testing.T) {
	for _, env := range []string{"development", "production", ""} {
		l, err := New(env)
		require.NoError(t, err, env)
		l.Info("ready")
	}
	Nop().Error("dropped")
}
