package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfigure(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	require.NoError(t, Configure("WARN", "console"))
	assert.NotSame(t, prev, Log)
	assert.False(t, Log.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Log.Desugar().Core().Enabled(zapcore.WarnLevel))
}

func TestConfigureRejectsUnknownLevel(t *testing.T) {
	prev := Log
	assert.Error(t, Configure("loud", "json"))
	assert.Same(t, prev, Log, "a failed configure keeps the current logger")
}
