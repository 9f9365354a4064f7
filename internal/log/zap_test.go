package log

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit(t *testing.T) {
	defer func(prev *zap.Logger) { Logger = prev }(Logger)

	for _, level := range []string{"", "debug", "info", "warn", "error"} {
		t.Run("level "+level, func(t *testing.T) {
			require.NoError(t, Init(level))
			assert.NotNil(t, Logger)
		})
	}

	assert.Error(t, Init("loud"))
}

func TestHelpersUseSharedLogger(t *testing.T) {
	defer func(prev *zap.Logger) { Logger = prev }(Logger)

	core, logs := observer.New(zap.DebugLevel)
	Logger = zap.New(core)

	Info("segment loaded", String("segment", "HT1"), Int("frames", 1500))
	Warn("non-metrical pitch")
	Error("write failed", ErrorField(errors.New("disk full")))
	Named("cache").Debug("hit")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "segment loaded", entries[0].Message)
	assert.Equal(t, "HT1", entries[0].ContextMap()["segment"])
	assert.Equal(t, "disk full", entries[2].ContextMap()["error"])
	assert.Equal(t, "cache", entries[3].LoggerName)
}
