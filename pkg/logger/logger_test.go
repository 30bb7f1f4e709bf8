package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpersWriteToInjectedLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(zap.NewNop()) })

	Warn("page cache unavailable", zap.String("user", "u1"))
	Info("started")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "page cache unavailable", entries[0].Message)
		assert.Equal(t, "u1", entries[0].ContextMap()["user"])
	}
}

func TestInit_FallsBackToInfoOnBadLevel(t *testing.T) {
	t.Cleanup(func() { Set(zap.NewNop()) })
	assert.NoError(t, Init("not-a-level", false))
	assert.False(t, L().Core().Enabled(zap.DebugLevel))
	assert.True(t, L().Core().Enabled(zap.InfoLevel))
}
