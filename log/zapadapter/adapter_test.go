package zapadapter_test

import (
	"context"
	"testing"

	"github.com/pgcodec/pgcodec/log/zapadapter"
	"github.com/pgcodec/pgcodec/tracelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zapadapter.NewLogger(zap.New(core))

	logger.Log(context.Background(), tracelog.LogLevelInfo, "Query", map[string]any{"sql": "select 1"})
	logger.Log(context.Background(), tracelog.LogLevelTrace, "ResolveTypes", nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "Query", entries[0].Message)
	assert.Equal(t, "select 1", entries[0].ContextMap()["sql"])

	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, "trace", entries[1].ContextMap()["PGCODEC_LOG_LEVEL"])
}
