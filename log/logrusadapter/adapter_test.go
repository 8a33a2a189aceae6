package logrusadapter_test

import (
	"context"
	"testing"

	"github.com/pgcodec/pgcodec/log/logrusadapter"
	"github.com/pgcodec/pgcodec/tracelog"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(logrus.DebugLevel)
	logger := logrusadapter.NewLogger(l)

	logger.Log(context.Background(), tracelog.LogLevelError, "Query", map[string]any{"err": "boom"})
	logger.Log(context.Background(), tracelog.LogLevelDebug, "ResolveTypes", nil)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)

	assert.Equal(t, logrus.ErrorLevel, entries[0].Level)
	assert.Equal(t, "Query", entries[0].Message)
	assert.Equal(t, "boom", entries[0].Data["err"])

	assert.Equal(t, logrus.DebugLevel, entries[1].Level)
}
