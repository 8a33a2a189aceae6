package log15adapter_test

import (
	"context"
	"testing"

	"github.com/pgcodec/pgcodec/log/log15adapter"
	"github.com/pgcodec/pgcodec/tracelog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	log "gopkg.in/inconshreveable/log15.v2"
)

func TestLogger(t *testing.T) {
	var records []*log.Record
	l := log.New()
	l.SetHandler(log.FuncHandler(func(r *log.Record) error {
		records = append(records, r)
		return nil
	}))

	logger := log15adapter.NewLogger(l)
	logger.Log(context.Background(), tracelog.LogLevelWarn, "Query", map[string]any{"sql": "select 1"})
	logger.Log(context.Background(), tracelog.LogLevelTrace, "ResolveTypes", nil)

	require.Len(t, records, 2)
	assert.Equal(t, log.LvlWarn, records[0].Lvl)
	assert.Equal(t, "Query", records[0].Msg)
	assert.Equal(t, []any{"sql", "select 1"}, records[0].Ctx)

	assert.Equal(t, log.LvlDebug, records[1].Lvl)
	assert.Equal(t, []any{"PGCODEC_LOG_LEVEL", tracelog.LogLevelTrace}, records[1].Ctx)
}
