// Package kitlogadapter provides a logger that writes to a github.com/go-kit/log.Logger.
package kitlogadapter

import (
	"context"
	"sort"

	"github.com/go-kit/log"
	kitlevel "github.com/go-kit/log/level"
	"github.com/pgcodec/pgcodec/tracelog"
)

// Logger writes the data of each entry as key/value pairs in key order, followed by msg.
type Logger struct {
	l log.Logger
}

func NewLogger(l log.Logger) *Logger {
	return &Logger{l: l}
}

func (l *Logger) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	keyvals := make([]any, 0, 2*len(keys)+2)
	for _, k := range keys {
		keyvals = append(keyvals, k, data[k])
	}

	var logger log.Logger
	switch level {
	case tracelog.LogLevelTrace:
		// go-kit has no trace level.
		logger = log.WithPrefix(l.l, kitlevel.Key(), kitlevel.DebugValue(), "PGCODEC_LOG_LEVEL", level)
	case tracelog.LogLevelDebug:
		logger = kitlevel.Debug(l.l)
	case tracelog.LogLevelInfo:
		logger = kitlevel.Info(l.l)
	case tracelog.LogLevelWarn:
		logger = kitlevel.Warn(l.l)
	case tracelog.LogLevelError:
		logger = kitlevel.Error(l.l)
	default:
		logger = log.WithPrefix(l.l, "INVALID_PGCODEC_LOG_LEVEL", level)
	}

	logger.Log(append(keyvals, "msg", msg)...)
}
