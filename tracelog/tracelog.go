// Package tracelog provides a tracer that acts as a traditional logger.
package tracelog

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/pgcodec/pgcodec"
	errors "golang.org/x/xerrors"
)

// LogLevel represents the pgcodec logging level. See LogLevel* constants for
// possible values.
type LogLevel int

// The values for log levels are chosen such that the zero value means that no
// log level was specified.
const (
	LogLevelTrace = LogLevel(6)
	LogLevelDebug = LogLevel(5)
	LogLevelInfo  = LogLevel(4)
	LogLevelWarn  = LogLevel(3)
	LogLevelError = LogLevel(2)
	LogLevelNone  = LogLevel(1)
)

var logLevelNames = map[LogLevel]string{
	LogLevelTrace: "trace",
	LogLevelDebug: "debug",
	LogLevelInfo:  "info",
	LogLevelWarn:  "warn",
	LogLevelError: "error",
	LogLevelNone:  "none",
}

func (ll LogLevel) String() string {
	if s, ok := logLevelNames[ll]; ok {
		return s
	}
	return fmt.Sprintf("invalid level %d", ll)
}

// LogLevelFromString converts a level name as returned by LogLevel.String to a LogLevel. Valid names are trace, debug,
// info, warn, error, and none.
func LogLevelFromString(s string) (LogLevel, error) {
	for ll, name := range logLevelNames {
		if name == s {
			return ll, nil
		}
	}
	return 0, errors.Errorf("invalid log level %q", s)
}

// Logger is the interface used to get log output from pgcodec.
type Logger interface {
	// Log a message at the given level with data key/value pairs. data may be nil.
	Log(ctx context.Context, level LogLevel, msg string, data map[string]any)
}

// LoggerFunc is a wrapper around a function to satisfy the Logger interface
type LoggerFunc func(ctx context.Context, level LogLevel, msg string, data map[string]any)

// Log delegates the logging request to the wrapped function
func (f LoggerFunc) Log(ctx context.Context, level LogLevel, msg string, data map[string]any) {
	f(ctx, level, msg, data)
}

const maxLoggedArgLen = 64

// logQueryArgs shortens long string and []byte arguments. []byte is logged as hex.
func logQueryArgs(args []any) []any {
	logArgs := make([]any, 0, len(args))

	for _, a := range args {
		switch v := a.(type) {
		case []byte:
			if len(v) < maxLoggedArgLen {
				a = hex.EncodeToString(v)
			} else {
				a = fmt.Sprintf("%x (truncated %d bytes)", v[:maxLoggedArgLen], len(v)-maxLoggedArgLen)
			}
		case string:
			if len(v) > maxLoggedArgLen {
				// Cut on a rune boundary.
				n := 0
				for n < maxLoggedArgLen {
					_, w := utf8.DecodeRuneInString(v[n:])
					n += w
				}
				if len(v) > n {
					a = fmt.Sprintf("%s (truncated %d bytes)", v[:n], len(v)-n)
				}
			}
		}
		logArgs = append(logArgs, a)
	}

	return logArgs
}

// TraceLogConfig holds the configuration for key names
type TraceLogConfig struct {
	TimeKey string
}

// DefaultTraceLogConfig returns the default configuration for TraceLog
func DefaultTraceLogConfig() *TraceLogConfig {
	return &TraceLogConfig{
		TimeKey: "time",
	}
}

// TraceLog implements pgcodec.QueryTracer, pgcodec.PrepareTracer, pgcodec.ConnectTracer, and
// pgcodec.ResolveTypesTracer. Logger and LogLevel are required. Config will be automatically initialized on the
// first use if nil.
//
// Every trace is logged once when it ends, at LogLevelError when it failed. Successful queries, prepares, and
// connects are logged at LogLevelInfo and type resolutions at LogLevelDebug.
type TraceLog struct {
	Logger   Logger
	LogLevel LogLevel

	Config           *TraceLogConfig
	ensureConfigOnce sync.Once
}

// ensureConfig initializes the Config field with default values if it is nil.
func (tl *TraceLog) ensureConfig() {
	tl.ensureConfigOnce.Do(
		func() {
			if tl.Config == nil {
				tl.Config = DefaultTraceLogConfig()
			}
		},
	)
}

type ctxKey int

// A query resolves types while its own trace is open, so each kind of trace needs its own key.
const (
	_ ctxKey = iota
	tracelogQueryCtxKey
	tracelogConnectCtxKey
	tracelogPrepareCtxKey
	tracelogResolveTypesCtxKey
)

// traceData is the state kept in the context between the start and the end of a trace.
type traceData struct {
	startTime time.Time
	fields    map[string]any
}

func startTrace(ctx context.Context, key ctxKey, fields map[string]any) context.Context {
	return context.WithValue(ctx, key, &traceData{startTime: time.Now(), fields: fields})
}

// endTrace logs msg with the fields recorded by startTrace and extra. A failed trace is logged at LogLevelError and
// extra is dropped.
func (tl *TraceLog) endTrace(ctx context.Context, conn *pgcodec.Conn, key ctxKey, msg string, lvl LogLevel, err error, extra map[string]any) {
	tl.ensureConfig()

	td, ok := ctx.Value(key).(*traceData)
	if !ok {
		return
	}

	if err != nil {
		lvl = LogLevelError
	}
	if tl.LogLevel < lvl {
		return
	}

	data := make(map[string]any, len(td.fields)+len(extra)+2)
	for k, v := range td.fields {
		data[k] = v
	}
	if err != nil {
		data["err"] = err
	} else {
		for k, v := range extra {
			data[k] = v
		}
	}
	data[tl.Config.TimeKey] = time.Since(td.startTime)

	if conn != nil {
		if pid := conn.PgConn().PID(); pid != 0 {
			data["pid"] = pid
		}
	}

	tl.Logger.Log(ctx, lvl, msg, data)
}

func (tl *TraceLog) TraceQueryStart(ctx context.Context, _ *pgcodec.Conn, data pgcodec.TraceQueryStartData) context.Context {
	return startTrace(ctx, tracelogQueryCtxKey, map[string]any{
		"sql":  data.SQL,
		"args": logQueryArgs(data.Args),
	})
}

func (tl *TraceLog) TraceQueryEnd(ctx context.Context, conn *pgcodec.Conn, data pgcodec.TraceQueryEndData) {
	tl.endTrace(ctx, conn, tracelogQueryCtxKey, "Query", LogLevelInfo, data.Err, map[string]any{
		"commandTag": data.CommandTag.String(),
	})
}

func (tl *TraceLog) TraceConnectStart(ctx context.Context, data pgcodec.TraceConnectStartData) context.Context {
	return startTrace(ctx, tracelogConnectCtxKey, map[string]any{
		"host":     data.ConnConfig.Host,
		"port":     data.ConnConfig.Port,
		"database": data.ConnConfig.Database,
	})
}

// TraceConnectEnd logs the connection attempt. The pid is only known when it succeeded.
func (tl *TraceLog) TraceConnectEnd(ctx context.Context, data pgcodec.TraceConnectEndData) {
	tl.endTrace(ctx, data.Conn, tracelogConnectCtxKey, "Connect", LogLevelInfo, data.Err, nil)
}

func (tl *TraceLog) TracePrepareStart(ctx context.Context, _ *pgcodec.Conn, data pgcodec.TracePrepareStartData) context.Context {
	return startTrace(ctx, tracelogPrepareCtxKey, map[string]any{
		"name": data.Name,
		"sql":  data.SQL,
	})
}

func (tl *TraceLog) TracePrepareEnd(ctx context.Context, conn *pgcodec.Conn, data pgcodec.TracePrepareEndData) {
	tl.endTrace(ctx, conn, tracelogPrepareCtxKey, "Prepare", LogLevelInfo, data.Err, map[string]any{
		"alreadyPrepared": data.AlreadyPrepared,
	})
}

func (tl *TraceLog) TraceResolveTypesStart(ctx context.Context, _ *pgcodec.Conn, data pgcodec.TraceResolveTypesStartData) context.Context {
	return startTrace(ctx, tracelogResolveTypesCtxKey, map[string]any{
		"typeNames": data.TypeNames,
	})
}

func (tl *TraceLog) TraceResolveTypesEnd(ctx context.Context, conn *pgcodec.Conn, data pgcodec.TraceResolveTypesEndData) {
	tl.endTrace(ctx, conn, tracelogResolveTypesCtxKey, "ResolveTypes", LogLevelDebug, data.Err, map[string]any{
		"resolved": data.Resolved,
	})
}
