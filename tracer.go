package pgcodec

import (
	"context"

	"github.com/jackc/pgconn"
)

// QueryTracer traces Query and Fetch.
type QueryTracer interface {
	// TraceQueryStart is called at the beginning of Query and Fetch calls. The returned context is used for the rest of
	// the call and will be passed to TraceQueryEnd.
	TraceQueryStart(ctx context.Context, conn *Conn, data TraceQueryStartData) context.Context

	TraceQueryEnd(ctx context.Context, conn *Conn, data TraceQueryEndData)
}

type TraceQueryStartData struct {
	SQL  string
	Args []any
}

type TraceQueryEndData struct {
	CommandTag pgconn.CommandTag
	Err        error
}

// PrepareTracer traces Prepare.
type PrepareTracer interface {
	// TracePrepareStart is called at the beginning of Prepare calls. The returned context is used for the
	// rest of the call and will be passed to TracePrepareEnd.
	TracePrepareStart(ctx context.Context, conn *Conn, data TracePrepareStartData) context.Context

	TracePrepareEnd(ctx context.Context, conn *Conn, data TracePrepareEndData)
}

type TracePrepareStartData struct {
	Name string
	SQL  string
}

type TracePrepareEndData struct {
	AlreadyPrepared bool
	Err             error
}

// ConnectTracer traces Connect and ConnectConfig.
type ConnectTracer interface {
	// TraceConnectStart is called at the beginning of Connect and ConnectConfig calls. The returned context is used for
	// the rest of the call and will be passed to TraceConnectEnd.
	TraceConnectStart(ctx context.Context, data TraceConnectStartData) context.Context

	TraceConnectEnd(ctx context.Context, data TraceConnectEndData)
}

type TraceConnectStartData struct {
	ConnConfig *ConnConfig
}

type TraceConnectEndData struct {
	Conn *Conn
	Err  error
}

// ResolveTypesTracer traces the lookup of registered type names performed before a query.
type ResolveTypesTracer interface {
	TraceResolveTypesStart(ctx context.Context, conn *Conn, data TraceResolveTypesStartData) context.Context

	TraceResolveTypesEnd(ctx context.Context, conn *Conn, data TraceResolveTypesEndData)
}

type TraceResolveTypesStartData struct {
	// TypeNames are the qualified names of the registrations being resolved.
	TypeNames []string
}

type TraceResolveTypesEndData struct {
	// Resolved maps qualified type names to their OIDs.
	Resolved map[string]uint32
	Err      error
}

type MultiTracer struct {
	QueryTracers        []QueryTracer
	PrepareTracers      []PrepareTracer
	ConnectTracers      []ConnectTracer
	ResolveTypesTracers []ResolveTypesTracer
}

func NewMultiTracer(tracers ...QueryTracer) *MultiTracer {
	var t MultiTracer

	for _, tracer := range tracers {
		t.QueryTracers = append(t.QueryTracers, tracer)

		if prepareTracer, ok := tracer.(PrepareTracer); ok {
			t.PrepareTracers = append(t.PrepareTracers, prepareTracer)
		}

		if connectTracer, ok := tracer.(ConnectTracer); ok {
			t.ConnectTracers = append(t.ConnectTracers, connectTracer)
		}

		if resolveTypesTracer, ok := tracer.(ResolveTypesTracer); ok {
			t.ResolveTypesTracers = append(t.ResolveTypesTracers, resolveTypesTracer)
		}
	}

	return &t
}

func (t *MultiTracer) TraceQueryStart(ctx context.Context, conn *Conn, data TraceQueryStartData) context.Context {
	for _, tracer := range t.QueryTracers {
		ctx = tracer.TraceQueryStart(ctx, conn, data)
	}

	return ctx
}

func (t *MultiTracer) TraceQueryEnd(ctx context.Context, conn *Conn, data TraceQueryEndData) {
	for _, tracer := range t.QueryTracers {
		tracer.TraceQueryEnd(ctx, conn, data)
	}
}

func (t *MultiTracer) TracePrepareStart(ctx context.Context, conn *Conn, data TracePrepareStartData) context.Context {
	for _, tracer := range t.PrepareTracers {
		ctx = tracer.TracePrepareStart(ctx, conn, data)
	}

	return ctx
}

func (t *MultiTracer) TracePrepareEnd(ctx context.Context, conn *Conn, data TracePrepareEndData) {
	for _, tracer := range t.PrepareTracers {
		tracer.TracePrepareEnd(ctx, conn, data)
	}
}

func (t *MultiTracer) TraceConnectStart(ctx context.Context, data TraceConnectStartData) context.Context {
	for _, tracer := range t.ConnectTracers {
		ctx = tracer.TraceConnectStart(ctx, data)
	}

	return ctx
}

func (t *MultiTracer) TraceConnectEnd(ctx context.Context, data TraceConnectEndData) {
	for _, tracer := range t.ConnectTracers {
		tracer.TraceConnectEnd(ctx, data)
	}
}

func (t *MultiTracer) TraceResolveTypesStart(ctx context.Context, conn *Conn, data TraceResolveTypesStartData) context.Context {
	for _, tracer := range t.ResolveTypesTracers {
		ctx = tracer.TraceResolveTypesStart(ctx, conn, data)
	}

	return ctx
}

func (t *MultiTracer) TraceResolveTypesEnd(ctx context.Context, conn *Conn, data TraceResolveTypesEndData) {
	for _, tracer := range t.ResolveTypesTracers {
		tracer.TraceResolveTypesEnd(ctx, conn, data)
	}
}
