// Package mockserver runs pgmock scripts on a local listener and provides the message sequences pgcodec produces
// for prepares, executions, and type resolution.
package mockserver

import (
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgmock"
	"github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgtype"
	errors "golang.org/x/xerrors"
)

// ProcessID is the backend pid reported by ConnRequestSteps.
const ProcessID = 42

// Server accepts one connection and runs a script on it.
type Server struct {
	ln      net.Listener
	errChan chan error
}

// Start listens on a random local port and serves script to the first client.
func Start(script *pgmock.Script) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:")
	if err != nil {
		return nil, err
	}

	s := &Server{ln: ln, errChan: make(chan error, 1)}

	go func() {
		defer close(s.errChan)

		conn, err := ln.Accept()
		if err != nil {
			s.errChan <- err
			return
		}
		defer conn.Close()

		err = conn.SetDeadline(time.Now().Add(5 * time.Second))
		if err != nil {
			s.errChan <- err
			return
		}

		err = script.Run(pgproto3.NewBackend(pgproto3.NewChunkReader(conn), conn))
		if err != nil {
			s.errChan <- err
			return
		}
	}()

	return s, nil
}

// ConnString returns a connection string for the server.
func (s *Server) ConnString() string {
	host, port, _ := net.SplitHostPort(s.ln.Addr().String())
	return fmt.Sprintf("sslmode=disable host=%s port=%s", host, port)
}

// Wait blocks until the script has finished and returns its error.
func (s *Server) Wait() error {
	return <-s.errChan
}

func (s *Server) Close() error {
	return s.ln.Close()
}

// ConnRequestSteps accepts a connection without authentication and reports serverVersion.
func ConnRequestSteps(serverVersion string) []pgmock.Step {
	return []pgmock.Step{
		pgmock.ExpectAnyMessage(&pgproto3.StartupMessage{ProtocolVersion: pgproto3.ProtocolVersionNumber, Parameters: map[string]string{}}),
		pgmock.SendMessage(&pgproto3.AuthenticationOk{}),
		pgmock.SendMessage(&pgproto3.ParameterStatus{Name: "server_version", Value: serverVersion}),
		pgmock.SendMessage(&pgproto3.BackendKeyData{ProcessID: ProcessID, SecretKey: 0}),
		pgmock.SendMessage(&pgproto3.ReadyForQuery{TxStatus: 'I'}),
	}
}

// Binds records the parameters of every Bind message received.
type Binds struct {
	Parameters [][][]byte
}

type receiveUntilSyncStep struct {
	binds *Binds
}

func (e *receiveUntilSyncStep) Step(backend *pgproto3.Backend) error {
	for {
		msg, err := backend.Receive()
		if err != nil {
			return err
		}

		switch msg := msg.(type) {
		case *pgproto3.Sync:
			return nil
		case *pgproto3.Terminate:
			return errors.New("unexpected terminate")
		case *pgproto3.Bind:
			if e.binds != nil {
				// The backend reuses its messages.
				params := make([][]byte, len(msg.Parameters))
				for i, p := range msg.Parameters {
					if p != nil {
						params[i] = append([]byte{}, p...)
					}
				}
				e.binds.Parameters = append(e.binds.Parameters, params)
			}
		}
	}
}

// ReceiveUntilSync consumes frontend messages through the next Sync. binds may be nil.
func ReceiveUntilSync(binds *Binds) pgmock.Step {
	return &receiveUntilSyncStep{binds: binds}
}

// Field returns a text format field description.
func Field(name string, oid uint32) pgproto3.FieldDescription {
	return pgproto3.FieldDescription{
		Name:         []byte(name),
		DataTypeOID:  oid,
		DataTypeSize: -1,
		TypeModifier: -1,
		Format:       0,
	}
}

// Row builds a data row. nil is NULL, string and []byte are sent as is.
func Row(values ...any) *pgproto3.DataRow {
	dr := &pgproto3.DataRow{Values: make([][]byte, len(values))}
	for i, v := range values {
		switch v := v.(type) {
		case nil:
		case string:
			dr.Values[i] = []byte(v)
		case []byte:
			dr.Values[i] = v
		default:
			panic(fmt.Sprintf("unsupported row value %T", v))
		}
	}
	return dr
}

// PrepareSteps answers a Parse, Describe, Sync sequence.
func PrepareSteps(paramOIDs []uint32, fields ...pgproto3.FieldDescription) []pgmock.Step {
	steps := []pgmock.Step{
		ReceiveUntilSync(nil),
		pgmock.SendMessage(&pgproto3.ParseComplete{}),
		pgmock.SendMessage(&pgproto3.ParameterDescription{ParameterOIDs: paramOIDs}),
	}
	if len(fields) == 0 {
		steps = append(steps, pgmock.SendMessage(&pgproto3.NoData{}))
	} else {
		steps = append(steps, pgmock.SendMessage(&pgproto3.RowDescription{Fields: fields}))
	}
	return append(steps, pgmock.SendMessage(&pgproto3.ReadyForQuery{TxStatus: 'I'}))
}

// ExecSteps answers a Bind, Describe, Execute, Sync sequence of a prepared statement with rows.
func ExecSteps(binds *Binds, fields []pgproto3.FieldDescription, rows ...*pgproto3.DataRow) []pgmock.Step {
	steps := []pgmock.Step{
		ReceiveUntilSync(binds),
		pgmock.SendMessage(&pgproto3.BindComplete{}),
	}
	return append(steps, resultSteps(fields, rows)...)
}

// ErrorSteps answers the next sequence with an error.
func ErrorSteps(code, message string) []pgmock.Step {
	return []pgmock.Step{
		ReceiveUntilSync(nil),
		pgmock.SendMessage(&pgproto3.ErrorResponse{Severity: "ERROR", Code: code, Message: message}),
		pgmock.SendMessage(&pgproto3.ReadyForQuery{TxStatus: 'I'}),
	}
}

// Type is a row of the type resolution query.
type Type struct {
	OID     uint32
	Name    string
	Schema  string
	Visible bool
}

// ResolveTypesSteps answers the type resolution query with types.
func ResolveTypesSteps(types ...Type) []pgmock.Step {
	fields := []pgproto3.FieldDescription{
		Field("oid", pgtype.OIDOID),
		Field("typname", pgtype.NameOID),
		Field("nspname", pgtype.NameOID),
		Field("pg_type_is_visible", pgtype.BoolOID),
	}

	rows := make([]*pgproto3.DataRow, len(types))
	for i, t := range types {
		visible := "f"
		if t.Visible {
			visible = "t"
		}
		rows[i] = Row(fmt.Sprint(t.OID), t.Name, t.Schema, visible)
	}

	steps := []pgmock.Step{
		ReceiveUntilSync(nil),
		pgmock.SendMessage(&pgproto3.ParseComplete{}),
		pgmock.SendMessage(&pgproto3.BindComplete{}),
	}
	return append(steps, resultSteps(fields, rows)...)
}

// CloseSteps expects the client to terminate the connection.
func CloseSteps() []pgmock.Step {
	return []pgmock.Step{pgmock.ExpectMessage(&pgproto3.Terminate{})}
}

func resultSteps(fields []pgproto3.FieldDescription, rows []*pgproto3.DataRow) []pgmock.Step {
	var steps []pgmock.Step
	if len(fields) == 0 {
		steps = append(steps, pgmock.SendMessage(&pgproto3.NoData{}))
	} else {
		steps = append(steps, pgmock.SendMessage(&pgproto3.RowDescription{Fields: fields}))
	}
	for _, row := range rows {
		steps = append(steps, pgmock.SendMessage(row))
	}
	return append(steps,
		pgmock.SendMessage(&pgproto3.CommandComplete{CommandTag: []byte(fmt.Sprintf("SELECT %d", len(rows)))}),
		pgmock.SendMessage(&pgproto3.ReadyForQuery{TxStatus: 'I'}),
	)
}
