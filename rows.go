package pgcodec

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgproto3/v2"
	errors "golang.org/x/xerrors"
)

// Rows is the result set returned from *Conn.Query. Rows must be closed before
// the *Conn can be used again. Rows are closed by explicitly calling Close(),
// calling Next() until it returns false, or when a fatal error occurs.
//
// Once a Rows is closed the only methods that may be called are Close(), Err(),
// and CommandTag().
type Rows interface {
	// Close closes the rows, making the connection ready for use again. It is safe
	// to call Close after rows is already closed.
	Close()

	// Err returns any error that occurred while reading. Err must only be called after the Rows is closed (either by
	// calling Close or by Next returning false).
	Err() error

	// CommandTag returns the command tag from this query. It is only available after Rows is closed.
	CommandTag() pgconn.CommandTag

	// FieldDescriptions returns the field descriptions of the columns. It may return nil. In particular this can occur
	// when there was an error executing the query.
	FieldDescriptions() []pgproto3.FieldDescription

	// Next prepares the next row for reading. Every column of the row is decoded before Next returns, exactly once. It
	// returns true if there is another row and false if no more rows are available or a fatal error has occurred. A
	// codec failure is a fatal error. It automatically closes rows when all rows are read.
	Next() bool

	// Scan reads the decoded values from the current row into dest values positionally. dest can include pointers to
	// values the decoded values are assignable or convertible to, sql.Scanner implementations, and nil. nil will skip
	// the value entirely.
	Scan(dest ...any) error

	// Values returns the decoded row values.
	Values() ([]any, error)

	// Record returns the decoded row values with their column names.
	Record() Record

	// RawValues returns the unparsed bytes of the row values. The returned data is only valid until the next Next
	// call or the Rows is closed.
	RawValues() [][]byte
}

// Row is a convenience wrapper over Rows that is returned by QueryRow.
type Row interface {
	// Scan works the same as Rows. with the following exceptions. If no
	// rows were found it returns ErrNoRows. If multiple rows are returned it
	// ignores all but the first.
	Scan(dest ...any) error
}

// connRow implements the Row interface for Conn.QueryRow.
type connRow baseRows

func (r *connRow) Scan(dest ...any) (err error) {
	rows := (*baseRows)(r)

	if rows.Err() != nil {
		return rows.Err()
	}

	if !rows.Next() {
		if rows.Err() == nil {
			return ErrNoRows
		}
		return rows.Err()
	}

	rows.Scan(dest...)
	rows.Close()
	return rows.Err()
}

// baseRows implements the Rows interface for Conn.Query.
type baseRows struct {
	ctx      context.Context
	conn     *Conn
	registry *Registry

	resultReader      *pgconn.ResultReader
	fieldDescriptions []pgproto3.FieldDescription
	names             []string
	values            [][]byte
	decoded           []any

	commandTag pgconn.CommandTag
	err        error
	closed     bool

	sql  string
	args []any

	rowCount    int
	queryTracer QueryTracer
}

func (rows *baseRows) FieldDescriptions() []pgproto3.FieldDescription {
	if rows.fieldDescriptions == nil && rows.resultReader != nil {
		rows.fieldDescriptions = rows.resultReader.FieldDescriptions()
	}
	return rows.fieldDescriptions
}

func (rows *baseRows) Close() {
	if rows.closed {
		return
	}

	rows.closed = true

	if rows.resultReader != nil {
		var closeErr error
		rows.commandTag, closeErr = rows.resultReader.Close()
		if rows.err == nil {
			rows.err = wrapQueryError(rows.sql, closeErr)
		}
	}

	if rows.queryTracer != nil {
		rows.queryTracer.TraceQueryEnd(rows.ctx, rows.conn, TraceQueryEndData{CommandTag: rows.commandTag, Err: rows.err})
	}
}

func (rows *baseRows) CommandTag() pgconn.CommandTag {
	return rows.commandTag
}

func (rows *baseRows) Err() error {
	return rows.err
}

// fatal signals an error occurred after the query was sent to the server. It
// closes the rows automatically.
func (rows *baseRows) fatal(err error) {
	if rows.err != nil {
		return
	}

	rows.err = err
	rows.Close()
}

func (rows *baseRows) Next() bool {
	if rows.closed {
		return false
	}

	if rows.resultReader.NextRow() {
		fds := rows.FieldDescriptions()
		rows.rowCount++
		rows.values = rows.resultReader.Values()
		if len(rows.values) != len(fds) {
			rows.fatal(errors.Errorf("row has %d values but %d field descriptions", len(rows.values), len(fds)))
			return false
		}

		// A fresh slice per row since Values and Record hand it to the caller.
		decoded := make([]any, len(rows.values))
		for i, buf := range rows.values {
			v, err := rows.registry.decodeColumn(i, &fds[i], buf)
			if err != nil {
				rows.fatal(err)
				return false
			}
			decoded[i] = v
		}
		rows.decoded = decoded

		return true
	}

	rows.Close()
	return false
}

func (rows *baseRows) Scan(dest ...any) error {
	if rows.decoded == nil {
		err := errors.New("no row to scan, call Next first")
		rows.fatal(err)
		return err
	}

	if len(dest) != len(rows.decoded) {
		err := errors.Errorf("number of field descriptions must equal number of destinations, got %d and %d", len(rows.decoded), len(dest))
		rows.fatal(err)
		return err
	}

	for i, dst := range dest {
		if dst == nil {
			continue
		}

		err := assignValue(dst, rows.decoded[i])
		if err != nil {
			err = ScanArgError{ColumnIndex: i, Err: err}
			rows.fatal(err)
			return err
		}
	}

	return nil
}

func (rows *baseRows) Values() ([]any, error) {
	if rows.closed {
		return nil, errors.New("rows is closed")
	}

	return rows.decoded, nil
}

func (rows *baseRows) Record() Record {
	if rows.names == nil {
		fds := rows.FieldDescriptions()
		rows.names = make([]string, len(fds))
		for i := range fds {
			rows.names[i] = string(fds[i].Name)
		}
	}

	return NewRecord(rows.names, rows.decoded)
}

func (rows *baseRows) RawValues() [][]byte {
	return rows.values
}

type ScanArgError struct {
	ColumnIndex int
	Err         error
}

func (e ScanArgError) Error() string {
	return fmt.Sprintf("can't scan into dest[%d]: %v", e.ColumnIndex, e.Err)
}

func (e ScanArgError) Unwrap() error {
	return e.Err
}

// assignValue stores the decoded value src in the pointer dst.
func assignValue(dst, src any) error {
	if scanner, ok := dst.(sql.Scanner); ok {
		return scanner.Scan(src)
	}

	dv := reflect.ValueOf(dst)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return errors.Errorf("cannot assign to %T: destination must be a non-nil pointer", dst)
	}
	ev := dv.Elem()

	if src == nil {
		switch ev.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
			ev.Set(reflect.Zero(ev.Type()))
			return nil
		}
		return errors.Errorf("cannot assign NULL to %s", ev.Type())
	}

	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(ev.Type()) {
		ev.Set(sv)
		return nil
	}

	if ev.Kind() == reflect.Ptr {
		p := reflect.New(ev.Type().Elem())
		if err := assignValue(p.Interface(), src); err != nil {
			return err
		}
		ev.Set(p)
		return nil
	}

	if convertible(sv.Kind(), ev.Kind()) && sv.Type().ConvertibleTo(ev.Type()) {
		ev.Set(sv.Convert(ev.Type()))
		return nil
	}

	return errors.Errorf("cannot assign %T to %s", src, ev.Type())
}

// convertible reports whether values of kind from may be converted to kind to without reinterpretation.
func convertible(from, to reflect.Kind) bool {
	isNumber := func(k reflect.Kind) bool {
		switch k {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return true
		}
		return false
	}

	if isNumber(from) && isNumber(to) {
		return true
	}
	return from == to
}

// CollectRecords reads all rows into a slice of Records. It closes rows.
func CollectRecords(rows Rows) ([]Record, error) {
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		records = append(records, rows.Record())
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
