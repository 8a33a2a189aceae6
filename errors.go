package pgcodec

import (
	"fmt"

	"github.com/jackc/pgconn"
	errors "golang.org/x/xerrors"
)

// ErrNoRows occurs when rows are expected but none are returned.
var ErrNoRows = errors.New("no rows in result set")

// ErrConnClosed occurs when a closed connection is used.
var ErrConnClosed = errors.New("conn closed")

// ErrUnknownServerVersion occurs when the server did not report a parsable server_version.
var ErrUnknownServerVersion = errors.New("unknown server version")

// ConnectionError occurs when the database cannot be reached or the connection cannot be authenticated. It is fatal
// and never retried.
type ConnectionError struct {
	Host     string
	Port     uint16
	Database string
	err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to host=%s port=%d database=%s: %v", e.Host, e.Port, e.Database, e.err)
}

func (e *ConnectionError) Unwrap() error {
	return e.err
}

// UnknownTypeError occurs when a codec is registered for a type the server does not define. It is reported by the
// first query executed after the registration.
type UnknownTypeError struct {
	Name   string
	Schema string
}

func (e *UnknownTypeError) Error() string {
	if e.Schema == "" {
		return fmt.Sprintf("unknown type %q", e.Name)
	}
	return fmt.Sprintf("unknown type %q in schema %q", e.Name, e.Schema)
}

// UnsupportedCodecError occurs when RegisterBuiltin is called with a codec name that is not in the builtin catalog.
type UnsupportedCodecError struct {
	CodecName string
}

func (e *UnsupportedCodecError) Error() string {
	return fmt.Sprintf("unsupported builtin codec %q", e.CodecName)
}

// CodecError occurs when a registered codec fails while encoding a parameter or decoding a column.
type CodecError struct {
	// Op is "encode" or "decode".
	Op       string
	TypeName string
	OID      uint32

	// Index is the parameter index for encode and the column index for decode.
	Index int
	Err   error
}

func (e *CodecError) Error() string {
	var what string
	if e.Op == "encode" {
		what = "args"
	} else {
		what = "column"
	}
	return fmt.Sprintf("%s %s[%d] as %s (oid %d): %v", e.Op, what, e.Index, e.TypeName, e.OID, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// QueryError occurs when the server rejects a statement, for example with a syntax or constraint error. It is
// reported at execution and never retried.
type QueryError struct {
	SQL string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed: %v", e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// PgError returns the underlying server error, if any.
func (e *QueryError) PgError() *pgconn.PgError {
	var pgErr *pgconn.PgError
	if errors.As(e.Err, &pgErr) {
		return pgErr
	}
	return nil
}

// wrapQueryError converts errors reported by the server into *QueryError. Other errors, such as network failures and
// context cancellation, are returned unchanged.
func wrapQueryError(sql string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &QueryError{SQL: sql, Err: err}
	}

	return err
}
