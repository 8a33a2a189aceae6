package pgcodec

import (
	"github.com/jackc/pgconn"
	errors "golang.org/x/xerrors"
)

// extendedQueryBuilder formats the parameters and chooses the result formats for an extended protocol query. All
// parameters and results use the text format so registered codecs see the same representation in both directions.
type extendedQueryBuilder struct {
	ParamValues   [][]byte
	ParamFormats  []int16
	ResultFormats []int16
}

// Build sets ParamValues, ParamFormats, and ResultFormats for use with *pgconn.PgConn.ExecPrepared. Each argument
// whose parameter type has a registration is passed through that codec's Encode exactly once.
func (eqb *extendedQueryBuilder) Build(r *Registry, sd *pgconn.StatementDescription, args []any) error {
	eqb.reset()

	if len(sd.ParamOIDs) != len(args) {
		return errors.Errorf("expected %d arguments, got %d", len(sd.ParamOIDs), len(args))
	}

	for i := range args {
		err := eqb.appendParam(r, i, sd.ParamOIDs[i], args[i])
		if err != nil {
			return err
		}
	}

	for range sd.Fields {
		eqb.ResultFormats = append(eqb.ResultFormats, TextFormatCode)
	}

	return nil
}

// appendParam appends a parameter to the query. A nil arg is sent as NULL without consulting any codec.
func (eqb *extendedQueryBuilder) appendParam(r *Registry, i int, oid uint32, arg any) error {
	eqb.ParamFormats = append(eqb.ParamFormats, TextFormatCode)

	if isNil(arg) {
		eqb.ParamValues = append(eqb.ParamValues, nil)
		return nil
	}

	if dt, ok := r.DataTypeForOID(oid); ok {
		buf, err := dt.Codec.Encode(arg)
		if err != nil {
			return &CodecError{Op: "encode", TypeName: dt.QualifiedName(), OID: oid, Index: i, Err: err}
		}
		if buf == nil {
			// A codec result is always a value. Only a nil argument is NULL.
			buf = []byte{}
		}
		eqb.ParamValues = append(eqb.ParamValues, buf)
		return nil
	}

	buf, err := r.encodeValue(oid, arg)
	if err != nil {
		return errors.Errorf("failed to encode args[%d]: %w", i, err)
	}
	eqb.ParamValues = append(eqb.ParamValues, buf)

	return nil
}

func (eqb *extendedQueryBuilder) reset() {
	eqb.ParamValues = eqb.ParamValues[0:0]
	eqb.ParamFormats = eqb.ParamFormats[0:0]
	eqb.ResultFormats = eqb.ResultFormats[0:0]
}
