package pgcodec

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgproto3/v2"
	"github.com/jackc/pgtype"
	errors "golang.org/x/xerrors"
)

// PostgreSQL format codes
const (
	TextFormatCode   = 0
	BinaryFormatCode = 1
)

// decodeColumn converts the value of column i. Registered codecs are applied to text format values. Everything else
// takes the pgtype fallback path.
func (r *Registry) decodeColumn(i int, fd *pgproto3.FieldDescription, src []byte) (any, error) {
	if src == nil {
		return nil, nil
	}

	if dt, ok := r.oidToDataType[fd.DataTypeOID]; ok && fd.Format == TextFormatCode {
		value, err := dt.Codec.Decode(src)
		if err != nil {
			return nil, &CodecError{Op: "decode", TypeName: dt.QualifiedName(), OID: fd.DataTypeOID, Index: i, Err: err}
		}
		return value, nil
	}

	value, err := r.decodeValue(fd.DataTypeOID, fd.Format, src)
	if err != nil {
		return nil, errors.Errorf("decode column[%d] (oid %d): %w", i, fd.DataTypeOID, err)
	}
	return value, nil
}

// decodeValue decodes a value of a type without a registration.
func (r *Registry) decodeValue(oid uint32, format int16, src []byte) (any, error) {
	dt, ok := r.connInfo.DataTypeForOID(oid)
	if !ok {
		return rawValue(format, src)
	}

	value := pgtype.NewValue(dt.Value)
	switch format {
	case TextFormatCode:
		decoder, ok := value.(pgtype.TextDecoder)
		if !ok {
			return rawValue(format, src)
		}
		if err := decoder.DecodeText(r.connInfo, src); err != nil {
			return nil, err
		}
	case BinaryFormatCode:
		decoder, ok := value.(pgtype.BinaryDecoder)
		if !ok {
			return rawValue(format, src)
		}
		if err := decoder.DecodeBinary(r.connInfo, src); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unknown format code %d", format)
	}

	got := value.Get()
	if !isSelf(value, got) {
		if u, ok := got.([16]byte); ok {
			return uuid.UUID(u).String(), nil
		}
		return got, nil
	}

	// No simpler representation exists. Arrays of text-like elements are common enough to unwrap.
	var strs []string
	if err := value.AssignTo(&strs); err == nil {
		return strs, nil
	}
	var nullableStrs []*string
	if err := value.AssignTo(&nullableStrs); err == nil {
		return nullableStrs, nil
	}
	var ints []int64
	if err := value.AssignTo(&ints); err == nil {
		return ints, nil
	}
	var floats []float64
	if err := value.AssignTo(&floats); err == nil {
		return floats, nil
	}

	return rawValue(format, src)
}

// isSelf reports whether got is the pgtype value itself, which is what Get returns when there is no simpler
// representation.
func isSelf(value pgtype.Value, got any) bool {
	if got == nil {
		return false
	}
	t := reflect.TypeOf(got)
	vt := reflect.TypeOf(value)
	if t == vt {
		return true
	}
	return vt.Kind() == reflect.Ptr && t == vt.Elem()
}

func rawValue(format int16, src []byte) (any, error) {
	switch format {
	case TextFormatCode:
		return string(src), nil
	case BinaryFormatCode:
		buf := make([]byte, len(src))
		copy(buf, src)
		return buf, nil
	default:
		return nil, errors.Errorf("unknown format code %d", format)
	}
}

// encodeValue encodes arg in the text format for a parameter of a type without a registration. A nil result is NULL.
func (r *Registry) encodeValue(oid uint32, arg any) ([]byte, error) {
	if isNil(arg) {
		return nil, nil
	}

	if dt, ok := r.connInfo.DataTypeForOID(oid); ok {
		value := pgtype.NewValue(dt.Value)
		if err := value.Set(arg); err == nil {
			if encoder, ok := value.(pgtype.TextEncoder); ok {
				buf, err := encoder.EncodeText(r.connInfo, nil)
				if err != nil {
					return nil, err
				}
				if buf == nil {
					return nil, nil
				}
				return buf, nil
			}
		}
	}

	switch arg := arg.(type) {
	case string:
		return []byte(arg), nil
	case []byte:
		return arg, nil
	case bool:
		return []byte(strconv.FormatBool(arg)), nil
	case int:
		return []byte(strconv.FormatInt(int64(arg), 10)), nil
	case int8:
		return []byte(strconv.FormatInt(int64(arg), 10)), nil
	case int16:
		return []byte(strconv.FormatInt(int64(arg), 10)), nil
	case int32:
		return []byte(strconv.FormatInt(int64(arg), 10)), nil
	case int64:
		return []byte(strconv.FormatInt(arg, 10)), nil
	case uint:
		return []byte(strconv.FormatUint(uint64(arg), 10)), nil
	case uint32:
		return []byte(strconv.FormatUint(uint64(arg), 10)), nil
	case uint64:
		return []byte(strconv.FormatUint(arg, 10)), nil
	case float32:
		return []byte(strconv.FormatFloat(float64(arg), 'f', -1, 32)), nil
	case float64:
		return []byte(strconv.FormatFloat(arg, 'f', -1, 64)), nil
	case driver.Valuer:
		v, err := arg.Value()
		if err != nil {
			return nil, err
		}
		return r.encodeValue(oid, v)
	case fmt.Stringer:
		return []byte(arg.String()), nil
	}

	refVal := reflect.ValueOf(arg)
	if refVal.Kind() == reflect.Ptr {
		return r.encodeValue(oid, refVal.Elem().Interface())
	}

	return nil, errors.Errorf("cannot encode %T into oid %d", arg, oid)
}

// isNil reports whether value is nil or a nil pointer, map, slice, or similar.
func isNil(value any) bool {
	if value == nil {
		return true
	}

	refVal := reflect.ValueOf(value)
	switch refVal.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Ptr, reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		return refVal.IsNil()
	default:
		return false
	}
}
