package pgcodec

// Kind is the representation kind of a registered type.
type Kind int8

const (
	// KindScalar is a text-based scalar type such as ltree or numeric.
	KindScalar Kind = iota
	// KindComposite is a key-value or semi-structured type such as hstore or jsonb.
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindComposite:
		return "composite"
	default:
		return "invalid"
	}
}

// Codec converts values of one PostgreSQL type between their text wire representation and a Go value.
//
// Encode and Decode should be inverses for all valid values. The registry does not check this. Neither method is
// called for SQL NULL: a nil argument is sent as NULL and a NULL column is observed as nil.
type Codec interface {
	// Encode converts value to the text wire format.
	Encode(value any) ([]byte, error)

	// Decode converts src from the text wire format. src is only valid for the duration of the call. Decode must
	// copy it if the returned value retains the bytes.
	Decode(src []byte) (any, error)
}

// EncodeFunc converts a Go value to the text wire format.
type EncodeFunc func(value any) ([]byte, error)

// DecodeFunc converts the text wire format to a Go value.
type DecodeFunc func(src []byte) (any, error)

// CodecFuncs adapts a pair of functions to the Codec interface.
type CodecFuncs struct {
	EncodeFunc EncodeFunc
	DecodeFunc DecodeFunc
}

func (c CodecFuncs) Encode(value any) ([]byte, error) {
	return c.EncodeFunc(value)
}

func (c CodecFuncs) Decode(src []byte) (any, error) {
	return c.DecodeFunc(src)
}

// DataType is a codec registration for a PostgreSQL type.
type DataType struct {
	// Name is the PostgreSQL type name, e.g. "ltree".
	Name string

	// Schema optionally qualifies Name. An empty Schema matches the type visible on the search path.
	Schema string

	Kind  Kind
	Codec Codec

	// OID is zero until the type has been resolved against the server.
	OID uint32

	seq uint64
}

// QualifiedName returns the schema qualified type name.
func (dt *DataType) QualifiedName() string {
	if dt.Schema == "" {
		return dt.Name
	}
	return dt.Schema + "." + dt.Name
}
