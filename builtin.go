package pgcodec

import (
	"sort"
	"strings"
)

type builtinCodec struct {
	kind  Kind
	codec Codec
}

// builtinCodecs are the codecs that can be selected by name with RegisterBuiltin.
var builtinCodecs = map[string]builtinCodec{
	"pg_contrib.hstore":  {kind: KindComposite, codec: HstoreCodec{}},
	"pg_contrib.ltree":   {kind: KindScalar, codec: PathCodec{Separator: '.'}},
	"pg_catalog.json":    {kind: KindComposite, codec: DocumentCodec{}},
	"pg_catalog.jsonb":   {kind: KindComposite, codec: DocumentCodec{}},
	"pg_catalog.text":    {kind: KindScalar, codec: TextCodec{}},
	"numeric.shopspring": {kind: KindScalar, codec: DecimalCodec{}},
	"numeric.apd":        {kind: KindScalar, codec: APDCodec{}},
	"uuid.gofrs":         {kind: KindScalar, codec: UUIDCodec{}},
}

// Builtins returns the names accepted by RegisterBuiltin in sorted order.
func Builtins() []string {
	names := make([]string, 0, len(builtinCodecs))
	for name := range builtinCodecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterBuiltin registers the builtin codec named codecName for the type name. It fails with
// *UnsupportedCodecError if codecName is not one of Builtins.
//
//	registry.RegisterBuiltin("hstore", "pg_contrib.hstore")
func (r *Registry) RegisterBuiltin(name, codecName string) error {
	return r.RegisterBuiltinSchema(name, "", codecName)
}

// RegisterBuiltinSchema is RegisterBuiltin for a schema qualified type.
func (r *Registry) RegisterBuiltinSchema(name, schema, codecName string) error {
	bc, ok := builtinCodecs[codecName]
	if !ok {
		return &UnsupportedCodecError{CodecName: codecName}
	}

	return r.RegisterDataType(DataType{Name: name, Schema: schema, Kind: bc.kind, Codec: bc.codec})
}

// builtinKind returns the kind of the builtin codec for the type name, such as KindComposite for jsonb or hstore.
// Names without a builtin codec are KindScalar.
func builtinKind(name string) Kind {
	for codecName, bc := range builtinCodecs {
		if codecName[strings.LastIndexByte(codecName, '.')+1:] == name {
			return bc.kind
		}
	}
	return KindScalar
}
