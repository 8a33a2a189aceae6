package pgcodec

import (
	"sort"

	"github.com/jackc/pgtype"
	errors "golang.org/x/xerrors"
)

type typeKey struct {
	schema string
	name   string
}

// Registry maps PostgreSQL types to the codecs that convert their values. Each Conn owns one Registry, created when
// the connection is established and discarded when it closes.
//
// Registrations are not validated against the server. A registration is resolved to an OID by the next query the
// connection executes. If the server does not define the type that query fails with *UnknownTypeError.
//
// Types without a registration are decoded with github.com/jackc/pgtype when it knows them and are otherwise passed
// through as their unmodified wire text.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	nameToDataType map[typeKey]*DataType
	oidToDataType  map[uint32]*DataType
	connInfo       *pgtype.ConnInfo
	seq            uint64
}

func NewRegistry() *Registry {
	return &Registry{
		nameToDataType: make(map[typeKey]*DataType),
		oidToDataType:  make(map[uint32]*DataType),
		connInfo:       pgtype.NewConnInfo(),
	}
}

// Register stores or replaces the codec for the type name in schema. schema may be empty. The Kind is taken from the
// builtin codec for name (composite for json, jsonb, and hstore) and is KindScalar otherwise. Use RegisterCodec to set
// it explicitly.
func (r *Registry) Register(name, schema string, encode EncodeFunc, decode DecodeFunc) error {
	if encode == nil || decode == nil {
		return errors.Errorf("register %s: encode and decode functions are required", name)
	}
	return r.RegisterDataType(DataType{
		Name:   name,
		Schema: schema,
		Kind:   builtinKind(name),
		Codec:  CodecFuncs{EncodeFunc: encode, DecodeFunc: decode},
	})
}

// RegisterCodec stores or replaces codec for the type name in schema. schema may be empty.
func (r *Registry) RegisterCodec(name, schema string, kind Kind, codec Codec) error {
	return r.RegisterDataType(DataType{Name: name, Schema: schema, Kind: kind, Codec: codec})
}

// RegisterDataType stores or replaces the registration for dt.Name in dt.Schema. The last registration for a name
// wins. When several registrations resolve to the same OID the most recent one is used.
func (r *Registry) RegisterDataType(dt DataType) error {
	if dt.Name == "" {
		return errors.New("register: type name is required")
	}
	if dt.Codec == nil {
		return errors.Errorf("register %s: codec is required", dt.QualifiedName())
	}

	r.seq++
	dt.seq = r.seq

	key := typeKey{schema: dt.Schema, name: dt.Name}
	prev, replaced := r.nameToDataType[key]
	if replaced && dt.OID == 0 {
		dt.OID = prev.OID
	}

	if dt.OID == 0 {
		dt.OID, _ = r.builtinOID(dt.Name, dt.Schema)
	}

	r.nameToDataType[key] = &dt
	if dt.OID != 0 {
		r.oidToDataType[dt.OID] = &dt
	}

	if replaced && prev.OID != 0 && prev.OID != dt.OID && r.oidToDataType[prev.OID] == prev {
		delete(r.oidToDataType, prev.OID)
		r.reindexOID(prev.OID)
	}

	return nil
}

// Unregister removes the registration for name in schema. It is not an error if there is none.
func (r *Registry) Unregister(name, schema string) {
	key := typeKey{schema: schema, name: name}
	dt, ok := r.nameToDataType[key]
	if !ok {
		return
	}
	delete(r.nameToDataType, key)

	if dt.OID != 0 && r.oidToDataType[dt.OID] == dt {
		delete(r.oidToDataType, dt.OID)
		r.reindexOID(dt.OID)
	}
}

// DataTypeForName returns the registration for name in schema.
func (r *Registry) DataTypeForName(name, schema string) (*DataType, bool) {
	dt, ok := r.nameToDataType[typeKey{schema: schema, name: name}]
	return dt, ok
}

// DataTypeForOID returns the registration in effect for oid.
func (r *Registry) DataTypeForOID(oid uint32) (*DataType, bool) {
	dt, ok := r.oidToDataType[oid]
	return dt, ok
}

// Pending returns the registrations that have not been resolved to an OID in the order they were registered.
func (r *Registry) Pending() []*DataType {
	var pending []*DataType
	for _, dt := range r.nameToDataType {
		if dt.OID == 0 {
			pending = append(pending, dt)
		}
	}

	sort.Slice(pending, func(i, j int) bool { return pending[i].seq < pending[j].seq })
	return pending
}

// ConnInfo returns the pgtype.ConnInfo used for types without a registration.
func (r *Registry) ConnInfo() *pgtype.ConnInfo {
	return r.connInfo
}

// resolve records that dt is the type with oid on the server.
func (r *Registry) resolve(dt *DataType, oid uint32) {
	dt.OID = oid
	if cur, ok := r.oidToDataType[oid]; !ok || cur.seq < dt.seq {
		r.oidToDataType[oid] = dt
	}
}

// reindexOID points oid at the most recent remaining registration that resolved to it.
func (r *Registry) reindexOID(oid uint32) {
	var newest *DataType
	for _, dt := range r.nameToDataType {
		if dt.OID == oid && (newest == nil || dt.seq > newest.seq) {
			newest = dt
		}
	}
	if newest != nil {
		r.oidToDataType[oid] = newest
	}
}

// builtinOID returns the fixed OID of a built-in type. Only types in pg_catalog have fixed OIDs.
func (r *Registry) builtinOID(name, schema string) (uint32, bool) {
	if schema != "" && schema != "pg_catalog" {
		return 0, false
	}
	if dt, ok := r.connInfo.DataTypeForName(name); ok {
		return dt.OID, true
	}
	return 0, false
}
