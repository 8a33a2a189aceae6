// Package pgcodec is a PostgreSQL client layer with per-connection type codecs.
/*
pgcodec is built on github.com/jackc/pgconn, which handles the network, authentication, and the extended query
protocol. pgcodec adds a Registry to every connection that maps PostgreSQL types to Codecs. Every parameter and every
result column of a registered type passes through its codec: Encode converts the Go value to the text wire format and
Decode converts the text wire format to a Go value.

Establishing a Connection

	conn, err := pgcodec.Connect(context.Background(), os.Getenv("DATABASE_URL"))
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

Registering Codecs

Codecs are registered by type name, optionally qualified by schema, with a pair of functions, a Codec, or a name from
the builtin catalog.

	registry := conn.TypeRegistry()

	err = registry.Register("ltree", "", func(v any) ([]byte, error) {
		return []byte(strings.Join(v.([]string), ".")), nil
	}, func(src []byte) (any, error) {
		return strings.Split(string(src), "."), nil
	})

	err = registry.RegisterBuiltin("hstore", "pg_contrib.hstore")

Registering never touches the server. The next query resolves the names of all new registrations to OIDs with a single
pg_type lookup. A name the server does not define fails that query with *UnknownTypeError. Types in pg_catalog such as
jsonb are known locally and need no lookup.

Querying

Query returns Rows. Each row is decoded once in Next, before any of its values can be observed. Fetch reads a whole
result into Records, which marshal to JSON objects with keys in column order.

	records, err := conn.Fetch(ctx, "select path, attrs from entity where id = $1", 42)

Types without a registration are decoded with github.com/jackc/pgtype when it knows them and are otherwise returned as
their wire text.

SQL NULL never reaches a codec. A nil argument is sent as NULL and a NULL column is returned as nil.

Tracing and Logging

pgcodec does not log. Set ConnConfig.Tracer to observe connects, prepares, type resolution, and queries. The tracelog
package adapts a Tracer to a leveled Logger, and the log directory has Logger adapters for several logging libraries.
*/
package pgcodec
