package pgcodec_test

import (
	"testing"

	"github.com/cockroachdb/apd"
	"github.com/gofrs/uuid"
	"github.com/jackc/pgtype"
	"github.com/pgcodec/pgcodec"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecFuncs(t *testing.T) {
	var encoded, decoded int
	c := pgcodec.CodecFuncs{
		EncodeFunc: func(v any) ([]byte, error) {
			encoded++
			return []byte(v.(string)), nil
		},
		DecodeFunc: func(src []byte) (any, error) {
			decoded++
			return string(src), nil
		},
	}

	buf, err := c.Encode("foo")
	require.NoError(t, err)
	assert.Equal(t, []byte("foo"), buf)

	v, err := c.Decode([]byte("bar"))
	require.NoError(t, err)
	assert.Equal(t, "bar", v)

	assert.Equal(t, 1, encoded)
	assert.Equal(t, 1, decoded)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "scalar", pgcodec.KindScalar.String())
	assert.Equal(t, "composite", pgcodec.KindComposite.String())
}

func TestPathCodec(t *testing.T) {
	c := pgcodec.PathCodec{}

	v, err := c.Decode([]byte("a.b.c"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, v)

	v, err = c.Decode([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, []string{}, v)

	buf, err := c.Encode([]string{"Top", "Science", "Astronomy"})
	require.NoError(t, err)
	assert.Equal(t, "Top.Science.Astronomy", string(buf))

	buf, err = c.Encode([]string{})
	require.NoError(t, err)
	assert.Equal(t, "", string(buf))

	buf, err = c.Encode("Top.Science")
	require.NoError(t, err)
	assert.Equal(t, "Top.Science", string(buf))
}

func TestPathCodecRoundTrip(t *testing.T) {
	c := pgcodec.PathCodec{Separator: '/'}

	for _, labels := range [][]string{{}, {"a"}, {"a", "b.c", "d"}} {
		buf, err := c.Encode(labels)
		require.NoError(t, err)
		v, err := c.Decode(buf)
		require.NoError(t, err)
		assert.Equal(t, labels, v)
	}
}

func TestPathCodecRejectsAmbiguousLabels(t *testing.T) {
	c := pgcodec.PathCodec{}

	_, err := c.Encode([]string{"a.b", "c"})
	require.Error(t, err)

	_, err = c.Encode([]string{"a", "", "c"})
	require.Error(t, err)

	_, err = c.Encode(42)
	require.Error(t, err)
}

func TestDocumentCodec(t *testing.T) {
	c := pgcodec.DocumentCodec{}

	v, err := c.Decode([]byte(`{"x":1,"y":[true,null]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": float64(1), "y": []any{true, nil}}, v)

	buf, err := c.Encode(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1,"y":[true,null]}`, string(buf))

	_, err = c.Decode([]byte(`{"x":`))
	require.Error(t, err)
}

func TestDocumentCodecRoundTrip(t *testing.T) {
	c := pgcodec.DocumentCodec{}

	tests := []any{
		nil,
		true,
		"plain",
		`quoted "string" with \ and unicode 日本語`,
		float64(0),
		float64(-42),
		3.14159,
		-0.5,
		1e21,
		[]any{},
		map[string]any{},
		[]any{nil, false, "", float64(-1.5), []any{}, map[string]any{}},
		map[string]any{"name": "Astronomy", "ids": []any{float64(1), float64(2)}, "parent": nil},
		map[string]any{"a": map[string]any{"b": map[string]any{"c": []any{[]any{[]any{"deep", float64(-7.25)}}}}}},
		[]any{map[string]any{"x": float64(1)}, map[string]any{"y": []any{true, nil}}},
	}

	for i, tt := range tests {
		buf, err := c.Encode(tt)
		require.NoErrorf(t, err, "%d", i)

		v, err := c.Decode(buf)
		require.NoErrorf(t, err, "%d: %s", i, buf)
		assert.Equalf(t, tt, v, "%d: %s", i, buf)
	}
}

func TestHstoreCodec(t *testing.T) {
	c := pgcodec.HstoreCodec{}

	v, err := c.Decode([]byte(`"a"=>"1", "b"=>NULL`))
	require.NoError(t, err)
	m := v.(map[string]*string)
	require.Len(t, m, 2)
	require.NotNil(t, m["a"])
	assert.Equal(t, "1", *m["a"])
	assert.Nil(t, m["b"])

	buf, err := c.Encode(map[string]string{"k": `va"l`})
	require.NoError(t, err)
	v, err = c.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, `va"l`, *v.(map[string]*string)["k"])

	buf, err = c.Encode(map[string]*string{"n": nil})
	require.NoError(t, err)
	v, err = c.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, map[string]*string{"n": nil}, v)

	buf, err = c.Encode(map[string]*string{"b": nil, "a": strPtr(`x\y`)})
	require.NoError(t, err)
	assert.Equal(t, `"a"=>"x\\y", "b"=>NULL`, string(buf))

	buf, err = c.Encode(pgtype.Hstore{Map: map[string]pgtype.Text{}, Status: pgtype.Present})
	require.NoError(t, err)
	assert.Equal(t, "", string(buf))

	_, err = c.Encode(pgtype.Hstore{Status: pgtype.Null})
	require.Error(t, err)

	_, err = c.Encode([]string{"a"})
	require.Error(t, err)
}

func TestHstoreCodecRoundTrip(t *testing.T) {
	c := pgcodec.HstoreCodec{}

	tests := []map[string]string{
		{"a": "b"},
		{"name": "Astronomy"},
		{"has space": "x"},
		{"k": ""},
		{"": "empty key"},
		{"quote": `say "hi"`, "backslash": `C:\dir\`},
		{"arrow": "a=>b", "comma": "a, b", "null": "NULL"},
		{"unicode": "日本語", "emoji": "😊"},
	}

	for i, tt := range tests {
		buf, err := c.Encode(tt)
		require.NoErrorf(t, err, "%d", i)

		v, err := c.Decode(buf)
		require.NoErrorf(t, err, "%d: %s", i, buf)

		m := v.(map[string]*string)
		require.Lenf(t, m, len(tt), "%d", i)
		for k, want := range tt {
			require.NotNilf(t, m[k], "%d: %q", i, k)
			assert.Equalf(t, want, *m[k], "%d: %q", i, k)
		}
	}
}

func TestDecimalCodec(t *testing.T) {
	c := pgcodec.DecimalCodec{}

	v, err := c.Decode([]byte("123.45"))
	require.NoError(t, err)
	expected, err := decimal.NewFromString("123.45")
	require.NoError(t, err)
	assert.True(t, expected.Equal(v.(decimal.Decimal)))

	buf, err := c.Encode(decimal.New(-5, -1))
	require.NoError(t, err)
	assert.Equal(t, "-0.5", string(buf))

	buf, err = c.Encode(int64(7))
	require.NoError(t, err)
	assert.Equal(t, "7", string(buf))

	_, err = c.Encode(decimal.NullDecimal{})
	require.Error(t, err)

	_, err = c.Decode([]byte("NaN"))
	require.Error(t, err)
}

func TestAPDCodec(t *testing.T) {
	c := pgcodec.APDCodec{}

	v, err := c.Decode([]byte("NaN"))
	require.NoError(t, err)
	assert.Equal(t, apd.NaN, v.(*apd.Decimal).Form)

	v, err = c.Decode([]byte("1.25"))
	require.NoError(t, err)
	assert.Equal(t, "1.25", v.(*apd.Decimal).String())

	buf, err := c.Encode(apd.New(125, -2))
	require.NoError(t, err)
	assert.Equal(t, "1.25", string(buf))
}

func TestUUIDCodec(t *testing.T) {
	c := pgcodec.UUIDCodec{}
	u := uuid.Must(uuid.FromString("b9f4fe5e-5d3e-4d8c-9b79-1a6f1e6e7f10"))

	buf, err := c.Encode(u)
	require.NoError(t, err)
	assert.Equal(t, u.String(), string(buf))

	buf, err = c.Encode([16]byte(u))
	require.NoError(t, err)
	assert.Equal(t, u.String(), string(buf))

	v, err := c.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, u, v)

	_, err = c.Encode("not a uuid")
	require.Error(t, err)
}

func TestTextCodec(t *testing.T) {
	c := pgcodec.TextCodec{}

	buf, err := c.Encode("foo")
	require.NoError(t, err)
	assert.Equal(t, "foo", string(buf))

	v, err := c.Decode([]byte("bar"))
	require.NoError(t, err)
	assert.Equal(t, "bar", v)

	_, err = c.Encode(1)
	require.Error(t, err)
}

func strPtr(s string) *string {
	return &s
}
