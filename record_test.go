package pgcodec_test

import (
	"encoding/json"
	"testing"

	"github.com/pgcodec/pgcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	r := pgcodec.NewRecord([]string{"name", "path", "name"}, []any{"foo", []string{"a", "b"}, "bar"})

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"name", "path", "name"}, r.Names())
	assert.Equal(t, []string{"a", "b"}, r.Index(1))

	v, ok := r.Get("name")
	require.True(t, ok)
	assert.Equal(t, "foo", v)

	_, ok = r.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, map[string]any{"name": "bar", "path": []string{"a", "b"}}, r.Map())
}

func TestRecordMarshalJSONKeepsColumnOrder(t *testing.T) {
	r := pgcodec.NewRecord(
		[]string{"z", "a", "attrs"},
		[]any{float64(1), nil, map[string]*string{"k": nil}},
	)

	buf, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":null,"attrs":{"k":null}}`, string(buf))

	buf, err = json.Marshal(pgcodec.NewRecord(nil, nil))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(buf))
}

func TestRecordMarshalJSONError(t *testing.T) {
	r := pgcodec.NewRecord([]string{"ch"}, []any{make(chan int)})

	_, err := json.Marshal(r)
	require.Error(t, err)
}
