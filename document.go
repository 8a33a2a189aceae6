package pgcodec

import (
	"encoding/json"
)

// DocumentCodec converts json and jsonb values to and from generic Go values. Objects decode to map[string]any,
// arrays to []any, numbers to float64, and strings, booleans and null to string, bool and nil.
type DocumentCodec struct{}

func (DocumentCodec) Encode(value any) ([]byte, error) {
	return json.Marshal(value)
}

func (DocumentCodec) Decode(src []byte) (any, error) {
	var v any
	err := json.Unmarshal(src, &v)
	if err != nil {
		return nil, err
	}
	return v, nil
}
