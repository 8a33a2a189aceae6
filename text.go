package pgcodec

import (
	"fmt"

	errors "golang.org/x/xerrors"
)

// TextCodec passes values through as strings.
type TextCodec struct{}

func (TextCodec) Encode(value any) ([]byte, error) {
	switch value := value.(type) {
	case string:
		return []byte(value), nil
	case []byte:
		return value, nil
	case fmt.Stringer:
		return []byte(value.String()), nil
	default:
		return nil, errors.Errorf("cannot encode %T as text", value)
	}
}

func (TextCodec) Decode(src []byte) (any, error) {
	return string(src), nil
}
