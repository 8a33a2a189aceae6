package pgcodec

import (
	"github.com/gofrs/uuid"
	errors "golang.org/x/xerrors"
)

// UUIDCodec converts uuid values to and from github.com/gofrs/uuid.UUID.
type UUIDCodec struct{}

// Encode accepts uuid.UUID, [16]byte, and strings in any format accepted by uuid.FromString.
func (UUIDCodec) Encode(value any) ([]byte, error) {
	switch value := value.(type) {
	case uuid.UUID:
		return []byte(value.String()), nil
	case [16]byte:
		return []byte(uuid.UUID(value).String()), nil
	case string:
		u, err := uuid.FromString(value)
		if err != nil {
			return nil, err
		}
		return []byte(u.String()), nil
	default:
		return nil, errors.Errorf("cannot encode %T as uuid", value)
	}
}

func (UUIDCodec) Decode(src []byte) (any, error) {
	return uuid.FromString(string(src))
}
