package pgcodec

import (
	"strconv"

	"github.com/cockroachdb/apd"
	"github.com/shopspring/decimal"
	errors "golang.org/x/xerrors"
)

// DecimalCodec converts numeric values to and from github.com/shopspring/decimal.Decimal. decimal.Decimal cannot
// represent NaN so decoding a NaN fails.
type DecimalCodec struct{}

// Encode accepts decimal.Decimal, decimal.NullDecimal, integers, floats, and numeric strings.
func (DecimalCodec) Encode(value any) ([]byte, error) {
	switch value := value.(type) {
	case decimal.Decimal:
		return []byte(value.String()), nil
	case *decimal.Decimal:
		return []byte(value.String()), nil
	case decimal.NullDecimal:
		if !value.Valid {
			return nil, errors.New("cannot encode invalid decimal.NullDecimal")
		}
		return []byte(value.Decimal.String()), nil
	case string:
		d, err := decimal.NewFromString(value)
		if err != nil {
			return nil, err
		}
		return []byte(d.String()), nil
	case int:
		return []byte(strconv.Itoa(value)), nil
	case int32:
		return []byte(strconv.FormatInt(int64(value), 10)), nil
	case int64:
		return []byte(strconv.FormatInt(value, 10)), nil
	case float64:
		return []byte(decimal.NewFromFloat(value).String()), nil
	default:
		return nil, errors.Errorf("cannot encode %T as numeric", value)
	}
}

func (DecimalCodec) Decode(src []byte) (any, error) {
	return decimal.NewFromString(string(src))
}

// APDCodec converts numeric values to and from *apd.Decimal from github.com/cockroachdb/apd. Unlike DecimalCodec it
// supports NaN.
type APDCodec struct{}

// Encode accepts *apd.Decimal, apd.Decimal, integers, and numeric strings.
func (APDCodec) Encode(value any) ([]byte, error) {
	switch value := value.(type) {
	case *apd.Decimal:
		return []byte(value.String()), nil
	case apd.Decimal:
		return []byte(value.String()), nil
	case string:
		d, _, err := apd.NewFromString(value)
		if err != nil {
			return nil, err
		}
		return []byte(d.String()), nil
	case int64:
		return []byte(apd.New(value, 0).String()), nil
	case int:
		return []byte(apd.New(int64(value), 0).String()), nil
	default:
		return nil, errors.Errorf("cannot encode %T as numeric", value)
	}
}

func (APDCodec) Decode(src []byte) (any, error) {
	d, _, err := apd.NewFromString(string(src))
	if err != nil {
		return nil, err
	}
	return d, nil
}
