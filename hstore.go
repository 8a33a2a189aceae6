package pgcodec

import (
	"sort"
	"strings"

	"github.com/jackc/pgtype"
	errors "golang.org/x/xerrors"
)

var hstoreQuoteReplacer = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quoteHstoreElement(s string) string {
	return `"` + hstoreQuoteReplacer.Replace(s) + `"`
}

// HstoreCodec converts hstore values to and from map[string]*string. A nil map value is an hstore NULL value.
type HstoreCodec struct{}

// Encode accepts map[string]string, map[string]*string, or pgtype.Hstore. Keys and values are always quoted, which
// is the form Decode reads. Pairs are written in key order.
func (HstoreCodec) Encode(value any) ([]byte, error) {
	var h pgtype.Hstore

	switch value := value.(type) {
	case pgtype.Hstore:
		h = value
	case map[string]string:
		h = pgtype.Hstore{Map: make(map[string]pgtype.Text, len(value)), Status: pgtype.Present}
		for k, v := range value {
			h.Map[k] = pgtype.Text{String: v, Status: pgtype.Present}
		}
	case map[string]*string:
		h = pgtype.Hstore{Map: make(map[string]pgtype.Text, len(value)), Status: pgtype.Present}
		for k, v := range value {
			if v == nil {
				h.Map[k] = pgtype.Text{Status: pgtype.Null}
			} else {
				h.Map[k] = pgtype.Text{String: *v, Status: pgtype.Present}
			}
		}
	default:
		return nil, errors.Errorf("cannot encode %T as hstore", value)
	}

	if h.Status != pgtype.Present {
		return nil, errors.Errorf("cannot encode hstore with status %v", h.Status)
	}

	keys := make([]string, 0, len(h.Map))
	for k := range h.Map {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf []byte
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = append(buf, quoteHstoreElement(k)...)
		buf = append(buf, "=>"...)

		switch v := h.Map[k]; v.Status {
		case pgtype.Present:
			buf = append(buf, quoteHstoreElement(v.String)...)
		case pgtype.Null:
			buf = append(buf, "NULL"...)
		default:
			return nil, errors.Errorf("hstore value for key %q is undefined", k)
		}
	}

	if buf == nil {
		buf = []byte{}
	}
	return buf, nil
}

func (HstoreCodec) Decode(src []byte) (any, error) {
	var h pgtype.Hstore
	err := h.DecodeText(nil, src)
	if err != nil {
		return nil, err
	}

	m := make(map[string]*string, len(h.Map))
	for k, v := range h.Map {
		if v.Status == pgtype.Present {
			s := v.String
			m[k] = &s
		} else {
			m[k] = nil
		}
	}

	return m, nil
}
