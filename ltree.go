package pgcodec

import (
	"strings"

	errors "golang.org/x/xerrors"
)

// PathCodec converts a hierarchical label path such as the ltree value "Top.Science.Astronomy" to and from an
// ordered []string of labels.
//
// Labels are joined with Separator, which defaults to '.'. No escaping is performed: a label that is empty or that
// contains the separator is rejected by Encode rather than silently producing a different path.
type PathCodec struct {
	Separator byte
}

func (c PathCodec) separator() string {
	if c.Separator == 0 {
		return "."
	}
	return string([]byte{c.Separator})
}

// Encode accepts []string, *[]string, or an already encoded path as a string.
func (c PathCodec) Encode(value any) ([]byte, error) {
	switch value := value.(type) {
	case []string:
		return c.encodeLabels(value)
	case *[]string:
		return c.encodeLabels(*value)
	case string:
		return []byte(value), nil
	default:
		return nil, errors.Errorf("cannot encode %T as label path", value)
	}
}

func (c PathCodec) encodeLabels(labels []string) ([]byte, error) {
	sep := c.separator()
	for i, label := range labels {
		if label == "" {
			return nil, errors.Errorf("label %d is empty", i)
		}
		if strings.Contains(label, sep) {
			return nil, errors.Errorf("label %d (%q) contains separator %q", i, label, sep)
		}
	}

	return []byte(strings.Join(labels, sep)), nil
}

// Decode returns the labels of src as a []string. The empty path decodes to an empty slice.
func (c PathCodec) Decode(src []byte) (any, error) {
	if len(src) == 0 {
		return []string{}, nil
	}
	return strings.Split(string(src), c.separator()), nil
}
