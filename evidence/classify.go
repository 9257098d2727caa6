// Package evidence turns the evidence strings supplied with a case into stored references.
// Strings that already point somewhere are kept, inline payloads are decoded, size checked
// and uploaded to the blob store.
package evidence

import (
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
)

// Kind tells references and payloads apart
type Kind int

// Kind values
const (
	Reference Kind = iota + 1
	Payload
)

func (k Kind) String() string {
	switch k {
	case Reference:
		return "reference"
	case Payload:
		return "payload"
	}
	return "unknown"
}

// Item is one classified evidence string. Index is its position in the input.
type Item struct {
	Kind  Kind
	Index int
	Value string
}

// Classify splits raw into references and payloads, keeping input order. Blank strings are
// dropped.
func Classify(raw []string) []Item {
	items := make([]Item, 0, len(raw))
	for i, r := range raw {
		v := strings.TrimSpace(r)
		if v == "" {
			continue
		}
		kind := Payload
		if IsReference(v) {
			kind = Reference
		}
		items = append(items, Item{Kind: kind, Index: i, Value: v})
	}
	return items
}

// IsReference reports whether s already points at a stored location. URL schemes are case
// insensitive.
func IsReference(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Decode returns the bytes of a payload given either as a data:<mime>;base64,<data> URI or
// as bare base64
func Decode(payload string) ([]byte, error) {
	data := strings.TrimSpace(payload)
	if strings.HasPrefix(data, "data:") {
		comma := strings.IndexByte(data, ',')
		if comma < 0 {
			return nil, errors.Wrap(ErrUndecodable, "data URI has no payload")
		}
		if !strings.HasSuffix(data[:comma], ";base64") {
			return nil, errors.Wrap(ErrUndecodable, "data URI is not base64 encoded")
		}
		data = data[comma+1:]
	}

	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		b, err = base64.RawStdEncoding.DecodeString(data)
	}
	if err != nil {
		return nil, errors.Wrap(ErrUndecodable, err.Error())
	}
	if len(b) == 0 {
		return nil, errors.Wrap(ErrUndecodable, "payload is empty")
	}
	return b, nil
}
