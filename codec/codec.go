// Package codec centralizes the encoding used by indexarray.Collection.
//
// It offers JSON codecs for the plain-record view of a collection and block
// compression for its compact binary form.
package codec

import (
	"fmt"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// NumberDecoder is implemented by codecs that can decode JSON numbers as
// json.Number instead of float64, so integers survive a round trip.
type NumberDecoder interface {
	UnmarshalUseNumber(data []byte, v any) error
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// UnmarshalNumbers decodes data with c, keeping numbers as json.Number when c
// supports it.
func UnmarshalNumbers(c Codec, data []byte, v any) error {
	if c == nil {
		c = Default
	}
	if nd, ok := c.(NumberDecoder); ok {
		return nd.UnmarshalUseNumber(data, v)
	}
	return c.Unmarshal(data, v)
}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
