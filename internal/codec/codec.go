// Package codec encodes memoization arguments into deterministic bytes.
// Equal argument values must encode to equal bytes, since the encoding
// feeds cache key derivation.
package codec

import "encoding/json"

type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec encodes values as compact JSON. encoding/json sorts map keys,
// which keeps the output deterministic for map-valued arguments.
type JSONCodec struct{}

func (JSONCodec) Marshal(v any) ([]byte, error)   { return json.Marshal(v) }
func (JSONCodec) Unmarshal(b []byte, v any) error { return json.Unmarshal(b, v) }
