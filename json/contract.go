// Package json is the module's JSON codec boundary: every wire-format
// marshal/unmarshal in the session goes through here so the codec
// implementation can be swapped without touching call sites. Backed by
// json-iterator rather than encoding/json, matching the pack's choice
// for gateway-adjacent hot paths.
package json

import jsoniter "github.com/json-iterator/go"

var api = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	Marshal   = api.Marshal
	Unmarshal = api.Unmarshal
)

// RawMessage delays decoding, matching encoding/json.RawMessage's role
// for Payload.Data.
type RawMessage = jsoniter.RawMessage

// Marshaler and Unmarshaler mirror encoding/json's interfaces so wire
// types can opt into custom (de)serialization without importing
// encoding/json directly.
type Marshaler interface {
	MarshalJSON() ([]byte, error)
}

type Unmarshaler interface {
	UnmarshalJSON([]byte) error
}
