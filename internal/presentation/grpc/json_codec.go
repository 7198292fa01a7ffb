package grpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is the content-subtype clients pass with grpc.CallContentSubtype.
const codecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec carries the plain Go message structs of this package as JSON, so
// the service needs no generated protobuf code.
type jsonCodec struct{}

func (jsonCodec) Name() string                       { return codecName }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
