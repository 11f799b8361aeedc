// Package apiconnect wires the api messages to Connect handlers and clients.
// It follows the layout of protoc-gen-connect-go output, with a JSON codec
// in place of protobuf so plain Go structs can be sent directly.
package apiconnect

import (
	"connectrpc.com/connect"
	"github.com/goccy/go-json"
)

// Codec marshals messages with go-json. It registers under the name "json",
// replacing Connect's protojson codec for application/json requests.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		// Connect allows an empty body for an empty message.
		return nil
	}
	return json.Unmarshal(data, v)
}

// WithJSON installs Codec on a handler or client.
func WithJSON() connect.Option {
	return connect.WithCodec(Codec{})
}
