// Package grpcjson is a gRPC codec that carries request and response
// messages as JSON. Protobuf messages (emptypb and friends) go through
// protojson so well-known types keep their canonical JSON form.
package grpcjson

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

const Name = "json"

type Codec struct{}

func init() {
	encoding.RegisterCodec(Codec{})
}

func (Codec) Marshal(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.Unmarshal(data, m)
	}
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return Name
}
