package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content-subtype clients must request
// (grpc.CallContentSubtype) to talk to the AuthService.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpc marshal %T: %w", v, err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpc unmarshal %T: %w", v, err)
	}
	return nil
}

func (jsonCodec) Name() string { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
