package transport

import (
	"github.com/pilacorp/go-ledger-sdk/model"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype under which wire messages travel.
const CodecName = "rlp"

func init() {
	encoding.RegisterCodec(rlpCodec{})
}

// rlpCodec lets gRPC carry the RLP wire messages.
type rlpCodec struct{}

func (rlpCodec) Marshal(v any) ([]byte, error) { return model.Encode(v) }

func (rlpCodec) Unmarshal(data []byte, v any) error { return model.Decode(data, v) }

func (rlpCodec) Name() string { return CodecName }
