package transport

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pilacorp/go-ledger-sdk/model"
)

// JSONRPCCaller performs calls over JSON-RPC. The request and the result are
// the hex-encoded RLP of the wire messages.
type JSONRPCCaller struct {
	client *rpc.Client
}

// NewJSONRPCCaller wraps an existing RPC client.
func NewJSONRPCCaller(client *rpc.Client) *JSONRPCCaller {
	return &JSONRPCCaller{client: client}
}

// DialJSONRPC connects to a JSON-RPC endpoint (http, ws or ipc).
func DialJSONRPC(ctx context.Context, endpoint string) (*JSONRPCCaller, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("JSON-RPC endpoint is required")
	}
	client, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", endpoint, err)
	}
	return &JSONRPCCaller{client: client}, nil
}

func (c *JSONRPCCaller) Call(ctx context.Context, method Method, req, resp any) error {
	payload, err := model.Encode(req)
	if err != nil {
		return err
	}

	var out hexutil.Bytes
	if err := c.client.CallContext(ctx, &out, method.JSONRPCName(), hexutil.Bytes(payload)); err != nil {
		return err
	}

	return model.Decode(out, resp)
}

// Close closes the RPC client.
func (c *JSONRPCCaller) Close() error {
	c.client.Close()
	return nil
}
