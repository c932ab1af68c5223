package transport

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// GRPCCaller performs unary gRPC calls with the RLP codec.
type GRPCCaller struct {
	conn grpc.ClientConnInterface
}

// NewGRPCCaller wraps an existing connection.
func NewGRPCCaller(conn grpc.ClientConnInterface) *GRPCCaller {
	return &GRPCCaller{conn: conn}
}

// DialGRPC creates a connection to target. Without options the connection
// uses insecure transport credentials.
func DialGRPC(target string, opts ...grpc.DialOption) (*GRPCCaller, error) {
	if target == "" {
		return nil, fmt.Errorf("gRPC target is required")
	}
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client for %s: %w", target, err)
	}
	return &GRPCCaller{conn: conn}, nil
}

func (c *GRPCCaller) Call(ctx context.Context, method Method, req, resp any) error {
	return c.conn.Invoke(ctx, method.FullName(), req, resp, grpc.CallContentSubtype(CodecName))
}

// Close closes the underlying connection when the caller owns one.
func (c *GRPCCaller) Close() error {
	if cc, ok := c.conn.(*grpc.ClientConn); ok {
		return cc.Close()
	}
	return nil
}
