// Package transport provides the remote-call capability consumed by the
// transaction lifecycle: send a request message to a named ledger operation
// and decode the response message.
//
// Two adapters are provided, gRPC (GRPCCaller) and JSON-RPC (JSONRPCCaller).
// Both carry the RLP encoding of the wire messages in package model. Errors
// from the underlying connection are returned unchanged.
package transport

import (
	"context"
	"strings"
)

// Caller performs a unary call of method with req, decoding the reply into resp.
type Caller interface {
	Call(ctx context.Context, method Method, req, resp any) error
}

// CallerFunc adapts a function to Caller.
type CallerFunc func(ctx context.Context, method Method, req, resp any) error

func (f CallerFunc) Call(ctx context.Context, method Method, req, resp any) error {
	return f(ctx, method, req, resp)
}

// Method describes a ledger network operation.
type Method struct {
	// Service is the fully qualified service name, e.g. "proto.CryptoService".
	Service string
	// Name is the operation name, e.g. "cryptoTransfer".
	Name string
}

// FullName returns the gRPC method path, e.g. "/proto.CryptoService/cryptoTransfer".
func (m Method) FullName() string {
	return "/" + m.Service + "/" + m.Name
}

// JSONRPCName returns the JSON-RPC method, e.g. "crypto_cryptoTransfer".
func (m Method) JSONRPCName() string {
	svc := m.Service
	if i := strings.LastIndex(svc, "."); i >= 0 {
		svc = svc[i+1:]
	}
	svc = strings.TrimSuffix(svc, "Service")
	return strings.ToLower(svc) + "_" + m.Name
}

func (m Method) String() string {
	return m.FullName()
}

const (
	cryptoService        = "proto.CryptoService"
	consensusService     = "proto.ConsensusService"
	fileService          = "proto.FileService"
	smartContractService = "proto.SmartContractService"
)

// Transaction submission operations.
var (
	CryptoCreateAccount    = Method{Service: cryptoService, Name: "createAccount"}
	CryptoUpdateAccount    = Method{Service: cryptoService, Name: "updateAccount"}
	CryptoTransfer         = Method{Service: cryptoService, Name: "cryptoTransfer"}
	CryptoDelete           = Method{Service: cryptoService, Name: "cryptoDelete"}
	ConsensusCreateTopic   = Method{Service: consensusService, Name: "createTopic"}
	ConsensusSubmitMessage = Method{Service: consensusService, Name: "submitMessage"}
	FileCreate             = Method{Service: fileService, Name: "createFile"}
	FileAppend             = Method{Service: fileService, Name: "appendContent"}
	ContractCreate         = Method{Service: smartContractService, Name: "createContract"}
	ContractCall           = Method{Service: smartContractService, Name: "contractCallMethod"}
)

// GetTransactionReceipts is the receipt query operation.
var GetTransactionReceipts = Method{Service: cryptoService, Name: "getTransactionReceipts"}
