package transaction

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/pilacorp/go-ledger-sdk/clock"
	"github.com/pilacorp/go-ledger-sdk/model"
	"github.com/pilacorp/go-ledger-sdk/signer"
	"github.com/pilacorp/go-ledger-sdk/status"
	"github.com/pilacorp/go-ledger-sdk/transport"
	"github.com/stretchr/testify/require"
)

var (
	testStart    = time.Unix(1700000000, 0).UTC()
	testOperator = model.AccountID{Num: 1001}
)

// fakeNode answers submissions with submitCode and receipt queries with the
// receipt statuses in order, repeating the last one.
type fakeNode struct {
	mu sync.Mutex

	submitCode   status.Code
	submitErr    error
	queryCode    status.Code
	queryErr     error
	noReceipt    bool
	receipts     []status.Code
	submitted    []*model.Transaction
	queries      int
	queriedIDs   []model.TransactionID
	submitMethod transport.Method
}

func (n *fakeNode) Call(_ context.Context, method transport.Method, req, resp any) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	switch r := req.(type) {
	case *model.Transaction:
		if n.submitErr != nil {
			return n.submitErr
		}
		n.submitMethod = method
		n.submitted = append(n.submitted, r.Clone())
		resp.(*model.TransactionResponse).NodeTransactionPrecheckCode = uint32(n.submitCode)
		return nil

	case *model.Query:
		if method != transport.GetTransactionReceipts {
			return fmt.Errorf("unexpected query method %s", method)
		}
		n.queries++
		n.queriedIDs = append(n.queriedIDs, r.TransactionGetReceipt.TransactionID)
		if n.queryErr != nil {
			return n.queryErr
		}
		out := resp.(*model.Response)
		out.TransactionGetReceipt = &model.TransactionGetReceiptResponse{
			Header: model.ResponseHeader{NodeTransactionPrecheckCode: uint32(n.queryCode)},
		}
		if n.noReceipt {
			return nil
		}
		next := status.Success
		if len(n.receipts) > 0 {
			idx := min(n.queries-1, len(n.receipts)-1)
			next = n.receipts[idx]
		}
		out.TransactionGetReceipt.Receipt = &model.TransactionReceipt{Status: uint32(next)}
		return nil

	default:
		return fmt.Errorf("unexpected request %T", req)
	}
}

func (n *fakeNode) queryCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.queries
}

func testKey(b byte) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(bytes.Repeat([]byte{b}, ed25519.SeedSize))
}

func newTestClient(t *testing.T, node *fakeNode, opts ...ClientOption) (*Client, *clock.MockClock) {
	t.Helper()

	operator, err := signer.NewEd25519ProviderFromKey(testKey(1))
	require.NoError(t, err)

	clk := clock.NewMockClock(testStart)
	base := []ClientOption{
		WithOperator(testOperator, operator),
		WithClock(clk),
		WithRandSource(rand.NewPCG(1, 2)),
	}
	client, err := NewClient(node, append(base, opts...)...)
	require.NoError(t, err)
	return client, clk
}

func newTestTransaction(t *testing.T, client *Client, validDuration time.Duration) *Transaction {
	t.Helper()

	body := model.TransactionBody{
		TransactionID:  model.NewTransactionID(testOperator, testStart),
		TransactionFee: 100,
		ValidDuration:  model.DurationFromTime(validDuration),
		Memo:           "test transfer",
		Data:           []byte{0x01, 0x02},
	}
	tx, err := client.NewTransaction(body, transport.CryptoTransfer)
	require.NoError(t, err)
	return tx
}

func sumSleeps(sleeps []time.Duration) time.Duration {
	var total time.Duration
	for _, d := range sleeps {
		total += d
	}
	return total
}
