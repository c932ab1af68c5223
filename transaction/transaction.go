package transaction

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pilacorp/go-ledger-sdk/model"
	"github.com/pilacorp/go-ledger-sdk/signer"
	"github.com/pilacorp/go-ledger-sdk/status"
	"github.com/pilacorp/go-ledger-sdk/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Transaction is a signed envelope and its lifecycle. The body bytes are fixed
// at construction and signatures are only ever appended.
type Transaction struct {
	client        *Client
	method        transport.Method
	id            model.TransactionID
	validDuration time.Duration

	mu         sync.Mutex
	envelope   *model.Transaction
	state      State
	submitting bool
	accepted   bool
}

// NewTransaction encodes body and returns an unsigned transaction that will be
// submitted to method. An unset node account is filled from the client.
func (c *Client) NewTransaction(body model.TransactionBody, method transport.Method) (*Transaction, error) {
	if body.TransactionID.IsZero() {
		return nil, fmt.Errorf("%w: transaction ID is required", ErrInvalidBody)
	}
	if body.ValidDuration.Seconds == 0 {
		return nil, fmt.Errorf("%w: valid duration must be positive", ErrInvalidBody)
	}
	if method.Service == "" || method.Name == "" {
		return nil, fmt.Errorf("%w: method is required", ErrInvalidBody)
	}
	if body.NodeAccountID.IsZero() {
		body.NodeAccountID = c.nodeAccountID
	}

	bodyBytes, err := model.Encode(&body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction body: %w", err)
	}

	return &Transaction{
		client:        c,
		method:        method,
		id:            body.TransactionID,
		validDuration: body.ValidDuration.Time(),
		envelope:      &model.Transaction{BodyBytes: bodyBytes},
		state:         StateUnsigned,
	}, nil
}

// TransactionFromEnvelope rebuilds a transaction from an envelope produced
// elsewhere, keeping its signatures. The envelope is copied.
func (c *Client) TransactionFromEnvelope(env *model.Transaction, method transport.Method) (*Transaction, error) {
	if env == nil || len(env.BodyBytes) == 0 {
		return nil, fmt.Errorf("%w: envelope has no body", ErrInvalidBody)
	}
	if method.Service == "" || method.Name == "" {
		return nil, fmt.Errorf("%w: method is required", ErrInvalidBody)
	}

	body, err := model.DecodeBody(env.BodyBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	if body.TransactionID.IsZero() || body.ValidDuration.Seconds == 0 {
		return nil, fmt.Errorf("%w: envelope body lacks identity or valid duration", ErrInvalidBody)
	}

	tx := &Transaction{
		client:        c,
		method:        method,
		id:            body.TransactionID,
		validDuration: body.ValidDuration.Time(),
		envelope:      env.Clone(),
		state:         StateUnsigned,
	}
	if len(tx.envelope.SigMap.SigPairs) > 0 {
		tx.state = StateSigned
	}
	return tx, nil
}

// Sign signs the body bytes with an Ed25519 private key and appends the signature.
func (t *Transaction) Sign(privateKey ed25519.PrivateKey) (*Transaction, error) {
	if err := t.checkSignable(); err != nil {
		return nil, err
	}

	sk, err := signer.SignEd25519(privateKey, t.envelope.BodyBytes)
	if err != nil {
		return nil, err
	}
	return t.AddSignature(*sk)
}

// SignWith asks an external signer for a signature over the body bytes and
// appends it. Errors from the signer are returned unchanged.
func (t *Transaction) SignWith(ctx context.Context, fn signer.Func) (*Transaction, error) {
	if err := t.checkSignable(); err != nil {
		return nil, err
	}

	sk, err := t.callSigner(ctx, fn)
	if err != nil {
		return nil, err
	}
	return t.AddSignature(*sk)
}

// SignWithAll runs the signers concurrently and appends their signatures in
// argument order. If any signer fails nothing is appended.
func (t *Transaction) SignWithAll(ctx context.Context, fns ...signer.Func) (*Transaction, error) {
	if err := t.checkSignable(); err != nil {
		return nil, err
	}

	results := make([]*signer.SignatureAndKey, len(fns))
	g, gctx := errgroup.WithContext(ctx)
	for i, fn := range fns {
		g.Go(func() error {
			sk, err := t.callSigner(gctx, fn)
			if err != nil {
				return err
			}
			results[i] = sk
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pairs := make([]model.SignaturePair, 0, len(results))
	for _, sk := range results {
		pair, err := toSignaturePair(*sk)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, pair)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lockedNotSignable() {
		return nil, ErrAlreadySubmitted
	}
	for _, pair := range pairs {
		t.appendLocked(pair)
	}
	return t, nil
}

// AddSignature appends a signature computed elsewhere.
func (t *Transaction) AddSignature(sk signer.SignatureAndKey) (*Transaction, error) {
	pair, err := toSignaturePair(sk)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lockedNotSignable() {
		return nil, ErrAlreadySubmitted
	}
	t.appendLocked(pair)
	return t, nil
}

// Execute submits the envelope. A transaction without signatures is first
// signed by the client's operator. Transport errors are returned unchanged so
// the caller may retry; a precheck rejection is final.
func (t *Transaction) Execute(ctx context.Context) (model.TransactionID, error) {
	t.mu.Lock()
	if t.lockedNotSignable() {
		t.mu.Unlock()
		return model.TransactionID{}, ErrAlreadySubmitted
	}
	t.submitting = true
	unsigned := len(t.envelope.SigMap.SigPairs) == 0
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.submitting = false
		t.mu.Unlock()
	}()

	c := t.client
	log := c.logger.With(zap.Stringer("tx_id", t.id), zap.String("method", t.method.Name))

	if unsigned {
		if c.operator == nil {
			return model.TransactionID{}, ErrNoOperator
		}
		sk, err := t.callSigner(ctx, c.operator.Sign)
		if err != nil {
			return model.TransactionID{}, fmt.Errorf("failed to sign with operator: %w", err)
		}
		pair, err := toSignaturePair(*sk)
		if err != nil {
			return model.TransactionID{}, fmt.Errorf("failed to sign with operator: %w", err)
		}
		t.mu.Lock()
		t.appendLocked(pair)
		t.mu.Unlock()
		log.Debug("signed with operator key")
	}

	env := t.Envelope()

	c.metrics.Submitted(t.method.Name)
	var resp model.TransactionResponse
	if err := c.caller.Call(ctx, t.method, env, &resp); err != nil {
		log.Warn("submission failed", zap.Error(err))
		return model.TransactionID{}, err
	}

	code := status.Code(resp.NodeTransactionPrecheckCode)
	if status.Precheck(code) != nil {
		t.setState(StateFailed)
		c.metrics.PrecheckFailed(StageSubmit, code.String())
		log.Warn("transaction failed precheck", zap.Stringer("status", code))
		return model.TransactionID{}, &PrecheckError{TransactionID: t.id, Stage: StageSubmit, Status: code}
	}

	t.mu.Lock()
	t.state = StateSubmitted
	t.accepted = true
	t.mu.Unlock()

	log.Info("transaction submitted", zap.Int("signatures", len(env.SigMap.SigPairs)))
	return t.id, nil
}

// ExecuteForReceipt submits the transaction and waits for its final receipt.
func (t *Transaction) ExecuteForReceipt(ctx context.Context) (*model.TransactionReceipt, error) {
	if _, err := t.Execute(ctx); err != nil {
		return nil, err
	}
	return t.WaitForReceipt(ctx)
}

// WaitForReceipt polls for the receipt of a submitted transaction until it
// succeeds, fails, or the validity window would end before the next query.
func (t *Transaction) WaitForReceipt(ctx context.Context) (*model.TransactionReceipt, error) {
	t.mu.Lock()
	accepted := t.accepted
	t.mu.Unlock()
	if !accepted {
		return nil, ErrNotSubmitted
	}

	receipt, err := t.client.waitForReceipt(ctx, t.id, t.validDuration)

	var (
		statusErr  *ReceiptStatusError
		timeoutErr *TimeoutError
	)
	switch {
	case err == nil:
		t.setState(StateSucceeded)
	case errors.As(err, &statusErr):
		t.setState(StateFailed)
	case errors.As(err, &timeoutErr):
		t.setState(StateTimedOut)
	}
	return receipt, err
}

// TransactionID returns the identity of the transaction.
func (t *Transaction) TransactionID() model.TransactionID {
	return t.id
}

// ValidDuration returns the length of the validity window.
func (t *Transaction) ValidDuration() time.Duration {
	return t.validDuration
}

// Method returns the operation the transaction is submitted to.
func (t *Transaction) Method() transport.Method {
	return t.method
}

// State returns the lifecycle state.
func (t *Transaction) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// BodyBytes returns a copy of the encoded body.
func (t *Transaction) BodyBytes() []byte {
	out := make([]byte, len(t.envelope.BodyBytes))
	copy(out, t.envelope.BodyBytes)
	return out
}

// SignatureCount returns the number of signatures on the envelope.
func (t *Transaction) SignatureCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.envelope.SigMap.SigPairs)
}

// Envelope returns a deep copy of the signed envelope.
func (t *Transaction) Envelope() *model.Transaction {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.envelope.Clone()
}

// Bytes returns the encoded envelope.
func (t *Transaction) Bytes() ([]byte, error) {
	return model.Encode(t.Envelope())
}

// Hash returns the Keccak-256 hash of the encoded envelope.
func (t *Transaction) Hash() (common.Hash, error) {
	b, err := t.Bytes()
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(b), nil
}

func (t *Transaction) checkSignable() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lockedNotSignable() {
		return ErrAlreadySubmitted
	}
	return nil
}

// lockedNotSignable requires t.mu.
func (t *Transaction) lockedNotSignable() bool {
	return t.submitting || t.state >= StateSubmitted
}

// appendLocked requires t.mu.
func (t *Transaction) appendLocked(pair model.SignaturePair) {
	t.envelope.SigMap.SigPairs = append(t.envelope.SigMap.SigPairs, pair)
	if t.state == StateUnsigned {
		t.state = StateSigned
	}
}

func (t *Transaction) setState(s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = s
}

func (t *Transaction) callSigner(ctx context.Context, fn signer.Func) (*signer.SignatureAndKey, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: signer is nil", signer.ErrInvalidSignature)
	}
	sk, err := fn(ctx, t.BodyBytes())
	if err != nil {
		return nil, err
	}
	if sk == nil {
		return nil, fmt.Errorf("%w: signer returned no signature", signer.ErrInvalidSignature)
	}
	return sk, nil
}

func toSignaturePair(sk signer.SignatureAndKey) (model.SignaturePair, error) {
	if err := sk.Validate(); err != nil {
		return model.SignaturePair{}, err
	}

	pair := model.SignaturePair{PubKeyPrefix: copyBytes(sk.PublicKey)}
	switch sk.Scheme {
	case signer.SchemeECDSASecp256k1:
		pair.ECDSASecp256k1 = copyBytes(sk.Signature)
	default:
		pair.Ed25519 = copyBytes(sk.Signature)
	}
	return pair, nil
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
