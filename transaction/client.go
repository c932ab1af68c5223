// Package transaction builds, signs, submits and confirms ledger transactions.
//
// A Client binds a transport to an optional operator (the paying account and
// its signer) and to the receipt polling settings. Transactions created from
// a Client move through an explicit lifecycle:
//
//	Unsigned -> Signed -> Submitted -> Succeeded | Failed | TimedOut
//
// Submission yields a node's synchronous precheck verdict. Consensus is
// asynchronous, so the final outcome is obtained by polling for the receipt
// with jittered exponential backoff until it is final or the transaction's
// validity window ends.
package transaction

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pilacorp/go-ledger-sdk/clock"
	"github.com/pilacorp/go-ledger-sdk/config"
	"github.com/pilacorp/go-ledger-sdk/metrics"
	"github.com/pilacorp/go-ledger-sdk/model"
	"github.com/pilacorp/go-ledger-sdk/signer"
	"github.com/pilacorp/go-ledger-sdk/status"
	"github.com/pilacorp/go-ledger-sdk/transport"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client submits transactions and polls for their receipts.
type Client struct {
	caller transport.Caller

	nodeAccountID     model.AccountID
	operatorAccountID model.AccountID
	operator          signer.SignerProvider
	maxTransactionFee uint64
	validDuration     time.Duration

	receiptInitialDelay time.Duration
	receiptRetryDelay   time.Duration
	limiter             *rate.Limiter

	clock    clock.Clock
	jitterMu sync.Mutex
	jitter   *rand.Rand

	logger  *zap.Logger
	metrics *metrics.Recorder
}

// ClientOption is a functional option type for configuring a Client.
type ClientOption func(*Client)

// WithOperator sets the account that pays for transactions and the signer
// used when a transaction is executed without signatures.
func WithOperator(accountID model.AccountID, s signer.SignerProvider) ClientOption {
	return func(c *Client) {
		c.operatorAccountID = accountID
		c.operator = s
	}
}

// WithNodeAccountID sets the node that receives submissions.
func WithNodeAccountID(id model.AccountID) ClientOption {
	return func(c *Client) { c.nodeAccountID = id }
}

// WithMaxTransactionFee sets the fee placed on bodies built by NewBody.
func WithMaxTransactionFee(fee uint64) ClientOption {
	return func(c *Client) { c.maxTransactionFee = fee }
}

// WithValidDuration sets the validity window placed on bodies built by NewBody.
func WithValidDuration(d time.Duration) ClientOption {
	return func(c *Client) { c.validDuration = d }
}

// WithReceiptDelays sets the delay before the first receipt query and the
// backoff base between queries.
func WithReceiptDelays(initial, retry time.Duration) ClientOption {
	return func(c *Client) {
		c.receiptInitialDelay = initial
		c.receiptRetryDelay = retry
	}
}

// WithReceiptQueryLimit caps receipt queries issued by this client across all
// transactions. A zero limit removes the cap.
func WithReceiptQueryLimit(limit rate.Limit, burst int) ClientOption {
	return func(c *Client) {
		if limit <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithClock replaces the system clock.
func WithClock(clk clock.Clock) ClientOption {
	return func(c *Client) { c.clock = clk }
}

// WithRandSource sets the source of backoff jitter.
func WithRandSource(src rand.Source) ClientOption {
	return func(c *Client) { c.jitter = rand.New(src) }
}

// WithLogger sets the logger. The default logger discards everything.
func WithLogger(l *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r *metrics.Recorder) ClientOption {
	return func(c *Client) { c.metrics = r }
}

// NewClient creates a Client that calls the ledger through caller.
func NewClient(caller transport.Caller, options ...ClientOption) (*Client, error) {
	if caller == nil {
		return nil, fmt.Errorf("transport caller is required")
	}

	c := &Client{
		caller:              caller,
		nodeAccountID:       model.AccountID{Num: 3},
		maxTransactionFee:   config.DefaultMaxTransactionFee,
		validDuration:       config.DefaultValidDuration,
		receiptInitialDelay: config.DefaultReceiptInitialDelay,
		receiptRetryDelay:   config.DefaultReceiptRetryDelay,
		clock:               clock.NewSystemClock(),
		logger:              zap.NewNop(),
	}

	for _, opt := range options {
		opt(c)
	}

	if c.jitter == nil {
		c.jitter = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if c.clock == nil {
		c.clock = clock.NewSystemClock()
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.receiptInitialDelay < 0 || c.receiptRetryDelay < 0 {
		return nil, fmt.Errorf("receipt delays must not be negative")
	}
	if err := config.ValidateValidDuration(c.validDuration); err != nil {
		return nil, err
	}
	if !c.operatorAccountID.IsZero() && c.operator == nil {
		return nil, fmt.Errorf("operator signer is required for account %s", c.operatorAccountID)
	}

	return c, nil
}

// NewClientFromConfig dials the configured transport and loads the operator key.
// Options are applied after the configuration.
func NewClientFromConfig(ctx context.Context, cfg *config.Config, options ...ClientOption) (*Client, error) {
	if cfg == nil {
		cfg = config.New(config.Config{})
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	nodeID, err := model.ParseAccountID(cfg.NodeAccountID)
	if err != nil {
		return nil, err
	}

	opts := []ClientOption{
		WithNodeAccountID(nodeID),
		WithMaxTransactionFee(cfg.MaxTransactionFee),
		WithValidDuration(cfg.ValidDuration),
		WithReceiptDelays(cfg.ReceiptInitialDelay, cfg.ReceiptRetryDelay),
		WithReceiptQueryLimit(rate.Limit(cfg.ReceiptQueryRate), cfg.ReceiptQueryBurst),
	}

	if cfg.OperatorAccountID != "" {
		operatorID, err := model.ParseAccountID(cfg.OperatorAccountID)
		if err != nil {
			return nil, err
		}
		operator, err := newOperatorSigner(cfg.OperatorKeyType, cfg.OperatorKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load operator key: %w", err)
		}
		opts = append(opts, WithOperator(operatorID, operator))
	}

	var caller transport.Caller
	switch cfg.Transport {
	case config.TransportJSONRPC:
		caller, err = transport.DialJSONRPC(ctx, cfg.Endpoint)
	default:
		caller, err = transport.DialGRPC(cfg.Endpoint)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Endpoint, err)
	}

	client, err := NewClient(caller, append(opts, options...)...)
	if err != nil {
		if closer, ok := caller.(io.Closer); ok {
			_ = closer.Close()
		}
		return nil, err
	}
	return client, nil
}

func newOperatorSigner(keyType, key string) (signer.SignerProvider, error) {
	switch keyType {
	case config.KeyTypeECDSA:
		return signer.NewECDSAProvider(key)
	default:
		return signer.NewEd25519Provider(key)
	}
}

// Close releases the underlying connection if the transport holds one.
func (c *Client) Close() error {
	if closer, ok := c.caller.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// OperatorAccountID returns the operator account, which is zero when unset.
func (c *Client) OperatorAccountID() model.AccountID {
	return c.operatorAccountID
}

// NewTransactionID returns an identity paid by the operator and valid from now.
func (c *Client) NewTransactionID() (model.TransactionID, error) {
	if c.operatorAccountID.IsZero() {
		return model.TransactionID{}, ErrNoOperator
	}
	return model.NewTransactionID(c.operatorAccountID, c.clock.Now()), nil
}

// NewBody returns a body with a fresh identity and the client's node, fee and
// validity window.
func (c *Client) NewBody(memo string, data []byte) (model.TransactionBody, error) {
	id, err := c.NewTransactionID()
	if err != nil {
		return model.TransactionBody{}, err
	}
	return model.TransactionBody{
		TransactionID:  id,
		NodeAccountID:  c.nodeAccountID,
		TransactionFee: c.maxTransactionFee,
		ValidDuration:  model.DurationFromTime(c.validDuration),
		Memo:           memo,
		Data:           data,
	}, nil
}

// GetTransactionReceipt performs a single receipt query for id.
func (c *Client) GetTransactionReceipt(ctx context.Context, id model.TransactionID) (*model.TransactionReceipt, error) {
	if err := c.waitQuerySlot(ctx, time.Time{}); err != nil {
		return nil, err
	}
	return c.queryReceipt(ctx, id)
}

// waitQuerySlot waits on the receipt query limiter using the client clock.
// If the slot would open after a non-zero deadline the reservation is
// returned and errSlotPastDeadline is reported without waiting.
func (c *Client) waitQuerySlot(ctx context.Context, deadline time.Time) error {
	if c.limiter == nil {
		return nil
	}

	now := c.clock.Now()
	r := c.limiter.ReserveN(now, 1)
	if !r.OK() {
		return fmt.Errorf("failed to reserve receipt query slot: limiter burst is zero")
	}

	delay := r.DelayFrom(now)
	if !deadline.IsZero() && now.Add(delay).After(deadline) {
		r.CancelAt(now)
		return errSlotPastDeadline
	}
	if err := c.clock.Sleep(ctx, delay); err != nil {
		r.CancelAt(c.clock.Now())
		return fmt.Errorf("failed to wait for receipt query slot: %w", err)
	}
	return nil
}

func (c *Client) queryReceipt(ctx context.Context, id model.TransactionID) (*model.TransactionReceipt, error) {
	c.metrics.ReceiptQueried()

	var resp model.Response
	if err := c.caller.Call(ctx, transport.GetTransactionReceipts, model.NewReceiptQuery(id), &resp); err != nil {
		return nil, err
	}
	if resp.TransactionGetReceipt == nil {
		return nil, ErrMissingReceipt
	}

	code := status.Code(resp.TransactionGetReceipt.Header.NodeTransactionPrecheckCode)
	if status.Precheck(code) != nil {
		c.metrics.PrecheckFailed(StageQuery, code.String())
		c.logger.Warn("receipt query failed precheck",
			zap.Stringer("tx_id", id),
			zap.Stringer("status", code))
		return nil, &PrecheckError{TransactionID: id, Stage: StageQuery, Status: code}
	}
	if resp.TransactionGetReceipt.Receipt == nil {
		return nil, ErrMissingReceipt
	}
	return resp.TransactionGetReceipt.Receipt, nil
}

// waitForReceipt polls until the receipt of id is final or waiting longer would
// pass the end of the validity window.
func (c *Client) waitForReceipt(ctx context.Context, id model.TransactionID, validDuration time.Duration) (*model.TransactionReceipt, error) {
	started := c.clock.Now()
	validUntil := id.ValidStartTime().Add(validDuration)
	log := c.logger.With(zap.Stringer("tx_id", id))

	if err := c.clock.Sleep(ctx, c.receiptInitialDelay); err != nil {
		return nil, fmt.Errorf("failed to wait for receipt: %w", err)
	}

	timeout := func(attempt int) error {
		c.metrics.ReceiptResolved("timeout", c.clock.Now().Sub(started))
		log.Warn("validity window ended before consensus",
			zap.Int("attempt", attempt),
			zap.Time("valid_until", validUntil))
		return &TimeoutError{TransactionID: id, ValidUntil: validUntil}
	}

	for attempt := 0; ; attempt++ {
		if err := c.waitQuerySlot(ctx, validUntil); err != nil {
			if errors.Is(err, errSlotPastDeadline) {
				return nil, timeout(attempt)
			}
			return nil, err
		}

		receipt, err := c.queryReceipt(ctx, id)
		if err != nil {
			return nil, err
		}

		code := status.Code(receipt.Status)
		outcome := status.Classify(code)

		switch {
		case outcome == status.OutcomeSuccess:
			c.metrics.ReceiptResolved(outcome.String(), c.clock.Now().Sub(started))
			log.Info("transaction reached consensus", zap.Int("attempt", attempt))
			return receipt, nil

		case outcome.Pending():
			delay := backoffDelay(c.receiptRetryDelay, c.nextJitter(), attempt)
			if c.clock.Now().Add(delay).After(validUntil) {
				return nil, timeout(attempt)
			}

			log.Debug("receipt pending",
				zap.Int("attempt", attempt),
				zap.Stringer("status", code),
				zap.Duration("delay", delay))
			if err := c.clock.Sleep(ctx, delay); err != nil {
				return nil, fmt.Errorf("failed to wait for receipt: %w", err)
			}

		default:
			c.metrics.ReceiptResolved(outcome.String(), c.clock.Now().Sub(started))
			log.Warn("transaction failed at consensus",
				zap.Int("attempt", attempt),
				zap.Stringer("status", code))
			return nil, &ReceiptStatusError{TransactionID: id, Status: code, Receipt: receipt}
		}
	}
}

func (c *Client) nextJitter() float64 {
	c.jitterMu.Lock()
	defer c.jitterMu.Unlock()
	return c.jitter.Float64()
}
