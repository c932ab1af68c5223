// Package config holds the client configuration and loads it from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pilacorp/go-ledger-sdk/model"
	"gopkg.in/yaml.v3"
)

// Transports.
const (
	TransportGRPC    = "grpc"
	TransportJSONRPC = "jsonrpc"
)

// Operator key types.
const (
	KeyTypeEd25519 = "ed25519"
	KeyTypeECDSA   = "ecdsa"
)

// Default values
const (
	DefaultTransport           = TransportGRPC
	DefaultEndpoint            = "localhost:50211"
	DefaultNodeAccountID       = "0.0.3"
	DefaultOperatorKeyType     = KeyTypeEd25519
	DefaultMaxTransactionFee   = uint64(100_000_000)
	DefaultValidDuration       = 120 * time.Second
	DefaultReceiptInitialDelay = 1000 * time.Millisecond
	DefaultReceiptRetryDelay   = 500 * time.Millisecond
	DefaultReceiptQueryBurst   = 1

	// MaxValidDuration is the longest validity window a node accepts.
	MaxValidDuration = 180 * time.Second
)

// Config holds the configuration for ledger clients.
type Config struct {
	Transport         string `yaml:"transport"`
	Endpoint          string `yaml:"endpoint"`
	NodeAccountID     string `yaml:"node_account_id"`
	OperatorAccountID string `yaml:"operator_account_id"`
	// OperatorKey is the hex private key that signs transactions nobody else signed.
	OperatorKey       string `yaml:"operator_key"`
	OperatorKeyType   string `yaml:"operator_key_type"`
	MaxTransactionFee uint64 `yaml:"max_transaction_fee"`

	ValidDuration       time.Duration `yaml:"valid_duration"`
	ReceiptInitialDelay time.Duration `yaml:"receipt_initial_delay"`
	ReceiptRetryDelay   time.Duration `yaml:"receipt_retry_delay"`
	// ReceiptQueryRate caps receipt queries per second across the client; zero disables the cap.
	ReceiptQueryRate  float64 `yaml:"receipt_query_rate"`
	ReceiptQueryBurst int     `yaml:"receipt_query_burst"`
}

// New creates a new Config instance with the provided values.
// If a value is empty/zero, it will use the default value.
// Pass an empty Config{} to use all defaults.
func New(cfg Config) *Config {
	result := cfg

	if result.Transport == "" {
		result.Transport = DefaultTransport
	}
	if result.Endpoint == "" {
		result.Endpoint = DefaultEndpoint
	}
	if result.NodeAccountID == "" {
		result.NodeAccountID = DefaultNodeAccountID
	}
	if result.OperatorKeyType == "" {
		result.OperatorKeyType = DefaultOperatorKeyType
	}
	if result.MaxTransactionFee == 0 {
		result.MaxTransactionFee = DefaultMaxTransactionFee
	}
	if result.ValidDuration == 0 {
		result.ValidDuration = DefaultValidDuration
	}
	if result.ReceiptInitialDelay == 0 {
		result.ReceiptInitialDelay = DefaultReceiptInitialDelay
	}
	if result.ReceiptRetryDelay == 0 {
		result.ReceiptRetryDelay = DefaultReceiptRetryDelay
	}
	if result.ReceiptQueryBurst == 0 {
		result.ReceiptQueryBurst = DefaultReceiptQueryBurst
	}

	return &result
}

// Load reads a YAML file, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML config data, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	var raw Config
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := New(raw)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportGRPC, TransportJSONRPC:
	default:
		return fmt.Errorf("unsupported transport: %q", c.Transport)
	}
	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}
	if _, err := model.ParseAccountID(c.NodeAccountID); err != nil {
		return fmt.Errorf("invalid node_account_id: %w", err)
	}
	if c.OperatorAccountID != "" {
		if _, err := model.ParseAccountID(c.OperatorAccountID); err != nil {
			return fmt.Errorf("invalid operator_account_id: %w", err)
		}
		if c.OperatorKey == "" {
			return errors.New("operator_key is required when operator_account_id is set")
		}
	}
	switch c.OperatorKeyType {
	case KeyTypeEd25519, KeyTypeECDSA:
	default:
		return fmt.Errorf("unsupported operator_key_type: %q", c.OperatorKeyType)
	}
	if err := ValidateValidDuration(c.ValidDuration); err != nil {
		return err
	}
	if c.ReceiptInitialDelay < 0 || c.ReceiptRetryDelay < 0 {
		return errors.New("receipt delays must not be negative")
	}
	if c.ReceiptQueryRate < 0 {
		return errors.New("receipt_query_rate must not be negative")
	}
	if c.ReceiptQueryBurst < 0 {
		return errors.New("receipt_query_burst must not be negative")
	}
	return nil
}

// ValidateValidDuration checks that d is a whole number of seconds between one
// second and MaxValidDuration. The wire format carries whole seconds only.
func ValidateValidDuration(d time.Duration) error {
	if d < time.Second || d > MaxValidDuration {
		return fmt.Errorf("valid_duration must be in [1s, %s], got %s", MaxValidDuration, d)
	}
	if d%time.Second != 0 {
		return fmt.Errorf("valid_duration must be a whole number of seconds, got %s", d)
	}
	return nil
}
