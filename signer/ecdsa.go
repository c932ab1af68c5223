package signer

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// ECDSAProvider signs with a local secp256k1 key.
//
// Signatures are over the Keccak-256 hash of the payload and carry the 64-byte
// r||s form; the public key is the 33-byte compressed point.
type ECDSAProvider struct {
	priv *ecdsa.PrivateKey
}

// NewECDSAProvider creates a new ECDSA signer provider.
//
// privHex is the private key in hex format.
// Returns the signer provider or an error if the private key is invalid.
func NewECDSAProvider(privHex string) (*ECDSAProvider, error) {
	key := strings.TrimPrefix(strings.TrimSpace(privHex), "0x")
	if len(key) == 0 || len(key)%2 != 0 {
		return nil, fmt.Errorf("%w: empty or odd length", ErrInvalidPrivateKey)
	}
	priv, err := crypto.HexToECDSA(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return &ECDSAProvider{priv: priv}, nil
}

// Sign signs the payload.
func (s *ECDSAProvider) Sign(_ context.Context, payload []byte) (*SignatureAndKey, error) {
	signature, err := crypto.Sign(crypto.Keccak256(payload), s.priv)
	if err != nil {
		return nil, fmt.Errorf("failed to sign payload: %w", err)
	}

	if len(signature) != 65 {
		return nil, fmt.Errorf("invalid signature length: expected 65 bytes, got %d", len(signature))
	}

	return &SignatureAndKey{
		Signature: signature[:64],
		PublicKey: s.PublicKey(),
		Scheme:    SchemeECDSASecp256k1,
	}, nil
}

// PublicKey returns the compressed public key.
func (s *ECDSAProvider) PublicKey() []byte {
	return crypto.CompressPubkey(&s.priv.PublicKey)
}

// GetAddress returns the EVM address alias of the key.
func (s *ECDSAProvider) GetAddress() string {
	return strings.ToLower(crypto.PubkeyToAddress(s.priv.PublicKey).Hex())
}
