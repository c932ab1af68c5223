package signer

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"
)

// ed25519DERPrefix is the PKCS#8 DER header the ledger's tooling prepends to
// exported Ed25519 seeds.
const ed25519DERPrefix = "302e020100300506032b657004220420"

// ParseEd25519PrivateKey parses a hex private key. It accepts a 32-byte seed,
// a 64-byte seed||public key, or a DER-encoded seed, with or without 0x.
func ParseEd25519PrivateKey(privHex string) (ed25519.PrivateKey, error) {
	s := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(privHex), "0x"))
	s = strings.TrimPrefix(s, ed25519DERPrefix)
	if len(s) == 0 || len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: empty or odd length", ErrInvalidPrivateKey)
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	switch len(b) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(b), nil
	case ed25519.PrivateKeySize:
		priv := ed25519.PrivateKey(b)
		if err := ValidateEd25519PrivateKey(priv); err != nil {
			return nil, err
		}
		return priv, nil
	default:
		return nil, fmt.Errorf("%w: expected %d or %d bytes, got %d",
			ErrInvalidPrivateKey, ed25519.SeedSize, ed25519.PrivateKeySize, len(b))
	}
}

// ValidateEd25519PrivateKey checks the length of priv and that its public half
// is derived from its seed.
func ValidateEd25519PrivateKey(priv ed25519.PrivateKey) error {
	if len(priv) != ed25519.PrivateKeySize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPrivateKey, ed25519.PrivateKeySize, len(priv))
	}
	derived := ed25519.NewKeyFromSeed(priv.Seed())
	if !bytes.Equal(derived[ed25519.SeedSize:], priv[ed25519.SeedSize:]) {
		return fmt.Errorf("%w: public key does not match seed", ErrInvalidPrivateKey)
	}
	return nil
}

// SignEd25519 signs payload with priv after validating the key.
func SignEd25519(priv ed25519.PrivateKey, payload []byte) (*SignatureAndKey, error) {
	if err := ValidateEd25519PrivateKey(priv); err != nil {
		return nil, err
	}

	pub := make([]byte, ed25519.PublicKeySize)
	copy(pub, priv[ed25519.SeedSize:])

	return &SignatureAndKey{
		Signature: ed25519.Sign(priv, payload),
		PublicKey: pub,
		Scheme:    SchemeEd25519,
	}, nil
}

// Ed25519Provider signs with a local Ed25519 key.
type Ed25519Provider struct {
	priv ed25519.PrivateKey
}

// NewEd25519Provider creates a provider from a hex private key.
func NewEd25519Provider(privHex string) (*Ed25519Provider, error) {
	priv, err := ParseEd25519PrivateKey(privHex)
	if err != nil {
		return nil, err
	}
	return &Ed25519Provider{priv: priv}, nil
}

// NewEd25519ProviderFromKey creates a provider from a raw private key.
func NewEd25519ProviderFromKey(priv ed25519.PrivateKey) (*Ed25519Provider, error) {
	if err := ValidateEd25519PrivateKey(priv); err != nil {
		return nil, err
	}
	return &Ed25519Provider{priv: priv}, nil
}

// Sign signs the payload.
func (p *Ed25519Provider) Sign(_ context.Context, payload []byte) (*SignatureAndKey, error) {
	return SignEd25519(p.priv, payload)
}

// PublicKey returns the raw 32-byte public key.
func (p *Ed25519Provider) PublicKey() []byte {
	pub := make([]byte, ed25519.PublicKeySize)
	copy(pub, p.priv[ed25519.SeedSize:])
	return pub
}

// PrivateKey returns the raw private key.
func (p *Ed25519Provider) PrivateKey() ed25519.PrivateKey {
	return p.priv
}
