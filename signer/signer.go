// Package signer produces signatures over transaction body bytes.
//
// A SignerProvider holds key material (locally or behind a remote custody
// service) and returns the signature together with the public key that
// produced it. Any provider's Sign method value is a Func, the capability the
// transaction lifecycle consumes for delegated signing.
package signer

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidPrivateKey reports malformed private key material.
	ErrInvalidPrivateKey = errors.New("invalid private key")
	// ErrInvalidSignature reports an empty or malformed signature/key pair.
	ErrInvalidSignature = errors.New("invalid signature")
)

// Scheme is the signature algorithm of a SignatureAndKey.
type Scheme uint8

const (
	SchemeEd25519 Scheme = iota
	SchemeECDSASecp256k1
)

func (s Scheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeECDSASecp256k1:
		return "ecdsa_secp256k1"
	default:
		return "unknown"
	}
}

// ParseScheme converts a scheme name to a Scheme. An empty name is Ed25519.
func ParseScheme(s string) (Scheme, error) {
	switch s {
	case "", "ed25519":
		return SchemeEd25519, nil
	case "ecdsa", "ecdsa_secp256k1":
		return SchemeECDSASecp256k1, nil
	default:
		return 0, fmt.Errorf("unsupported signature scheme: %s", s)
	}
}

// SignatureAndKey pairs a raw signature with the raw public key that produced it.
type SignatureAndKey struct {
	Signature []byte
	PublicKey []byte
	Scheme    Scheme
}

// Validate checks that the pair can be placed on an envelope.
func (sk SignatureAndKey) Validate() error {
	if len(sk.Signature) == 0 {
		return fmt.Errorf("%w: signature is empty", ErrInvalidSignature)
	}
	if len(sk.PublicKey) == 0 {
		return fmt.Errorf("%w: public key is empty", ErrInvalidSignature)
	}
	if sk.Scheme != SchemeEd25519 && sk.Scheme != SchemeECDSASecp256k1 {
		return fmt.Errorf("%w: unsupported scheme %d", ErrInvalidSignature, sk.Scheme)
	}
	return nil
}

// Func signs body bytes and returns the signature with its public key.
// It may block on an external custody service.
type Func func(ctx context.Context, bodyBytes []byte) (*SignatureAndKey, error)

// SignerProvider is the interface for the signer provider.
type SignerProvider interface {
	Sign(ctx context.Context, payload []byte) (*SignatureAndKey, error)
	PublicKey() []byte
}
