package signer

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 8032 test 1.
const (
	testSeedHex      = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	testPublicKeyHex = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
	testSignatureHex = "e5564300c360ac729086e2cc806e828a84877f1eb8e5d974d873e065224901555fb8821590a33bacc61e39701cf9b46bd25bf5f0595bbe24655141438e7a100b"
)

func TestParseEd25519PrivateKey(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{name: "Raw seed", input: testSeedHex},
		{name: "Seed with 0x", input: "0x" + testSeedHex},
		{name: "DER encoded seed", input: ed25519DERPrefix + testSeedHex},
		{name: "Seed and public key", input: testSeedHex + testPublicKeyHex},
		{name: "Upper case", input: "0x" + "9D61B19DEFFD5A60BA844AF492EC2CC44449C5697B326919703BAC031CAE7F60"},
		{name: "Empty", input: "", expectError: true},
		{name: "Odd length", input: "abc", expectError: true},
		{name: "Not hex", input: "zz", expectError: true},
		{name: "Wrong length", input: "abcd", expectError: true},
		{name: "Mismatched public half", input: testSeedHex + testSeedHex, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			priv, err := ParseEd25519PrivateKey(tt.input)
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidPrivateKey))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testPublicKeyHex, hex.EncodeToString(priv.Public().(ed25519.PublicKey)))
		})
	}
}

func TestEd25519Provider(t *testing.T) {
	p, err := NewEd25519Provider(testSeedHex)
	require.NoError(t, err)

	assert.Equal(t, testPublicKeyHex, hex.EncodeToString(p.PublicKey()))

	sk, err := p.Sign(context.Background(), []byte{})
	require.NoError(t, err)
	assert.Equal(t, testSignatureHex, hex.EncodeToString(sk.Signature))
	assert.Equal(t, testPublicKeyHex, hex.EncodeToString(sk.PublicKey))
	assert.Equal(t, SchemeEd25519, sk.Scheme)

	// Returned keys are copies.
	sk.PublicKey[0] ^= 0xff
	assert.Equal(t, testPublicKeyHex, hex.EncodeToString(p.PublicKey()))

	assert.Equal(t, testSeedHex, hex.EncodeToString(p.PrivateKey().Seed()))
	assert.NoError(t, ValidateEd25519PrivateKey(p.PrivateKey()))
}

func TestSignEd25519RejectsMalformedKey(t *testing.T) {
	_, err := SignEd25519(ed25519.PrivateKey{1, 2, 3}, []byte("body"))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = NewEd25519ProviderFromKey(make(ed25519.PrivateKey, 10))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)
}

func TestECDSAProvider(t *testing.T) {
	p, err := NewECDSAProvider("0x8f49e4492f97ca6334e15117fc6c4c06f4652cac7fb27ed4ecc5ef9ea6ad5820")
	require.NoError(t, err)

	payload := []byte("transaction body")
	sk, err := p.Sign(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, SchemeECDSASecp256k1, sk.Scheme)
	assert.Len(t, sk.Signature, 64)
	assert.Len(t, sk.PublicKey, 33)
	assert.True(t, crypto.VerifySignature(sk.PublicKey, crypto.Keccak256(payload), sk.Signature))

	addr := p.GetAddress()
	assert.Len(t, addr, 42)
	assert.Equal(t, "0x", addr[:2])
}

func TestNewECDSAProviderInvalid(t *testing.T) {
	for _, input := range []string{"", "0x", "abc", "zzzz"} {
		_, err := NewECDSAProvider(input)
		assert.ErrorIs(t, err, ErrInvalidPrivateKey, "input %q", input)
	}
}

func TestSignatureAndKeyValidate(t *testing.T) {
	assert.NoError(t, SignatureAndKey{Signature: []byte{1}, PublicKey: []byte{2}}.Validate())
	assert.ErrorIs(t, SignatureAndKey{PublicKey: []byte{2}}.Validate(), ErrInvalidSignature)
	assert.ErrorIs(t, SignatureAndKey{Signature: []byte{1}}.Validate(), ErrInvalidSignature)
	assert.ErrorIs(t, SignatureAndKey{Signature: []byte{1}, PublicKey: []byte{2}, Scheme: 9}.Validate(), ErrInvalidSignature)
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("")
	require.NoError(t, err)
	assert.Equal(t, SchemeEd25519, s)

	s, err = ParseScheme("ecdsa_secp256k1")
	require.NoError(t, err)
	assert.Equal(t, SchemeECDSASecp256k1, s)
	assert.Equal(t, "ecdsa_secp256k1", s.String())

	_, err = ParseScheme("rsa")
	assert.Error(t, err)
}

func TestProviderSignIsFunc(t *testing.T) {
	p, err := NewEd25519Provider(testSeedHex)
	require.NoError(t, err)

	var fn Func = p.Sign
	sk, err := fn(context.Background(), []byte{})
	require.NoError(t, err)
	assert.Equal(t, testSignatureHex, hex.EncodeToString(sk.Signature))
}
