package signer

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustodyServer(t *testing.T, priv ed25519.PrivateKey, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}

		var in struct {
			PayloadHex string `json:"payload_hex"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		payload, err := hex.DecodeString(in.PayloadHex)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"signature_hex":  "0x" + hex.EncodeToString(ed25519.Sign(priv, payload)),
			"public_key_hex": hex.EncodeToString(priv.Public().(ed25519.PublicKey)),
			"scheme":         "ed25519",
		})
	}))
}

func TestRemoteSignerSign(t *testing.T) {
	priv, err := ParseEd25519PrivateKey(testSeedHex)
	require.NoError(t, err)

	secret := []byte("custody-secret")
	server := newCustodyServer(t, priv, func(r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "api-key", r.Header.Get("x-api-key"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		claims := &jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) { return secret, nil })
		assert.NoError(t, err)
		assert.Equal(t, "ledger-sdk", claims.Issuer)
		assert.Equal(t, r.Header.Get("X-Request-ID"), claims.ID)
	})
	defer server.Close()

	s, err := NewRemoteSigner(server.URL, WithAPIKey("api-key"), WithJWTAuth(secret, "ledger-sdk"))
	require.NoError(t, err)

	payload := []byte("body bytes")
	sk, err := s.Sign(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, SchemeEd25519, sk.Scheme)
	assert.Equal(t, testPublicKeyHex, hex.EncodeToString(sk.PublicKey))
	assert.True(t, ed25519.Verify(sk.PublicKey, payload, sk.Signature))
}

func TestRemoteSignerConfiguredPublicKey(t *testing.T) {
	priv, err := ParseEd25519PrivateKey(testSeedHex)
	require.NoError(t, err)
	pub := priv.Public().(ed25519.PublicKey)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"signature_hex": hex.EncodeToString(ed25519.Sign(priv, []byte("x"))),
		})
	}))
	defer server.Close()

	s, err := NewRemoteSigner(server.URL, WithRemotePublicKey(pub, SchemeEd25519))
	require.NoError(t, err)
	assert.Equal(t, []byte(pub), s.PublicKey())

	sk, err := s.Sign(context.Background(), []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, []byte(pub), sk.PublicKey)
}

func TestRemoteSignerErrors(t *testing.T) {
	_, err := NewRemoteSigner("  ")
	assert.Error(t, err)

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		errorMsg string
		sentinel error
	}{
		{
			name:     "Non 200 status",
			handler:  func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) },
			errorMsg: "remote signer http 403",
		},
		{
			name:     "Malformed JSON",
			handler:  func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("{")) },
			errorMsg: "failed to decode remote signer response",
		},
		{
			name: "Short signature",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"signature_hex": "abcd", "public_key_hex": "01"})
			},
			sentinel: ErrInvalidSignature,
		},
		{
			name: "Missing public key",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]string{"signature_hex": strings.Repeat("ab", 64)})
			},
			sentinel: ErrInvalidSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			s, err := NewRemoteSigner(server.URL)
			require.NoError(t, err)

			_, err = s.Sign(context.Background(), []byte("payload"))
			require.Error(t, err)
			if tt.errorMsg != "" {
				assert.Contains(t, err.Error(), tt.errorMsg)
			}
			if tt.sentinel != nil {
				assert.True(t, errors.Is(err, tt.sentinel))
			}
		})
	}
}

func TestRemoteSignerHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	s, err := NewRemoteSigner(server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Sign(ctx, []byte("payload"))
	assert.ErrorIs(t, err, context.Canceled)
}
