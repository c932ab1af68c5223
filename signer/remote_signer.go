package signer

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultRemoteTimeout = 10 * time.Second
	remoteTokenTTL       = time.Minute
)

// RemoteSigner signs payloads through an external custody service over HTTP.
//
// The service receives {"payload_hex": ...} and answers with
// {"signature_hex": ..., "public_key_hex": ..., "scheme": ...}. The public key
// and scheme may be omitted from the answer when configured on the signer.
type RemoteSigner struct {
	endpoint  string
	apiKey    string
	jwtSecret []byte
	jwtIssuer string
	publicKey []byte
	scheme    Scheme
	client    *http.Client
}

// RemoteOption configures a RemoteSigner.
type RemoteOption func(*RemoteSigner)

// WithAPIKey sends key in the x-api-key header.
func WithAPIKey(key string) RemoteOption {
	return func(s *RemoteSigner) { s.apiKey = key }
}

// WithJWTAuth sends a short-lived HS256 bearer token signed with secret.
func WithJWTAuth(secret []byte, issuer string) RemoteOption {
	return func(s *RemoteSigner) {
		s.jwtSecret = secret
		s.jwtIssuer = issuer
	}
}

// WithRemotePublicKey sets the public key used when the service omits it.
func WithRemotePublicKey(pub []byte, scheme Scheme) RemoteOption {
	return func(s *RemoteSigner) {
		s.publicKey = pub
		s.scheme = scheme
	}
}

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(s *RemoteSigner) { s.client = c }
}

// NewRemoteSigner creates a new RemoteSigner.
func NewRemoteSigner(endpoint string, opts ...RemoteOption) (*RemoteSigner, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("endpoint required")
	}

	s := &RemoteSigner{
		endpoint: endpoint,
		client: &http.Client{
			Timeout:   defaultRemoteTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// PublicKey returns the configured public key, if any.
func (s *RemoteSigner) PublicKey() []byte {
	return s.publicKey
}

// Sign signs a payload using the remote API.
func (s *RemoteSigner) Sign(ctx context.Context, payload []byte) (*SignatureAndKey, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("payload is empty")
	}

	reqBody, err := json.Marshal(map[string]any{
		"payload_hex": hex.EncodeToString(payload),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode sign request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}
	if len(s.jwtSecret) > 0 {
		token, err := s.bearerToken(requestID)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("remote signer http %d", resp.StatusCode)
	}

	var out struct {
		SignatureHex string `json:"signature_hex"`
		PublicKeyHex string `json:"public_key_hex"`
		Scheme       string `json:"scheme"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode remote signer response: %w", err)
	}

	sig, err := hex.DecodeString(strings.TrimPrefix(out.SignatureHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if len(sig) != 64 {
		return nil, fmt.Errorf("%w: invalid signature length %d", ErrInvalidSignature, len(sig))
	}

	result := &SignatureAndKey{Signature: sig, PublicKey: s.publicKey, Scheme: s.scheme}
	if out.PublicKeyHex != "" {
		pub, err := hex.DecodeString(strings.TrimPrefix(out.PublicKeyHex, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: public key: %v", ErrInvalidSignature, err)
		}
		result.PublicKey = pub
	}
	if out.Scheme != "" {
		scheme, err := ParseScheme(out.Scheme)
		if err != nil {
			return nil, err
		}
		result.Scheme = scheme
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *RemoteSigner) bearerToken(requestID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.jwtIssuer,
		ID:        requestID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(remoteTokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign remote signer token: %w", err)
	}
	return token, nil
}
