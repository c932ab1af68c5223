package model

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

// Encode serializes a wire message to RLP.
func Encode(v any) ([]byte, error) {
	b, err := rlp.EncodeToBytes(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", v, err)
	}
	return b, nil
}

// Decode parses RLP-encoded data into the wire message pointed to by v.
func Decode(data []byte, v any) error {
	if err := rlp.DecodeBytes(data, v); err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return nil
}

// DecodeBody parses transaction body bytes.
func DecodeBody(bodyBytes []byte) (*TransactionBody, error) {
	var body TransactionBody
	if err := Decode(bodyBytes, &body); err != nil {
		return nil, err
	}
	return &body, nil
}
