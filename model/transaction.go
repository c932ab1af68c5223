package model

// TransactionBody is the signable content of a transaction. It is encoded once
// into body bytes and never re-encoded afterwards.
type TransactionBody struct {
	TransactionID  TransactionID
	NodeAccountID  AccountID
	TransactionFee uint64
	ValidDuration  Duration
	Memo           string
	// Data is the operation-specific payload, opaque to the lifecycle.
	Data []byte
}

// SignaturePair is a public key prefix with the signature it produced. Exactly
// one of Ed25519 and ECDSASecp256k1 is set.
type SignaturePair struct {
	PubKeyPrefix   []byte
	Ed25519        []byte
	ECDSASecp256k1 []byte
}

// Signature returns whichever signature is set.
func (p SignaturePair) Signature() []byte {
	if len(p.Ed25519) > 0 {
		return p.Ed25519
	}
	return p.ECDSASecp256k1
}

// SignatureMap is the ordered collection of signature pairs on an envelope.
type SignatureMap struct {
	SigPairs []SignaturePair
}

// Transaction is the signed envelope submitted to the ledger.
type Transaction struct {
	BodyBytes []byte
	SigMap    SignatureMap
}

// Clone returns a deep copy of t that shares no memory with it.
func (t *Transaction) Clone() *Transaction {
	if t == nil {
		return nil
	}

	out := &Transaction{BodyBytes: cloneBytes(t.BodyBytes)}
	if t.SigMap.SigPairs != nil {
		out.SigMap.SigPairs = make([]SignaturePair, len(t.SigMap.SigPairs))
		for i, p := range t.SigMap.SigPairs {
			out.SigMap.SigPairs[i] = SignaturePair{
				PubKeyPrefix:   cloneBytes(p.PubKeyPrefix),
				Ed25519:        cloneBytes(p.Ed25519),
				ECDSASecp256k1: cloneBytes(p.ECDSASecp256k1),
			}
		}
	}
	return out
}

// TransactionResponse is the node's synchronous acknowledgment of a submission.
type TransactionResponse struct {
	NodeTransactionPrecheckCode uint32
	Cost                        uint64
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
