// Package model defines the ledger's wire messages and identifiers.
//
// The message shapes follow the ledger's pre-existing transaction format:
// a body encoded once into bytes, an envelope pairing those bytes with an
// ordered signature map, and the query/response pair used to fetch receipts.
// All messages are encoded with RLP (see Encode and Decode).
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// AccountID identifies an account on the ledger as shard.realm.num.
type AccountID struct {
	Shard uint64
	Realm uint64
	Num   uint64
}

// String returns the account in shard.realm.num form.
func (a AccountID) String() string {
	return fmt.Sprintf("%d.%d.%d", a.Shard, a.Realm, a.Num)
}

// IsZero reports whether a is the zero account.
func (a AccountID) IsZero() bool {
	return a == AccountID{}
}

// ParseAccountID parses an account in shard.realm.num form.
func ParseAccountID(s string) (AccountID, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return AccountID{}, fmt.Errorf("invalid account ID %q: expected shard.realm.num", s)
	}

	var nums [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return AccountID{}, fmt.Errorf("invalid account ID %q: %w", s, err)
		}
		nums[i] = n
	}

	return AccountID{Shard: nums[0], Realm: nums[1], Num: nums[2]}, nil
}

// Timestamp is a point in time with nanosecond precision.
type Timestamp struct {
	Seconds uint64
	Nanos   uint32
}

// TimestampFromTime converts t to a Timestamp. Times before the epoch clamp to zero.
func TimestampFromTime(t time.Time) Timestamp {
	if t.Unix() < 0 {
		return Timestamp{}
	}
	return Timestamp{Seconds: uint64(t.Unix()), Nanos: uint32(t.Nanosecond())}
}

// Time converts ts to a UTC time.Time.
func (ts Timestamp) Time() time.Time {
	return time.Unix(int64(ts.Seconds), int64(ts.Nanos)).UTC()
}

// Duration is a span of whole seconds.
type Duration struct {
	Seconds uint64
}

// DurationFromTime converts d to a Duration, truncating to whole seconds.
func DurationFromTime(d time.Duration) Duration {
	if d < 0 {
		return Duration{}
	}
	return Duration{Seconds: uint64(d / time.Second)}
}

// Time converts d to a time.Duration.
func (d Duration) Time() time.Duration {
	return time.Duration(d.Seconds) * time.Second
}

// TransactionID identifies a transaction by its paying account and valid start.
// It correlates a submission with later receipt queries.
type TransactionID struct {
	AccountID  AccountID
	ValidStart Timestamp
}

// NewTransactionID returns the identity of a transaction paid by account and
// valid from validStart.
func NewTransactionID(account AccountID, validStart time.Time) TransactionID {
	return TransactionID{AccountID: account, ValidStart: TimestampFromTime(validStart)}
}

// ValidStartTime returns the valid start as a time.Time.
func (id TransactionID) ValidStartTime() time.Time {
	return id.ValidStart.Time()
}

// IsZero reports whether id is unset.
func (id TransactionID) IsZero() bool {
	return id == TransactionID{}
}

// String returns the identity as account@seconds.nanos.
func (id TransactionID) String() string {
	return fmt.Sprintf("%s@%d.%09d", id.AccountID, id.ValidStart.Seconds, id.ValidStart.Nanos)
}

// ParseTransactionID parses an identity in account@seconds.nanos form.
func ParseTransactionID(s string) (TransactionID, error) {
	account, start, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok {
		return TransactionID{}, fmt.Errorf("invalid transaction ID %q: missing '@'", s)
	}

	accountID, err := ParseAccountID(account)
	if err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction ID %q: %w", s, err)
	}

	secStr, nanoStr, ok := strings.Cut(start, ".")
	if !ok {
		return TransactionID{}, fmt.Errorf("invalid transaction ID %q: valid start must be seconds.nanos", s)
	}
	seconds, err := strconv.ParseUint(secStr, 10, 64)
	if err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction ID %q: %w", s, err)
	}
	nanos, err := strconv.ParseUint(nanoStr, 10, 32)
	if err != nil {
		return TransactionID{}, fmt.Errorf("invalid transaction ID %q: %w", s, err)
	}
	if nanos >= uint64(time.Second) {
		return TransactionID{}, fmt.Errorf("invalid transaction ID %q: nanos out of range", s)
	}

	return TransactionID{
		AccountID:  accountID,
		ValidStart: Timestamp{Seconds: seconds, Nanos: uint32(nanos)},
	}, nil
}
