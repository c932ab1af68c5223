package transaction

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		name    string
		base    time.Duration
		jitter  float64
		attempt int
		want    time.Duration
	}{
		{name: "First attempt has no delay", base: 500 * time.Millisecond, jitter: 0.9, attempt: 0, want: 0},
		{name: "Zero jitter", base: 500 * time.Millisecond, jitter: 0, attempt: 5, want: 0},
		{name: "Zero base", base: 0, jitter: 0.5, attempt: 5, want: 0},
		{name: "Second attempt", base: 500 * time.Millisecond, jitter: 0.5, attempt: 1, want: 250 * time.Millisecond},
		{name: "Third attempt", base: 500 * time.Millisecond, jitter: 0.5, attempt: 2, want: 750 * time.Millisecond},
		{name: "Fourth attempt", base: 500 * time.Millisecond, jitter: 0.25, attempt: 3, want: 875 * time.Millisecond},
		{name: "Floors fractions", base: 3 * time.Nanosecond, jitter: 0.5, attempt: 1, want: time.Nanosecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, backoffDelay(tt.base, tt.jitter, tt.attempt))
		})
	}
}

func TestBackoffDelayGrowsWithAttempt(t *testing.T) {
	prev := time.Duration(0)
	for attempt := 1; attempt < 12; attempt++ {
		d := backoffDelay(500*time.Millisecond, 0.7, attempt)
		assert.Greater(t, d, prev)
		prev = d
	}
}

func TestBackoffDelayDoesNotOverflow(t *testing.T) {
	assert.Equal(t, backoffDelay(time.Second, 0.5, 30), backoffDelay(time.Second, 0.5, 1000))
	assert.Equal(t, time.Duration(math.MaxInt64), backoffDelay(time.Duration(math.MaxInt64/2), 0.99, 40))
}
