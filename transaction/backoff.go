package transaction

import (
	"math"
	"time"
)

// maxBackoffShift bounds 2^attempt.
const maxBackoffShift = 30

// backoffDelay returns floor(base * jitter * (2^attempt - 1)) with jitter in [0, 1).
func backoffDelay(base time.Duration, jitter float64, attempt int) time.Duration {
	if attempt <= 0 || base <= 0 || jitter <= 0 {
		return 0
	}
	if attempt > maxBackoffShift {
		attempt = maxBackoffShift
	}
	factor := float64(uint64(1)<<uint(attempt) - 1)
	d := math.Floor(float64(base) * jitter * factor)
	if d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}
