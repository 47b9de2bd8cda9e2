// ABOUTME: Retry utilities for API calls with exponential backoff
// ABOUTME: Used by the narration client for consistent retry behavior
package util

import (
	"math/rand/v2"
	"time"
)

const (
	// maxBackoff bounds the delay regardless of attempt count.
	maxBackoff = 30 * time.Second
	// maxShift keeps the doubling from overflowing time.Duration.
	maxShift = 30
)

// CalculateBackoff returns the delay before the given retry attempt:
// the base delay doubled per attempt, capped at maxBackoff, with
// random jitter of up to ±25%.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	shift := attempt
	if shift > maxShift {
		shift = maxShift
	}

	backoff := baseDelay << uint(shift)
	if backoff > maxBackoff || backoff < 0 {
		backoff = maxBackoff
	}
	// A zero base delay (retries disabled via env) carries no jitter.
	if backoff < 2 {
		return backoff
	}

	jitter := time.Duration(rand.Int64N(int64(backoff)/2)) - backoff/4
	return backoff + jitter
}
