package gateway

import (
	"strconv"
	"time"
)

// DefaultReplayTolerance is the accepted clock skew for webhook deliveries.
const DefaultReplayTolerance = 5 * time.Minute

// TimestampFresh reports whether a webhook timestamp (epoch milliseconds as a
// string) is within tolerance of the current time. Skew is accepted in both
// directions. Empty or non-numeric values are rejected, never defaulted.
func TimestampFresh(timestampMillis string, tolerance time.Duration) bool {
	if timestampMillis == "" {
		return false
	}

	ts, err := strconv.ParseInt(timestampMillis, 10, 64)
	if err != nil {
		return false
	}

	if tolerance <= 0 {
		tolerance = DefaultReplayTolerance
	}

	now := time.Now().UnixMilli()
	diff := now - ts
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance.Milliseconds()
}
