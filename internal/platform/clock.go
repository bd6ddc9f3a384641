package platform

import "time"

// Clock provides elapsed realtime, a monotonic duration suitable for
// interval accounting. Injected so tests can control time.
type Clock interface {
	ElapsedRealtime() time.Duration
}

// processStart anchors the system clock. Android's elapsedRealtime counts
// from boot; without a platform service the process start is the closest
// monotonic anchor available.
var processStart = time.Now()

type systemClock struct{}

// NewSystemClock returns a Clock backed by the process-local monotonic clock.
func NewSystemClock() Clock {
	return systemClock{}
}

func (systemClock) ElapsedRealtime() time.Duration {
	return time.Since(processStart)
}
