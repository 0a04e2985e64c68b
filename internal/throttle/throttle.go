// Package throttle gates outbound prediction updates so the transport is not
// flooded at camera frame rate while materially new results still go out
// immediately.
package throttle

import (
	"math"
	"time"
)

// Throttle remembers the last transmission and decides whether a candidate
// result is worth sending. It is not safe for concurrent use; the dispatcher
// owning it serializes access.
type Throttle struct {
	minInterval   time.Duration
	probThreshold float64

	lastSentAt time.Time
	lastLetter string
	lastProb   float64
	hasSent    bool

	now func() time.Time // injectable for tests
}

func New(minInterval time.Duration, probThreshold float64) *Throttle {
	return &Throttle{
		minInterval:   minInterval,
		probThreshold: probThreshold,
		now:           time.Now,
	}
}

// ShouldSend reports whether the (letter, prob) pair should be transmitted.
// The first observation is always sent. Within minInterval of the previous
// transmission nothing is sent; afterwards only a changed letter or a
// probability shift above the threshold passes.
func (t *Throttle) ShouldSend(letter string, prob float64, force bool) bool {
	if force {
		return true
	}
	if !t.hasSent {
		return true
	}
	if t.now().Sub(t.lastSentAt) < t.minInterval {
		return false
	}
	return letter != t.lastLetter || math.Abs(prob-t.lastProb) > t.probThreshold
}

// MarkSent records an actual transmission. Call exactly once per send, never
// for suppressed results.
func (t *Throttle) MarkSent(letter string, prob float64) {
	t.lastSentAt = t.now()
	t.lastLetter = letter
	t.lastProb = prob
	t.hasSent = true
}

// Reset forgets the transmission history, as if no send ever happened.
func (t *Throttle) Reset() {
	t.lastSentAt = time.Time{}
	t.lastLetter = ""
	t.lastProb = 0
	t.hasSent = false
}
