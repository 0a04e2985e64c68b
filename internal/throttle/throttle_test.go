package throttle

import (
	"testing"
	"time"
)

func newTestThrottle(minInterval time.Duration, threshold float64) (*Throttle, *time.Time) {
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	th := New(minInterval, threshold)
	th.now = func() time.Time { return current }
	return th, &current
}

func TestFirstObservationAlwaysSent(t *testing.T) {
	th, _ := newTestThrottle(75*time.Millisecond, 0.03)
	if !th.ShouldSend("A", 0.0, false) {
		t.Error("first observation must always be sent")
	}
}

func TestSuppressedWithinInterval(t *testing.T) {
	th, _ := newTestThrottle(75*time.Millisecond, 0.03)
	th.MarkSent("B", 0.9)

	// no elapsed time, no change
	if th.ShouldSend("B", 0.9, false) {
		t.Error("expected suppression immediately after MarkSent")
	}
	// even a changed letter is suppressed inside the interval
	if th.ShouldSend("C", 0.5, false) {
		t.Error("expected suppression inside the minimum interval")
	}
}

func TestChangeAfterInterval(t *testing.T) {
	tests := []struct {
		name     string
		letter   string
		prob     float64
		expected bool
	}{
		{"unchanged", "B", 0.9, false},
		{"small probability drift", "B", 0.92, false},
		{"letter changed", "C", 0.9, true},
		{"probability jumped", "B", 0.8, true},
	}

	for _, test := range tests {
		th, current := newTestThrottle(75*time.Millisecond, 0.03)
		th.MarkSent("B", 0.9)
		*current = current.Add(100 * time.Millisecond)

		if got := th.ShouldSend(test.letter, test.prob, false); got != test.expected {
			t.Errorf("%s: expected %v, got %v", test.name, test.expected, got)
		}
	}
}

func TestForceBypassesEverything(t *testing.T) {
	th, _ := newTestThrottle(75*time.Millisecond, 0.03)
	th.MarkSent("B", 0.9)

	if !th.ShouldSend("B", 0.9, true) {
		t.Error("force=true must always send")
	}
}

func TestReset(t *testing.T) {
	th, current := newTestThrottle(75*time.Millisecond, 0.03)
	th.MarkSent("B", 0.9)
	*current = current.Add(time.Millisecond)

	th.Reset()
	if !th.ShouldSend("B", 0.9, false) {
		t.Error("after Reset the next observation must be sent")
	}
}
