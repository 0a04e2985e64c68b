package smoothing

import (
	"math"
	"testing"

	"github.com/signify-dev/signify-go-backend/internal/buffer"
	"github.com/signify-dev/signify-go-backend/internal/vocab"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSmoothIdentity(t *testing.T) {
	d := vocab.Distribution{0.1, 0.7, 0.2}
	smoothed, err := Smooth([]vocab.Distribution{d})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range d {
		if !almostEqual(smoothed[i], d[i]) {
			t.Errorf("index %d: expected %f, got %f", i, d[i], smoothed[i])
		}
	}
}

func TestSmoothMean(t *testing.T) {
	dists := []vocab.Distribution{
		{0.2, 0.8},
		{0.4, 0.6},
		{0.6, 0.4},
	}
	smoothed, err := Smooth(dists)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(smoothed[0], 0.4) || !almostEqual(smoothed[1], 0.6) {
		t.Errorf("expected [0.4 0.6], got %v", smoothed)
	}
}

func TestSmoothEmpty(t *testing.T) {
	smoothed, err := Smooth(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if smoothed != nil {
		t.Errorf("expected nil for empty input, got %v", smoothed)
	}
}

func TestSmoothRaggedInput(t *testing.T) {
	dists := []vocab.Distribution{
		{0.5, 0.5},
		{0.3, 0.3, 0.4},
	}
	if _, err := Smooth(dists); err == nil {
		t.Error("expected error for mismatched distribution lengths")
	}
}

func TestAddAndSmooth(t *testing.T) {
	window := buffer.NewWindow[vocab.Distribution](3)

	for i := 0; i < 2; i++ {
		smoothed, err := AddAndSmooth(vocab.Distribution{1, 0}, window)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if smoothed != nil {
			t.Fatalf("expected nil before window is full, got %v", smoothed)
		}
	}

	smoothed, err := AddAndSmooth(vocab.Distribution{0, 1}, window)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(smoothed[0], 2.0/3.0) || !almostEqual(smoothed[1], 1.0/3.0) {
		t.Errorf("expected [2/3 1/3], got %v", smoothed)
	}
}
