package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/signify-dev/signify-go-backend/internal/detector"
	"github.com/signify-dev/signify-go-backend/internal/metrics"
)

type failingExtractor struct{}

func (f *failingExtractor) Extract(jpeg []byte) (detector.Landmarks, error) {
	return nil, errors.New("decoder exploded")
}

func TestConsumerAbsorbsExtractorErrors(t *testing.T) {
	state := NewState(4, 2)
	m := metrics.New(10)
	c := NewConsumer("test", state, &failingExtractor{}, &fakePredictor{}, m)

	result := c.ProcessFrame(context.Background(), []byte{0xFF, 0xD8})
	if result != nil {
		t.Errorf("expected nil result on extractor failure, got %+v", result)
	}
	if m.ErrorCount() != 1 {
		t.Errorf("expected 1 recorded error, got %d", m.ErrorCount())
	}
	if state.keypointWindow.Len() != 0 {
		t.Error("failed frame must not be buffered")
	}
}

func TestConsumerObservesCancellationBeforeBuffering(t *testing.T) {
	state := NewState(4, 2)
	m := metrics.New(10)
	c := NewConsumer("test", state, &fakeExtractor{}, &fakePredictor{}, m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if result := c.ProcessFrame(ctx, []byte{0xFF, 0xD8}); result != nil {
		t.Errorf("expected nil result for cancelled context, got %+v", result)
	}
	if state.keypointWindow.Len() != 0 {
		t.Error("cancelled frame must not be buffered")
	}
}

func TestConsumerProducesResultOnceWindowsFill(t *testing.T) {
	state := NewState(3, 2)
	state.Reset("B")
	m := metrics.New(10)
	c := NewConsumer("test", state, &fakeExtractor{}, &fakePredictor{}, m)

	var last *Result
	for i := 0; i < 4; i++ {
		last = c.ProcessFrame(context.Background(), []byte{0xFF, 0xD8})
		if i < 3 && last != nil {
			t.Fatalf("frame %d: expected nil before both windows fill", i+1)
		}
	}

	if last == nil {
		t.Fatal("expected a result after both windows filled")
	}
	if last.Letter != "B" {
		t.Errorf("expected letter B, got %s", last.Letter)
	}
	if last.Probability != 0.9 {
		t.Errorf("expected probability 0.9, got %f", last.Probability)
	}
	if m.ProcessedFrames() != 1 {
		t.Errorf("expected 1 fully processed frame, got %d", m.ProcessedFrames())
	}
}
