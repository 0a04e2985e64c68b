package metrics

import (
	"testing"
	"time"
)

func TestStatsCounters(t *testing.T) {
	m := New(10)

	m.RecordFrameTime(20 * time.Millisecond)
	m.RecordFrameTime(40 * time.Millisecond)
	m.RecordDroppedFrame()
	m.RecordInference()
	m.RecordError()

	stats := m.GetStats()
	if stats.ProcessedFrames != 2 {
		t.Errorf("expected 2 processed frames, got %d", stats.ProcessedFrames)
	}
	if stats.DroppedFrames != 1 {
		t.Errorf("expected 1 dropped frame, got %d", stats.DroppedFrames)
	}
	if stats.InferenceCount != 1 {
		t.Errorf("expected 1 inference, got %d", stats.InferenceCount)
	}
	if stats.ErrorCount != 1 {
		t.Errorf("expected 1 error, got %d", stats.ErrorCount)
	}
	if stats.AvgFrameTimeMs != 30.0 {
		t.Errorf("expected 30ms average frame time, got %f", stats.AvgFrameTimeMs)
	}
}

func TestDropRate(t *testing.T) {
	m := New(10)
	m.RecordFrameTime(time.Millisecond)
	m.RecordDroppedFrame()
	m.RecordDroppedFrame()
	m.RecordDroppedFrame()

	stats := m.GetStats()
	if stats.DropRatePercent != 75.0 {
		t.Errorf("expected 75%% drop rate, got %f", stats.DropRatePercent)
	}
}

func TestFrameTimeWindowEviction(t *testing.T) {
	m := New(2)
	m.RecordFrameTime(100 * time.Millisecond)
	m.RecordFrameTime(10 * time.Millisecond)
	m.RecordFrameTime(20 * time.Millisecond) // evicts the 100ms sample

	stats := m.GetStats()
	if stats.AvgFrameTimeMs != 15.0 {
		t.Errorf("expected 15ms average over the window, got %f", stats.AvgFrameTimeMs)
	}
	// processed count is lifetime, not windowed
	if stats.ProcessedFrames != 3 {
		t.Errorf("expected 3 processed frames, got %d", stats.ProcessedFrames)
	}
}

func TestEmptyStats(t *testing.T) {
	m := New(5)
	stats := m.GetStats()
	if stats.AvgFrameTimeMs != 0 || stats.FPS != 0 || stats.DropRatePercent != 0 {
		t.Errorf("expected zeroed stats for a fresh collector, got %+v", stats)
	}
}
