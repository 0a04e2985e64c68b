// Package metrics tracks pipeline performance: frame latency, drop rate and
// error rate, as atomic counters for the shutdown summary and as prometheus
// collectors for scraping.
package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/atomic"

	"github.com/signify-dev/signify-go-backend/internal/logger"
)

var (
	framesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signify_frames_processed_total",
		Help: "Frames that completed the full pipeline.",
	})
	framesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signify_frames_dropped_total",
		Help: "Frames dropped because a frame was already in flight.",
	})
	inferences = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signify_inferences_total",
		Help: "Classifier invocations.",
	})
	pipelineErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signify_pipeline_errors_total",
		Help: "Errors absorbed by the frame processor.",
	})
	frameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "signify_frame_duration_seconds",
		Help:    "End-to-end frame processing latency.",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
	})
	// ActiveConnections tracks currently open websocket connections.
	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "signify_active_connections",
		Help: "Open websocket connections.",
	})
)

// PerformanceMetrics aggregates pipeline counters and a sliding window of
// frame processing times. Safe for concurrent use.
type PerformanceMetrics struct {
	windowSize int

	mu         sync.Mutex
	frameTimes []time.Duration // ring over the last windowSize frames
	next       int
	filled     int

	processedFrames atomic.Int64
	droppedFrames   atomic.Int64
	inferenceCount  atomic.Int64
	errorCount      atomic.Int64
	startTime       time.Time
}

func New(windowSize int) *PerformanceMetrics {
	if windowSize <= 0 {
		windowSize = 100
	}
	return &PerformanceMetrics{
		windowSize: windowSize,
		frameTimes: make([]time.Duration, windowSize),
		startTime:  time.Now(),
	}
}

func (m *PerformanceMetrics) RecordFrameTime(d time.Duration) {
	m.mu.Lock()
	m.frameTimes[m.next] = d
	m.next = (m.next + 1) % m.windowSize
	if m.filled < m.windowSize {
		m.filled++
	}
	m.mu.Unlock()

	m.processedFrames.Inc()
	framesProcessed.Inc()
	frameDuration.Observe(d.Seconds())
}

func (m *PerformanceMetrics) RecordDroppedFrame() {
	m.droppedFrames.Inc()
	framesDropped.Inc()
}

func (m *PerformanceMetrics) RecordInference() {
	m.inferenceCount.Inc()
	inferences.Inc()
}

func (m *PerformanceMetrics) RecordError() {
	m.errorCount.Inc()
	pipelineErrors.Inc()
}

func (m *PerformanceMetrics) DroppedFrames() int64 {
	return m.droppedFrames.Load()
}

func (m *PerformanceMetrics) ProcessedFrames() int64 {
	return m.processedFrames.Load()
}

func (m *PerformanceMetrics) ErrorCount() int64 {
	return m.errorCount.Load()
}

// Stats is a point-in-time snapshot of the pipeline counters.
type Stats struct {
	UptimeSeconds   float64
	ProcessedFrames int64
	DroppedFrames   int64
	DropRatePercent float64
	InferenceCount  int64
	ErrorCount      int64
	AvgFrameTimeMs  float64
	FPS             float64
}

func (s Stats) String() string {
	return fmt.Sprintf(
		"uptime=%.2fs processed=%d dropped=%d drop_rate=%.2f%% inferences=%d errors=%d avg_frame_time=%.2fms fps=%.2f",
		s.UptimeSeconds, s.ProcessedFrames, s.DroppedFrames, s.DropRatePercent,
		s.InferenceCount, s.ErrorCount, s.AvgFrameTimeMs, s.FPS,
	)
}

func (m *PerformanceMetrics) GetStats() Stats {
	m.mu.Lock()
	var total time.Duration
	for i := 0; i < m.filled; i++ {
		total += m.frameTimes[i]
	}
	filled := m.filled
	m.mu.Unlock()

	var avg time.Duration
	if filled > 0 {
		avg = total / time.Duration(filled)
	}
	fps := 0.0
	if avg > 0 {
		fps = float64(time.Second) / float64(avg)
	}

	processed := m.processedFrames.Load()
	dropped := m.droppedFrames.Load()
	dropRate := 0.0
	if processed+dropped > 0 {
		dropRate = float64(dropped) / float64(processed+dropped) * 100
	}

	return Stats{
		UptimeSeconds:   time.Since(m.startTime).Seconds(),
		ProcessedFrames: processed,
		DroppedFrames:   dropped,
		DropRatePercent: dropRate,
		InferenceCount:  m.inferenceCount.Load(),
		ErrorCount:      m.errorCount.Load(),
		AvgFrameTimeMs:  float64(avg) / float64(time.Millisecond),
		FPS:             fps,
	}
}

// DumpCallback logs the final metrics snapshot during shutdown.
type DumpCallback struct {
	metrics *PerformanceMetrics
}

func NewDumpCallback(m *PerformanceMetrics) *DumpCallback {
	return &DumpCallback{metrics: m}
}

func (dc *DumpCallback) Invoke(ctx context.Context) error {
	logger.InfoF("Final metrics: %s", dc.metrics.GetStats())
	return nil
}
