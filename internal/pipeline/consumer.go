package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/signify-dev/signify-go-backend/internal/detector"
	"github.com/signify-dev/signify-go-backend/internal/inference"
	"github.com/signify-dev/signify-go-backend/internal/logger"
	"github.com/signify-dev/signify-go-backend/internal/metrics"
	"github.com/signify-dev/signify-go-backend/internal/smoothing"
	"github.com/signify-dev/signify-go-backend/internal/vocab"
)

// Result is the transient outcome of one completed frame cycle.
type Result struct {
	Letter      string
	Probability float64
}

// Consumer processes a single frame end to end: landmark extraction, keypoint
// buffering, inference on a full window, smoothing, and metric extraction.
// Failures never escape ProcessFrame; they are logged, counted and flattened
// to a nil result.
type Consumer struct {
	connID    string
	state     *State
	extractor detector.Extractor
	predictor inference.Predictor
	metrics   *metrics.PerformanceMetrics
}

func NewConsumer(connID string, state *State, extractor detector.Extractor, predictor inference.Predictor, m *metrics.PerformanceMetrics) *Consumer {
	return &Consumer{
		connID:    connID,
		state:     state,
		extractor: extractor,
		predictor: predictor,
		metrics:   m,
	}
}

// ProcessFrame runs the pipeline for one JPEG frame. It returns nil when the
// frame produced nothing to report: no hand detected, a window still filling,
// a cancelled context, or an absorbed error. Cancellation is checked between
// stages so a reset never waits on more than the current stage.
func (c *Consumer) ProcessFrame(ctx context.Context, frame []byte) *Result {
	start := time.Now()

	if ctx.Err() != nil {
		return nil
	}

	landmarks, err := c.extractor.Extract(frame)
	if err != nil {
		if errors.Is(err, detector.ErrNoHand) {
			logger.DebugF("[%s] No hands detected, skipping frame", c.connID)
			return nil
		}
		logger.ErrorF("[%s] Landmark extraction failed: %v", c.connID, err)
		c.metrics.RecordError()
		return nil
	}

	if ctx.Err() != nil {
		return nil
	}

	c.state.keypointWindow.Append(landmarks)
	logger.DebugF("[%s] Buffered landmarks: %d/%d", c.connID,
		c.state.keypointWindow.Len(), c.state.keypointWindow.Capacity())

	if !c.state.keypointWindow.IsFull() {
		return nil
	}
	sequence := c.state.keypointWindow.Snapshot()

	distribution, err := c.predictor.Predict(sequence)
	if err != nil {
		logger.ErrorF("[%s] Inference failed: %v", c.connID, err)
		c.metrics.RecordError()
		return nil
	}
	c.metrics.RecordInference()

	if ctx.Err() != nil {
		return nil
	}

	smoothed, err := smoothing.AddAndSmooth(distribution, c.state.smoothingWindow)
	if err != nil {
		logger.ErrorF("[%s] Smoothing failed: %v", c.connID, err)
		c.metrics.RecordError()
		return nil
	}
	if smoothed == nil {
		logger.DebugF("[%s] Smoothing window not full yet", c.connID)
		return nil
	}

	letter, prob := vocab.ExtractMetrics(smoothed, c.state.TargetLetter())
	logger.InfoF("[%s] Inference result: %s (target: %s, prob: %.3f)",
		c.connID, letter, c.state.TargetLetter(), prob)

	c.metrics.RecordFrameTime(time.Since(start))

	return &Result{Letter: letter, Probability: prob}
}
