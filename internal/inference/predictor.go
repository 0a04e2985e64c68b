// Package inference wraps the letter classifier behind a capability
// interface. The network topology (feed-forward or recurrent) is chosen at
// construction time from configuration; the pipeline only ever calls Predict.
package inference

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/signify-dev/signify-go-backend/internal/config"
	"github.com/signify-dev/signify-go-backend/internal/detector"
	"github.com/signify-dev/signify-go-backend/internal/logger"
	"github.com/signify-dev/signify-go-backend/internal/vocab"
)

// Predictor classifies a full keypoint window into a probability distribution
// over the letter vocabulary. Implementations must be safe for concurrent
// Predict calls; one instance is shared across the worker pool.
type Predictor interface {
	Predict(sequence []detector.Landmarks) (vocab.Distribution, error)
	NumClasses() int
	Describe() string
}

// weightsFile is the exported-model format shared by both architectures.
type weightsFile struct {
	Architecture string  `json:"architecture"`
	InputDim     int     `json:"input_dim"`
	NumClasses   int     `json:"num_classes"`
	Layers       []layer `json:"layers,omitempty"` // feedforward

	HiddenDim   int         `json:"hidden_dim,omitempty"` // recurrent
	InputWeight [][]float64 `json:"w_ih,omitempty"`
	InputBias   []float64   `json:"b_ih,omitempty"`
	StateWeight [][]float64 `json:"w_hh,omitempty"`
	StateBias   []float64   `json:"b_hh,omitempty"`
	HeadWeight  [][]float64 `json:"head_weight,omitempty"`
	HeadBias    []float64   `json:"head_bias,omitempty"`
}

type layer struct {
	Weight [][]float64 `json:"weight"` // out x in
	Bias   []float64   `json:"bias"`
}

// New selects a predictor from configuration. A missing or unreadable weights
// file degrades to the uniform mock predictor with a warning, mirroring the
// development fallback of the original deployment.
func New(cfg config.Config) (Predictor, error) {
	if cfg.Model.Type == "mock" {
		return NewMock(cfg.Model.NumClasses), nil
	}

	data, err := os.ReadFile(cfg.Model.WeightsPath)
	if err != nil {
		logger.WarnF("Model weights not found at %s, running in mock mode: %v", cfg.Model.WeightsPath, err)
		return NewMock(cfg.Model.NumClasses), nil
	}

	var w weightsFile
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to parse model weights: %w", err)
	}
	if w.Architecture == "" {
		w.Architecture = cfg.Model.Type
	}

	switch w.Architecture {
	case "feedforward":
		return newFeedForward(&w)
	case "recurrent":
		return newRecurrent(&w)
	default:
		return nil, fmt.Errorf("unknown model architecture %q", w.Architecture)
	}
}

// Normalize makes one frame's landmarks wrist-relative and size-invariant:
// the wrist (first point) is subtracted from every point, then all
// coordinates are scaled by the maximum absolute value.
func Normalize(landmarks detector.Landmarks) detector.Landmarks {
	if len(landmarks) < 3 {
		return landmarks
	}
	out := make(detector.Landmarks, len(landmarks))
	wx, wy, wz := landmarks[0], landmarks[1], landmarks[2]
	maxAbs := float32(0)
	for i := 0; i+2 < len(landmarks); i += 3 {
		out[i] = landmarks[i] - wx
		out[i+1] = landmarks[i+1] - wy
		out[i+2] = landmarks[i+2] - wz
		for j := i; j < i+3; j++ {
			if a := float32(math.Abs(float64(out[j]))); a > maxAbs {
				maxAbs = a
			}
		}
	}
	if maxAbs > 0 {
		for i := range out {
			out[i] /= maxAbs
		}
	}
	return out
}

func softmax(logits []float64) vocab.Distribution {
	if len(logits) == 0 {
		return nil
	}
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	out := make(vocab.Distribution, len(logits))
	sum := 0.0
	for i, v := range logits {
		out[i] = math.Exp(v - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// matVec computes w*x + b for a row-major (out x in) matrix.
func matVec(w [][]float64, b []float64, x []float64) ([]float64, error) {
	out := make([]float64, len(w))
	for i, row := range w {
		if len(row) != len(x) {
			return nil, fmt.Errorf("weight row %d has %d columns, input has %d", i, len(row), len(x))
		}
		sum := 0.0
		for j, v := range row {
			sum += v * x[j]
		}
		if b != nil {
			sum += b[i]
		}
		out[i] = sum
	}
	return out, nil
}

// flattenSequence normalizes each frame and concatenates the window into one
// input vector.
func flattenSequence(sequence []detector.Landmarks) []float64 {
	total := 0
	for _, frame := range sequence {
		total += len(frame)
	}
	out := make([]float64, 0, total)
	for _, frame := range sequence {
		for _, v := range Normalize(frame) {
			out = append(out, float64(v))
		}
	}
	return out
}

// Mock returns a uniform distribution over all classes. Used when no trained
// weights are available.
type Mock struct {
	numClasses int
}

func NewMock(numClasses int) *Mock {
	if numClasses <= 0 {
		numClasses = 29
	}
	return &Mock{numClasses: numClasses}
}

func (m *Mock) Predict(sequence []detector.Landmarks) (vocab.Distribution, error) {
	dist := make(vocab.Distribution, m.numClasses)
	for i := range dist {
		dist[i] = 1.0 / float64(m.numClasses)
	}
	return dist, nil
}

func (m *Mock) NumClasses() int {
	return m.numClasses
}

func (m *Mock) Describe() string {
	return "mock"
}
