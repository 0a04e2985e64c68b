package inference

import (
	"fmt"
	"math"

	"github.com/signify-dev/signify-go-backend/internal/detector"
	"github.com/signify-dev/signify-go-backend/internal/vocab"
)

// Recurrent runs a single-layer LSTM over the normalized landmark sequence
// and classifies the final hidden state through a linear head. Gate weights
// are stacked input/forget/cell/output, each block hiddenDim rows.
type Recurrent struct {
	hiddenDim   int
	inputWeight [][]float64 // (4*hidden) x input
	inputBias   []float64
	stateWeight [][]float64 // (4*hidden) x hidden
	stateBias   []float64
	headWeight  [][]float64 // classes x hidden
	headBias    []float64
}

func newRecurrent(w *weightsFile) (*Recurrent, error) {
	if w.HiddenDim <= 0 {
		return nil, fmt.Errorf("recurrent weights missing hidden_dim")
	}
	if len(w.InputWeight) != 4*w.HiddenDim || len(w.StateWeight) != 4*w.HiddenDim {
		return nil, fmt.Errorf("gate weights must have %d rows, got %d/%d",
			4*w.HiddenDim, len(w.InputWeight), len(w.StateWeight))
	}
	if len(w.HeadWeight) == 0 {
		return nil, fmt.Errorf("recurrent weights missing classifier head")
	}
	numClasses := len(w.HeadWeight)
	if w.NumClasses != 0 && w.NumClasses != numClasses {
		return nil, fmt.Errorf("head has %d outputs, config declares %d classes", numClasses, w.NumClasses)
	}
	return &Recurrent{
		hiddenDim:   w.HiddenDim,
		inputWeight: w.InputWeight,
		inputBias:   w.InputBias,
		stateWeight: w.StateWeight,
		stateBias:   w.StateBias,
		headWeight:  w.HeadWeight,
		headBias:    w.HeadBias,
	}, nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

func (r *Recurrent) Predict(sequence []detector.Landmarks) (vocab.Distribution, error) {
	if len(sequence) == 0 {
		return nil, fmt.Errorf("empty keypoint sequence")
	}

	h := make([]float64, r.hiddenDim)
	c := make([]float64, r.hiddenDim)

	for t, frame := range sequence {
		x := make([]float64, len(frame))
		for i, v := range Normalize(frame) {
			x[i] = float64(v)
		}

		gi, err := matVec(r.inputWeight, r.inputBias, x)
		if err != nil {
			return nil, fmt.Errorf("step %d input gates: %w", t, err)
		}
		gh, err := matVec(r.stateWeight, r.stateBias, h)
		if err != nil {
			return nil, fmt.Errorf("step %d state gates: %w", t, err)
		}

		for j := 0; j < r.hiddenDim; j++ {
			in := sigmoid(gi[j] + gh[j])
			forget := sigmoid(gi[r.hiddenDim+j] + gh[r.hiddenDim+j])
			cell := math.Tanh(gi[2*r.hiddenDim+j] + gh[2*r.hiddenDim+j])
			out := sigmoid(gi[3*r.hiddenDim+j] + gh[3*r.hiddenDim+j])

			c[j] = forget*c[j] + in*cell
			h[j] = out * math.Tanh(c[j])
		}
	}

	logits, err := matVec(r.headWeight, r.headBias, h)
	if err != nil {
		return nil, fmt.Errorf("classifier head: %w", err)
	}
	return softmax(logits), nil
}

func (r *Recurrent) NumClasses() int {
	return len(r.headWeight)
}

func (r *Recurrent) Describe() string {
	return fmt.Sprintf("recurrent (hidden=%d)", r.hiddenDim)
}
