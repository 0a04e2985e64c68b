package inference

import (
	"fmt"

	"github.com/signify-dev/signify-go-backend/internal/detector"
	"github.com/signify-dev/signify-go-backend/internal/vocab"
)

// FeedForward runs a multi-layer perceptron over the flattened, normalized
// keypoint window: Linear+ReLU hidden layers, a linear head, softmax output.
type FeedForward struct {
	layers     []layer
	inputDim   int
	numClasses int
}

func newFeedForward(w *weightsFile) (*FeedForward, error) {
	if len(w.Layers) == 0 {
		return nil, fmt.Errorf("feedforward weights contain no layers")
	}
	numClasses := len(w.Layers[len(w.Layers)-1].Bias)
	if w.NumClasses != 0 && w.NumClasses != numClasses {
		return nil, fmt.Errorf("head has %d outputs, config declares %d classes", numClasses, w.NumClasses)
	}
	return &FeedForward{
		layers:     w.Layers,
		inputDim:   w.InputDim,
		numClasses: numClasses,
	}, nil
}

func (f *FeedForward) Predict(sequence []detector.Landmarks) (vocab.Distribution, error) {
	x := flattenSequence(sequence)
	if f.inputDim != 0 && len(x) != f.inputDim {
		return nil, fmt.Errorf("input has %d features, model expects %d", len(x), f.inputDim)
	}

	var err error
	for i, l := range f.layers {
		x, err = matVec(l.Weight, l.Bias, x)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if i < len(f.layers)-1 {
			for j, v := range x {
				if v < 0 {
					x[j] = 0
				}
			}
		}
	}
	return softmax(x), nil
}

func (f *FeedForward) NumClasses() int {
	return f.numClasses
}

func (f *FeedForward) Describe() string {
	return fmt.Sprintf("feedforward (%d layers)", len(f.layers))
}
