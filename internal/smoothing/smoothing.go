// Package smoothing averages classifier output over a short window so a
// single noisy frame cannot flip the reported letter.
package smoothing

import (
	"fmt"

	"github.com/signify-dev/signify-go-backend/internal/buffer"
	"github.com/signify-dev/signify-go-backend/internal/vocab"
)

// Smooth returns the element-wise arithmetic mean across distributions, or
// nil when the input is empty. All distributions must have the same number of
// classes.
func Smooth(distributions []vocab.Distribution) (vocab.Distribution, error) {
	if len(distributions) == 0 {
		return nil, nil
	}

	numClasses := len(distributions[0])
	for i, dist := range distributions {
		if len(dist) != numClasses {
			return nil, fmt.Errorf("distribution %d has %d classes, expected %d", i, len(dist), numClasses)
		}
	}

	averaged := make(vocab.Distribution, numClasses)
	for _, dist := range distributions {
		for i, p := range dist {
			averaged[i] += p
		}
	}
	for i := range averaged {
		averaged[i] /= float64(len(distributions))
	}
	return averaged, nil
}

// AddAndSmooth appends newDistribution to window, then returns the smoothed
// window contents once the window is full. Until then it returns nil.
func AddAndSmooth(newDistribution vocab.Distribution, window *buffer.Window[vocab.Distribution]) (vocab.Distribution, error) {
	window.Append(newDistribution)

	if !window.IsFull() {
		return nil, nil
	}
	return Smooth(window.Snapshot())
}
