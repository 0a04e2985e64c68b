// Package detector defines the hand-landmark extraction boundary. The actual
// pose model runs outside this process; the pipeline only depends on the
// Extractor interface.
package detector

import (
	"errors"
	"fmt"
)

// Landmarks is one frame's flattened hand pose: pointCount*3 floats laid out
// as x,y,z per tracked point, wrist first.
type Landmarks []float32

// ErrNoHand reports a routine detection miss. It is not a failure; the frame
// is silently skipped.
var ErrNoHand = errors.New("no hand detected")

// Extractor turns an encoded JPEG frame into hand landmarks. Implementations
// must be safe for concurrent Extract calls; a single instance is shared
// across the worker pool.
type Extractor interface {
	Extract(jpeg []byte) (Landmarks, error)
}

// ValidateJPEG rejects payloads that cannot be a JPEG image before they reach
// an extractor. Only the SOI marker is checked; full decoding is the
// extractor's job.
func ValidateJPEG(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("frame too short: %d bytes", len(data))
	}
	if data[0] != 0xFF || data[1] != 0xD8 {
		return errors.New("missing JPEG SOI marker")
	}
	return nil
}

// NullExtractor reports every frame as a detection miss. It stands in when no
// detector is configured, keeping mock deployments alive end to end.
type NullExtractor struct{}

func NewNullExtractor() *NullExtractor {
	return &NullExtractor{}
}

func (n *NullExtractor) Extract(jpeg []byte) (Landmarks, error) {
	if err := ValidateJPEG(jpeg); err != nil {
		return nil, err
	}
	return nil, ErrNoHand
}
