package pipeline

import (
	"github.com/signify-dev/signify-go-backend/internal/buffer"
	"github.com/signify-dev/signify-go-backend/internal/detector"
	"github.com/signify-dev/signify-go-backend/internal/vocab"
)

// State is one connection's session aggregate: the keypoint window feeding
// the classifier, the distribution window feeding the smoother, and the
// letter the user is currently practicing (empty in free-practice mode).
//
// State carries no locking. The dispatcher guarantees at most one frame task
// touches it at a time and resets only after awaiting cancellation.
type State struct {
	keypointWindow  *buffer.Window[detector.Landmarks]
	smoothingWindow *buffer.Window[vocab.Distribution]
	targetLetter    string
}

func NewState(keypointWindowSize, smoothingWindowSize int) *State {
	return &State{
		keypointWindow:  buffer.NewWindow[detector.Landmarks](keypointWindowSize),
		smoothingWindow: buffer.NewWindow[vocab.Distribution](smoothingWindowSize),
	}
}

// Reset clears both windows and replaces the target letter. Callable at any
// time, including mid-inference once the in-flight task has been awaited.
func (s *State) Reset(newTargetLetter string) {
	s.keypointWindow.Clear()
	s.smoothingWindow.Clear()
	s.targetLetter = newTargetLetter
}

func (s *State) TargetLetter() string {
	return s.targetLetter
}
