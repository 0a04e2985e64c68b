package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gammazero/workerpool"

	"github.com/signify-dev/signify-go-backend/internal/logger"
	"github.com/signify-dev/signify-go-backend/internal/metrics"
	"github.com/signify-dev/signify-go-backend/internal/protocol"
	"github.com/signify-dev/signify-go-backend/internal/throttle"
	"github.com/signify-dev/signify-go-backend/internal/vocab"
)

// Sender transmits one outbound message to the client. Implementations must
// serialize concurrent Send calls.
type Sender interface {
	Send(data []byte) error
}

// frameTask tracks one in-flight frame. done is closed after the task has
// fully finished, including any response send, so a reset can await it.
type frameTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Dispatcher is the per-connection message loop: it validates inbound
// messages, enforces the single-flight invariant (at most one frame task per
// connection, surplus frames are dropped), handles emergency resets by
// cancelling and awaiting the in-flight task, and gates outbound updates
// through the throttle.
type Dispatcher struct {
	connID       string
	state        *State
	consumer     *Consumer
	throttle     *throttle.Throttle
	metrics      *metrics.PerformanceMetrics
	pool         *workerpool.WorkerPool
	sender       Sender
	frameTimeout time.Duration // zero disables the per-frame timeout

	mu      sync.Mutex
	current *frameTask
}

func NewDispatcher(connID string, state *State, consumer *Consumer, th *throttle.Throttle,
	m *metrics.PerformanceMetrics, pool *workerpool.WorkerPool, sender Sender,
	frameTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		connID:       connID,
		state:        state,
		consumer:     consumer,
		throttle:     th,
		metrics:      m,
		pool:         pool,
		sender:       sender,
		frameTimeout: frameTimeout,
	}
}

// HandleMessage processes one inbound message. Called sequentially from the
// connection's reader goroutine; the frame work itself runs on the shared
// worker pool so intake is never blocked.
func (d *Dispatcher) HandleMessage(raw []byte) {
	msg, err := protocol.ValidateMessage(raw)
	if err != nil {
		logger.DebugF("[%s] Message validation failed, dropping: %v", d.connID, err)
		return
	}

	if msg.HasReset {
		d.emergencyReset(msg.NewLetter)
		// the frame carried by a reset message still gets processed, so the
		// fresh buffer starts filling immediately
	}

	d.mu.Lock()
	if d.current != nil {
		d.mu.Unlock()
		logger.DebugF("[%s] Consumer busy, dropping frame (backpressure)", d.connID)
		d.metrics.RecordDroppedFrame()
		return
	}

	ctx, cancel := d.newFrameContext()
	task := &frameTask{cancel: cancel, done: make(chan struct{})}
	d.current = task
	d.mu.Unlock()

	frame := msg.Frame
	d.pool.Submit(func() {
		d.runFrame(ctx, task, frame)
	})
}

func (d *Dispatcher) newFrameContext() (context.Context, context.CancelFunc) {
	if d.frameTimeout > 0 {
		return context.WithTimeout(context.Background(), d.frameTimeout)
	}
	return context.WithCancel(context.Background())
}

func (d *Dispatcher) runFrame(ctx context.Context, task *frameTask, frame []byte) {
	defer func() {
		task.cancel()
		d.mu.Lock()
		if d.current == task {
			d.current = nil
		}
		d.mu.Unlock()
		close(task.done)
	}()

	result := d.consumer.ProcessFrame(ctx, frame)

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			// an expired frame behaves like a failed one: counted, no response
			logger.WarnF("[%s] Frame processing timed out after %v", d.connID, d.frameTimeout)
			d.metrics.RecordError()
		} else {
			logger.DebugF("[%s] Frame task was cancelled", d.connID)
		}
		return
	}

	if result == nil {
		return
	}
	d.sendResponse(result.Letter, result.Probability, false)
}

// emergencyReset cancels any in-flight frame task, waits for it to actually
// stop, clears the session, and sends a forced neutral response. The wait is
// what keeps a stale result from overwriting the fresh state.
func (d *Dispatcher) emergencyReset(newLetter string) {
	logger.InfoF("[%s] Emergency reset triggered: new_letter=%s", d.connID, newLetter)

	d.mu.Lock()
	task := d.current
	d.mu.Unlock()

	if task != nil {
		task.cancel()
		<-task.done
		logger.DebugF("[%s] Frame task cancelled successfully", d.connID)
	}

	d.state.Reset(newLetter)
	d.throttle.Reset()

	d.sendResponse(vocab.FallbackLetter, 0.0, true)
}

// sendResponse applies the throttle (unless forced), transmits, and records
// the transmission. Serialized by the dispatcher mutex so MarkSent always
// matches an actual send.
func (d *Dispatcher) sendResponse(letter string, prob float64, force bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !force && !d.throttle.ShouldSend(letter, prob, false) {
		logger.DebugF("[%s] Throttling: not sending response", d.connID)
		return
	}

	if err := d.sender.Send(protocol.FormatResponse(letter, prob)); err != nil {
		logger.ErrorF("[%s] Failed to send response: %v", d.connID, err)
		return
	}
	d.throttle.MarkSent(letter, prob)
	logger.InfoF("[%s] Sent: %s (target_prob: %.3f)", d.connID, letter, prob)
}

// Close cancels any in-flight work. Called when the connection goes away.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	task := d.current
	d.mu.Unlock()

	if task != nil {
		task.cancel()
		<-task.done
	}
}

// InFlight reports whether a frame task is currently running.
func (d *Dispatcher) InFlight() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current != nil
}
