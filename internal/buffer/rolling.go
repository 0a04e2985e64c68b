// Package buffer provides the fixed-capacity rolling windows the inference
// pipeline accumulates keypoint sequences and prediction distributions in.
package buffer

// Window is a bounded FIFO over items of type T. Once the window holds
// capacity items, every further Append evicts the oldest one. A Window is not
// safe for concurrent use; each session owns its windows exclusively.
type Window[T any] struct {
	items    []T
	capacity int
	head     int // index of the oldest element
	length   int
}

func NewWindow[T any](capacity int) *Window[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Window[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// Append adds item, evicting the oldest element when the window is full.
func (w *Window[T]) Append(item T) {
	tail := (w.head + w.length) % w.capacity
	w.items[tail] = item
	if w.length == w.capacity {
		w.head = (w.head + 1) % w.capacity
		return
	}
	w.length++
}

func (w *Window[T]) IsFull() bool {
	return w.length == w.capacity
}

func (w *Window[T]) Len() int {
	return w.length
}

func (w *Window[T]) Capacity() int {
	return w.capacity
}

// Snapshot returns a copy of the contents oldest-to-newest, or nil unless the
// window is full. A partial window is never exposed.
func (w *Window[T]) Snapshot() []T {
	if !w.IsFull() {
		return nil
	}
	out := make([]T, w.capacity)
	for i := 0; i < w.capacity; i++ {
		out[i] = w.items[(w.head+i)%w.capacity]
	}
	return out
}

// Clear empties the window. Element slots keep their backing storage.
func (w *Window[T]) Clear() {
	var zero T
	for i := range w.items {
		w.items[i] = zero
	}
	w.head = 0
	w.length = 0
}
