package buffer

import "testing"

func TestWindowFillAndSnapshot(t *testing.T) {
	w := NewWindow[int](5)

	for i := 1; i <= 4; i++ {
		w.Append(i)
		if w.IsFull() {
			t.Fatalf("window full after %d of 5 appends", i)
		}
		if w.Snapshot() != nil {
			t.Fatalf("expected nil snapshot after %d of 5 appends", i)
		}
	}

	w.Append(5)
	if !w.IsFull() {
		t.Fatal("window not full after 5 appends")
	}

	snap := w.Snapshot()
	expected := []int{1, 2, 3, 4, 5}
	for i, v := range expected {
		if snap[i] != v {
			t.Errorf("snapshot[%d]: expected %d, got %d", i, v, snap[i])
		}
	}
}

func TestWindowEviction(t *testing.T) {
	w := NewWindow[int](3)

	for i := 1; i <= 7; i++ {
		w.Append(i)
	}

	snap := w.Snapshot()
	expected := []int{5, 6, 7}
	for i, v := range expected {
		if snap[i] != v {
			t.Errorf("snapshot[%d]: expected %d, got %d", i, v, snap[i])
		}
	}
	if w.Len() != 3 {
		t.Errorf("expected length 3, got %d", w.Len())
	}
}

func TestWindowSnapshotIsCopy(t *testing.T) {
	w := NewWindow[int](2)
	w.Append(1)
	w.Append(2)

	snap := w.Snapshot()
	snap[0] = 99

	again := w.Snapshot()
	if again[0] != 1 {
		t.Errorf("snapshot mutation leaked into window: got %d", again[0])
	}
}

func TestWindowClear(t *testing.T) {
	w := NewWindow[string](2)
	w.Append("a")
	w.Append("b")
	w.Clear()

	if w.IsFull() {
		t.Error("window still full after Clear")
	}
	if w.Len() != 0 {
		t.Errorf("expected empty window, got length %d", w.Len())
	}
	if w.Snapshot() != nil {
		t.Error("expected nil snapshot after Clear")
	}

	// refill from scratch, oldest-first order must hold
	w.Append("c")
	w.Append("d")
	snap := w.Snapshot()
	if snap[0] != "c" || snap[1] != "d" {
		t.Errorf("unexpected snapshot after refill: %v", snap)
	}
}
