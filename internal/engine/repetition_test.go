package engine

import "testing"

func TestRepetitionPushContains(t *testing.T) {
	var ring RepetitionRing

	if ring.Contains(1) {
		t.Fatal("empty ring should contain nothing")
	}

	ring.Push(1)
	ring.Push(2)
	ring.Push(3)

	for _, key := range []uint64{1, 2, 3} {
		if !ring.Contains(key) {
			t.Errorf("ring should contain %d", key)
		}
	}
	if ring.Contains(4) {
		t.Error("ring should not contain 4")
	}
	if ring.Len() != 3 {
		t.Errorf("len = %d, want 3", ring.Len())
	}
}

func TestRepetitionPop(t *testing.T) {
	var ring RepetitionRing
	ring.Push(1)
	ring.Push(2)

	ring.Pop()
	if ring.Contains(2) {
		t.Error("popped key still present")
	}
	if !ring.Contains(1) {
		t.Error("earlier key lost by pop")
	}

	ring.Pop()
	ring.Pop() // popping empty is a no-op
	if ring.Len() != 0 {
		t.Errorf("len = %d, want 0", ring.Len())
	}
}

func TestRepetitionCount(t *testing.T) {
	var ring RepetitionRing
	ring.Push(7)
	ring.Push(8)
	ring.Push(7)
	ring.Push(7)

	if got := ring.Count(7); got != 3 {
		t.Errorf("count(7) = %d, want 3", got)
	}
	if got := ring.Count(8); got != 1 {
		t.Errorf("count(8) = %d, want 1", got)
	}
	if got := ring.Count(9); got != 0 {
		t.Errorf("count(9) = %d, want 0", got)
	}
}

func TestRepetitionWrapAround(t *testing.T) {
	var ring RepetitionRing

	// Overfill the ring; the oldest entries must fall out.
	for i := 0; i < RepetitionSize+10; i++ {
		ring.Push(uint64(i))
	}
	if ring.Len() != RepetitionSize {
		t.Errorf("len = %d, want %d", ring.Len(), RepetitionSize)
	}
	if !ring.Contains(uint64(RepetitionSize + 9)) {
		t.Error("most recent key missing after wrap")
	}

	// Only the last 100 entries are scanned.
	if ring.Contains(uint64(RepetitionSize + 10 - 101)) {
		t.Error("keys beyond the 100-ply window should be ignored")
	}
	if !ring.Contains(uint64(RepetitionSize + 10 - 100)) {
		t.Error("keys inside the 100-ply window should be found")
	}
}

func TestRepetitionClear(t *testing.T) {
	var ring RepetitionRing
	ring.Push(1)
	ring.Push(2)
	ring.Clear()

	if ring.Len() != 0 || ring.Contains(1) {
		t.Error("clear should empty the ring")
	}
}
