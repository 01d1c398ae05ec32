package board

import "testing"

// Perft is the standard conformance oracle for move generation and
// make-move: the node counts below are the published reference values.

func TestPerftStartingPosition(t *testing.T) {
	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
		{5, 4865609},
	}

	pos := NewPosition()
	for _, tc := range tests {
		got := Perft(pos, tc.depth)
		if got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

func TestPerftStartingPositionDeep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping depth 6 perft in short mode")
	}
	pos := NewPosition()
	if got := Perft(pos, 6); got != 119060324 {
		t.Errorf("perft(6) = %d, want 119060324", got)
	}
}

// Kiwipete exercises castling, pins, promotions, and en passant together.
func TestPerftKiwipete(t *testing.T) {
	pos := &Position{}
	if err := pos.SetFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"); err != nil {
		t.Fatalf("SetFEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
		{4, 4085603},
	}

	for _, tc := range tests {
		got := Perft(pos, tc.depth)
		if got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

// Position 3 is dense with en passant edge cases.
func TestPerftPosition3(t *testing.T) {
	pos := &Position{}
	if err := pos.SetFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"); err != nil {
		t.Fatalf("SetFEN: %v", err)
	}

	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
		{5, 674624},
	}

	for _, tc := range tests {
		got := Perft(pos, tc.depth)
		if got != tc.expected {
			t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
		}
	}
}

func TestPerftPosition3Deep(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping depth 6 perft in short mode")
	}
	pos := &Position{}
	if err := pos.SetFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"); err != nil {
		t.Fatalf("SetFEN: %v", err)
	}
	if got := Perft(pos, 6); got != 11030083 {
		t.Errorf("perft(6) = %d, want 11030083", got)
	}
}

// The divide total must agree with plain perft, and the root position must
// come back untouched.
func TestPerftDivide(t *testing.T) {
	pos := NewPosition()
	before := pos.GetState()

	entries := PerftDivide(pos, 3)
	var total uint64
	for _, entry := range entries {
		total += entry.Nodes
	}
	if total != 8902 {
		t.Errorf("divide total = %d, want 8902", total)
	}
	if len(entries) != 20 {
		t.Errorf("root moves = %d, want 20", len(entries))
	}
	if pos.GetState() != before {
		t.Error("PerftDivide mutated the input position")
	}
}
