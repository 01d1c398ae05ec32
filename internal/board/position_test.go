package board

import "testing"

// checkInvariants asserts the structural invariants that must hold after
// every completed MakeMove.
func checkInvariants(t *testing.T, pos *Position) {
	t.Helper()

	if pos.Key != pos.GenerateKey() {
		t.Fatalf("incremental key %016x != regenerated key %016x (fen %s)",
			pos.Key, pos.GenerateKey(), pos.FEN())
	}

	if pos.Occupancy[OccWhite]|pos.Occupancy[OccBlack] != pos.Occupancy[OccBoth] {
		t.Fatalf("occupancy mismatch (fen %s)", pos.FEN())
	}
	if pos.Occupancy[OccWhite]&pos.Occupancy[OccBlack] != 0 {
		t.Fatalf("white and black occupancy overlap (fen %s)", pos.FEN())
	}

	var all Bitboard
	for piece := WhitePawn; piece <= BlackKing; piece++ {
		if all&pos.Pieces[piece] != 0 {
			t.Fatalf("piece bitboards not disjoint at %v (fen %s)", piece, pos.FEN())
		}
		all |= pos.Pieces[piece]
	}
	if all != pos.Occupancy[OccBoth] {
		t.Fatalf("piece bitboards do not match occupancy (fen %s)", pos.FEN())
	}

	if pos.Pieces[WhiteKing].PopCount() != 1 || pos.Pieces[BlackKing].PopCount() != 1 {
		t.Fatalf("king count wrong (fen %s)", pos.FEN())
	}
}

// TestMakeMoveInvariants walks deterministic pseudo-random games from the
// start position and checks the state invariants after every legal move.
func TestMakeMoveInvariants(t *testing.T) {
	rng := uint64(0x9E3779B97F4A7C15)
	next := func(n int) int {
		rng ^= rng << 13
		rng ^= rng >> 7
		rng ^= rng << 17
		return int(rng % uint64(n))
	}

	for game := 0; game < 20; game++ {
		pos := NewPosition()
		for move := 0; move < 60; move++ {
			var ml MoveList
			pos.GenerateMoves(&ml)

			// Collect the legal subset.
			var legal []Move
			for i := 0; i < ml.Len(); i++ {
				state := pos.GetState()
				if pos.MakeMove(ml.Get(i), false) {
					legal = append(legal, ml.Get(i))
					pos.SetState(state)
				}
			}
			if len(legal) == 0 {
				break
			}

			if !pos.MakeMove(legal[next(len(legal))], false) {
				t.Fatal("previously legal move rejected")
			}
			checkInvariants(t, pos)
		}
	}
}

// An illegal move must leave every field of the state untouched.
func TestIllegalMoveRestoresState(t *testing.T) {
	// The e-file bishop is pinned against the king by the rook on e8.
	pos := &Position{}
	if err := pos.SetFEN("4r3/8/8/8/8/4B3/8/4K3 w - - 0 1"); err != nil {
		t.Fatalf("SetFEN: %v", err)
	}

	before := pos.GetState()

	var ml MoveList
	pos.GenerateMoves(&ml)
	rejected := 0
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if m.Piece() != WhiteBishop {
			continue
		}
		if pos.MakeMove(m, false) {
			pos.SetState(before)
			continue
		}
		rejected++
		if pos.GetState() != before {
			t.Fatalf("state changed after illegal move %s", m)
		}
	}
	if rejected == 0 {
		t.Fatal("expected at least one illegal bishop move")
	}
}

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1",
		"8/8/8/8/8/8/6k1/R3K2R w KQ - 10 30",
	}

	for _, fen := range fens {
		pos := &Position{}
		if err := pos.SetFEN(fen); err != nil {
			t.Errorf("SetFEN(%q): %v", fen, err)
			continue
		}
		if got := pos.FEN(); got != fen {
			t.Errorf("round trip: got %q, want %q", got, fen)
		}
	}
}

func TestInvalidFEN(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNX w KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KZkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq zz 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - x 1",
		"9/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	}

	for _, fen := range bad {
		pos := NewPosition()
		before := pos.GetState()
		if err := pos.SetFEN(fen); err == nil {
			t.Errorf("SetFEN(%q): expected error", fen)
		} else if pos.GetState() != before {
			t.Errorf("SetFEN(%q): position modified on failure", fen)
		}
	}
}

func TestCastlingMove(t *testing.T) {
	pos := &Position{}
	if err := pos.SetFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"); err != nil {
		t.Fatalf("SetFEN: %v", err)
	}

	m := pos.ParseMove("e1g1")
	if m == NoMove || !m.IsCastle() {
		t.Fatal("e1g1 should be a castling move")
	}
	if !pos.MakeMove(m, false) {
		t.Fatal("castling should be legal")
	}
	if pos.PieceOn(G1) != WhiteKing || pos.PieceOn(F1) != WhiteRook {
		t.Errorf("after O-O the king should be on g1 and the rook on f1:\n%s", pos)
	}
	if pos.Castling&(WhiteKingSideCastle|WhiteQueenSideCastle) != 0 {
		t.Error("white castling rights should be gone")
	}
	checkInvariants(t, pos)
}

func TestEnPassantCapture(t *testing.T) {
	pos := &Position{}
	if err := pos.SetFEN("rnbqkbnr/ppp1pppp/8/8/3pP3/8/PPPP1PP1/RNBQKBNR b KQkq e3 0 1"); err != nil {
		t.Fatalf("SetFEN: %v", err)
	}

	m := pos.ParseMove("d4e3")
	if m == NoMove || !m.IsEnPassant() {
		t.Fatal("d4e3 should be an en passant capture")
	}
	if !pos.MakeMove(m, false) {
		t.Fatal("en passant should be legal")
	}
	if pos.PieceOn(E4) != NoPiece {
		t.Error("captured pawn still on e4")
	}
	if pos.PieceOn(E3) != BlackPawn {
		t.Error("capturing pawn not on e3")
	}
	checkInvariants(t, pos)
}

func TestPromotion(t *testing.T) {
	pos := &Position{}
	if err := pos.SetFEN("8/P6k/8/8/8/8/8/K7 w - - 0 1"); err != nil {
		t.Fatalf("SetFEN: %v", err)
	}

	m := pos.ParseMove("a7a8q")
	if m == NoMove || m.Promoted() != WhiteQueen {
		t.Fatal("a7a8q should be a queen promotion")
	}
	if !pos.MakeMove(m, false) {
		t.Fatal("promotion should be legal")
	}
	if pos.PieceOn(A8) != WhiteQueen {
		t.Error("promoted queen missing from a8")
	}
	if pos.Pieces[WhitePawn] != 0 {
		t.Error("pawn bitboard should be empty after promotion")
	}
	checkInvariants(t, pos)
}

func TestCapturesOnlyFilter(t *testing.T) {
	pos := NewPosition()
	quiet := pos.ParseMove("e2e4")
	if quiet == NoMove {
		t.Fatal("e2e4 not generated")
	}
	before := pos.GetState()
	if pos.MakeMove(quiet, true) {
		t.Error("captures-only make accepted a quiet move")
	}
	if pos.GetState() != before {
		t.Error("position modified by rejected quiet move")
	}
}
