package board

import "fmt"

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// castlingUpdates clears the rights affected by a move touching a corner or
// king square. The rights are ANDed with the entries for both the source and
// the target square.
var castlingUpdates = [64]CastlingRights{
	7, 15, 15, 15, 3, 15, 15, 11,
	15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15,
	13, 15, 15, 15, 12, 15, 15, 14,
}

// Occupancy indices.
const (
	OccWhite = iota
	OccBlack
	OccBoth
)

// State is the complete, value-copyable state of a position. The search
// snapshots it before every move attempt and restores it afterwards instead
// of maintaining an undo log.
type State struct {
	// Piece bitboards, one per colored piece.
	Pieces [NumPieces]Bitboard

	// Occupancy bitboards, derived from Pieces. Must be regenerated
	// whenever any piece bitboard changes.
	Occupancy [3]Bitboard

	SideToMove    Color
	EnPassant     Square // Target square for en passant, NoSquare if none
	Castling      CastlingRights
	Key           uint64 // Zobrist hash
	HalfMoveClock int    // Plies since last pawn move or capture
	Ply           int    // Plies since the start of recorded history
}

// Position represents a chess position.
type Position struct {
	State
}

// NewPosition creates the starting position.
func NewPosition() *Position {
	pos := &Position{}
	if err := pos.SetFEN(StartFEN); err != nil {
		panic(err)
	}
	return pos
}

// GetState returns a copy of the current state.
func (p *Position) GetState() State {
	return p.State
}

// SetState replaces the current state with the given snapshot.
func (p *Position) SetState(s State) {
	p.State = s
}

// PieceOn returns the piece on the given square, or NoPiece if empty.
func (p *Position) PieceOn(sq Square) Piece {
	for piece := WhitePawn; piece <= BlackKing; piece++ {
		if p.Pieces[piece].IsSet(sq) {
			return piece
		}
	}
	return NoPiece
}

// KingSquare returns the square of the given color's king.
func (p *Position) KingSquare(c Color) Square {
	return p.Pieces[NewPiece(King, c)].LSB()
}

// GenerateKey rebuilds the Zobrist key from scratch. After any sequence of
// successful moves it must equal the incrementally maintained State.Key.
func (p *Position) GenerateKey() uint64 {
	var key uint64
	for piece := WhitePawn; piece <= BlackKing; piece++ {
		bb := p.Pieces[piece]
		for bb != 0 {
			key ^= zobristPiece[piece][bb.PopLSB()]
		}
	}
	if p.EnPassant != NoSquare {
		key ^= zobristEnPassant[p.EnPassant]
	}
	if p.SideToMove == Black {
		key ^= zobristSide
	}
	key ^= zobristCastling[p.Castling]
	return key
}

// GenerateOccupancies recalculates the occupancy bitboards from the piece
// bitboards.
func (p *Position) GenerateOccupancies() {
	p.Occupancy[OccWhite] = Empty
	p.Occupancy[OccBlack] = Empty
	for piece := WhitePawn; piece <= WhiteKing; piece++ {
		p.Occupancy[OccWhite] |= p.Pieces[piece]
	}
	for piece := BlackPawn; piece <= BlackKing; piece++ {
		p.Occupancy[OccBlack] |= p.Pieces[piece]
	}
	p.Occupancy[OccBoth] = p.Occupancy[OccWhite] | p.Occupancy[OccBlack]
}

// NonPawnKingPieces returns the number of pieces that are neither pawns nor
// kings. OccBoth counts both sides; used for the null-move endgame gate.
func (p *Position) NonPawnKingPieces(occ int) int {
	bb := p.Occupancy[occ]
	switch occ {
	case OccWhite:
		bb &^= p.Pieces[WhitePawn] | p.Pieces[WhiteKing]
	case OccBlack:
		bb &^= p.Pieces[BlackPawn] | p.Pieces[BlackKing]
	default:
		bb &^= p.Pieces[WhitePawn] | p.Pieces[WhiteKing] | p.Pieces[BlackPawn] | p.Pieces[BlackKing]
	}
	return bb.PopCount()
}

// MakeMove applies the move to the position and reports whether it was
// legal. On an illegal move the position is left untouched. When
// capturesOnly is set, non-captures are rejected up front (quiescence).
func (p *Position) MakeMove(m Move, capturesOnly bool) bool {
	if capturesOnly && !m.IsCapture() {
		return false
	}

	snapshot := p.GetState()

	source := m.Source()
	target := m.Target()
	piece := m.Piece()
	promoted := m.Promoted()

	// Update the halfmove clock and ply.
	if m.IsCapture() || piece.Type() == Pawn {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}
	p.Ply++

	captured := p.PieceOn(target)

	// Move the piece.
	p.Pieces[piece] = p.Pieces[piece].Clear(source).Set(target)
	p.Key ^= zobristPiece[piece][source]
	p.Key ^= zobristPiece[piece][target]

	if m.IsCapture() && captured != NoPiece {
		p.Pieces[captured] = p.Pieces[captured].Clear(target)
		p.Key ^= zobristPiece[captured][target]
	}

	if promoted != NoPiece {
		p.Pieces[piece] = p.Pieces[piece].Clear(target)
		p.Pieces[promoted] = p.Pieces[promoted].Set(target)
		p.Key ^= zobristPiece[piece][target]
		p.Key ^= zobristPiece[promoted][target]
	}

	if m.IsEnPassant() {
		// The captured pawn sits one rank behind the target square.
		capturedSq := target
		if piece.Color() == White {
			capturedSq += South
		} else {
			capturedSq -= South
		}
		enemyPawn := NewPiece(Pawn, piece.Color().Other())
		p.Pieces[enemyPawn] = p.Pieces[enemyPawn].Clear(capturedSq)
		p.Key ^= zobristPiece[enemyPawn][capturedSq]
	}

	// Hash out the old en passant square and set the new one.
	if p.EnPassant != NoSquare {
		p.Key ^= zobristEnPassant[p.EnPassant]
	}
	p.EnPassant = NoSquare
	if m.IsDoublePush() {
		if piece.Color() == White {
			p.EnPassant = target + South
		} else {
			p.EnPassant = target - South
		}
		p.Key ^= zobristEnPassant[p.EnPassant]
	}

	if m.IsCastle() {
		rook := NewPiece(Rook, piece.Color())
		var rookSource, rookTarget Square
		switch target {
		case G1:
			rookSource, rookTarget = H1, F1
		case C1:
			rookSource, rookTarget = A1, D1
		case G8:
			rookSource, rookTarget = H8, F8
		case C8:
			rookSource, rookTarget = A8, D8
		}
		p.Pieces[rook] = p.Pieces[rook].Clear(rookSource).Set(rookTarget)
		p.Key ^= zobristPiece[rook][rookSource]
		p.Key ^= zobristPiece[rook][rookTarget]
	}

	// Update castling rights.
	p.Key ^= zobristCastling[p.Castling]
	p.Castling &= castlingUpdates[source]
	p.Castling &= castlingUpdates[target]
	p.Key ^= zobristCastling[p.Castling]

	p.GenerateOccupancies()

	p.SideToMove = p.SideToMove.Other()
	p.Key ^= zobristSide

	// Legality: the mover's king must not be left in check.
	kingSq := p.KingSquare(piece.Color())
	if p.IsSquareAttacked(kingSq, piece.Color().Other()) {
		p.SetState(snapshot)
		return false
	}

	return true
}

// MakeNullMove passes the turn without moving: the en passant square is
// cleared and the side to move flipped, with the key maintained. The caller
// restores the prior state with SetState.
func (p *Position) MakeNullMove() {
	if p.EnPassant != NoSquare {
		p.Key ^= zobristEnPassant[p.EnPassant]
		p.EnPassant = NoSquare
	}
	p.SideToMove = p.SideToMove.Other()
	p.Key ^= zobristSide
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceOn(NewSquare(file, rank))
			if piece == NoPiece {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Fen: %s\n", p.FEN())
	s += fmt.Sprintf("Key: %016x\n", p.Key)
	return s
}
