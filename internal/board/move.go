package board

import "strings"

// Move encodes a chess move in 32 bits:
// bits 0-5:   source square
// bits 6-11:  target square
// bits 12-15: moving piece
// bits 16-19: promoted piece (NoPiece if none)
// bit  20:    capture
// bit  21:    double pawn push
// bit  22:    en passant
// bit  23:    castle
type Move uint32

// NoMove represents an invalid or null move.
const NoMove Move = 0

// NewMove packs a move from its components.
func NewMove(source, target Square, piece, promoted Piece, capture, doublePush, enPassant, castle bool) Move {
	m := Move(source) | Move(target)<<6 | Move(piece)<<12 | Move(promoted)<<16
	if capture {
		m |= 1 << 20
	}
	if doublePush {
		m |= 1 << 21
	}
	if enPassant {
		m |= 1 << 22
	}
	if castle {
		m |= 1 << 23
	}
	return m
}

// Source returns the origin square.
func (m Move) Source() Square {
	return Square(m & 0x3F)
}

// Target returns the destination square.
func (m Move) Target() Square {
	return Square((m >> 6) & 0x3F)
}

// Piece returns the moving piece.
func (m Move) Piece() Piece {
	return Piece((m >> 12) & 0xF)
}

// Promoted returns the promoted piece, or NoPiece.
func (m Move) Promoted() Piece {
	return Piece((m >> 16) & 0xF)
}

// IsCapture returns true if this move captures a piece.
func (m Move) IsCapture() bool {
	return m&(1<<20) != 0
}

// IsDoublePush returns true if this is a double pawn push.
func (m Move) IsDoublePush() bool {
	return m&(1<<21) != 0
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m&(1<<22) != 0
}

// IsCastle returns true if this is a castling move.
func (m Move) IsCastle() bool {
	return m&(1<<23) != 0
}

// IsQuiet returns true if this is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && m.Promoted() == NoPiece
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.Source().String() + m.Target().String()
	if promoted := m.Promoted(); promoted != NoPiece {
		s += strings.ToLower(promoted.String())
	}
	return s
}

// MoveList is a fixed-capacity list of moves to avoid allocations.
// Capacity 256 is sufficient for all legal chess positions.
type MoveList struct {
	moves [256]Move
	count int
}

// Add appends a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}
