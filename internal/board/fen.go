package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrInvalidFEN is returned when a FEN string cannot be parsed. The position
// is left in its previous state.
var ErrInvalidFEN = errors.New("invalid FEN")

// SetFEN parses the six FEN fields and replaces the position. The Zobrist
// key is recomputed from scratch.
func (p *Position) SetFEN(fen string) error {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return fmt.Errorf("%w: need at least 4 fields, got %d", ErrInvalidFEN, len(parts))
	}

	var next State
	next.EnPassant = NoSquare

	// Piece placement (field 0).
	ranks := strings.Split(parts[0], "/")
	if len(ranks) != 8 {
		return fmt.Errorf("%w: need 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0
		for j := 0; j < len(rankStr); j++ {
			if file > 7 {
				return fmt.Errorf("%w: too many squares in rank %d", ErrInvalidFEN, rank+1)
			}
			c := rankStr[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(c)
			if piece == NoPiece {
				return fmt.Errorf("%w: invalid piece character %q", ErrInvalidFEN, c)
			}
			next.Pieces[piece] = next.Pieces[piece].Set(NewSquare(file, rank))
			file++
		}
		if file != 8 {
			return fmt.Errorf("%w: rank %d has %d squares", ErrInvalidFEN, rank+1, file)
		}
	}

	// Side to move (field 1).
	switch parts[1] {
	case "w":
		next.SideToMove = White
	case "b":
		next.SideToMove = Black
	default:
		return fmt.Errorf("%w: invalid side to move %q", ErrInvalidFEN, parts[1])
	}

	// Castling rights (field 2).
	if parts[2] != "-" {
		for _, c := range parts[2] {
			switch c {
			case 'K':
				next.Castling |= WhiteKingSideCastle
			case 'Q':
				next.Castling |= WhiteQueenSideCastle
			case 'k':
				next.Castling |= BlackKingSideCastle
			case 'q':
				next.Castling |= BlackQueenSideCastle
			default:
				return fmt.Errorf("%w: invalid castling character %q", ErrInvalidFEN, c)
			}
		}
	}

	// En passant square (field 3).
	if parts[3] != "-" {
		sq, err := ParseSquare(parts[3])
		if err != nil {
			return fmt.Errorf("%w: invalid en passant square %q", ErrInvalidFEN, parts[3])
		}
		next.EnPassant = sq
	}

	// Halfmove clock and fullmove number (fields 4 and 5, optional).
	fullmove := 1
	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return fmt.Errorf("%w: invalid halfmove clock %q", ErrInvalidFEN, parts[4])
		}
		next.HalfMoveClock = hmc
	}
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return fmt.Errorf("%w: invalid fullmove number %q", ErrInvalidFEN, parts[5])
		}
		fullmove = fmn
	}
	next.Ply = 2 * (fullmove - 1)
	if next.SideToMove == Black {
		next.Ply++
	}

	p.SetState(next)
	p.GenerateOccupancies()
	p.Key = p.GenerateKey()
	return nil
}

// FEN returns the FEN representation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceOn(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.Castling.String())

	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.Ply/2 + 1))

	return sb.String()
}
