package board

// Pseudo-legal move generation. Moves that leave the mover's king in check
// are rejected by MakeMove, not here.

// GenerateMoves appends all pseudo-legal moves for the side to move.
func (p *Position) GenerateMoves(ml *MoveList) {
	p.generatePawnMoves(ml)
	p.generateLeaperMoves(ml, Knight, KnightAttacks)
	p.generateSliderMoves(ml, Bishop, BishopAttacks)
	p.generateSliderMoves(ml, Rook, RookAttacks)
	p.generateSliderMoves(ml, Queen, QueenAttacks)
	p.generateKingMoves(ml)
}

func (p *Position) generatePawnMoves(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	pawn := NewPiece(Pawn, us)

	pushDir := North
	promotionRank := 7
	startingRank := 1
	if us == Black {
		pushDir = South
		promotionRank = 0
		startingRank = 6
	}

	pawns := p.Pieces[pawn]
	for pawns != 0 {
		source := pawns.PopLSB()

		// Pushes.
		target := Square(int(source) + pushDir)
		if target.IsValid() && !p.Occupancy[OccBoth].IsSet(target) {
			if target.Rank() == promotionRank {
				ml.Add(NewMove(source, target, pawn, NewPiece(Queen, us), false, false, false, false))
				ml.Add(NewMove(source, target, pawn, NewPiece(Rook, us), false, false, false, false))
				ml.Add(NewMove(source, target, pawn, NewPiece(Bishop, us), false, false, false, false))
				ml.Add(NewMove(source, target, pawn, NewPiece(Knight, us), false, false, false, false))
			} else {
				ml.Add(NewMove(source, target, pawn, NoPiece, false, false, false, false))

				if source.Rank() == startingRank {
					target = Square(int(source) + 2*pushDir)
					if !p.Occupancy[OccBoth].IsSet(target) {
						ml.Add(NewMove(source, target, pawn, NoPiece, false, true, false, false))
					}
				}
			}
		}

		// Captures.
		attacks := PawnAttacks(source, us)
		for attacks != 0 {
			target := attacks.PopLSB()
			if p.Occupancy[them].IsSet(target) {
				if target.Rank() == promotionRank {
					ml.Add(NewMove(source, target, pawn, NewPiece(Queen, us), true, false, false, false))
					ml.Add(NewMove(source, target, pawn, NewPiece(Rook, us), true, false, false, false))
					ml.Add(NewMove(source, target, pawn, NewPiece(Bishop, us), true, false, false, false))
					ml.Add(NewMove(source, target, pawn, NewPiece(Knight, us), true, false, false, false))
				} else {
					ml.Add(NewMove(source, target, pawn, NoPiece, true, false, false, false))
				}
			} else if target == p.EnPassant {
				ml.Add(NewMove(source, target, pawn, NoPiece, true, false, true, false))
			}
		}
	}
}

func (p *Position) generateLeaperMoves(ml *MoveList, pt PieceType, attacksFn func(Square) Bitboard) {
	us := p.SideToMove
	them := us.Other()
	piece := NewPiece(pt, us)

	bb := p.Pieces[piece]
	for bb != 0 {
		source := bb.PopLSB()
		attacks := attacksFn(source) &^ p.Occupancy[us]
		for attacks != 0 {
			target := attacks.PopLSB()
			capture := p.Occupancy[them].IsSet(target)
			ml.Add(NewMove(source, target, piece, NoPiece, capture, false, false, false))
		}
	}
}

func (p *Position) generateSliderMoves(ml *MoveList, pt PieceType, attacksFn func(Square, Bitboard) Bitboard) {
	us := p.SideToMove
	them := us.Other()
	piece := NewPiece(pt, us)

	bb := p.Pieces[piece]
	for bb != 0 {
		source := bb.PopLSB()
		attacks := attacksFn(source, p.Occupancy[OccBoth]) &^ p.Occupancy[us]
		for attacks != 0 {
			target := attacks.PopLSB()
			capture := p.Occupancy[them].IsSet(target)
			ml.Add(NewMove(source, target, piece, NoPiece, capture, false, false, false))
		}
	}
}

func (p *Position) generateKingMoves(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	king := NewPiece(King, us)

	source := p.Pieces[king].LSB()
	attacks := KingAttacks(source) &^ p.Occupancy[us]
	for attacks != 0 {
		target := attacks.PopLSB()
		capture := p.Occupancy[them].IsSet(target)
		ml.Add(NewMove(source, target, king, NoPiece, capture, false, false, false))
	}

	// Castling. The destination square's attack status is not checked here;
	// an illegal destination is caught by the make-move legality step.
	occupied := p.Occupancy[OccBoth]
	if us == White {
		if p.Castling&WhiteKingSideCastle != 0 &&
			!occupied.IsSet(F1) && !occupied.IsSet(G1) &&
			!p.IsSquareAttacked(E1, them) && !p.IsSquareAttacked(F1, them) {
			ml.Add(NewMove(E1, G1, king, NoPiece, false, false, false, true))
		}
		if p.Castling&WhiteQueenSideCastle != 0 &&
			!occupied.IsSet(D1) && !occupied.IsSet(C1) && !occupied.IsSet(B1) &&
			!p.IsSquareAttacked(E1, them) && !p.IsSquareAttacked(D1, them) {
			ml.Add(NewMove(E1, C1, king, NoPiece, false, false, false, true))
		}
	} else {
		if p.Castling&BlackKingSideCastle != 0 &&
			!occupied.IsSet(F8) && !occupied.IsSet(G8) &&
			!p.IsSquareAttacked(E8, them) && !p.IsSquareAttacked(F8, them) {
			ml.Add(NewMove(E8, G8, king, NoPiece, false, false, false, true))
		}
		if p.Castling&BlackQueenSideCastle != 0 &&
			!occupied.IsSet(D8) && !occupied.IsSet(C8) && !occupied.IsSet(B8) &&
			!p.IsSquareAttacked(E8, them) && !p.IsSquareAttacked(D8, them) {
			ml.Add(NewMove(E8, C8, king, NoPiece, false, false, false, true))
		}
	}
}

// IsSquareAttacked returns true if the square is attacked by the given side.
func (p *Position) IsSquareAttacked(sq Square, by Color) bool {
	if PawnAttacks(sq, by.Other())&p.Pieces[NewPiece(Pawn, by)] != 0 {
		return true
	}
	if KnightAttacks(sq)&p.Pieces[NewPiece(Knight, by)] != 0 {
		return true
	}
	if BishopAttacks(sq, p.Occupancy[OccBoth])&p.Pieces[NewPiece(Bishop, by)] != 0 {
		return true
	}
	if RookAttacks(sq, p.Occupancy[OccBoth])&p.Pieces[NewPiece(Rook, by)] != 0 {
		return true
	}
	if QueenAttacks(sq, p.Occupancy[OccBoth])&p.Pieces[NewPiece(Queen, by)] != 0 {
		return true
	}
	if KingAttacks(sq)&p.Pieces[NewPiece(King, by)] != 0 {
		return true
	}
	return false
}

// InCheck returns true if the side to move is in check.
func (p *Position) InCheck() bool {
	return p.IsSquareAttacked(p.KingSquare(p.SideToMove), p.SideToMove.Other())
}

// ParseMove finds the generated move matching a UCI move string, or NoMove.
func (p *Position) ParseMove(s string) Move {
	var ml MoveList
	p.GenerateMoves(&ml)
	for i := 0; i < ml.Len(); i++ {
		if ml.Get(i).String() == s {
			return ml.Get(i)
		}
	}
	return NoMove
}
