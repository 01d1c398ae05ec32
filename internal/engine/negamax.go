package engine

import "github.com/halcyon-chess/halcyon/internal/board"

// negamax searches the position to the given depth within the (alpha, beta)
// window. isNull marks the child of a null move so it cannot be stacked.
func (e *Engine) negamax(pos *board.Position, alpha, beta, depth int, pv *PVLine, isNull bool) int {
	if e.nodes%CheckupFrequency == 0 {
		e.checkStop()
	}
	e.nodes++

	// Probe the transposition table.
	entry := e.tt.Get(pos.Key)
	if entry.Key == pos.Key && entry.Depth >= depth {
		if entry.Flag == TTAlpha && entry.Score <= alpha {
			return alpha
		}
		if entry.Flag == TTBeta && entry.Score >= beta {
			return beta
		}
		e.ttMove = entry.BestMove
	} else {
		e.ttMove = board.NoMove
	}

	// Draw detection.
	if e.ply > 0 && e.rep.Contains(pos.Key) {
		return DrawScore
	}
	if pos.HalfMoveClock >= 100 {
		return DrawScore
	}

	// Extend the search when in check.
	inCheck := pos.InCheck()
	if inCheck {
		depth++
	}

	if e.ply > MaxDepth-1 || depth <= 0 {
		pv.Count = 0
		score := e.quiescence(pos, alpha, beta)
		e.tt.Store(pos.Key, depth, TTExact, score, board.NoMove)
		return score
	}

	// Null move pruning: give the opponent a free move and prune if the
	// position is still too good. Skipped in check, in null children, and
	// with little material left (zugzwang).
	nullAllowed := depth > 1+NullMoveReduction && !inCheck && !isNull &&
		pos.NonPawnKingPieces(board.OccBoth) > EndgamePieceCount
	if nullAllowed {
		state := pos.GetState()
		e.ply++
		e.rep.Push(state.Key)
		pos.MakeNullMove()

		score := -e.negamax(pos, -beta, -beta+1, depth-1-NullMoveReduction, pv, true)

		e.ply--
		e.rep.Pop()
		pos.SetState(state)
		if e.stopSearch {
			return alpha
		}
		if score >= beta {
			e.tt.Store(pos.Key, depth, TTBeta, beta, board.NoMove)
			return beta
		}
	}

	var moves board.MoveList
	pos.GenerateMoves(&moves)
	e.sortMoves(pos, &moves)

	var newPV PVLine
	ttFlag := TTAlpha
	legalMoves := 0
	movesSearched := 0

	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		state := pos.GetState()
		e.ply++
		e.rep.Push(state.Key)

		if !pos.MakeMove(move, false) {
			e.ply--
			e.rep.Pop()
			continue
		}

		legalMoves++
		var score int

		if movesSearched < MinFullDepthSearches {
			// The first moves are searched with the full window at full
			// depth.
			score = -e.negamax(pos, -beta, -alpha, depth-1, &newPV, false)
		} else {
			// Principal variation search with late move reductions.
			if movesSearched >= LmrFullDepthMoves && depth >= LmrReductionLimit && e.canReduce(pos, move) {
				score = -e.negamax(pos, -alpha-1, -alpha, depth-1-LmrReduction, &newPV, false)
			} else {
				score = alpha + 1
			}
			if score > alpha {
				score = -e.negamax(pos, -alpha-1, -alpha, depth-1, &newPV, false)
				if score > alpha && score < beta {
					score = -e.negamax(pos, -beta, -alpha, depth-1, &newPV, false)
				}
			}
		}

		e.ply--
		e.rep.Pop()
		pos.SetState(state)

		if e.stopSearch {
			return alpha
		}

		movesSearched++

		if score >= beta {
			if move.IsQuiet() {
				for k := NumKillerMoves - 1; k > 0; k-- {
					e.killers[e.currentDepth][k] = e.killers[e.currentDepth][k-1]
				}
				e.killers[e.currentDepth][0] = move
			}
			e.tt.Store(pos.Key, depth, TTBeta, beta, move)
			return beta
		}

		if score > alpha {
			if move.IsQuiet() {
				e.history[move.Piece()][move.Target()] += depth * depth
			}

			pv.Moves[0] = move
			copy(pv.Moves[1:], newPV.Moves[:newPV.Count])
			pv.Count = newPV.Count + 1

			ttFlag = TTExact
			alpha = score
		}
	}

	// No legal move: checkmate or stalemate.
	if legalMoves == 0 {
		if inCheck {
			return CheckmateScore + e.ply
		}
		return DrawScore
	}

	e.tt.Store(pos.Key, depth, ttFlag, alpha, pv.Moves[0])
	return alpha
}

// quiescence extends the search through captures only, so the static
// evaluation is never taken in the middle of a tactical sequence.
func (e *Engine) quiescence(pos *board.Position, alpha, beta int) int {
	if e.nodes%CheckupFrequency == 0 {
		e.checkStop()
	}
	e.nodes++

	if e.ply > 0 && e.rep.Contains(pos.Key) {
		return DrawScore
	}
	if pos.HalfMoveClock >= 100 {
		return DrawScore
	}

	// Stand pat: the static evaluation bounds the score from below.
	evaluation := Evaluate(pos)
	if evaluation >= beta {
		return beta
	}
	if evaluation > alpha {
		alpha = evaluation
	}

	var moves board.MoveList
	pos.GenerateMoves(&moves)
	e.sortMoves(pos, &moves)

	for i := 0; i < moves.Len(); i++ {
		move := moves.Get(i)
		state := pos.GetState()
		e.ply++
		e.rep.Push(state.Key)

		if !pos.MakeMove(move, true) {
			e.ply--
			e.rep.Pop()
			continue
		}

		score := -e.quiescence(pos, -beta, -alpha)

		e.ply--
		e.rep.Pop()
		pos.SetState(state)

		if e.stopSearch {
			return alpha
		}

		if score >= beta {
			return beta
		}
		if score > alpha {
			alpha = score
		}
	}

	return alpha
}

// canReduce reports whether late move reductions may be applied: quiet,
// non-promotion moves while not in check.
func (e *Engine) canReduce(pos *board.Position, m board.Move) bool {
	if m.IsCapture() {
		return false
	}
	if m.Promoted() != board.NoPiece {
		return false
	}
	return !pos.InCheck()
}
