package engine

import (
	"sort"

	"github.com/halcyon-chess/halcyon/internal/board"
)

// Move ordering scores. The previous iteration's PV move is tried first,
// then the transposition table hint, captures by MVV-LVA, killers,
// promotions, and finally quiet moves by history.
const (
	pvMoveScore   = 100000
	ttMoveScore   = 90000
	captureBase   = 10000
	killerBase    = 9000
	promotionBase = 8000
)

// mvvLvaScores is indexed [attacker type][victim type]: the victim's value
// dominates, the attacker's value breaks ties in favor of cheap attackers.
var mvvLvaScores = [6][6]int{
	{105, 205, 305, 405, 505, 605},
	{104, 204, 304, 404, 504, 604},
	{103, 203, 303, 403, 503, 603},
	{102, 202, 302, 402, 502, 602},
	{101, 201, 301, 401, 501, 601},
	{100, 200, 300, 400, 500, 600},
}

func (e *Engine) scoreMove(pos *board.Position, m board.Move) int {
	if e.ply < MaxDepth && m == e.pv.Moves[e.ply] {
		return pvMoveScore
	}

	if m == e.ttMove {
		return ttMoveScore
	}

	if m.IsCapture() {
		victim := pos.PieceOn(m.Target())
		if victim == board.NoPiece {
			// En passant: the captured pawn is not on the target square.
			victim = board.NewPiece(board.Pawn, pos.SideToMove.Other())
		}
		return captureBase + mvvLvaScores[m.Piece().Type()][victim.Type()]
	}

	for i := 0; i < NumKillerMoves; i++ {
		if m == e.killers[e.currentDepth][i] {
			return killerBase - i
		}
	}

	if promoted := m.Promoted(); promoted != board.NoPiece {
		return promotionBase + int(promoted)
	}

	return e.history[m.Piece()][m.Target()]
}

type scoredMove struct {
	move  board.Move
	score int
}

// sortMoves orders the move list descending by ordering score.
func (e *Engine) sortMoves(pos *board.Position, moves *board.MoveList) {
	scored := make([]scoredMove, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		scored[i] = scoredMove{move: m, score: e.scoreMove(pos, m)}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	for i := range scored {
		moves.Set(i, scored[i].move)
	}
}
