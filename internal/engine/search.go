package engine

import (
	"sync/atomic"
	"time"

	"github.com/halcyon-chess/halcyon/internal/board"
)

// Search tuning constants.
const (
	// MaxDepth is the maximum search depth in plies.
	MaxDepth = 128

	// EndgamePieceCount: with this many or fewer non-pawn, non-king pieces
	// on the board, null-move pruning is disabled (zugzwang risk).
	EndgamePieceCount = 6

	// TimeBuffer is how much time, in milliseconds, the engine tries to
	// keep on the clock to avoid flagging.
	TimeBuffer = 1000

	// DefaultMovesToGo is assumed when the time control does not say.
	DefaultMovesToGo = 60

	// NumKillerMoves is the number of killer slots per depth.
	NumKillerMoves = 2

	// CheckupFrequency is how often, in nodes, the stop flag is polled.
	CheckupFrequency = 2048

	// NullMoveReduction is the depth reduction for null-move searches.
	NullMoveReduction = 2

	// MinFullDepthSearches is the number of moves searched at full window
	// and depth before PVS kicks in.
	MinFullDepthSearches = 2

	// LmrFullDepthMoves, LmrReductionLimit, LmrReduction control late move
	// reductions.
	LmrFullDepthMoves = 1
	LmrReductionLimit = 3
	LmrReduction      = 1

	// AspirationWindow is the half-width of the aspiration window in
	// centipawns.
	AspirationWindow = 50
)

// Score constants.
const (
	UnknownScore = 100000
	Infinity     = 50000

	// CheckmateScore is the base mate score; a mate at ply p scores
	// CheckmateScore + p, so nearer mates are worse for the loser.
	CheckmateScore  = -49000
	CheckmateWindow = -48000

	DrawScore = 0
)

// PVLine is a principal variation collected during search.
type PVLine struct {
	Moves [MaxDepth]board.Move
	Count int
}

// SearchInfo is reported after every completed iteration.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	HashFull int
	PV       []board.Move
}

// Limits are the per-go search constraints. Zero values mean unlimited.
type Limits struct {
	Depth     int
	Nodes     uint64
	MoveTime  int // milliseconds
	WhiteTime int
	BlackTime int
	WhiteInc  int
	BlackInc  int
	MovesToGo int
	Infinite  bool
}

// Engine runs the iterative-deepening negamax search. It owns the
// transposition table and repetition ring; exactly one goroutine uses an
// Engine at a time (see the uci package for the handoff discipline).
type Engine struct {
	tt  *TranspositionTable
	rep *RepetitionRing

	killers [MaxDepth + 1][NumKillerMoves]board.Move
	history [board.NumPieces][64]int

	pv     PVLine
	ttMove board.Move

	nodes uint64
	ply   int
	score int

	// Current go parameters.
	searchDepth   int
	currentDepth  int
	maxNodes      uint64
	startTime     time.Time
	endTime       time.Time
	whiteTime     int
	blackTime     int
	whiteInc      int
	blackInc      int
	movesToGo     int
	engineDecides bool

	stopSearch   bool
	externalStop *atomic.Bool

	// OnInfo, when set, receives the search info after each completed
	// depth.
	OnInfo func(SearchInfo)
}

// New creates an engine with the given transposition table size in
// megabytes.
func New(hashMB int) *Engine {
	e := &Engine{
		tt:           NewTranspositionTable(hashMB),
		rep:          &RepetitionRing{},
		externalStop: &atomic.Bool{},
	}
	e.ResetLimits()
	return e
}

// StopFlag returns the shared stop flag. Setting it makes the search return
// at its next checkpoint.
func (e *Engine) StopFlag() *atomic.Bool {
	return e.externalStop
}

// Repetition returns the repetition ring, so the command layer can record
// the keys of the moves played before the search starts.
func (e *Engine) Repetition() *RepetitionRing {
	return e.rep
}

// ResizeHash reallocates the transposition table.
func (e *Engine) ResizeHash(mb int) {
	e.tt.Resize(mb)
}

// HashSizeMB returns the transposition table size.
func (e *Engine) HashSizeMB() int {
	return e.tt.SizeMB()
}

// NewGame clears the transposition table and repetition ring.
func (e *Engine) NewGame() {
	e.tt.Clear()
	e.rep.Clear()
}

// ResetLimits clears the per-go search parameters.
func (e *Engine) ResetLimits() {
	e.searchDepth = -1
	e.currentDepth = -1
	e.maxNodes = 0
	e.startTime = time.Time{}
	e.endTime = time.Time{}
	e.whiteTime = 0
	e.blackTime = 0
	e.whiteInc = 0
	e.blackInc = 0
	e.movesToGo = 0
	e.engineDecides = false
}

// SetLimits applies a go command's constraints.
func (e *Engine) SetLimits(limits Limits) {
	e.ResetLimits()
	if limits.Infinite {
		return
	}
	if limits.Depth > 0 {
		e.searchDepth = limits.Depth
	}
	if limits.Nodes > 0 {
		e.maxNodes = limits.Nodes
	}
	if limits.MoveTime > 0 {
		e.endTime = time.Now().Add(time.Duration(limits.MoveTime) * time.Millisecond)
		return
	}
	e.whiteTime = limits.WhiteTime
	e.blackTime = limits.BlackTime
	e.whiteInc = limits.WhiteInc
	e.blackInc = limits.BlackInc
	e.movesToGo = limits.MovesToGo
	if limits.WhiteTime > 0 || limits.BlackTime > 0 {
		e.engineDecides = true
	}
}

// Search runs iterative deepening on the position and returns the best move
// found together with its score.
func (e *Engine) Search(pos *board.Position) (board.Move, int) {
	e.startTime = time.Now()

	// Decide the time budget for this move.
	if e.engineDecides {
		remaining := e.whiteTime
		increment := e.whiteInc
		if pos.SideToMove == board.Black {
			remaining = e.blackTime
			increment = e.blackInc
		}
		if remaining == 0 {
			e.engineDecides = false
		} else if remaining < TimeBuffer {
			// Nearly flagged: move instantly.
			e.engineDecides = false
			e.searchDepth = 1
		} else {
			remaining -= TimeBuffer
			if e.movesToGo == 0 {
				e.movesToGo = DefaultMovesToGo
			}
			budget := time.Duration(remaining/e.movesToGo+increment) * time.Millisecond
			e.endTime = e.startTime.Add(budget)
		}
	}

	// Reset per-search state.
	e.killers = [MaxDepth + 1][NumKillerMoves]board.Move{}
	e.history = [board.NumPieces][64]int{}
	e.pv = PVLine{}
	e.nodes = 0
	e.ply = 0
	e.currentDepth = 1
	e.score = UnknownScore
	e.stopSearch = false
	alpha := -Infinity
	beta := Infinity

	e.checkStop()

	reported := false
	for {
		var newPV PVLine
		reported = false

		// Aspiration-window search; redo with the full window if the
		// result falls outside it.
		tempScore := e.negamax(pos, alpha, beta, e.currentDepth, &newPV, false)
		if tempScore <= alpha || tempScore >= beta {
			tempScore = e.negamax(pos, -Infinity, Infinity, e.currentDepth, &newPV, false)
		}

		if e.stopSearch {
			// The partial line is adopted only when it starts with the
			// same move as the completed one, or scores strictly better.
			// Otherwise it cannot be trusted and the completed depth is
			// reported instead.
			if newPV.Moves[0] == e.pv.Moves[0] || tempScore > e.score {
				e.score = tempScore
				e.pv = newPV
			} else {
				e.currentDepth--
			}
			break
		}

		e.pv = newPV
		e.score = tempScore

		alpha = tempScore - AspirationWindow
		beta = tempScore + AspirationWindow

		e.reportInfo()
		reported = true

		if e.isMateScore(e.score) {
			e.stopSearch = true
			break
		}

		e.currentDepth++
		e.checkStop()
		if e.stopSearch {
			break
		}
	}

	if !reported {
		e.reportInfo()
	}

	return e.pv.Moves[0], e.score
}

func (e *Engine) isMateScore(score int) bool {
	return (score > CheckmateScore && score < CheckmateWindow) ||
		(score > -CheckmateWindow && score < -CheckmateScore)
}

func (e *Engine) shouldStop() bool {
	if e.externalStop.Load() {
		return true
	}
	if e.maxNodes != 0 && e.nodes >= e.maxNodes {
		return true
	}
	if e.searchDepth != -1 && e.currentDepth > e.searchDepth {
		return true
	}
	if !e.endTime.IsZero() && !time.Now().Before(e.endTime) {
		return true
	}
	return e.currentDepth > MaxDepth
}

func (e *Engine) checkStop() {
	e.stopSearch = e.shouldStop()
}

func (e *Engine) reportInfo() {
	if e.OnInfo == nil {
		return
	}
	elapsed := time.Since(e.startTime)
	if elapsed <= 0 {
		elapsed = time.Millisecond
	}
	e.OnInfo(SearchInfo{
		Depth:    e.currentDepth,
		Score:    e.score,
		Nodes:    e.nodes,
		Time:     elapsed,
		HashFull: e.tt.FillPermille(),
		PV:       append([]board.Move(nil), e.pv.Moves[:e.pv.Count]...),
	})
}
