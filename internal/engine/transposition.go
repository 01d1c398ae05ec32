package engine

import "github.com/halcyon-chess/halcyon/internal/board"

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact TTFlag = iota // Exact score
	TTAlpha               // Upper bound (failed low)
	TTBeta                // Lower bound (failed high)
	TTNone
)

// TTEntry is a transposition table slot. An empty slot has Depth == -1.
// Mate scores are stored raw, without ply adjustment; a mate score probed
// along a different path may therefore mis-report its distance. Preserved
// behavior.
type TTEntry struct {
	Key      uint64
	Depth    int
	Flag     TTFlag
	Score    int
	BestMove board.Move
}

// DefaultHashMB is the default transposition table size in megabytes.
const DefaultHashMB = 128

// ttEntrySize approximates the in-memory footprint of one entry for the
// megabyte budget.
const ttEntrySize = 40

// TranspositionTable is an open-addressed, always-replace, single-slot-per-
// index cache keyed by Zobrist hash.
type TranspositionTable struct {
	entries []TTEntry
	sizeMB  int
	used    int
}

// NewTranspositionTable creates a table with the given size in megabytes.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	tt := &TranspositionTable{}
	tt.Resize(sizeMB)
	return tt
}

// Resize reallocates the table to a new megabyte budget and clears it.
func (tt *TranspositionTable) Resize(sizeMB int) {
	if sizeMB < 1 {
		sizeMB = 1
	}
	tt.sizeMB = sizeMB
	capacity := uint64(sizeMB) * 1024 * 1024 / ttEntrySize
	tt.entries = make([]TTEntry, capacity)
	for i := range tt.entries {
		tt.entries[i].Depth = -1
	}
	tt.used = 0
}

// Clear empties the table.
func (tt *TranspositionTable) Clear() {
	tt.Resize(tt.sizeMB)
}

// Store writes the entry at key mod capacity, unconditionally replacing
// whatever was there.
func (tt *TranspositionTable) Store(key uint64, depth int, flag TTFlag, score int, bestMove board.Move) {
	entry := &tt.entries[key%uint64(len(tt.entries))]
	if entry.Depth == -1 {
		tt.used++
	}
	entry.Key = key
	entry.Depth = depth
	entry.Flag = flag
	entry.Score = score
	entry.BestMove = bestMove
}

// Get returns the entry at key mod capacity. The caller must verify that
// entry.Key matches before trusting it.
func (tt *TranspositionTable) Get(key uint64) TTEntry {
	return tt.entries[key%uint64(len(tt.entries))]
}

// FillPermille reports the fill ratio times 1000, for UCI hashfull.
func (tt *TranspositionTable) FillPermille() int {
	return tt.used * 1000 / len(tt.entries)
}

// SizeMB returns the configured size in megabytes.
func (tt *TranspositionTable) SizeMB() int {
	return tt.sizeMB
}
