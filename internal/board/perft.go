package board

import (
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Perft counts the leaf positions reachable from the position at the given
// depth, legal moves only. It is the conformance oracle for the move
// generator and make-move.
func Perft(p *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}

	var ml MoveList
	p.GenerateMoves(&ml)

	var nodes uint64
	for i := 0; i < ml.Len(); i++ {
		state := p.GetState()
		if !p.MakeMove(ml.Get(i), false) {
			continue
		}
		nodes += Perft(p, depth-1)
		p.SetState(state)
	}
	return nodes
}

// DivideEntry is the perft node count behind a single root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// PerftDivide reports the node count behind every legal root move. The root
// moves are searched concurrently, each on its own value-copied position, so
// the input position is never shared between goroutines.
func PerftDivide(p *Position, depth int) []DivideEntry {
	var ml MoveList
	p.GenerateMoves(&ml)

	var (
		mu      sync.Mutex
		entries []DivideEntry
	)

	var g errgroup.Group
	for i := 0; i < ml.Len(); i++ {
		move := ml.Get(i)
		root := Position{State: p.GetState()}
		g.Go(func() error {
			if !root.MakeMove(move, false) {
				return nil
			}
			nodes := uint64(1)
			if depth > 1 {
				nodes = Perft(&root, depth-1)
			}
			mu.Lock()
			entries = append(entries, DivideEntry{Move: move, Nodes: nodes})
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Move.String() < entries[j].Move.String()
	})
	return entries
}
