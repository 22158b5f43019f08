// Package perft counts leaf nodes of the legal move tree to a fixed
// depth, the standard correctness/speed benchmark for move
// generators: https://www.chessprogramming.org/Perft.
package perft

import (
	"github.com/PS-Wizard/OopsMate/engine"
)

// Counters tallies leaf-level move categories in addition to the
// total node count, letting a mismatch against known-good numbers
// point at which move kind the generator gets wrong.
type Counters struct {
	Nodes      uint64
	Captures   uint64
	EnPassant  uint64
	Castles    uint64
	Promotions uint64
}

func (c *Counters) add(o Counters) {
	c.Nodes += o.Nodes
	c.Captures += o.Captures
	c.EnPassant += o.EnPassant
	c.Castles += o.Castles
	c.Promotions += o.Promotions
}

// Count returns the leaf counters for pos searched to depth plies.
func Count(pos *engine.Position, depth int) Counters {
	return count(pos, depth)
}

func count(pos *engine.Position, depth int) Counters {
	if depth == 0 {
		return Counters{Nodes: 1}
	}

	var buf [engine.MaxMoves]engine.Move
	moves := pos.GenerateLegalMoves(buf[:0])

	r := Counters{}
	for _, move := range moves {
		if depth == 1 {
			switch {
			case move.Flag() == engine.MoveEnPassant:
				r.EnPassant++
				r.Captures++
			case move.Flag() == engine.MoveCastle:
				r.Castles++
			case move.IsCapture():
				r.Captures++
			}
			if move.IsPromotion() {
				r.Promotions++
			}
		}
		pos.Make(move)
		r.add(count(pos, depth-1))
		pos.Unmake(move)
	}
	return r
}

// Divide returns, for each legal move from pos, the leaf node count of
// the subtree rooted at that move searched to depth-1 further plies —
// the standard way to localize a perft mismatch to a single branch.
func Divide(pos *engine.Position, depth int) map[string]uint64 {
	result := make(map[string]uint64)
	if depth <= 0 {
		return result
	}
	var buf [engine.MaxMoves]engine.Move
	for _, move := range pos.GenerateLegalMoves(buf[:0]) {
		pos.Make(move)
		result[move.UCI()] = count(pos, depth-1).Nodes
		pos.Unmake(move)
	}
	return result
}
