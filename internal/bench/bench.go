// Package bench replays a fixed set of historical games and a perft
// table concurrently, one worker per game, reporting a total node
// count and nodes-per-second figure that should stay stable across
// non-functional changes to the search or move generator.
package bench

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/PS-Wizard/OopsMate/engine"
	"github.com/PS-Wizard/OopsMate/internal/perft"
)

// Game is one historical game replayed move by move, each position
// re-searched to the depth given to RunGames to produce a reproducible
// node count.
type Game struct {
	Description string
	Moves       []string
}

// Games is the fixed benchmark suite: short fragments of well-known
// master games, chosen for tactical variety rather than brevity.
var Games = []Game{
	{
		Description: "Kasparov vs Topalov, Wijk aan Zee 1999 (opening fragment)",
		Moves: []string{
			"e2e4", "d7d6", "d2d4", "g8f6", "b1c3", "g7g6", "c1e3", "f8g7",
			"d1d2", "c7c6", "f2f3", "b7b5", "g1e2", "b8d7", "e3h6", "g7h6",
		},
	},
	{
		Description: "Kramnik vs Shirov, Linares 1994 (opening fragment)",
		Moves: []string{
			"g1f3", "d7d5", "d2d4", "c8f5", "c2c4", "e7e6", "b1c3", "c7c6",
			"d1b3", "d8b6", "c4c5", "b6c7", "c1f4", "c7c8", "e2e3", "g8f6",
		},
	},
	{
		Description: "Tal vs Spassky, Leningrad 1954 (opening fragment)",
		Moves: []string{
			"c2c4", "g8f6", "b1c3", "e7e6", "d2d4", "c7c5", "d4d5", "e6d5",
			"c4d5", "g7g6", "g1f3", "f8g7", "c1f4", "d7d6", "h2h3", "e8g8",
		},
	},
}

// GameResult is one Game's outcome.
type GameResult struct {
	Description string
	Nodes       uint64
}

// RunGames replays every entry in Games to depth plies per move,
// one engine per goroutine so no state is shared across games, and
// returns each game's node total plus the aggregate nodes/second.
func RunGames(depth int) ([]GameResult, float64, error) {
	results := make([]GameResult, len(Games))
	start := time.Now()

	var g errgroup.Group
	for i := range Games {
		i := i
		g.Go(func() error {
			results[i] = GameResult{
				Description: Games[i].Description,
				Nodes:       replay(Games[i], depth),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	var total uint64
	for _, r := range results {
		total += r.Nodes
	}
	elapsed := time.Since(start)
	return results, float64(total) / elapsed.Seconds(), nil
}

func replay(game Game, depth int) uint64 {
	pos := engine.StartingPosition()
	eng := engine.NewEngine(pos, engine.NopLogger{}, engine.Options{HashSizeMB: 4})

	var nodes uint64
	for _, uciMove := range game.Moves {
		tc := engine.NewFixedDepthTimeControl(pos, depth)
		tc.Start(false)
		eng.Play(tc)
		nodes += eng.Stats.Nodes

		move, ok := findMove(pos, uciMove)
		if !ok {
			break
		}
		eng.DoMove(move)
	}
	return nodes
}

func findMove(pos *engine.Position, uciMove string) (engine.Move, bool) {
	var buf [engine.MaxMoves]engine.Move
	for _, m := range pos.GenerateLegalMoves(buf[:0]) {
		if m.UCI() == uciMove {
			return m, true
		}
	}
	return 0, false
}

// PerftEntry is one row of the depth-indexed regression table.
type PerftEntry struct {
	FEN   string
	Depth int
	Want  uint64
}

// PerftSuite is the set of known-good perft node counts checked
// concurrently by RunPerft, covering the start position and the two
// standard adversarial test positions (castling/en passant/promotion
// density).
var PerftSuite = []PerftEntry{
	{FEN: engine.FENStartPos, Depth: 4, Want: 197281},
	{FEN: engine.FENStartPos, Depth: 5, Want: 4865609},
	{FEN: "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", Depth: 4, Want: 4085603},
	{FEN: "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1", Depth: 5, Want: 674624},
}

// PerftResult reports whether one suite entry's node count matched.
type PerftResult struct {
	Entry PerftEntry
	Got   uint64
	OK    bool
}

// RunPerft counts every PerftSuite entry concurrently, one worker per
// entry, and reports each result alongside whether it matched Want.
func RunPerft() ([]PerftResult, error) {
	results := make([]PerftResult, len(PerftSuite))

	var g errgroup.Group
	for i := range PerftSuite {
		i := i
		g.Go(func() error {
			entry := PerftSuite[i]
			pos, err := engine.PositionFromFEN(entry.FEN)
			if err != nil {
				return fmt.Errorf("bench: perft entry %d: %w", i, err)
			}
			got := perft.Count(pos, entry.Depth).Nodes
			results[i] = PerftResult{Entry: entry, Got: got, OK: got == entry.Want}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
