// Command oopsmate is a UCI chess engine. Run with no arguments to
// speak UCI over stdin/stdout; -perft and -bench run the equivalent
// debug tooling instead of starting a protocol session.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/PS-Wizard/OopsMate/engine"
	"github.com/PS-Wizard/OopsMate/internal/bench"
	"github.com/PS-Wizard/OopsMate/internal/config"
	"github.com/PS-Wizard/OopsMate/internal/perft"
	"github.com/PS-Wizard/OopsMate/internal/ttstore"
	"github.com/PS-Wizard/OopsMate/uci"
)

var (
	version = flag.Bool("version", false, "print version and exit")
	cfgPath = flag.String("config", "weights.toml", "optional evaluation weight overrides")
	ttPath  = flag.String("ttstore", "", "directory for a persistent transposition-table snapshot; empty disables it")

	perftFEN   = flag.String("perft", "", "run perft from this FEN (or \"startpos\") instead of starting a UCI session")
	perftDepth = flag.Int("perft_depth", 5, "perft search depth")
	perftDivide = flag.Bool("perft_divide", false, "print per-move leaf counts instead of just the total")

	runBench = flag.Bool("bench", false, "run the node-count benchmark suite instead of starting a UCI session")
	benchDepth = flag.Int("bench_depth", 5, "depth to search each benchmark game to")
)

func main() {
	flag.Parse()
	fmt.Fprintf(os.Stderr, "oopsmate, built with %v, running on %v\n", runtime.Version(), runtime.GOARCH)
	if *version {
		return
	}

	if cfg, err := config.Load(*cfgPath); err != nil {
		log.Fatalf("config: %v", err)
	} else {
		cfg.Apply()
	}

	switch {
	case *perftFEN != "":
		runPerft()
	case *runBench:
		runBenchmark()
	default:
		runUCI()
	}
}

func runPerft() {
	fen := *perftFEN
	if fen == "startpos" {
		fen = engine.FENStartPos
	}
	pos, err := engine.PositionFromFEN(fen)
	if err != nil {
		log.Fatalf("perft: %v", err)
	}

	start := time.Now()
	if *perftDivide {
		for move, nodes := range perft.Divide(pos, *perftDepth) {
			fmt.Printf("%s: %d\n", move, nodes)
		}
		return
	}
	counters := perft.Count(pos, *perftDepth)
	elapsed := time.Since(start)
	fmt.Printf("nodes %d captures %d enpassant %d castles %d promotions %d (%.2fs, %.0f nps)\n",
		counters.Nodes, counters.Captures, counters.EnPassant, counters.Castles, counters.Promotions,
		elapsed.Seconds(), float64(counters.Nodes)/elapsed.Seconds())
}

func runBenchmark() {
	games, nps, err := bench.RunGames(*benchDepth)
	if err != nil {
		log.Fatalf("bench: %v", err)
	}
	var total uint64
	for _, g := range games {
		fmt.Printf("%-60s %10d nodes\n", g.Description, g.Nodes)
		total += g.Nodes
	}
	fmt.Printf("total %d nodes, %.0f nps\n", total, nps)

	results, err := bench.RunPerft()
	if err != nil {
		log.Fatalf("bench: perft: %v", err)
	}
	for _, r := range results {
		status := "ok"
		if !r.OK {
			status = "MISMATCH"
		}
		fmt.Printf("perft depth %-2d got %-12d want %-12d %s\n", r.Entry.Depth, r.Got, r.Entry.Want, status)
	}
}

func runUCI() {
	session := uci.New(os.Stdout)

	var store *ttstore.Store
	if *ttPath != "" {
		var err error
		store, err = ttstore.Open(*ttPath)
		if err != nil {
			log.Println("ttstore:", err)
		} else {
			defer store.Close()
			if err := store.Load(session.Engine); err != nil {
				log.Println("ttstore: load:", err)
			}
		}
	}

	log.SetOutput(os.Stderr)
	log.SetPrefix("info string ")

	if err := session.Run(os.Stdin); err != nil {
		log.Println("uci:", err)
	}

	if store != nil {
		if err := store.Save(session.Engine); err != nil {
			log.Println("ttstore: save:", err)
		}
	}
}
