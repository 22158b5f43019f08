// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "testing"

func mustFEN(t *testing.T, fen string) *Position {
	t.Helper()
	pos, err := PositionFromFEN(fen)
	if err != nil {
		t.Fatalf("PositionFromFEN(%q): %v", fen, err)
	}
	return pos
}

var evalFENs = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
	"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
	"rnb1kbnr/pp1ppppp/1qp5/8/8/1QP5/PP1PPPPP/RNB1KBNR w KQkq - 2 3",
}

// Evaluate must be an odd function of color: scoring the mirror image
// of a position (ranks flipped, colors swapped, side to move swapped)
// must produce the exact negation of the original score.
func TestEvaluateMirrorSymmetry(t *testing.T) {
	for _, fen := range evalFENs {
		pos := mustFEN(t, fen)
		mirrored := Mirror(pos)

		got := Evaluate(pos)
		want := -Evaluate(mirrored)
		if got != want {
			t.Errorf("FEN %q: Evaluate(pos) = %d, Evaluate(Mirror(pos)) = %d, want negation (%d)",
				fen, got, Evaluate(mirrored), want)
		}
	}
}

func TestEvaluateStartPositionIsBalanced(t *testing.T) {
	pos := mustFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if got := Evaluate(pos); got != 0 {
		t.Errorf("Evaluate(startpos) = %d, want 0 (symmetric position)", got)
	}
}

func TestEvaluateExtraQueenIsWinning(t *testing.T) {
	pos := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if got := Evaluate(pos); got < 800 {
		t.Errorf("Evaluate(king+queen vs king) = %d, want a large positive score", got)
	}
}

func TestPhaseMonotonic(t *testing.T) {
	start := mustFEN(t, "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	endgame := mustFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if Phase(start) >= Phase(endgame) {
		t.Errorf("Phase(start) = %d should be less than Phase(endgame) = %d", Phase(start), Phase(endgame))
	}
}
