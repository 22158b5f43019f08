package engine

import "testing"

func TestSearchFindsMateInOne(t *testing.T) {
	// White to move: a classic back-rank mate. Black's king is fully
	// boxed in by its own pawns on f7/g7/h7, so Ra8 is checkmate.
	pos, err := PositionFromFEN("6k1/5ppp/8/8/8/8/6PP/R5K1 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	eng := NewEngine(pos, NopLogger{}, Options{HashSizeMB: 1})
	tc := NewFixedDepthTimeControl(pos, 4)
	tc.Start(false)
	moves := eng.Play(tc)

	if len(moves) == 0 {
		t.Fatal("expected a best move")
	}
	if got, want := moves[0], NewMove(SquareA1, SquareA8, MoveQuiet); got != want {
		t.Errorf("best move = %v, want %v (Ra8#)", got, want)
	}
}

func TestSearchReportsStalemateAsDraw(t *testing.T) {
	// Black to move, stalemated: king on h8 boxed in, no legal moves.
	pos, err := PositionFromFEN("7k/8/6Q1/6K1/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var buf [MaxMoves]Move
	if moves := pos.GenerateLegalMoves(buf[:0]); len(moves) != 0 {
		t.Fatalf("expected this position to be stalemate, found %d legal moves", len(moves))
	}
	if pos.InCheck() {
		t.Fatal("stalemate position should not be in check")
	}

	eng := NewEngine(pos, NopLogger{}, Options{HashSizeMB: 1})
	if score := eng.negamax(-InfinityScore, InfinityScore, 1, 0); score != 0 {
		t.Errorf("stalemate should evaluate to 0, got %d", score)
	}
}

func TestSearchDetectsThreefoldRepetitionInTree(t *testing.T) {
	pos := StartingPosition()
	eng := NewEngine(pos, NopLogger{}, Options{HashSizeMB: 1})

	// Two round trips of Ng1-f3-g1 and Ng8-f6-g8 repeat the starting
	// position for the third time; the engine should recognize the
	// draw rather than keep searching past it.
	shuffle := []string{"g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8"}
	for _, s := range shuffle {
		var buf [MaxMoves]Move
		var move Move
		found := false
		for _, m := range eng.Position.GenerateLegalMoves(buf[:0]) {
			if m.UCI() == s {
				move, found = m, true
				break
			}
		}
		if !found {
			t.Fatalf("move %s not found among legal moves", s)
		}
		eng.DoMove(move)
	}

	if score, over := eng.endPosition(); !over || score != 0 {
		t.Errorf("expected a recognized draw by repetition, got score=%d over=%v", score, over)
	}
}

func TestQuiescenceStandPatAboveBeta(t *testing.T) {
	pos := StartingPosition()
	eng := NewEngine(pos, NopLogger{}, Options{HashSizeMB: 1})
	// With beta far below any plausible eval, quiescence should return
	// immediately via the stand-pat cutoff without searching captures.
	score := eng.quiescence(-InfinityScore, -InfinityScore+1, 0)
	if score < -InfinityScore+1 {
		t.Errorf("quiescence score %d should be at least beta", score)
	}
}
