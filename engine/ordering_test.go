package engine

import "testing"

func TestOrderMovesTTMoveFirst(t *testing.T) {
	pos := StartingPosition()
	var buf [MaxMoves]Move
	moves := pos.GenerateLegalMoves(buf[:0])

	tt := moves[len(moves)-1] // pick a move that wouldn't otherwise sort first
	var killers killerTable
	var history historyTable
	ordered := orderMoves(pos, moves, tt, 0, &killers, &history)
	if ordered[0].move != tt {
		t.Errorf("TT move %v should be ordered first, got %v", tt, ordered[0].move)
	}
}

func TestOrderMovesGoodCaptureBeatsQuiet(t *testing.T) {
	pos, err := PositionFromFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var buf [MaxMoves]Move
	moves := pos.GenerateLegalMoves(buf[:0])

	var capture, quiet Move
	for _, m := range moves {
		if m.IsCapture() {
			capture = m
		} else if quiet == 0 {
			quiet = m
		}
	}
	if capture == 0 || quiet == 0 {
		t.Fatal("expected both a capture and a quiet move in this position")
	}

	var killers killerTable
	var history historyTable
	ordered := orderMoves(pos, moves, 0, 0, &killers, &history)

	captureRank, quietRank := -1, -1
	for i, sm := range ordered {
		if sm.move == capture {
			captureRank = i
		}
		if sm.move == quiet {
			quietRank = i
		}
	}
	if captureRank >= quietRank {
		t.Errorf("equal pawn capture (rank %d) should sort before a quiet move (rank %d)", captureRank, quietRank)
	}
}

func TestKillerTableRemembersTwoPerPly(t *testing.T) {
	var k killerTable
	m1 := NewMove(SquareE2, SquareE4, MoveDoublePush)
	m2 := NewMove(SquareD2, SquareD4, MoveDoublePush)
	m3 := NewMove(SquareG1, SquareF3, MoveQuiet)

	k.add(0, m1)
	k.add(0, m2)
	if !k.isKiller(0, m1) || !k.isKiller(0, m2) {
		t.Fatal("both killers should be remembered")
	}
	k.add(0, m3)
	if k.isKiller(0, m1) {
		t.Error("oldest killer should have been evicted")
	}
	if !k.isKiller(0, m2) || !k.isKiller(0, m3) {
		t.Error("the two most recent killers should remain")
	}
}

func TestHistoryTableSaturatesAndAges(t *testing.T) {
	var h historyTable
	m := NewMove(SquareE2, SquareE4, MoveDoublePush)
	for i := 0; i < 1000; i++ {
		h.bonus(White, m, 20)
	}
	if got := h.get(White, m); got != HistoryMax {
		t.Errorf("history should saturate at %d, got %d", HistoryMax, got)
	}
	h.age()
	if got := h.get(White, m); got != HistoryMax/2 {
		t.Errorf("aging should halve history, got %d want %d", got, HistoryMax/2)
	}
}
