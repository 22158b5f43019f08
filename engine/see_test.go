package engine

import "testing"

func TestSEESimpleTrade(t *testing.T) {
	// White rook takes an undefended pawn: wins the pawn outright.
	pos, err := PositionFromFEN("4k3/8/8/3p4/8/8/8/3RK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m := NewMove(SquareD1, SquareD5, MoveCapture)
	if got, want := pos.SEE(m), int32(seeValue[Pawn]); got != want {
		t.Errorf("SEE(RxP undefended) = %d, want %d", got, want)
	}
}

func TestSEELosingCapture(t *testing.T) {
	// White rook takes a pawn defended by a bishop: rook for pawn, a losing trade.
	pos, err := PositionFromFEN("4k3/8/2b5/3p4/8/8/8/3RK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m := NewMove(SquareD1, SquareD5, MoveCapture)
	want := int32(seeValue[Pawn]) - int32(seeValue[Rook])
	if got := pos.SEE(m); got != want {
		t.Errorf("SEE(RxP defended by bishop) = %d, want %d", got, want)
	}
	if !pos.seeSign(m) {
		t.Error("seeSign should report this capture as losing")
	}
}

func TestSEEEqualPawnTrade(t *testing.T) {
	pos, err := PositionFromFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	m := NewMove(SquareE4, SquareD5, MoveCapture)
	if got, want := pos.SEE(m), int32(seeValue[Pawn]); got != want {
		t.Errorf("SEE(PxP undefended) = %d, want %d", got, want)
	}
}

func TestSEEQuietMoveIsZero(t *testing.T) {
	pos := StartingPosition()
	m := NewMove(SquareE2, SquareE4, MoveDoublePush)
	if got := pos.SEE(m); got != 0 {
		t.Errorf("SEE(quiet push) = %d, want 0", got)
	}
}
