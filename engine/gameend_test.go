package engine

import "testing"

func TestInsufficientMaterialBareKings(t *testing.T) {
	pos, err := PositionFromFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.InsufficientMaterial() {
		t.Error("bare kings should be insufficient material")
	}
}

func TestInsufficientMaterialKingAndKnight(t *testing.T) {
	pos, err := PositionFromFEN("4k3/8/8/8/8/8/8/3NK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.InsufficientMaterial() {
		t.Error("K+N vs K should be insufficient material")
	}
}

func TestInsufficientMaterialSameColorBishops(t *testing.T) {
	pos, err := PositionFromFEN("4k3/8/8/8/8/1b6/8/3BK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.InsufficientMaterial() {
		t.Error("bishops on the same color should be insufficient material")
	}
}

func TestSufficientMaterialOppositeColorBishops(t *testing.T) {
	pos, err := PositionFromFEN("4k3/8/8/8/8/2b5/8/3BK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if pos.InsufficientMaterial() {
		t.Error("opposite-colored bishops is not automatically a draw")
	}
}

func TestSufficientMaterialRook(t *testing.T) {
	pos, err := PositionFromFEN("4k3/8/8/8/8/8/8/3RK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if pos.InsufficientMaterial() {
		t.Error("K+R vs K has sufficient mating material")
	}
}

func TestFiftyMoveRule(t *testing.T) {
	pos := StartingPosition()
	pos.HalfmoveClock = 99
	if pos.FiftyMoveRule() {
		t.Error("99 halfmoves should not yet trigger the fifty-move rule")
	}
	pos.HalfmoveClock = 100
	if !pos.FiftyMoveRule() {
		t.Error("100 halfmoves should trigger the fifty-move rule")
	}
}

func TestThreeFoldRepetition(t *testing.T) {
	history := []uint64{1, 2, 3, 2, 4, 2}
	if got := ThreeFoldRepetition(history, 2); got != 3 {
		t.Errorf("ThreeFoldRepetition = %d, want 3", got)
	}
	if got := ThreeFoldRepetition(history, 3); got != 1 {
		t.Errorf("ThreeFoldRepetition = %d, want 1", got)
	}
	if got := ThreeFoldRepetition(history, 99); got != 0 {
		t.Errorf("ThreeFoldRepetition = %d, want 0", got)
	}
}
