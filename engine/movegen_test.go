package engine

import "testing"

func perft(pos *Position, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	buf := make([]Move, 0, MaxMoves)
	for _, m := range pos.GenerateLegalMoves(buf) {
		pos.Make(m)
		nodes += perft(pos, depth-1)
		pos.Unmake(m)
	}
	return nodes
}

const fenKiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
const fenPosition3 = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
const fenPosition4 = "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1"
const fenPosition5 = "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8"
const fenPosition6 = "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10"

func TestPerftStartingPosition(t *testing.T) {
	cases := []struct {
		depth int
		nodes uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}
	for _, c := range cases {
		pos := StartingPosition()
		if got := perft(pos, c.depth); got != c.nodes {
			t.Errorf("perft(start, %d) = %d, want %d", c.depth, got, c.nodes)
		}
		if err := pos.Verify(); err != nil {
			t.Errorf("depth %d left position inconsistent: %v", c.depth, err)
		}
	}
}

func TestPerftKiwipete(t *testing.T) {
	cases := []struct {
		depth int
		nodes uint64
	}{
		{1, 48},
		{2, 2039},
		{3, 97862},
	}
	for _, c := range cases {
		pos, err := PositionFromFEN(fenKiwipete)
		if err != nil {
			t.Fatal(err)
		}
		if got := perft(pos, c.depth); got != c.nodes {
			t.Errorf("perft(kiwipete, %d) = %d, want %d", c.depth, got, c.nodes)
		}
	}
}

func TestPerftPosition3(t *testing.T) {
	cases := []struct {
		depth int
		nodes uint64
	}{
		{1, 14},
		{2, 191},
		{3, 2812},
		{4, 43238},
	}
	for _, c := range cases {
		pos, err := PositionFromFEN(fenPosition3)
		if err != nil {
			t.Fatal(err)
		}
		if got := perft(pos, c.depth); got != c.nodes {
			t.Errorf("perft(position3, %d) = %d, want %d", c.depth, got, c.nodes)
		}
	}
}

func TestPerftPosition4(t *testing.T) {
	cases := []struct {
		depth int
		nodes uint64
	}{
		{1, 6},
		{2, 264},
		{3, 9467},
	}
	for _, c := range cases {
		pos, err := PositionFromFEN(fenPosition4)
		if err != nil {
			t.Fatal(err)
		}
		if got := perft(pos, c.depth); got != c.nodes {
			t.Errorf("perft(position4, %d) = %d, want %d", c.depth, got, c.nodes)
		}
	}
}

func TestPerftPosition5(t *testing.T) {
	pos, err := PositionFromFEN(fenPosition5)
	if err != nil {
		t.Fatal(err)
	}
	if got := perft(pos, 1); got != 44 {
		t.Errorf("perft(position5, 1) = %d, want 44", got)
	}
	if got := perft(pos, 2); got != 1486 {
		t.Errorf("perft(position5, 2) = %d, want 1486", got)
	}
}

func TestPerftPosition6(t *testing.T) {
	pos, err := PositionFromFEN(fenPosition6)
	if err != nil {
		t.Fatal(err)
	}
	if got := perft(pos, 1); got != 46 {
		t.Errorf("perft(position6, 1) = %d, want 46", got)
	}
	if got := perft(pos, 2); got != 2079 {
		t.Errorf("perft(position6, 2) = %d, want 2079", got)
	}
}

// TestEnPassantPinOnRank verifies the classic 5th-rank en-passant pin:
// capturing en passant would remove both pawns and expose the king to a
// rook along the rank, so the capture must not be generated.
func TestEnPassantPinOnRank(t *testing.T) {
	pos, err := PositionFromFEN("8/8/8/K2pP2r/8/8/8/7k w - d6 0 1")
	if err != nil {
		t.Fatal(err)
	}
	moves := pos.GenerateLegalMoves(make([]Move, 0, MaxMoves))
	for _, m := range moves {
		if m.Flag() == MoveEnPassant {
			t.Errorf("en passant capture %v should be illegal (rank pin through king)", m)
		}
	}
}

// TestEnPassantResolvesCheck verifies that an en-passant capture of a
// pawn that just gave check is legal even though its destination square
// is not the checker's square.
func TestEnPassantResolvesCheck(t *testing.T) {
	// Black pawn e5 just double-pushed and checks the white king on f4;
	// d5xe6 e.p. captures it, so it must appear despite e6 not being the
	// checker's square.
	pos, err := PositionFromFEN("k7/8/8/3Pp3/5K2/8/8/8 w - e6 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.InCheck() {
		t.Fatal("test position should have white in check")
	}
	moves := pos.GenerateLegalMoves(make([]Move, 0, MaxMoves))
	found := false
	for _, m := range moves {
		if m.Flag() == MoveEnPassant {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a legal en passant move in %v, got %v", pos, moves)
	}
}

func TestPinnedPieceRestrictedToRay(t *testing.T) {
	// Black queen e8 pins the white rook e4 to the white king e1 along the
	// e-file: the rook may only move within that file.
	pos, err := PositionFromFEN("k3q3/8/8/8/4R3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	allowed := map[Square]bool{
		SquareE2: true, SquareE3: true, SquareE5: true,
		SquareE6: true, SquareE7: true, SquareE8: true,
	}
	moves := pos.GenerateLegalMoves(make([]Move, 0, MaxMoves))
	sawRookMove := false
	for _, m := range moves {
		if m.From() == SquareE4 {
			sawRookMove = true
			if !allowed[m.To()] {
				t.Errorf("pinned rook made illegal move %v", m)
			}
		}
	}
	if !sawRookMove {
		t.Error("expected the pinned rook to have some legal moves along the file")
	}
}

func TestCastlingThroughCheckIsIllegal(t *testing.T) {
	// White has kingside rights and an empty f1/g1, but black's rook on
	// f8 attacks f1, a square the king must pass through.
	pos, err := PositionFromFEN("4kr2/8/8/8/8/8/8/4K2R w K - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	moves := pos.GenerateLegalMoves(make([]Move, 0, MaxMoves))
	for _, m := range moves {
		if m.Flag() == MoveCastle && m.To() == SquareG1 {
			t.Errorf("white kingside castle should be illegal: f1 is attacked")
		}
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// Rook e6 checks along the e-file and knight d3 checks the king
	// simultaneously: only king moves can be legal.
	pos, err := PositionFromFEN("4k3/8/4r3/8/8/3n4/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if !pos.InCheck() {
		t.Fatal("test position should have white in check")
	}
	moves := pos.GenerateLegalMoves(make([]Move, 0, MaxMoves))
	for _, m := range moves {
		if m.From() != SquareE1 {
			t.Errorf("move %v by non-king piece illegal under double check", m)
		}
	}
}
