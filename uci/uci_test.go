package uci

import (
	"bytes"
	"strings"
	"testing"
)

func TestUCIHandshake(t *testing.T) {
	var out bytes.Buffer
	u := New(&out)

	if err := u.Execute("uci"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "uciok") {
		t.Errorf("expected uciok in response, got %q", out.String())
	}

	out.Reset()
	if err := u.Execute("isready"); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "readyok" {
		t.Errorf("isready should respond readyok, got %q", out.String())
	}
}

func TestUCIPositionStartpos(t *testing.T) {
	var out bytes.Buffer
	u := New(&out)
	if err := u.Execute("position startpos"); err != nil {
		t.Fatal(err)
	}
	if got, want := u.Engine.Position.String(), "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"; got != want {
		t.Errorf("position = %q, want %q", got, want)
	}
}

func TestUCIPositionWithMoves(t *testing.T) {
	var out bytes.Buffer
	u := New(&out)
	if err := u.Execute("position startpos moves e2e4 e7e5"); err != nil {
		t.Fatal(err)
	}
	fen := u.Engine.Position.String()
	if !strings.HasPrefix(fen, "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR") {
		t.Errorf("unexpected position after e2e4 e7e5: %q", fen)
	}
}

func TestUCIPositionFEN(t *testing.T) {
	var out bytes.Buffer
	u := New(&out)
	fen := "r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3"
	if err := u.Execute("position fen " + fen); err != nil {
		t.Fatal(err)
	}
	if got := u.Engine.Position.String(); got != fen {
		t.Errorf("position fen = %q, want %q", got, fen)
	}
}

func TestUCISetOptionHash(t *testing.T) {
	var out bytes.Buffer
	u := New(&out)
	if err := u.Execute("setoption name Hash value 16"); err != nil {
		t.Fatal(err)
	}
	if u.Engine.Options.HashSizeMB != 16 {
		t.Errorf("Hash option did not apply, got %d", u.Engine.Options.HashSizeMB)
	}
}

func TestUCIQuitReturnsErrQuit(t *testing.T) {
	var out bytes.Buffer
	u := New(&out)
	if err := u.Execute("quit"); err != errQuit {
		t.Errorf("expected errQuit, got %v", err)
	}
}

func TestUCIGoDepthAndStop(t *testing.T) {
	var out bytes.Buffer
	u := New(&out)
	if err := u.Execute("position startpos"); err != nil {
		t.Fatal(err)
	}
	if err := u.Execute("go depth 2"); err != nil {
		t.Fatal(err)
	}
	if err := u.Execute("stop"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "bestmove") {
		t.Errorf("expected a bestmove line after stop, got %q", out.String())
	}
}
