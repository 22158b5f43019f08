package notation

import (
	"testing"

	"github.com/PS-Wizard/OopsMate/engine"
)

func TestFormatSANQuietAndCapture(t *testing.T) {
	pos, err := engine.PositionFromFEN("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var buf [engine.MaxMoves]engine.Move
	for _, m := range pos.GenerateLegalMoves(buf[:0]) {
		if m.UCI() == "e4d5" {
			if got, want := FormatSAN(pos, m), "exd5"; got != want {
				t.Errorf("FormatSAN(exd5 capture) = %q, want %q", got, want)
			}
		}
		if m.UCI() == "e4e5" {
			if got, want := FormatSAN(pos, m), "e5"; got != want {
				t.Errorf("FormatSAN(quiet push) = %q, want %q", got, want)
			}
		}
	}
}

func TestFormatSANCastling(t *testing.T) {
	pos, err := engine.PositionFromFEN("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var buf [engine.MaxMoves]engine.Move
	for _, m := range pos.GenerateLegalMoves(buf[:0]) {
		switch m.UCI() {
		case "e1g1":
			if got, want := FormatSAN(pos, m), "O-O"; got != want {
				t.Errorf("kingside castle SAN = %q, want %q", got, want)
			}
		case "e1c1":
			if got, want := FormatSAN(pos, m), "O-O-O"; got != want {
				t.Errorf("queenside castle SAN = %q, want %q", got, want)
			}
		}
	}
}

func TestFormatSANDisambiguatesByFile(t *testing.T) {
	// Two white knights can both reach d2: the one on b1 and the one on f3.
	pos, err := engine.PositionFromFEN("4k3/8/8/8/8/5N2/8/1N2K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var buf [engine.MaxMoves]engine.Move
	for _, m := range pos.GenerateLegalMoves(buf[:0]) {
		switch m.UCI() {
		case "b1d2":
			if got, want := FormatSAN(pos, m), "Nbd2"; got != want {
				t.Errorf("disambiguated SAN = %q, want %q", got, want)
			}
		case "f3d2":
			if got, want := FormatSAN(pos, m), "Nfd2"; got != want {
				t.Errorf("disambiguated SAN = %q, want %q", got, want)
			}
		}
	}
}

func TestFormatSANCheckAndMateSuffix(t *testing.T) {
	pos, err := engine.PositionFromFEN("6k1/5ppp/8/8/8/8/6PP/R5K1 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	var buf [engine.MaxMoves]engine.Move
	for _, m := range pos.GenerateLegalMoves(buf[:0]) {
		if m.UCI() == "a1a8" {
			if got, want := FormatSAN(pos, m), "Ra8#"; got != want {
				t.Errorf("FormatSAN(back rank mate) = %q, want %q", got, want)
			}
		}
	}
}

func TestResolveSANLongAlgebraicAndSAN(t *testing.T) {
	pos, err := engine.PositionFromFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	wantUCI := "e2e4"

	got, err := ResolveSAN(pos, "e2e4")
	if err != nil {
		t.Fatal(err)
	}
	if got.UCI() != wantUCI {
		t.Errorf("ResolveSAN(long algebraic) = %s, want %s", got.UCI(), wantUCI)
	}

	got, err = ResolveSAN(pos, "e4")
	if err != nil {
		t.Fatal(err)
	}
	if got.UCI() != wantUCI {
		t.Errorf("ResolveSAN(SAN) = %s, want %s", got.UCI(), wantUCI)
	}
}

func TestResolveSANUnknownMove(t *testing.T) {
	pos, err := engine.PositionFromFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ResolveSAN(pos, "Qh5"); err == nil {
		t.Error("expected an error resolving a move that isn't legal in this position")
	}
}
