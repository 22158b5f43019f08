package notation

import (
	"fmt"
	"strings"

	"github.com/PS-Wizard/OopsMate/engine"
)

var pieceLetter = [engine.PieceArraySize]string{
	engine.Pawn: "", engine.Knight: "N", engine.Bishop: "B",
	engine.Rook: "R", engine.Queen: "Q", engine.King: "K",
}

// FormatSAN renders move, played from pos, in standard algebraic
// notation, disambiguating by file/rank/square only as much as the
// position requires and appending '+'/'#' for check/checkmate.
func FormatSAN(pos *engine.Position, move engine.Move) string {
	piece := pos.At(move.From()).Piece()

	if move.Flag() == engine.MoveCastle {
		if move.To().File() == 6 { // g-file: kingside
			return withCheckSuffix(pos, move, "O-O")
		}
		return withCheckSuffix(pos, move, "O-O-O")
	}

	var b strings.Builder
	b.WriteString(pieceLetter[piece])

	if piece == engine.Pawn {
		if move.IsCapture() {
			b.WriteByte("abcdefgh"[move.From().File()])
		}
	} else {
		b.WriteString(disambiguation(pos, move, piece))
	}

	if move.IsCapture() {
		b.WriteByte('x')
	}
	b.WriteString(move.To().String())

	if move.IsPromotion() {
		b.WriteByte('=')
		b.WriteString(pieceLetter[move.PromotionPiece()])
	}

	return withCheckSuffix(pos, move, b.String())
}

// disambiguation returns the minimal file/rank/square prefix needed to
// distinguish move from any other legal move of the same piece kind
// to the same destination square.
func disambiguation(pos *engine.Position, move engine.Move, piece engine.Piece) string {
	var buf [engine.MaxMoves]engine.Move
	sameFile, sameRank, ambiguous := false, false, false
	for _, m := range pos.GenerateLegalMoves(buf[:0]) {
		if m == move || m.To() != move.To() || pos.At(m.From()).Piece() != piece {
			continue
		}
		ambiguous = true
		if m.From().File() == move.From().File() {
			sameFile = true
		}
		if m.From().Rank() == move.From().Rank() {
			sameRank = true
		}
	}
	if !ambiguous {
		return ""
	}
	if !sameFile {
		return string("abcdefgh"[move.From().File()])
	}
	if !sameRank {
		return move.From().String()[1:]
	}
	return move.From().String()
}

func withCheckSuffix(pos *engine.Position, move engine.Move, s string) string {
	pos.Make(move)
	defer pos.Unmake(move)
	if !pos.InCheck() {
		return s
	}
	var buf [engine.MaxMoves]engine.Move
	if len(pos.GenerateLegalMoves(buf[:0])) == 0 {
		return s + "#"
	}
	return s + "+"
}

// ResolveSAN matches a SAN or long-algebraic token against pos's
// legal moves. Check/checkmate suffixes and capture "x" markers are
// ignored on input, matching the looser grammar real test suites use.
func ResolveSAN(pos *engine.Position, token string) (engine.Move, error) {
	clean := strings.TrimRight(token, "+#")
	clean = strings.ReplaceAll(clean, "e.p.", "")

	var buf [engine.MaxMoves]engine.Move
	moves := pos.GenerateLegalMoves(buf[:0])

	// Long algebraic ("e2e4", "e7e8q") matches Move.UCI() exactly.
	for _, m := range moves {
		if m.UCI() == clean {
			return m, nil
		}
	}

	normalized := normalizeCastle(clean)
	for _, m := range moves {
		if stripX(FormatSAN(pos, m)) == stripX(normalized) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("notation: no legal move matches %q", token)
}

func normalizeCastle(s string) string {
	switch strings.ToUpper(s) {
	case "O-O", "0-0":
		return "O-O"
	case "O-O-O", "0-0-0":
		return "O-O-O"
	default:
		return s
	}
}

func stripX(s string) string {
	s = strings.ReplaceAll(s, "x", "")
	return strings.TrimRight(s, "+#")
}
