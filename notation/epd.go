// Package notation parses chess positions in FEN and EPD notation,
// used to load tactical test suites for regression checks.
package notation

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/PS-Wizard/OopsMate/engine"
)

// EPD is one record of an Extended Position Description file: a
// position plus named opcodes, of which "bm" (best move), "am"
// (avoid move) and "id" (record name) are recognized.
type EPD struct {
	Position *engine.Position
	ID       string
	BestMove []engine.Move
	AvoidMove []engine.Move
	Comment  map[string]string
}

// ParseFEN parses a bare FEN string (all six space-separated fields,
// no opcodes) into an EPD with no operations.
func ParseFEN(line string) (*EPD, error) {
	pos, err := engine.PositionFromFEN(strings.TrimSpace(line))
	if err != nil {
		return nil, err
	}
	return &EPD{Position: pos, Comment: map[string]string{}}, nil
}

// ParseEPD parses one EPD record: four FEN-like fields (piece
// placement, side to move, castling rights, en passant square --
// halfmove/fullmove counters are omitted in EPD, unlike FEN) followed
// by semicolon-terminated opcodes, e.g.:
//
//	r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - bm Ng5; id "opening.1";
func ParseEPD(line string) (*EPD, error) {
	line = strings.TrimSpace(line)
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, fmt.Errorf("epd: too few fields in %q", line)
	}
	fen := strings.Join(fields[:4], " ") + " 0 1"
	pos, err := engine.PositionFromFEN(fen)
	if err != nil {
		return nil, fmt.Errorf("epd: %v", err)
	}

	epd := &EPD{Position: pos, Comment: map[string]string{}}
	rest := strings.Join(fields[4:], " ")
	for _, op := range splitOperations(rest) {
		op = strings.TrimSpace(op)
		if op == "" {
			continue
		}
		if err := epd.applyOperation(pos, op); err != nil {
			return nil, err
		}
	}

	slices.SortFunc(epd.BestMove, func(a, b engine.Move) int { return strings.Compare(a.UCI(), b.UCI()) })
	slices.SortFunc(epd.AvoidMove, func(a, b engine.Move) int { return strings.Compare(a.UCI(), b.UCI()) })
	return epd, nil
}

// splitOperations splits an EPD opcode string on the semicolons that
// terminate each operation, respecting double-quoted string operands
// that may themselves contain no semicolons (but could in principle).
func splitOperations(s string) []string {
	var ops []string
	inQuote := false
	start := 0
	for i, r := range s {
		switch r {
		case '"':
			inQuote = !inQuote
		case ';':
			if !inQuote {
				ops = append(ops, s[start:i])
				start = i + 1
			}
		}
	}
	if start < len(s) {
		ops = append(ops, s[start:])
	}
	return ops
}

func (epd *EPD) applyOperation(pos *engine.Position, op string) error {
	name, operand, _ := strings.Cut(strings.TrimSpace(op), " ")
	operand = strings.Trim(strings.TrimSpace(operand), `"`)

	switch name {
	case "bm":
		moves, err := parseSANList(pos, operand)
		if err != nil {
			return fmt.Errorf("epd: bm: %v", err)
		}
		epd.BestMove = append(epd.BestMove, moves...)
	case "am":
		moves, err := parseSANList(pos, operand)
		if err != nil {
			return fmt.Errorf("epd: am: %v", err)
		}
		epd.AvoidMove = append(epd.AvoidMove, moves...)
	case "id":
		epd.ID = operand
	default:
		epd.Comment[name] = operand
	}
	return nil
}

// parseSANList resolves a whitespace-separated list of SAN (or long
// algebraic) moves against pos's legal moves.
func parseSANList(pos *engine.Position, s string) ([]engine.Move, error) {
	var moves []engine.Move
	for _, tok := range strings.Fields(s) {
		m, err := ResolveSAN(pos, tok)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

// String renders epd back into EPD record form.
func (epd *EPD) String() string {
	fields := strings.Fields(epd.Position.String())
	var b strings.Builder
	b.WriteString(strings.Join(fields[:4], " "))
	for _, m := range epd.BestMove {
		fmt.Fprintf(&b, " bm %s;", m.UCI())
	}
	for _, m := range epd.AvoidMove {
		fmt.Fprintf(&b, " am %s;", m.UCI())
	}
	if epd.ID != "" {
		fmt.Fprintf(&b, ` id "%s";`, epd.ID)
	}
	return b.String()
}
