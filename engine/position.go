// position.go implements the Position data model: per
// piece-kind and per-color bitboards plus a mailbox for O(1) point
// queries, FEN parsing/formatting, and the seven invariants that must
// hold after every make/unmake.
package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// NoSquare marks the absence of an en-passant target square. It is
// distinct from every real Square value (0..63).
const NoSquare Square = 64

// FENStartPos is the standard chess starting position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// undoInfo captures what Make cannot losslessly recompute. A stack of
// these, one per ply, lives inside Position and is
// pushed/popped by Make/Unmake.
type undoInfo struct {
	captured      ColorPiece
	captureSquare Square
	castleRights  CastleRights
	enPassant     Square
	halfmoveClock int
	zobrist       uint64
}

// Position encodes one chess board plus enough state to make/unmake
// moves and detect draws.
type Position struct {
	pieces  [PieceArraySize]Bitboard
	colors  [ColorArraySize]Bitboard
	mailbox [64]ColorPiece

	SideToMove     Color
	CastleRights   CastleRights
	EnPassant      Square
	HalfmoveClock  int
	FullmoveNumber int
	Zobrist        uint64

	undo []undoInfo
}

// NewPosition returns an empty position (side to move White, no pieces,
// move counters at their initial values). Use PositionFromFEN to build
// a real position.
func NewPosition() *Position {
	return &Position{
		EnPassant:      NoSquare,
		FullmoveNumber: 1,
	}
}

// StartingPosition returns a fresh copy of the standard initial
// position.
func StartingPosition() *Position {
	pos, err := PositionFromFEN(FENStartPos)
	if err != nil {
		panic("engine: invalid built-in starting FEN: " + err.Error())
	}
	return pos
}

// ByPiece returns the combined-color bitboard for piece kind p.
func (pos *Position) ByPiece(p Piece) Bitboard { return pos.pieces[p] }

// ByColor returns the bitboard of every square occupied by c.
func (pos *Position) ByColor(c Color) Bitboard { return pos.colors[c] }

// ByColorPiece returns the bitboard of squares occupied by piece p of
// color c.
func (pos *Position) ByColorPiece(c Color, p Piece) Bitboard {
	return pos.pieces[p] & pos.colors[c]
}

// Occupied is the bitboard of every occupied square.
func (pos *Position) Occupied() Bitboard { return pos.colors[White] | pos.colors[Black] }

// At returns the mailbox occupant of sq (NoPiece if empty).
func (pos *Position) At(sq Square) ColorPiece { return pos.mailbox[sq] }

// King returns the square of color c's king.
func (pos *Position) King(c Color) Square {
	return pos.ByColorPiece(c, King).LSB().AsSquareUnsafe()
}

// AsSquareUnsafe returns the (assumed single) square set in bb. The
// result is undefined if bb does not contain exactly one square; used
// only where an invariant (e.g. invariant 3: exactly one king) already
// guarantees that.
func (bb Bitboard) AsSquareUnsafe() Square {
	return Square(bitlen(uint64(bb)) - 1)
}

// put places piece cp on sq, updating bitboards, mailbox and zobrist.
// sq must be empty.
func (pos *Position) put(sq Square, cp ColorPiece) {
	bb := sq.Bitboard()
	pos.pieces[cp.Piece()] |= bb
	pos.colors[cp.Color()] |= bb
	pos.mailbox[sq] = cp
	pos.Zobrist ^= zobristPieceKey(cp, sq)
}

// remove clears sq, which must hold cp.
func (pos *Position) remove(sq Square, cp ColorPiece) {
	bb := ^sq.Bitboard()
	pos.pieces[cp.Piece()] &= bb
	pos.colors[cp.Color()] &= bb
	pos.mailbox[sq] = NoPiece
	pos.Zobrist ^= zobristPieceKey(cp, sq)
}

// hasPseudoLegalEnPassant reports whether some pawn of color c could
// pseudo-legally capture on ep (i.e. a capturing pawn sits on one of the
// attack-source squares). Following Stockfish's convention, this
// pseudo-legal (not full-legal, pins aside) test gates whether the ep
// square contributes to the Zobrist key.
func (pos *Position) hasPseudoLegalEnPassant(c Color, ep Square) bool {
	if ep == NoSquare {
		return false
	}
	attackers := PawnAttacks(c.Flip(), ep) & pos.ByColorPiece(c, Pawn)
	return attackers != 0
}

func (pos *Position) epZobristContribution() uint64 {
	if pos.EnPassant == NoSquare {
		return 0
	}
	if !pos.hasPseudoLegalEnPassant(pos.SideToMove, pos.EnPassant) {
		return 0
	}
	return zobristEpFile[pos.EnPassant.File()]
}

// recomputeZobrist derives the Zobrist key from scratch. Used by
// PositionFromFEN and by tests that check the incremental key against
// an independent computation.
func (pos *Position) recomputeZobrist() uint64 {
	var h uint64
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		if cp := pos.mailbox[sq]; !cp.IsEmpty() {
			h ^= zobristPieceKey(cp, sq)
		}
	}
	h ^= zobristCastle[pos.CastleRights]
	h ^= pos.epZobristContribution()
	if pos.SideToMove == Black {
		h ^= zobristSide
	}
	return h
}

// Verify checks that the color bitboards do not overlap, that the
// piece bitboards and the mailbox agree, that each side has one king,
// that no pawn stands on rank 1 or 8, and that Zobrist matches
// recomputeZobrist. En-passant and castling-rights consistency are not
// checked. It is a debugging aid, not called from the hot path.
func (pos *Position) Verify() error {
	if pos.colors[White]&pos.colors[Black] != 0 {
		return fmt.Errorf("white and black bitboards overlap")
	}
	var seen [64]bool
	for p := PieceMinValue; p <= PieceMaxValue; p++ {
		for c := Color(0); c < ColorArraySize; c++ {
			bb := pos.pieces[p] & pos.colors[c]
			for bb != 0 {
				sq := bb.Pop()
				if seen[sq] {
					return fmt.Errorf("square %v occupied by more than one piece", sq)
				}
				seen[sq] = true
				want := MakeColorPiece(c, p)
				if pos.mailbox[sq] != want {
					return fmt.Errorf("mailbox[%v] = %v, want %v", sq, pos.mailbox[sq], want)
				}
			}
		}
	}
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		if !seen[sq] && !pos.mailbox[sq].IsEmpty() {
			return fmt.Errorf("mailbox[%v] = %v but no bitboard set", sq, pos.mailbox[sq])
		}
	}
	for c := Color(0); c < ColorArraySize; c++ {
		if n := pos.ByColorPiece(c, King).Popcnt(); n != 1 {
			return fmt.Errorf("%v has %d kings, want 1", c, n)
		}
	}
	if pos.pieces[Pawn]&(BbRank1|BbRank8) != 0 {
		return fmt.Errorf("pawn on rank 1 or 8")
	}
	if got, want := pos.Zobrist, pos.recomputeZobrist(); got != want {
		return fmt.Errorf("zobrist = %#x, recomputed = %#x", got, want)
	}
	return nil
}

// --- FEN -------------------------------------------------------------

// PositionFromFEN parses fen (standard 6-field Forsyth-Edwards
// Notation) into a new Position.
func PositionFromFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return nil, fmt.Errorf("fen: expected 6 fields, got %d", len(fields))
	}

	pos := NewPosition()
	if err := parsePiecePlacement(fields[0], pos); err != nil {
		return nil, fmt.Errorf("fen: %w", err)
	}
	if err := parseSideToMove(fields[1], pos); err != nil {
		return nil, fmt.Errorf("fen: %w", err)
	}
	if err := parseCastleRights(fields[2], pos); err != nil {
		return nil, fmt.Errorf("fen: %w", err)
	}
	if err := parseEnPassant(fields[3], pos); err != nil {
		return nil, fmt.Errorf("fen: %w", err)
	}
	hm, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("fen: invalid halfmove clock: %w", err)
	}
	pos.HalfmoveClock = hm
	fm, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, fmt.Errorf("fen: invalid fullmove number: %w", err)
	}
	pos.FullmoveNumber = fm

	pos.Zobrist = pos.recomputeZobrist()
	return pos, nil
}

var fenPieceToColorPiece = map[byte]ColorPiece{
	'P': MakeColorPiece(White, Pawn), 'N': MakeColorPiece(White, Knight),
	'B': MakeColorPiece(White, Bishop), 'R': MakeColorPiece(White, Rook),
	'Q': MakeColorPiece(White, Queen), 'K': MakeColorPiece(White, King),
	'p': MakeColorPiece(Black, Pawn), 'n': MakeColorPiece(Black, Knight),
	'b': MakeColorPiece(Black, Bishop), 'r': MakeColorPiece(Black, Rook),
	'q': MakeColorPiece(Black, Queen), 'k': MakeColorPiece(Black, King),
}

func parsePiecePlacement(s string, pos *Position) error {
	ranks := strings.Split(s, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("piece placement: expected 8 ranks, got %d", len(ranks))
	}
	for i, rankStr := range ranks {
		rank := 7 - i
		file := 0
		for _, b := range []byte(rankStr) {
			if b >= '1' && b <= '8' {
				file += int(b - '0')
				continue
			}
			cp, ok := fenPieceToColorPiece[b]
			if !ok {
				return fmt.Errorf("piece placement: invalid character %q", b)
			}
			if file >= 8 {
				return fmt.Errorf("piece placement: rank %d overflows", rank+1)
			}
			pos.put(RankFile(rank, file), cp)
			file++
		}
		if file != 8 {
			return fmt.Errorf("piece placement: rank %d has %d files, want 8", rank+1, file)
		}
	}
	return nil
}

func parseSideToMove(s string, pos *Position) error {
	switch s {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return fmt.Errorf("side to move: invalid value %q", s)
	}
	return nil
}

func parseCastleRights(s string, pos *Position) error {
	if s == "-" {
		return nil
	}
	for _, b := range []byte(s) {
		switch b {
		case 'K':
			pos.CastleRights |= WhiteKingSide
		case 'Q':
			pos.CastleRights |= WhiteQueenSide
		case 'k':
			pos.CastleRights |= BlackKingSide
		case 'q':
			pos.CastleRights |= BlackQueenSide
		default:
			return fmt.Errorf("castling ability: invalid character %q", b)
		}
	}
	return nil
}

func parseEnPassant(s string, pos *Position) error {
	if s == "-" {
		pos.EnPassant = NoSquare
		return nil
	}
	sq, err := SquareFromString(s)
	if err != nil {
		return fmt.Errorf("en passant square: %w", err)
	}
	pos.EnPassant = sq
	return nil
}

// String formats pos as a FEN string.
func (pos *Position) String() string {
	var b strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			cp := pos.mailbox[RankFile(rank, file)]
			if cp.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				b.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			b.WriteString(cp.String())
		}
		if empty > 0 {
			b.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			b.WriteByte('/')
		}
	}
	if pos.SideToMove == White {
		b.WriteString(" w ")
	} else {
		b.WriteString(" b ")
	}
	b.WriteString(pos.CastleRights.String())
	b.WriteByte(' ')
	if pos.EnPassant == NoSquare {
		b.WriteByte('-')
	} else {
		b.WriteString(pos.EnPassant.String())
	}
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(pos.HalfmoveClock))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(pos.FullmoveNumber))
	return b.String()
}

// DebugString renders pos as an 8x8 ASCII board for logging, grounded
// on the pack's board pretty-printers (e.g. zully-chess-engine).
func (pos *Position) DebugString() string {
	var b strings.Builder
	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			b.WriteString(pos.mailbox[RankFile(rank, file)].String())
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
