package engine

// Move is a position-independent 16-bit packed move: from (bits 0-5),
// to (bits 6-11), flags (bits 12-15). See DESIGN.md for the
// capture-promotion flag assignment, which extends the original
// flag values into the unused 12-15 range instead of OR-ing the
// Capture bit into the 8-11 promotion flags (which would collide).
type Move uint16

// MoveFlag is the 4-bit tag describing what kind of move it is.
type MoveFlag uint8

const (
	MoveQuiet      MoveFlag = 0
	MoveCapture    MoveFlag = 1
	MoveDoublePush MoveFlag = 2
	MoveEnPassant  MoveFlag = 3
	MoveCastle     MoveFlag = 4

	MovePromoKnight MoveFlag = 8
	MovePromoBishop MoveFlag = 9
	MovePromoRook   MoveFlag = 10
	MovePromoQueen  MoveFlag = 11

	// Capture-promotions: see the spec-ambiguity note above.
	MovePromoKnightCapture MoveFlag = 12
	MovePromoBishopCapture MoveFlag = 13
	MovePromoRookCapture   MoveFlag = 14
	MovePromoQueenCapture  MoveFlag = 15
)

// NullMove is the distinguished all-zero value reserved by the move
// representation. No generator ever produces it; it is used internally
// by the search as a sentinel and to implement the null-move heuristic.
const NullMove Move = 0

// NewMove packs from, to and flag into a Move.
func NewMove(from, to Square, flag MoveFlag) Move {
	return Move(from) | Move(to)<<6 | Move(flag)<<12
}

func (m Move) From() Square   { return Square(m & 0x3f) }
func (m Move) To() Square     { return Square((m >> 6) & 0x3f) }
func (m Move) Flag() MoveFlag { return MoveFlag(m >> 12) }

// IsPromotion reports whether m promotes a pawn.
func (m Move) IsPromotion() bool { return m.Flag() >= MovePromoKnight }

// IsCapture reports whether m captures an enemy piece (including en
// passant and capture-promotions).
func (m Move) IsCapture() bool {
	f := m.Flag()
	return f == MoveCapture || f == MoveEnPassant || (f >= MovePromoKnightCapture && f <= MovePromoQueenCapture)
}

// IsQuiet reports whether m is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return m.Flag() == MoveQuiet || m.Flag() == MoveDoublePush || m.Flag() == MoveCastle
}

// PromotionPiece returns the piece m promotes to. Result is undefined
// if !m.IsPromotion().
func (m Move) PromotionPiece() Piece {
	return Knight + Piece(m.Flag()&3)
}

var promoSymbol = [4]byte{'n', 'b', 'r', 'q'}

// UCI converts m to UCI long algebraic notation, e.g. "e2e4", "e7e8q".
func (m Move) UCI() string {
	s := m.From().String() + m.To().String()
	if m.IsPromotion() {
		s += string(promoSymbol[m.Flag()&3])
	}
	return s
}

func (m Move) String() string { return m.UCI() }
