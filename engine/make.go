// make.go implements Position.Make/Unmake. Make
// assumes m is pseudo-legal with a populated `from` square; violating
// that is a programmer error (see DESIGN.md's error-handling section).
package engine

// lostCastleRights[sq] is the mask of castling rights lost whenever a
// move's `from` or `to` square is sq (king or rook leaving/arriving, or
// a rook being captured on its home square).
var lostCastleRights [64]CastleRights

func init() {
	lostCastleRights[SquareA1] = WhiteQueenSide
	lostCastleRights[SquareE1] = WhiteQueenSide | WhiteKingSide
	lostCastleRights[SquareH1] = WhiteKingSide
	lostCastleRights[SquareA8] = BlackQueenSide
	lostCastleRights[SquareE8] = BlackQueenSide | BlackKingSide
	lostCastleRights[SquareH8] = BlackKingSide
}

// castlingRook returns the rook piece and its home/jump squares for a
// king moving to kingTo during castling.
func castlingRook(kingTo Square) (ColorPiece, Square, Square) {
	switch kingTo {
	case SquareG1:
		return MakeColorPiece(White, Rook), SquareH1, SquareF1
	case SquareC1:
		return MakeColorPiece(White, Rook), SquareA1, SquareD1
	case SquareG8:
		return MakeColorPiece(Black, Rook), SquareH8, SquareF8
	case SquareC8:
		return MakeColorPiece(Black, Rook), SquareA8, SquareD8
	}
	panic("engine: invalid castling king destination")
}

// Make applies move m, returning nothing: the UndoInfo needed to
// reverse it is pushed onto pos's own undo stack (indexed by ply,
// popped by the matching Unmake). After Make returns, SideToMove is
// flipped and every position invariant holds.
func (pos *Position) Make(m Move) {
	from, to, flag := m.From(), m.To(), m.Flag()
	mover := pos.mailbox[from]

	capSq := to
	if flag == MoveEnPassant {
		capSq = RankFile(from.Rank(), to.File())
	}
	captured := NoPiece
	if m.IsCapture() {
		captured = pos.mailbox[capSq]
	}

	pos.undo = append(pos.undo, undoInfo{
		captured:      captured,
		captureSquare: capSq,
		castleRights:  pos.CastleRights,
		enPassant:     pos.EnPassant,
		halfmoveClock: pos.HalfmoveClock,
		zobrist:       pos.Zobrist,
	})

	// XOR out the composite state about to change; piece moves below
	// update pos.Zobrist incrementally via put/remove.
	pos.Zobrist ^= zobristCastle[pos.CastleRights]
	pos.Zobrist ^= pos.epZobristContribution()

	pos.remove(from, mover)
	if captured != NoPiece {
		pos.remove(capSq, captured)
	}

	placed := mover
	if m.IsPromotion() {
		placed = MakeColorPiece(pos.SideToMove, m.PromotionPiece())
	}
	pos.put(to, placed)

	if flag == MoveCastle {
		rook, rookFrom, rookTo := castlingRook(to)
		pos.remove(rookFrom, rook)
		pos.put(rookTo, rook)
	}

	if mover.Piece() == Pawn || captured != NoPiece {
		pos.HalfmoveClock = 0
	} else {
		pos.HalfmoveClock++
	}

	if flag == MoveDoublePush {
		pos.EnPassant = RankFile((from.Rank()+to.Rank())/2, from.File())
	} else {
		pos.EnPassant = NoSquare
	}

	pos.CastleRights &^= lostCastleRights[from] | lostCastleRights[to]

	if pos.SideToMove == Black {
		pos.FullmoveNumber++
	}
	pos.SideToMove = pos.SideToMove.Flip()

	pos.Zobrist ^= zobristCastle[pos.CastleRights]
	pos.Zobrist ^= pos.epZobristContribution()
	pos.Zobrist ^= zobristSide
}

// Unmake reverses the most recent Make(m) call. It must be called with
// the same move passed to that Make, in strict LIFO order, and
// restores pos bit-for-bit, including Zobrist.
func (pos *Position) Unmake(m Move) {
	u := pos.undo[len(pos.undo)-1]
	pos.undo = pos.undo[:len(pos.undo)-1]

	pos.SideToMove = pos.SideToMove.Flip()
	from, to, flag := m.From(), m.To(), m.Flag()

	placed := pos.mailbox[to]
	pos.remove(to, placed)

	moverPiece := placed.Piece()
	if m.IsPromotion() {
		moverPiece = Pawn
	}
	pos.put(from, MakeColorPiece(pos.SideToMove, moverPiece))

	if u.captured != NoPiece {
		pos.put(u.captureSquare, u.captured)
	}

	if flag == MoveCastle {
		rook, rookFrom, rookTo := castlingRook(to)
		pos.remove(rookTo, rook)
		pos.put(rookFrom, rook)
	}

	if pos.SideToMove == Black {
		pos.FullmoveNumber--
	}

	pos.CastleRights = u.castleRights
	pos.EnPassant = u.enPassant
	pos.HalfmoveClock = u.halfmoveClock
	pos.Zobrist = u.zobrist
}

// MakeNull makes a null move: flips side to move, clears en passant,
// leaves everything else untouched. Used by null-move pruning
// for null-move pruning. UnmakeNull reverses it.
func (pos *Position) MakeNull() undoInfo {
	u := undoInfo{
		castleRights:  pos.CastleRights,
		enPassant:     pos.EnPassant,
		halfmoveClock: pos.HalfmoveClock,
		zobrist:       pos.Zobrist,
	}
	pos.Zobrist ^= pos.epZobristContribution()
	pos.EnPassant = NoSquare
	pos.SideToMove = pos.SideToMove.Flip()
	pos.Zobrist ^= pos.epZobristContribution()
	pos.Zobrist ^= zobristSide
	return u
}

// UnmakeNull reverses MakeNull given the undoInfo it returned.
func (pos *Position) UnmakeNull(u undoInfo) {
	pos.SideToMove = pos.SideToMove.Flip()
	pos.EnPassant = u.enPassant
	pos.Zobrist = u.zobrist
}
