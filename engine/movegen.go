// movegen.go generates strictly legal moves:
// legal-by-construction rather than generate-then-filter. Pins and
// checkers are computed once per node and shared by every piece-type
// generator.
package engine

// MaxMoves bounds the legal move buffer; 218 is the highest move count
// reachable from any legal chess position.
const MaxMoves = 218

// attackersTo returns the bitboard of `by`-colored pieces that attack
// sq on the current board.
func attackersTo(pos *Position, sq Square, by Color) Bitboard {
	occ := pos.Occupied()
	att := PawnAttacks(by.Flip(), sq) & pos.ByColorPiece(by, Pawn)
	att |= KnightAttacks(sq) & pos.ByColorPiece(by, Knight)
	att |= KingAttacks(sq) & pos.ByColorPiece(by, King)
	att |= BishopAttacks(sq, occ) & (pos.ByColorPiece(by, Bishop) | pos.ByColorPiece(by, Queen))
	att |= RookAttacks(sq, occ) & (pos.ByColorPiece(by, Rook) | pos.ByColorPiece(by, Queen))
	return att
}

// InCheck reports whether the side to move's king is currently attacked.
func (pos *Position) InCheck() bool {
	return attackersTo(pos, pos.King(pos.SideToMove), pos.SideToMove.Flip()) != 0
}

// attacksBySide returns every square attacked by side, given occ as the
// blocker set (the caller controls whether the defending king's own
// square is included).
func attacksBySide(pos *Position, side Color, occ Bitboard) Bitboard {
	var bb Bitboard
	for bp := pos.ByColorPiece(side, Pawn); bp != 0; {
		bb |= PawnAttacks(side, bp.Pop())
	}
	for bn := pos.ByColorPiece(side, Knight); bn != 0; {
		bb |= KnightAttacks(bn.Pop())
	}
	bishopsQueens := pos.ByColorPiece(side, Bishop) | pos.ByColorPiece(side, Queen)
	for bb2 := bishopsQueens; bb2 != 0; {
		bb |= BishopAttacks(bb2.Pop(), occ)
	}
	rooksQueens := pos.ByColorPiece(side, Rook) | pos.ByColorPiece(side, Queen)
	for bb2 := rooksQueens; bb2 != 0; {
		bb |= RookAttacks(bb2.Pop(), occ)
	}
	bb |= KingAttacks(pos.King(side))
	return bb
}

// checkInfo bundles the per-node legality data shared by all generators.
type checkInfo struct {
	pinRay      [64]Bitboard // non-zero for a pinned piece: the line it may move along
	checkMask   Bitboard     // destinations that resolve the current check(s)
	checkers    Bitboard
	numCheckers int
}

func computeCheckInfo(pos *Position) checkInfo {
	us := pos.SideToMove
	them := us.Flip()
	king := pos.King(us)
	occ := pos.Occupied()

	var ci checkInfo
	ci.checkers = attackersTo(pos, king, them)
	ci.numCheckers = ci.checkers.Popcnt()

	switch ci.numCheckers {
	case 0:
		ci.checkMask = ^BbEmpty
	case 1:
		checkerSq := ci.checkers.LSB().AsSquareUnsafe()
		if p := pos.mailbox[checkerSq].Piece(); p == Knight || p == Pawn {
			ci.checkMask = ci.checkers
		} else {
			ci.checkMask = RayBetween(king, checkerSq) | ci.checkers
		}
	default:
		ci.checkMask = BbEmpty
	}

	orthogonal := pos.ByColorPiece(them, Rook) | pos.ByColorPiece(them, Queen)
	diagonal := pos.ByColorPiece(them, Bishop) | pos.ByColorPiece(them, Queen)
	for bb := orthogonal; bb != 0; {
		s := bb.Pop()
		if s.Rank() == king.Rank() || s.File() == king.File() {
			findPin(pos, king, s, occ, us, &ci)
		}
	}
	for bb := diagonal; bb != 0; {
		s := bb.Pop()
		if s.Rank() != king.Rank() && s.File() != king.File() {
			findPin(pos, king, s, occ, us, &ci)
		}
	}
	return ci
}

func findPin(pos *Position, king, sliderSq Square, occ Bitboard, us Color, ci *checkInfo) {
	line := RayThrough(king, sliderSq)
	if line == 0 {
		return
	}
	between := RayBetween(king, sliderSq) & occ
	if between.Popcnt() != 1 {
		return
	}
	blocker := between.LSB().AsSquareUnsafe()
	if pos.colors[us].Has(blocker) {
		ci.pinRay[blocker] = line
	}
}

// GenerateLegalMoves appends every legal move in pos to dst and returns
// the extended slice. dst's capacity should be at least MaxMoves to
// avoid reallocation; order within the result is not guaranteed.
func (pos *Position) GenerateLegalMoves(dst []Move) []Move {
	us := pos.SideToMove
	them := us.Flip()
	king := pos.King(us)
	occ := pos.Occupied()
	friendly := pos.colors[us]
	enemy := pos.colors[them]

	ci := computeCheckInfo(pos)

	occNoKing := occ &^ king.Bitboard()
	enemyAttacked := attacksBySide(pos, them, occNoKing)

	kingDest := KingAttacks(king) &^ friendly &^ enemyAttacked
	for kingDest != 0 {
		to := kingDest.Pop()
		flag := MoveQuiet
		if enemy.Has(to) {
			flag = MoveCapture
		}
		dst = append(dst, NewMove(king, to, flag))
	}

	if ci.numCheckers >= 2 {
		return dst
	}

	for bb := pos.ByColorPiece(us, Knight); bb != 0; {
		from := bb.Pop()
		attacks := KnightAttacks(from) &^ friendly & ci.checkMask
		if ci.pinRay[from] != 0 {
			attacks = 0
		}
		dst = appendPieceMoves(dst, from, attacks, enemy)
	}
	for bb := pos.ByColorPiece(us, Bishop); bb != 0; {
		from := bb.Pop()
		attacks := BishopAttacks(from, occ) &^ friendly & ci.checkMask
		if r := ci.pinRay[from]; r != 0 {
			attacks &= r
		}
		dst = appendPieceMoves(dst, from, attacks, enemy)
	}
	for bb := pos.ByColorPiece(us, Rook); bb != 0; {
		from := bb.Pop()
		attacks := RookAttacks(from, occ) &^ friendly & ci.checkMask
		if r := ci.pinRay[from]; r != 0 {
			attacks &= r
		}
		dst = appendPieceMoves(dst, from, attacks, enemy)
	}
	for bb := pos.ByColorPiece(us, Queen); bb != 0; {
		from := bb.Pop()
		attacks := (BishopAttacks(from, occ) | RookAttacks(from, occ)) &^ friendly & ci.checkMask
		if r := ci.pinRay[from]; r != 0 {
			attacks &= r
		}
		dst = appendPieceMoves(dst, from, attacks, enemy)
	}

	if ci.numCheckers == 0 {
		dst = generateCastling(pos, us, occ, enemyAttacked, dst)
	}

	dst = generatePawnMoves(pos, us, them, occ, enemy, ci, dst)
	return dst
}

func appendPieceMoves(dst []Move, from Square, dests, enemy Bitboard) []Move {
	for dests != 0 {
		to := dests.Pop()
		flag := MoveQuiet
		if enemy.Has(to) {
			flag = MoveCapture
		}
		dst = append(dst, NewMove(from, to, flag))
	}
	return dst
}

func generateCastling(pos *Position, us Color, occ, enemyAttacked Bitboard, dst []Move) []Move {
	if us == White {
		if pos.CastleRights&WhiteKingSide != 0 &&
			occ&(SquareF1.Bitboard()|SquareG1.Bitboard()) == 0 &&
			enemyAttacked&(SquareE1.Bitboard()|SquareF1.Bitboard()|SquareG1.Bitboard()) == 0 {
			dst = append(dst, NewMove(SquareE1, SquareG1, MoveCastle))
		}
		if pos.CastleRights&WhiteQueenSide != 0 &&
			occ&(SquareB1.Bitboard()|SquareC1.Bitboard()|SquareD1.Bitboard()) == 0 &&
			enemyAttacked&(SquareC1.Bitboard()|SquareD1.Bitboard()|SquareE1.Bitboard()) == 0 {
			dst = append(dst, NewMove(SquareE1, SquareC1, MoveCastle))
		}
	} else {
		if pos.CastleRights&BlackKingSide != 0 &&
			occ&(SquareF8.Bitboard()|SquareG8.Bitboard()) == 0 &&
			enemyAttacked&(SquareE8.Bitboard()|SquareF8.Bitboard()|SquareG8.Bitboard()) == 0 {
			dst = append(dst, NewMove(SquareE8, SquareG8, MoveCastle))
		}
		if pos.CastleRights&BlackQueenSide != 0 &&
			occ&(SquareB8.Bitboard()|SquareC8.Bitboard()|SquareD8.Bitboard()) == 0 &&
			enemyAttacked&(SquareC8.Bitboard()|SquareD8.Bitboard()|SquareE8.Bitboard()) == 0 {
			dst = append(dst, NewMove(SquareE8, SquareC8, MoveCastle))
		}
	}
	return dst
}

func addPromotions(dst []Move, from, to Square, capture bool) []Move {
	flags := [4]MoveFlag{MovePromoKnight, MovePromoBishop, MovePromoRook, MovePromoQueen}
	if capture {
		flags = [4]MoveFlag{MovePromoKnightCapture, MovePromoBishopCapture, MovePromoRookCapture, MovePromoQueenCapture}
	}
	for _, f := range flags {
		dst = append(dst, NewMove(from, to, f))
	}
	return dst
}

func generatePawnMoves(pos *Position, us, them Color, occ, enemy Bitboard, ci checkInfo, dst []Move) []Move {
	forward, startRank, promoRank := 1, 1, 7
	if us == Black {
		forward, startRank, promoRank = -1, 6, 0
	}

	for bb := pos.ByColorPiece(us, Pawn); bb != 0; {
		from := bb.Pop()
		allowed := ci.checkMask
		pinned := ci.pinRay[from] != 0
		if pinned {
			allowed &= ci.pinRay[from]
		}

		oneStep := Square(int(from) + forward*8)
		if !occ.Has(oneStep) {
			if oneStep.Bitboard()&allowed != 0 {
				if oneStep.Rank() == promoRank {
					dst = addPromotions(dst, from, oneStep, false)
				} else {
					dst = append(dst, NewMove(from, oneStep, MoveQuiet))
				}
			}
			if from.Rank() == startRank {
				twoStep := Square(int(from) + forward*16)
				if !occ.Has(twoStep) && twoStep.Bitboard()&allowed != 0 {
					dst = append(dst, NewMove(from, twoStep, MoveDoublePush))
				}
			}
		}

		captures := PawnAttacks(us, from) & enemy & allowed
		for captures != 0 {
			to := captures.Pop()
			if to.Rank() == promoRank {
				dst = addPromotions(dst, from, to, true)
			} else {
				dst = append(dst, NewMove(from, to, MoveCapture))
			}
		}

		if pos.EnPassant != NoSquare && PawnAttacks(us, from)&pos.EnPassant.Bitboard() != 0 {
			dst = tryEnPassant(pos, us, them, from, occ, ci, dst)
		}
	}
	return dst
}

// tryEnPassant validates and, if legal, appends the en-passant capture
// from `from`. Two legality checks beyond the ordinary pin/check-mask
// test are needed: the destination square doesn't itself resolve a
// check by the moved-past pawn (the check_mask test must consider the
// captured pawn's square, not just the destination), and removing both
// pawns must not expose the king along the rank (or, defensively, any
// line) to a slider by simulating the capture and re-scanning.
func tryEnPassant(pos *Position, us, them Color, from Square, occ Bitboard, ci checkInfo, dst []Move) []Move {
	to := pos.EnPassant
	capSq := RankFile(from.Rank(), to.File())

	if r := ci.pinRay[from]; r != 0 && r&to.Bitboard() == 0 {
		return dst
	}
	if to.Bitboard()&ci.checkMask == 0 && capSq.Bitboard()&ci.checkers == 0 {
		return dst
	}

	simOcc := (occ &^ from.Bitboard() &^ capSq.Bitboard()) | to.Bitboard()
	king := pos.King(us)
	attackers := RookAttacks(king, simOcc)&(pos.ByColorPiece(them, Rook)|pos.ByColorPiece(them, Queen)) |
		BishopAttacks(king, simOcc)&(pos.ByColorPiece(them, Bishop)|pos.ByColorPiece(them, Queen))
	if attackers != 0 {
		return dst
	}
	return append(dst, NewMove(from, to, MoveEnPassant))
}
