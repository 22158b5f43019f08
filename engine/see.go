// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// see.go implements static exchange evaluation: the
// net material gain of a capture sequence on one square, ignoring
// everything off that square.
package engine

// seeValue are fixed piece values for SEE, independent of the
// positional weights in eval.go.
var seeValue = [PieceArraySize]int32{100, 320, 330, 500, 900, 20000}

// SEE returns the static exchange evaluation of m: the net material
// swing on m.To() after both sides recapture with their least valuable
// attacker, in turn, until no attacker remains. m need not have been
// made on pos.
//
// https://www.chessprogramming.org/Static_Exchange_Evaluation
func (pos *Position) SEE(m Move) int32 {
	from, to := m.From(), m.To()
	us := pos.SideToMove

	capSq := to
	if m.Flag() == MoveEnPassant {
		capSq = RankFile(from.Rank(), to.File())
	}
	var target ColorPiece
	if m.IsCapture() {
		target = pos.At(capSq)
	}

	var occ [ColorArraySize]Bitboard
	occ[White] = pos.ByColor(White)
	occ[Black] = pos.ByColor(Black)

	// Occupancy as if m were already played.
	occ[us] &^= from.Bitboard()
	occ[us] |= to.Bitboard()
	occ[us.Flip()] &^= capSq.Bitboard()
	all := occ[White] | occ[Black]

	mover := pos.At(from).Piece()
	if m.IsPromotion() {
		mover = m.PromotionPiece()
	}

	gain := make([]int32, 1, 16)
	gain[0] = seeCaptureValue(target, m)

	attacker := mover
	side := us.Flip()
	for {
		fig, atSq, ok := leastValuableAttacker(pos, side, to, all, occ[side])
		if !ok {
			break
		}
		gain = append(gain, seeValue[attacker]-gain[len(gain)-1])

		occ[side] &^= atSq.Bitboard()
		all &^= atSq.Bitboard()
		attacker = fig
		side = side.Flip()
	}

	// Negamax unwind: at each step a side only plays on if doing so
	// improves its score, so clamp every gain to minus the next one.
	for i := len(gain) - 2; i >= 0; i-- {
		if -gain[i+1] < gain[i] {
			gain[i] = -gain[i+1]
		}
	}
	return gain[0]
}

// seeSign reports whether m is a losing capture, short-circuiting the
// full swap loop for equal-or-up trades (the common case) by comparing
// mover and captured piece values directly.
func (pos *Position) seeSign(m Move) bool {
	if !m.IsCapture() {
		return pos.SEE(m) < 0
	}
	capSq := m.To()
	if m.Flag() == MoveEnPassant {
		capSq = RankFile(m.From().Rank(), m.To().File())
	}
	mover := pos.At(m.From()).Piece()
	captured := pos.At(capSq).Piece()
	if mover <= captured {
		return false
	}
	return pos.SEE(m) < 0
}

func seeCaptureValue(target ColorPiece, m Move) int32 {
	var score int32
	if target != NoPiece {
		score = seeValue[target.Piece()]
	}
	if m.IsPromotion() {
		score += seeValue[m.PromotionPiece()] - seeValue[Pawn]
	}
	return score
}

// leastValuableAttacker finds the cheapest side-colored piece attacking
// sq given the simulated occupancy all/ours, in increasing value order.
func leastValuableAttacker(pos *Position, side Color, sq Square, all, ours Bitboard) (Piece, Square, bool) {
	if att := PawnAttacks(side.Flip(), sq) & ours & pos.ByPiece(Pawn); att != 0 {
		return Pawn, att.LSB().AsSquareUnsafe(), true
	}
	if att := KnightAttacks(sq) & ours & pos.ByPiece(Knight); att != 0 {
		return Knight, att.LSB().AsSquareUnsafe(), true
	}
	if att := BishopAttacks(sq, all) & ours & pos.ByPiece(Bishop); att != 0 {
		return Bishop, att.LSB().AsSquareUnsafe(), true
	}
	if att := RookAttacks(sq, all) & ours & pos.ByPiece(Rook); att != 0 {
		return Rook, att.LSB().AsSquareUnsafe(), true
	}
	if att := (BishopAttacks(sq, all) | RookAttacks(sq, all)) & ours & pos.ByPiece(Queen); att != 0 {
		return Queen, att.LSB().AsSquareUnsafe(), true
	}
	if att := KingAttacks(sq) & ours & pos.ByPiece(King); att != 0 {
		return King, att.LSB().AsSquareUnsafe(), true
	}
	return 0, 0, false
}
