// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// pst.go holds material values and the piece-square tables used by
// eval.go: roughly P=100, N=320, B=330, R=500, Q=900 material plus a
// 64-entry table per piece, tapered between mid-game and end-game and
// mirrored for Black.
//
// Table values follow the well-known Tomasz Michniewski "simplified
// evaluation function" set rather than zurichess's own texel-tuned
// Weights array: those weights are the product of a training pipeline
// (features_coach.go/lib_coach.go) specific to that training run's
// feature set and have no meaning detached from it.
package engine

// pieceValue is the mid-game material value of each piece; the same
// value is used in the end game (material doesn't get tapered, unlike
// positional terms).
var pieceValue = [PieceArraySize]int32{100, 320, 330, 500, 900, 0}

// SetMaterialValues overrides the material value of each non-king
// piece, letting a config file retune material without a rebuild. A
// zero argument leaves that piece's compiled-in default untouched.
func SetMaterialValues(pawn, knight, bishop, rook, queen int32) {
	if pawn != 0 {
		pieceValue[Pawn] = pawn
	}
	if knight != 0 {
		pieceValue[Knight] = knight
	}
	if bishop != 0 {
		pieceValue[Bishop] = bishop
	}
	if rook != 0 {
		pieceValue[Rook] = rook
	}
	if queen != 0 {
		pieceValue[Queen] = queen
	}
}

// pst[piece][sq] is indexed by a White-POV square (rank 0 = rank 1).
// Black's contribution is looked up with the square mirrored vertically.
var pst = [PieceArraySize][64]Score{
	Pawn: mergeTables(pawnPST, pawnPSTEndgame),
	Knight: mergeTables(knightPST, knightPST),
	Bishop: mergeTables(bishopPST, bishopPST),
	Rook: mergeTables(rookPST, rookPST),
	Queen: mergeTables(queenPST, queenPST),
	King: mergeTables(kingPSTMidgame, kingPSTEndgame),
}

func mergeTables(mg, eg [64]int32) (s [64]Score) {
	for i := range s {
		s[i] = Score{M: mg[i], E: eg[i]}
	}
	return s
}

// mirror flips a White-POV square vertically so Black can reuse the
// same tables.
func mirror(sq Square) Square { return sq ^ 56 }

// pstScore returns the piece-square contribution for piece p of color
// c standing on sq.
func pstScore(c Color, p Piece, sq Square) Score {
	if c == Black {
		sq = mirror(sq)
	}
	return pst[p][sq]
}

// The tables below are laid out rank8 (index 0..7) down to rank1
// (index 56..63) in the source, i.e. White's own back rank is last --
// matching how these tables are conventionally published -- then
// reversed into rank-1-first (engine square numbering) order by
// rankFileTable.
var pawnPST = rankFileTable([8][8]int32{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{50, 50, 50, 50, 50, 50, 50, 50},
	{10, 10, 20, 30, 30, 20, 10, 10},
	{5, 5, 10, 25, 25, 10, 5, 5},
	{0, 0, 0, 20, 20, 0, 0, 0},
	{5, -5, -10, 0, 0, -10, -5, 5},
	{5, 10, 10, -20, -20, 10, 10, 5},
	{0, 0, 0, 0, 0, 0, 0, 0},
})

var pawnPSTEndgame = rankFileTable([8][8]int32{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{80, 80, 80, 80, 80, 80, 80, 80},
	{50, 50, 50, 50, 50, 50, 50, 50},
	{25, 25, 25, 30, 30, 25, 25, 25},
	{10, 10, 10, 15, 15, 10, 10, 10},
	{5, 5, 5, 5, 5, 5, 5, 5},
	{0, 0, 0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0, 0, 0},
})

var knightPST = rankFileTable([8][8]int32{
	{-50, -40, -30, -30, -30, -30, -40, -50},
	{-40, -20, 0, 0, 0, 0, -20, -40},
	{-30, 0, 10, 15, 15, 10, 0, -30},
	{-30, 5, 15, 20, 20, 15, 5, -30},
	{-30, 0, 15, 20, 20, 15, 0, -30},
	{-30, 5, 10, 15, 15, 10, 5, -30},
	{-40, -20, 0, 5, 5, 0, -20, -40},
	{-50, -40, -30, -30, -30, -30, -40, -50},
})

var bishopPST = rankFileTable([8][8]int32{
	{-20, -10, -10, -10, -10, -10, -10, -20},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-10, 0, 5, 10, 10, 5, 0, -10},
	{-10, 5, 5, 10, 10, 5, 5, -10},
	{-10, 0, 10, 10, 10, 10, 0, -10},
	{-10, 10, 10, 10, 10, 10, 10, -10},
	{-10, 5, 0, 0, 0, 0, 5, -10},
	{-20, -10, -10, -10, -10, -10, -10, -20},
})

var rookPST = rankFileTable([8][8]int32{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{5, 10, 10, 10, 10, 10, 10, 5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{0, 0, 0, 5, 5, 0, 0, 0},
})

var queenPST = rankFileTable([8][8]int32{
	{-20, -10, -10, -5, -5, -10, -10, -20},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-10, 0, 5, 5, 5, 5, 0, -10},
	{-5, 0, 5, 5, 5, 5, 0, -5},
	{0, 0, 5, 5, 5, 5, 0, -5},
	{-10, 5, 5, 5, 5, 5, 0, -10},
	{-10, 0, 5, 0, 0, 0, 0, -10},
	{-20, -10, -10, -5, -5, -10, -10, -20},
})

var kingPSTMidgame = rankFileTable([8][8]int32{
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-20, -30, -30, -40, -40, -30, -30, -20},
	{-10, -20, -20, -20, -20, -20, -20, -10},
	{20, 20, 0, 0, 0, 0, 20, 20},
	{20, 30, 10, 0, 0, 10, 30, 20},
})

var kingPSTEndgame = rankFileTable([8][8]int32{
	{-50, -40, -30, -20, -20, -30, -40, -50},
	{-30, -20, -10, 0, 0, -10, -20, -30},
	{-30, -10, 20, 30, 30, 20, -10, -30},
	{-30, -10, 30, 40, 40, 30, -10, -30},
	{-30, -10, 30, 40, 40, 30, -10, -30},
	{-30, -10, 20, 30, 30, 20, -10, -30},
	{-30, -30, 0, 0, 0, 0, -30, -30},
	{-50, -30, -30, -30, -30, -30, -30, -50},
})

// rankFileTable converts a table given rank8-first (as conventionally
// published) into one indexed by RankFile(rank, file), rank 0 = rank 1.
func rankFileTable(t [8][8]int32) (out [64]int32) {
	for i, row := range t {
		rank := 7 - i
		for file, v := range row {
			out[RankFile(rank, file)] = v
		}
	}
	return out
}

// Phase computes how far into the endgame pos is: 0 at the start (all
// non-pawn material present), 256 once every tracked piece is gone.
func Phase(pos *Position) int32 {
	const (
		knightPhase = 1
		bishopPhase = 1
		rookPhase   = 2
		queenPhase  = 4
		totalPhase  = knightPhase*4 + bishopPhase*4 + rookPhase*4 + queenPhase*2
	)
	phase := int32(totalPhase)
	phase -= int32(pos.ByPiece(Knight).Popcnt()) * knightPhase
	phase -= int32(pos.ByPiece(Bishop).Popcnt()) * bishopPhase
	phase -= int32(pos.ByPiece(Rook).Popcnt()) * rookPhase
	phase -= int32(pos.ByPiece(Queen).Popcnt()) * queenPhase
	if phase < 0 {
		phase = 0
	}
	return (phase*256 + totalPhase/2) / totalPhase
}
