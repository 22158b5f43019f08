// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// eval.go implements Evaluate: material, piece-square
// tables, mobility, king safety and pawn structure, tapered between
// mid-game and end-game by Phase and returned in centipawns from the
// side-to-move's point of view.
package engine

var mobilityWeight = [PieceArraySize]Score{
	Pawn:   {0, 0},
	Knight: {4, 4},
	Bishop: {5, 5},
	Rook:   {2, 4},
	Queen:  {1, 2},
	King:   {0, 0},
}

var bishopPairBonus = Score{M: 30, E: 50}

// SetBishopPairBonus overrides the mid-game/end-game bonus awarded for
// owning both bishops (config-tunable alongside SetMaterialValues).
func SetBishopPairBonus(mg, eg int32) {
	bishopPairBonus = Score{M: mg, E: eg}
}

var globalPawnTable pawnTable

// Evaluate scores pos from the side-to-move's perspective, in
// centipawns.
func Evaluate(pos *Position) int32 {
	var s Score
	s.Add(evaluateMaterialAndPST(pos, White))
	s.Sub(evaluateMaterialAndPST(pos, Black))

	whiteMobility, whiteAttacks, whiteAttackers := evaluateMobility(pos, White)
	blackMobility, blackAttacks, blackAttackers := evaluateMobility(pos, Black)
	s.Add(whiteMobility)
	s.Sub(blackMobility)

	s.Add(evaluateKingAttackers(pos, White, blackAttacks, blackAttackers))
	s.Sub(evaluateKingAttackers(pos, Black, whiteAttacks, whiteAttackers))

	s.Add(globalPawnTable.load(pos))

	score := s.Feed(Phase(pos))
	if pos.SideToMove == Black {
		score = -score
	}
	return score
}

func evaluateMaterialAndPST(pos *Position, us Color) Score {
	var s Score
	for p := PieceMinValue; p <= PieceMaxValue; p++ {
		bb := pos.ByColorPiece(us, p)
		n := int32(bb.Popcnt())
		s.M += pieceValue[p] * n
		s.E += pieceValue[p] * n
		for bb != 0 {
			sq := bb.Pop()
			s.Add(pstScore(us, p, sq))
		}
	}
	if pos.ByColorPiece(us, Bishop).Popcnt() >= 2 {
		s.Add(bishopPairBonus)
	}
	return s
}

// evaluateMobility scores pseudo-safe mobility for knights, bishops,
// rooks and queens (squares not occupied by a friendly piece and not
// attacked by an enemy pawn), and returns the combined bitboard of
// every square us attacks plus how many distinct pieces attack the
// enemy king ring, for evaluateKingAttackers to consume.
func evaluateMobility(pos *Position, us Color) (score Score, attacks Bitboard, numAttackers int) {
	them := us.Flip()
	occ := pos.Occupied()
	friendly := pos.ByColor(us)
	unsafe := pawnAttacksBy(pos, them)
	theirKingRing := kingRing(pos.King(them))

	add := func(p Piece, sq Square, att Bitboard) {
		mobility := att &^ friendly &^ unsafe
		score.AddN(mobilityWeight[p], int32(mobility.Popcnt()))
		attacks |= att
		if att&theirKingRing != 0 {
			numAttackers++
		}
	}

	for bb := pos.ByColorPiece(us, Knight); bb != 0; {
		sq := bb.Pop()
		add(Knight, sq, KnightAttacks(sq))
	}
	for bb := pos.ByColorPiece(us, Bishop); bb != 0; {
		sq := bb.Pop()
		add(Bishop, sq, BishopAttacks(sq, occ))
	}
	for bb := pos.ByColorPiece(us, Rook); bb != 0; {
		sq := bb.Pop()
		att := RookAttacks(sq, occ)
		add(Rook, sq, att)
		score.Add(evaluateRookFile(pos, us, sq))
	}
	for bb := pos.ByColorPiece(us, Queen); bb != 0; {
		sq := bb.Pop()
		add(Queen, sq, BishopAttacks(sq, occ)|RookAttacks(sq, occ))
	}
	attacks |= KingAttacks(pos.King(us))
	return score, attacks, numAttackers
}

var (
	rookOpenFileBonus     = Score{M: 20, E: 10}
	rookHalfOpenFileBonus = Score{M: 10, E: 5}
)

func evaluateRookFile(pos *Position, us Color, sq Square) Score {
	them := us.Flip()
	file := FileBb(sq.File())
	if pos.ByColorPiece(us, Pawn)&file != 0 {
		return Score{}
	}
	if pos.ByColorPiece(them, Pawn)&file == 0 {
		return rookOpenFileBonus
	}
	return rookHalfOpenFileBonus
}

func pawnAttacksBy(pos *Position, c Color) Bitboard {
	var bb Bitboard
	for p := pos.ByColorPiece(c, Pawn); p != 0; {
		bb |= PawnAttacks(c, p.Pop())
	}
	return bb
}

// Mirror returns a copy of pos with ranks flipped and colors swapped:
// used by tests to check eval's required color symmetry.
func Mirror(pos *Position) *Position {
	out := NewPosition()
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		cp := pos.At(sq)
		if cp.IsEmpty() {
			continue
		}
		msq := mirror(sq)
		out.put(msq, MakeColorPiece(cp.Color().Flip(), cp.Piece()))
	}
	out.SideToMove = pos.SideToMove.Flip()
	out.EnPassant = NoSquare
	if pos.EnPassant != NoSquare {
		out.EnPassant = mirror(pos.EnPassant)
	}
	if pos.CastleRights&WhiteKingSide != 0 {
		out.CastleRights |= BlackKingSide
	}
	if pos.CastleRights&WhiteQueenSide != 0 {
		out.CastleRights |= BlackQueenSide
	}
	if pos.CastleRights&BlackKingSide != 0 {
		out.CastleRights |= WhiteKingSide
	}
	if pos.CastleRights&BlackQueenSide != 0 {
		out.CastleRights |= WhiteQueenSide
	}
	out.HalfmoveClock = pos.HalfmoveClock
	out.FullmoveNumber = pos.FullmoveNumber
	out.Zobrist = out.recomputeZobrist()
	return out
}
