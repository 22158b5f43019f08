// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// pawns.go detects pawn-structure features (doubled, isolated,
// backward, passed), and caches their evaluation
// since a position's pawn structure changes far less often than its
// pieces do.
package engine

var (
	passedPawnBonus = [8]Score{
		{0, 0}, {5, 10}, {10, 20}, {20, 35},
		{35, 60}, {60, 100}, {100, 160}, {0, 0},
	}
	doubledPawnPenalty  = Score{M: -10, E: -20}
	isolatedPawnPenalty = Score{M: -15, E: -10}
	backwardPawnPenalty = Score{M: -8, E: -5}
	connectedPawnBonus  = Score{M: 5, E: 8}
)

// adjacentFiles returns the bitboard of files immediately left/right of
// file f (0-based), excluding f itself.
func adjacentFiles(f int) Bitboard {
	var bb Bitboard
	if f > 0 {
		bb |= FileBb(f - 1)
	}
	if f < 7 {
		bb |= FileBb(f + 1)
	}
	return bb
}

// forwardFiles returns every square strictly ahead of sq (from c's
// point of view) on sq's own file and both adjacent files -- the zone
// that must be clear of enemy pawns for sq's pawn to be "passed".
func forwardFiles(c Color, sq Square) Bitboard {
	files := FileBb(sq.File()) | adjacentFiles(sq.File())
	if c == White {
		return files & ^RankBb(0) & aboveRank(sq.Rank())
	}
	return files & ^RankBb(7) & belowRank(sq.Rank())
}

func aboveRank(r int) Bitboard {
	var bb Bitboard
	for rr := r + 1; rr < 8; rr++ {
		bb |= RankBb(rr)
	}
	return bb
}

func belowRank(r int) Bitboard {
	var bb Bitboard
	for rr := r - 1; rr >= 0; rr-- {
		bb |= RankBb(rr)
	}
	return bb
}

// relativeRank returns sq's rank as seen from c's side: 0 is the home
// rank, 7 is the promotion rank.
func relativeRank(c Color, sq Square) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}

func evaluatePawns(pos *Position, us Color) Score {
	var s Score
	them := us.Flip()
	ours := pos.ByColorPiece(us, Pawn)
	theirs := pos.ByColorPiece(them, Pawn)

	for bb := ours; bb != 0; {
		sq := bb.Pop()
		file := FileBb(sq.File())

		// Doubled: another friendly pawn on the same file.
		if (ours&file)&^sq.Bitboard() != 0 {
			s.Add(doubledPawnPenalty)
		}

		// Isolated: no friendly pawn on either adjacent file.
		if ours&adjacentFiles(sq.File()) == 0 {
			s.Add(isolatedPawnPenalty)
		} else {
			// Connected: a friendly pawn beside it or diagonally behind it.
			behind := RankBb(sq.Rank())
			if us == White && sq.Rank() > 0 {
				behind |= RankBb(sq.Rank() - 1)
			} else if us == Black && sq.Rank() < 7 {
				behind |= RankBb(sq.Rank() + 1)
			}
			if ours&adjacentFiles(sq.File())&behind != 0 {
				s.Add(connectedPawnBonus)
			}
		}

		// Passed: no enemy pawn on sq's file or adjacent files ahead of it.
		if theirs&forwardFiles(us, sq) == 0 {
			s.Add(passedPawnBonus[relativeRank(us, sq)])
		}

		// Backward: cannot be defended by another pawn advancing, and the
		// stop square is covered by an enemy pawn.
		if isBackward(pos, us, sq) {
			s.Add(backwardPawnPenalty)
		}
	}
	return s
}

func isBackward(pos *Position, us Color, sq Square) bool {
	them := us.Flip()
	ours := pos.ByColorPiece(us, Pawn)
	theirs := pos.ByColorPiece(them, Pawn)

	// A pawn is backward if no friendly pawn on an adjacent file sits
	// level with or behind it...
	adjacent := ours & adjacentFiles(sq.File())
	for bb := adjacent; bb != 0; {
		other := bb.Pop()
		if us == White && other.Rank() <= sq.Rank() {
			return false
		}
		if us == Black && other.Rank() >= sq.Rank() {
			return false
		}
	}
	// ...and its stop square is attacked by an enemy pawn. Pawns never sit
	// on rank 1/8, so the stop square is always on the board.
	var stop Square
	if us == White {
		stop = sq.Relative(1, 0)
	} else {
		stop = sq.Relative(-1, 0)
	}
	return PawnAttacks(us, stop)&theirs != 0
}

// pawnEntry is one cache slot, keyed by both sides' pawn (and king, for
// shelter) bitboards.
type pawnEntry struct {
	whitePawns, blackPawns Bitboard
	whiteKing, blackKing   Square
	score                  Score // from White's perspective
	valid                  bool
}

const pawnTableBits = 13

// pawnTable caches combined pawn-structure + king-shelter evaluation,
// since pawn structure changes far less often per node than the rest
// of the position.
type pawnTable [1 << pawnTableBits]pawnEntry

func pawnHash(pos *Position) uint64 {
	h := uint64(pos.ByColorPiece(White, Pawn))*0x9e3779b97f4a7c15 + 1
	h ^= uint64(pos.ByColorPiece(Black, Pawn)) * 0xff51afd7ed558ccd
	h ^= uint64(pos.King(White)) * 31
	h ^= uint64(pos.King(Black)) * 37
	return h
}

// load returns the cached evaluation for pos's pawn structure and king
// shelter (White's perspective), computing and storing it on a miss.
func (t *pawnTable) load(pos *Position) Score {
	h := pawnHash(pos)
	idx := h & uint64(len(*t)-1)
	e := &(*t)[idx]

	wp, bp := pos.ByColorPiece(White, Pawn), pos.ByColorPiece(Black, Pawn)
	wk, bk := pos.King(White), pos.King(Black)
	if e.valid && e.whitePawns == wp && e.blackPawns == bp && e.whiteKing == wk && e.blackKing == bk {
		return e.score
	}

	var s Score
	s.Add(evaluatePawns(pos, White))
	s.Sub(evaluatePawns(pos, Black))
	s.Add(evaluateShelter(pos, White))
	s.Sub(evaluateShelter(pos, Black))

	*e = pawnEntry{whitePawns: wp, blackPawns: bp, whiteKing: wk, blackKing: bk, score: s, valid: true}
	return s
}
