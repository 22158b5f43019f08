// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// ordering.go assigns each legal move a priority:
// the transposition table's remembered move first, then winning and
// equal captures (MVV-LVA refined by SEE), then queen promotions,
// then killer moves, then quiet moves ranked by history, then losing
// captures last. Since movegen.go already produces only legal moves
// (unlike a pseudo-legal generator, which would interleave
// legality filtering with staged generation), one score-then-sort pass
// over the whole list reproduces the same staged order without a
// generator state machine.
package engine

import "sort"

// HistoryMax bounds the quiet-move history table so a long winning
// streak for one move can't swamp ordering for the rest of the game.
const HistoryMax = 1 << 14

// mvvlvaValue approximates a pawn as 10, about a tenth of pieceValue, so
// ordering.go doesn't need to import the evaluation tables' exact
// centipawn scale.
var mvvlvaValue = [PieceArraySize]int32{10, 32, 33, 50, 90, 10000}

const (
	orderTT        int32 = 2_000_000
	orderGoodCap   int32 = 1_500_000
	orderQueenPromo int32 = 1_400_000
	orderKiller0   int32 = 1_300_000
	orderKiller1   int32 = 1_290_000
	orderQuiet     int32 = 1_000_000
	orderLosingCap int32 = 0
)

// historyTable scores how often a quiet move has caused a beta cutoff,
// indexed history[color][from][to].
type historyTable [ColorArraySize][64][64]int32

func (h *historyTable) get(c Color, m Move) int32 {
	return h[c][m.From()][m.To()]
}

// bonus rewards m for causing a cutoff at depth; malus penalizes a
// sibling move that was tried and failed to. Both saturate at
// +/-HistoryMax.
func (h *historyTable) bonus(c Color, m Move, depth int) {
	h.update(c, m, int32(depth)*int32(depth))
}

func (h *historyTable) malus(c Color, m Move, depth int) {
	h.update(c, m, -int32(depth)*int32(depth))
}

func (h *historyTable) update(c Color, m Move, delta int32) {
	v := &h[c][m.From()][m.To()]
	*v += delta
	if *v > HistoryMax {
		*v = HistoryMax
	} else if *v < -HistoryMax {
		*v = -HistoryMax
	}
}

// age halves every entry, keeping history relevant to recent play
// without wiping it out between iterative-deepening iterations.
func (h *historyTable) age() {
	for c := range h {
		for from := range h[c] {
			for to := range h[c][from] {
				h[c][from][to] /= 2
			}
		}
	}
}

// killers remembers up to two quiet moves per ply that caused a beta
// cutoff, tried before falling back to history-ordered quiets.
type killerTable [MaxSearchPly][2]Move

func (k *killerTable) add(ply int, m Move) {
	if ply >= len(k) {
		return
	}
	if k[ply][0] == m {
		return
	}
	k[ply][1] = k[ply][0]
	k[ply][0] = m
}

func (k *killerTable) isKiller(ply int, m Move) bool {
	if ply >= len(k) {
		return false
	}
	return k[ply][0] == m || k[ply][1] == m
}

type scoredMove struct {
	move  Move
	score int32
}

// orderMoves scores every move in moves and returns them sorted
// highest score first (see the orderX constants above for the
// relative priority of each stage).
func orderMoves(pos *Position, moves []Move, ttMove Move, ply int, killers *killerTable, history *historyTable) []scoredMove {
	us := pos.SideToMove
	scored := make([]scoredMove, len(moves))
	for i, m := range moves {
		scored[i] = scoredMove{move: m, score: scoreMove(pos, m, ttMove, ply, us, killers, history)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	return scored
}

func scoreMove(pos *Position, m Move, ttMove Move, ply int, us Color, killers *killerTable, history *historyTable) int32 {
	if m == ttMove {
		return orderTT
	}
	if m.IsCapture() {
		see := pos.SEE(m)
		if see >= 0 {
			victim, attacker := captureFigures(pos, m)
			return orderGoodCap + mvvlvaValue[victim]*64 - mvvlvaValue[attacker] + see
		}
		return orderLosingCap + see
	}
	if m.IsPromotion() {
		if m.PromotionPiece() == Queen {
			return orderQueenPromo
		}
		return orderQuiet + 1
	}
	if killers.isKiller(ply, m) {
		if killers[ply][0] == m {
			return orderKiller0
		}
		return orderKiller1
	}
	return orderQuiet + history.get(us, m)
}

// captureFigures returns the piece kind of the captured piece and of
// the moving (attacking) piece, for MVV-LVA scoring. Handles en
// passant, where the mailbox target square doesn't hold the victim.
func captureFigures(pos *Position, m Move) (victim, attacker Piece) {
	attacker = pos.At(m.From()).Piece()
	if m.Flag() == MoveEnPassant {
		return Pawn, attacker
	}
	return pos.At(m.To()).Piece(), attacker
}
