// gameend.go detects the non-checkmate/stalemate ways a game can end
// in a draw: insufficient material, the
// fifty-move rule, and threefold repetition.
package engine

// bbLightSquares is the set of light (a1 is dark) squares, used to
// detect a same-colored-bishops draw.
const bbLightSquares Bitboard = 0x55AA55AA55AA55AA

// InsufficientMaterial reports whether neither side has enough force
// left to deliver checkmate: bare kings, king+minor vs king, or
// king+bishop(s) on one color vs king+bishop(s) on the same color.
func (pos *Position) InsufficientMaterial() bool {
	nonKings := pos.Occupied() &^ pos.ByPiece(King)
	if nonKings == 0 {
		return true
	}
	if knights := pos.ByPiece(Knight); nonKings == knights && knights.Popcnt() == 1 {
		return true
	}
	if bishops := pos.ByPiece(Bishop); nonKings == bishops {
		if bishops&bbLightSquares == bishops || bishops&^bbLightSquares == bishops {
			return true
		}
	}
	return false
}

// FiftyMoveRule reports whether fifty full moves (a hundred plies)
// have passed without a capture or pawn push.
func (pos *Position) FiftyMoveRule() bool {
	return pos.HalfmoveClock >= 100
}

// ThreeFoldRepetition returns min(3, number of times pos's current
// Zobrist key has occurred) by scanning history, a list of Zobrist
// keys from every position reached so far in the game. The caller can
// restrict history to the span since the last capture or pawn move,
// since no position before that boundary can ever recur.
func ThreeFoldRepetition(history []uint64, current uint64) int {
	count := 0
	for i := len(history) - 1; i >= 0; i-- {
		if history[i] == current {
			count++
			if count >= 3 {
				return 3
			}
		}
	}
	return count
}
