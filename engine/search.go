// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// search.go implements iterative-deepening negamax with quiescence,
// the transposition table, null-move/futility/late-move pruning and
// late move reductions.
package engine

const (
	// MateScore - N is mate in N plies; MatedScore + N is mated in N.
	MateScore   int32 = 30000
	MatedScore  int32 = -MateScore
	InfinityScore int32 = 32000

	// MaxSearchPly bounds the killer table and the recursion depth
	// iterative deepening will ever request.
	MaxSearchPly = 128

	checkExtension      = 1
	nullMoveMinDepth     = 3
	lmrMinDepth          = 3
	futilityMaxDepth     = 7
	lateMovePruningDepth = 4
	iidMinDepth          = 4
	checkpointInterval   = 2048
)

// futilityMargin returns the eval margin, per remaining depth, below
// which a quiet move is assumed unable to raise alpha.
func futilityMargin(depth int) int32 { return 100 + 80*int32(depth) }

// reverseFutilityMargin returns how far above beta eval must sit, per
// remaining depth, to return an immediate cutoff without searching
// any move.
func reverseFutilityMargin(depth int) int32 { return 90 * int32(depth) }

// Options configures Engine-wide behavior that doesn't change the
// result of a search, only its verbosity or resource usage.
type Options struct {
	AnalyseMode bool
	HashSizeMB  int
}

// Stats records counters about one search, surfaced through UCI info
// lines.
type Stats struct {
	Nodes     uint64
	TTHits    uint64
	TTMisses  uint64
	Depth     int
	SelDepth  int
}

// Logger is notified as a search progresses; UCI wires this to stdout
// info lines, tests typically use NopLogger.
type Logger interface {
	BeginSearch()
	EndSearch()
	PrintPV(stats Stats, score int32, pv []Move)
}

// NopLogger discards every event.
type NopLogger struct{}

func (NopLogger) BeginSearch()                            {}
func (NopLogger) EndSearch()                              {}
func (NopLogger) PrintPV(Stats, int32, []Move)            {}

// Engine searches a Position for its best move, owning a
// transposition table, killer/history tables and a principal
// variation table across the lifetime of one process (persisting
// between UCI `go` commands, cleared only on `ucinewgame`).
type Engine struct {
	Options  Options
	Log      Logger
	Stats    Stats
	Position *Position

	tt      *TranspositionTable
	pv      pvTable
	killers killerTable
	history historyTable

	repetitions []uint64 // zobrist keys since the last irreversible move

	rootPly    int
	tc         *TimeControl
	stopped    bool
	checkpoint uint64
}

// NewEngine builds an Engine over pos (or the starting position if
// pos is nil), with its own transposition table sized per
// opts.HashSizeMB (0 defaults to 64MB).
func NewEngine(pos *Position, log Logger, opts Options) *Engine {
	if log == nil {
		log = NopLogger{}
	}
	sizeMB := opts.HashSizeMB
	if sizeMB <= 0 {
		sizeMB = 64
	}
	eng := &Engine{
		Options: opts,
		Log:     log,
		tt:      NewTranspositionTable(sizeMB),
		pv:      newPVTable(),
	}
	eng.SetPosition(pos)
	return eng
}

// SetPosition replaces the position being searched, resetting the
// repetition history (a new game tree root).
func (eng *Engine) SetPosition(pos *Position) {
	if pos == nil {
		pos = StartingPosition()
	}
	eng.Position = pos
	eng.repetitions = eng.repetitions[:0]
	eng.repetitions = append(eng.repetitions, pos.Zobrist)
}

// NewGame clears every table that must not leak information between
// unrelated games (UCI `ucinewgame`).
func (eng *Engine) NewGame() {
	eng.tt.Clear()
	eng.pv = newPVTable()
	eng.killers = killerTable{}
	eng.history = historyTable{}
}

// SetHashSizeMB reallocates the transposition table to approximately
// sizeMB megabytes (UCI `setoption name Hash`), discarding its
// contents.
func (eng *Engine) SetHashSizeMB(sizeMB int) {
	eng.Options.HashSizeMB = sizeMB
	eng.tt = NewTranspositionTable(sizeMB)
}

// SaveTT snapshots the transposition table for persistence between
// process runs (see internal/ttstore).
func (eng *Engine) SaveTT() ([]byte, error) {
	return eng.tt.MarshalBinary()
}

// LoadTT restores a transposition table snapshot previously produced
// by SaveTT. The table must already be sized the same (set Hash
// before loading); a mismatch is reported as an error and left
// unloaded rather than guessed at.
func (eng *Engine) LoadTT(data []byte) error {
	return eng.tt.UnmarshalBinary(data)
}

// DoMove plays move on the engine's position, tracking it for
// repetition detection.
func (eng *Engine) DoMove(move Move) {
	eng.Position.Make(move)
	if eng.Position.HalfmoveClock == 0 {
		eng.repetitions = eng.repetitions[:0]
	}
	eng.repetitions = append(eng.repetitions, eng.Position.Zobrist)
}

// pushRepetition and popRepetition extend the same repetition history
// DoMove maintains into the search tree itself: without this, a
// perpetual-check draw reachable only inside the current search (never
// played on the real board) would go undetected. A stale entry from
// before the last irreversible move can never zobrist-match a position
// reached after it (captures/pawn pushes change the piece bitboards
// that feed the hash), so there's no need to truncate on push.
func (eng *Engine) pushRepetition() {
	eng.repetitions = append(eng.repetitions, eng.Position.Zobrist)
}

func (eng *Engine) popRepetition() {
	eng.repetitions = eng.repetitions[:len(eng.repetitions)-1]
}

func (eng *Engine) ply() int {
	return eng.Position.Ply() - eng.rootPly
}

// Ply reports how many half-moves have been made since the position
// was set, derived from the move counters rather than stored
// separately.
func (pos *Position) Ply() int {
	ply := 2 * (pos.FullmoveNumber - 1)
	if pos.SideToMove == Black {
		ply++
	}
	return ply
}

// scoreFromPOV evaluates the current position from the side-to-move's
// perspective, matching negamax's sign convention.
func (eng *Engine) scoreFromPOV() int32 {
	return Evaluate(eng.Position)
}

// endPosition reports the game-theoretic score of a terminal or
// drawn position, if the position is in fact over.
func (eng *Engine) endPosition() (int32, bool) {
	pos := eng.Position
	if pos.InsufficientMaterial() {
		return 0, true
	}
	if pos.FiftyMoveRule() {
		return 0, true
	}
	if r := ThreeFoldRepetition(eng.repetitions[:len(eng.repetitions)-1], pos.Zobrist); r >= 2 && eng.ply() > 0 || r >= 3 {
		return 0, true
	}
	return 0, false
}

// Play runs iterative deepening until tc says to stop, returning the
// principal variation (moves[0] is the move to play, moves[1] the
// expected ponder move).
func (eng *Engine) Play(tc *TimeControl) []Move {
	eng.Log.BeginSearch()
	defer eng.Log.EndSearch()

	eng.Stats = Stats{}
	eng.rootPly = eng.Position.Ply()
	eng.tc = tc
	eng.stopped = false
	eng.checkpoint = checkpointInterval
	eng.tt.NewSearch()
	eng.history.age()

	var moves []Move
	score := int32(0)
	for depth := 1; depth <= MaxSearchPly; depth++ {
		if !tc.NextDepth(depth) {
			break
		}
		eng.Stats.Depth = depth
		eng.Stats.SelDepth = 0
		score = eng.aspirationSearch(depth, score)
		if eng.stopped && depth > 1 {
			break
		}
		moves = eng.pv.Get(eng.Position)
		eng.Log.PrintPV(eng.Stats, score, moves)
	}
	return moves
}

const initialAspirationWindow = 25

// aspirationSearch re-searches with a widening window around the
// previous iteration's score, only falling back to a full window when
// the result keeps failing high or low.
func (eng *Engine) aspirationSearch(depth int, estimated int32) int32 {
	if depth < 4 {
		return eng.negamax(-InfinityScore, InfinityScore, depth, 0)
	}

	window := int32(initialAspirationWindow)
	alpha, beta := estimated-window, estimated+window
	for {
		if alpha < -InfinityScore {
			alpha = -InfinityScore
		}
		if beta > InfinityScore {
			beta = InfinityScore
		}
		score := eng.negamax(alpha, beta, depth, 0)
		if eng.stopped {
			return score
		}
		if score <= alpha {
			window += window / 2
			alpha = estimated - window
			beta = estimated + window/4 + 1
			continue
		}
		if score >= beta {
			window += window / 2
			beta = estimated + window
			continue
		}
		return score
	}
}

// checkTime polls the clock roughly every checkpointInterval nodes;
// checked rather than on every node to keep time.Now() off the hot
// path.
func (eng *Engine) checkTime() {
	if eng.stopped {
		return
	}
	if eng.Stats.Nodes < eng.checkpoint {
		return
	}
	eng.checkpoint = eng.Stats.Nodes + checkpointInterval
	if eng.tc == nil {
		return
	}
	if eng.tc.Stopped() {
		eng.stopped = true
	}
}

// negamax searches the current position to depth, returning a
// fail-soft score from the side-to-move's perspective.
func (eng *Engine) negamax(alpha, beta int32, depth, ply int) int32 {
	pvNode := beta-alpha > 1
	pos := eng.Position

	eng.Stats.Nodes++
	eng.checkTime()
	if eng.stopped {
		return alpha
	}
	if pvNode && ply > eng.Stats.SelDepth {
		eng.Stats.SelDepth = ply
	}

	if ply > 0 {
		if score, over := eng.endPosition(); over {
			return score
		}
		// Mate distance pruning: no ancestor can benefit from a mate
		// found deeper than one already known closer to the root.
		alpha = max32(alpha, MatedScore+int32(ply))
		beta = min32(beta, MateScore-int32(ply))
		if alpha >= beta {
			return alpha
		}
	}

	key := pos.Zobrist
	hit := eng.tt.Probe(key, ply)
	if hit.Found {
		eng.Stats.TTHits++
	} else {
		eng.Stats.TTMisses++
	}
	ttMove := hit.Move
	if hit.UsableNode && hit.Depth >= depth {
		switch hit.Bound {
		case BoundExact:
			return hit.Score
		case BoundLower:
			if hit.Score >= beta {
				return hit.Score
			}
		case BoundUpper:
			if hit.Score <= alpha {
				return hit.Score
			}
		}
	}

	if depth <= 0 {
		return eng.quiescence(alpha, beta, ply)
	}

	inCheck := pos.InCheck()
	static := eng.scoreFromPOV()

	if !pvNode && !inCheck && depth <= futilityMaxDepth &&
		alpha > MatedScore+MaxSearchPly && beta < MateScore-MaxSearchPly {
		if static-reverseFutilityMargin(depth) >= beta {
			return static
		}
	}

	if !pvNode && !inCheck && depth >= nullMoveMinDepth && static >= beta &&
		hasNonPawnMaterial(pos, pos.SideToMove) {
		u := pos.MakeNull()
		reduction := 2 + depth/4
		score := -eng.negamax(-beta, -beta+1, depth-1-reduction, ply+1)
		pos.UnmakeNull(u)
		if eng.stopped {
			return alpha
		}
		if score >= beta {
			return score
		}
	}

	if ttMove == 0 && depth >= iidMinDepth && pvNode {
		eng.negamax(alpha, beta, depth-2, ply)
		hit = eng.tt.Probe(key, ply)
		ttMove = hit.Move
	}

	var buf [MaxMoves]Move
	moves := pos.GenerateLegalMoves(buf[:0])
	if len(moves) == 0 {
		if inCheck {
			return MatedScore + int32(ply)
		}
		return 0
	}
	ordered := orderMoves(pos, moves, ttMove, ply, &eng.killers, &eng.history)

	bestMove := Move(0)
	bestScore := -InfinityScore
	raisedAlpha := false
	us := pos.SideToMove

	for i, sm := range ordered {
		move := sm.move
		quiet := move.IsQuiet()

		if !pvNode && !inCheck && quiet && depth <= futilityMaxDepth && i > 0 {
			if static+futilityMargin(depth) <= alpha {
				continue
			}
		}
		if !pvNode && !inCheck && quiet && depth <= lateMovePruningDepth &&
			i >= 4+depth*depth {
			continue
		}

		pos.Make(move)
		eng.pushRepetition()
		givesCheck := pos.InCheck()
		newDepth := depth - 1
		if givesCheck {
			newDepth += checkExtension
		}

		var score int32
		if i == 0 {
			score = -eng.negamax(-beta, -alpha, newDepth, ply+1)
		} else {
			reduction := 0
			if depth >= lmrMinDepth && !inCheck && !givesCheck && quiet && i >= 3 {
				reduction = lmrReduction(depth, i)
			}
			score = -eng.negamax(-alpha-1, -alpha, newDepth-reduction, ply+1)
			if score > alpha && reduction > 0 {
				score = -eng.negamax(-alpha-1, -alpha, newDepth, ply+1)
			}
			if score > alpha && score < beta {
				score = -eng.negamax(-beta, -alpha, newDepth, ply+1)
			}
		}
		eng.popRepetition()
		pos.Unmake(move)

		if eng.stopped {
			return alpha
		}

		if score > bestScore {
			bestScore = score
			bestMove = move
		}
		if score > alpha {
			alpha = score
			raisedAlpha = true
			if alpha < beta {
				eng.pv.Put(pos, move)
			}
		}
		if alpha >= beta {
			if quiet {
				eng.killers.add(ply, move)
				eng.history.bonus(us, move, depth)
				for _, prior := range ordered[:i] {
					if prior.move.IsQuiet() {
						eng.history.malus(us, prior.move, depth)
					}
				}
			}
			eng.tt.Store(key, ply, move, bestScore, BoundLower, depth)
			return bestScore
		}
	}

	bound := BoundUpper
	if raisedAlpha {
		bound = BoundExact
	}
	eng.tt.Store(key, ply, bestMove, bestScore, bound, depth)
	return bestScore
}

// quiescence resolves captures (and check evasions) until the
// position is "quiet".
func (eng *Engine) quiescence(alpha, beta int32, ply int) int32 {
	eng.Stats.Nodes++
	eng.checkTime()
	if eng.stopped {
		return alpha
	}
	if score, over := eng.endPosition(); over {
		return score
	}

	pos := eng.Position
	inCheck := pos.InCheck()
	static := eng.scoreFromPOV()

	if !inCheck {
		if static >= beta {
			return static
		}
		alpha = max32(alpha, static)
	}

	var buf [MaxMoves]Move
	all := pos.GenerateLegalMoves(buf[:0])
	if len(all) == 0 {
		if inCheck {
			return MatedScore + int32(ply)
		}
		return static
	}

	candidates := all[:0:0]
	for _, m := range all {
		if inCheck || m.IsCapture() || (m.IsPromotion() && m.PromotionPiece() == Queen) {
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return alpha
	}
	ordered := orderMoves(pos, candidates, 0, ply, &eng.killers, &eng.history)

	best := alpha
	for _, sm := range ordered {
		move := sm.move
		if !inCheck && move.IsCapture() && pos.SEE(move) < 0 {
			continue
		}
		pos.Make(move)
		eng.pushRepetition()
		score := -eng.quiescence(-beta, -best, ply+1)
		eng.popRepetition()
		pos.Unmake(move)

		if eng.stopped {
			return alpha
		}
		if score >= beta {
			return score
		}
		if score > best {
			best = score
		}
	}
	return best
}

func lmrReduction(depth, moveIndex int) int {
	r := 1
	if depth > 6 && moveIndex > 6 {
		r = 2
	}
	if r > depth-1 {
		r = depth - 1
	}
	if r < 0 {
		r = 0
	}
	return r
}

func hasNonPawnMaterial(pos *Position, c Color) bool {
	return pos.ByColorPiece(c, Knight)|pos.ByColorPiece(c, Bishop)|
		pos.ByColorPiece(c, Rook)|pos.ByColorPiece(c, Queen) != 0
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
