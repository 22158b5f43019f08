// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// tt.go implements the transposition table: a
// fixed-capacity table of buckets, each holding a handful of entries
// keyed by (high bits of) the Zobrist key, storing a best move, a
// bound-typed score and a search depth. Mate scores are stored
// relative to the entry's own node and converted back to root-relative
// on probe, so a mate found ten plies deep in one search is still
// recognized as "mate in N" when reached through a different path
// length later.
package engine

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// Bound classifies how score relates to the window the entry's search
// was run with.
type Bound uint8

const (
	// BoundNone marks an empty or not-found entry.
	BoundNone Bound = iota
	// BoundExact holds the true score of the position (the search's
	// window was not exceeded in either direction).
	BoundExact
	// BoundLower means the true score is at least this value (search
	// failed high, a beta cutoff).
	BoundLower
	// BoundUpper means the true score is at most this value (search
	// failed low, no move reached alpha).
	BoundUpper
)

// entriesPerBucket sets how many entries share a bucket (and thus a
// cache line's worth of locality); a same-key match always wins replace,
// otherwise the shallowest/oldest entry in the bucket is evicted.
const entriesPerBucket = 4

type ttEntry struct {
	key   uint32 // high bits of the zobrist key, for collision detection
	move  Move
	score int16
	depth uint8
	age   uint8
	bound Bound
}

type ttBucket [entriesPerBucket]ttEntry

// TranspositionTable is a fixed-size hash table mapping positions to
// cached search results, shared across a single search instance.
type TranspositionTable struct {
	buckets []ttBucket
	mask    uint64
	age     uint8
}

// NewTranspositionTable builds a table sized to approximately
// sizeMB megabytes, rounded down to a power of two bucket count.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	if sizeMB < 1 {
		sizeMB = 1
	}
	bucketSize := uint64(unsafe.Sizeof(ttBucket{}))
	numBuckets := uint64(sizeMB) << 20 / bucketSize
	if numBuckets == 0 {
		numBuckets = 1
	}
	for numBuckets&(numBuckets-1) != 0 {
		numBuckets &= numBuckets - 1
	}
	return &TranspositionTable{
		buckets: make([]ttBucket, numBuckets),
		mask:    numBuckets - 1,
	}
}

// Clear empties the table without reallocating it.
func (tt *TranspositionTable) Clear() {
	for i := range tt.buckets {
		tt.buckets[i] = ttBucket{}
	}
	tt.age = 0
}

// NewSearch bumps the table's generation counter; entries from older
// generations are preferred eviction victims even at equal depth.
func (tt *TranspositionTable) NewSearch() {
	tt.age++
}

func (tt *TranspositionTable) index(key uint64) (bucketIdx int, lock uint32) {
	return int(key & tt.mask), uint32(key >> 32)
}

// ttSnapshotVersion guards MarshalBinary's wire format; bumped
// whenever the record layout changes so a stale snapshot is rejected
// instead of misread.
const ttSnapshotVersion = 1

// ttRecordSize is the encoded byte size of one occupied slot: slot
// index(4) + key(4) + move(2) + bound(1) + score(2) + depth(1) +
// age(1).
const ttRecordSize = 15

// MarshalBinary encodes the table's live entries (skipping empty
// slots) to a byte slice, for on-disk snapshotting between process
// runs. The format is private to this package.
func (tt *TranspositionTable) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 16, 16+len(tt.buckets)*entriesPerBucket*ttRecordSize)
	binary.LittleEndian.PutUint32(buf[0:4], ttSnapshotVersion)
	binary.LittleEndian.PutUint64(buf[4:12], uint64(len(tt.buckets)))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(tt.mask))

	var rec [ttRecordSize]byte
	for i := range tt.buckets {
		for j := range tt.buckets[i] {
			e := &tt.buckets[i][j]
			if e.bound == BoundNone {
				continue
			}
			binary.LittleEndian.PutUint32(rec[0:4], uint32(i*entriesPerBucket+j))
			binary.LittleEndian.PutUint32(rec[4:8], e.key)
			binary.LittleEndian.PutUint16(rec[8:10], uint16(e.move))
			rec[10] = byte(e.bound)
			binary.LittleEndian.PutUint16(rec[11:13], uint16(e.score))
			rec[13] = e.depth
			rec[14] = e.age
			buf = append(buf, rec[:]...)
		}
	}
	return buf, nil
}

// UnmarshalBinary restores entries from a snapshot produced by
// MarshalBinary into the table at its current size; a snapshot taken
// at a different Hash size is rejected rather than rescaled, since a
// stale or mis-sized snapshot is just a slower cold start, not a
// correctness problem -- callers should treat an error here as "start
// cold".
func (tt *TranspositionTable) UnmarshalBinary(data []byte) error {
	if len(data) < 16 {
		return fmt.Errorf("tt: snapshot too short")
	}
	version := binary.LittleEndian.Uint32(data[0:4])
	numBuckets := binary.LittleEndian.Uint64(data[4:12])
	mask := binary.LittleEndian.Uint32(data[12:16])
	if version != ttSnapshotVersion {
		return fmt.Errorf("tt: unsupported snapshot version %d", version)
	}
	if numBuckets != uint64(len(tt.buckets)) || uint64(mask) != tt.mask {
		return fmt.Errorf("tt: snapshot size does not match current Hash setting")
	}

	body := data[16:]
	if len(body)%ttRecordSize != 0 {
		return fmt.Errorf("tt: corrupt snapshot")
	}
	tt.Clear()
	for off := 0; off+ttRecordSize <= len(body); off += ttRecordSize {
		rec := body[off : off+ttRecordSize]
		slot := binary.LittleEndian.Uint32(rec[0:4])
		if int(slot) >= len(tt.buckets)*entriesPerBucket {
			return fmt.Errorf("tt: corrupt snapshot")
		}
		e := &tt.buckets[slot/entriesPerBucket][slot%entriesPerBucket]
		e.key = binary.LittleEndian.Uint32(rec[4:8])
		e.move = Move(binary.LittleEndian.Uint16(rec[8:10]))
		e.bound = Bound(rec[10])
		e.score = int16(binary.LittleEndian.Uint16(rec[11:13]))
		e.depth = rec[13]
		e.age = rec[14]
	}
	return nil
}

// ttHit is what Probe reports back to the caller: the cached move
// (usable for ordering regardless of depth sufficiency), and whether
// score/bound/depth are populated and may be used to cut the search
// short.
type ttHit struct {
	Move       Move
	Score      int32
	Bound      Bound
	Depth      int
	Found      bool
	UsableNode bool
}

// Probe looks up key's bucket for a matching entry. ply is the
// distance from the root, used to un-normalize a stored mate score.
func (tt *TranspositionTable) Probe(key uint64, ply int) ttHit {
	idx, lock := tt.index(key)
	bucket := &tt.buckets[idx]
	for i := range bucket {
		e := &bucket[i]
		if e.bound != BoundNone && e.key == lock {
			return ttHit{
				Move:       e.move,
				Score:      fromTTScore(int32(e.score), ply),
				Bound:      e.bound,
				Depth:      int(e.depth),
				Found:      true,
				UsableNode: true,
			}
		}
	}
	return ttHit{}
}

// Store records a search result for key, evicting the weakest entry in
// its bucket if no same-key slot exists.
func (tt *TranspositionTable) Store(key uint64, ply int, move Move, score int32, bound Bound, depth int) {
	idx, lock := tt.index(key)
	bucket := &tt.buckets[idx]

	victim := 0
	for i := range bucket {
		e := &bucket[i]
		if e.bound == BoundNone {
			victim = i
			break
		}
		if e.key == lock {
			victim = i
			break
		}
		if tt.worseThan(e, &bucket[victim]) {
			victim = i
		}
	}

	if move == 0 {
		// Keep the previous best move if the new store carries none
		// (e.g. a fail-low with no move reaching alpha).
		if bucket[victim].key == lock {
			move = bucket[victim].move
		}
	}

	bucket[victim] = ttEntry{
		key:   lock,
		move:  move,
		score: int16(toTTScore(score, ply)),
		depth: uint8(clampDepth(depth)),
		age:   tt.age,
		bound: bound,
	}
}

// worseThan reports whether candidate is a better eviction victim than
// current: older generation wins first, then shallower depth.
func (tt *TranspositionTable) worseThan(candidate, current *ttEntry) bool {
	if candidate.age != current.age {
		return candidate.age < current.age
	}
	return candidate.depth < current.depth
}

func clampDepth(depth int) int {
	if depth < 0 {
		return 0
	}
	if depth > 255 {
		return 255
	}
	return depth
}

// Mate-score normalization: scores are stored relative to the node
// they were computed at (MATE - ply at store time) so that a
// transposition reached at a different ply still reports a correctly
// adjusted mate distance from the root.
func toTTScore(score int32, ply int) int32 {
	if score >= MateThreshold {
		return score + int32(ply)
	}
	if score <= -MateThreshold {
		return score - int32(ply)
	}
	return score
}

func fromTTScore(score int32, ply int) int32 {
	if score >= MateThreshold {
		return score - int32(ply)
	}
	if score <= -MateThreshold {
		return score + int32(ply)
	}
	return score
}

// MateThreshold marks scores that represent "mate in N" rather than a
// material/positional evaluation: anything within MaxSearchPly of MateScore.
const MateThreshold = MateScore - MaxSearchPly
