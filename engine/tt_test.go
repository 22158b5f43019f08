package engine

import "testing"

func TestTranspositionTableStoreAndProbe(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(0x1234567890abcdef)
	move := NewMove(SquareE2, SquareE4, MoveDoublePush)

	tt.Store(key, 0, move, 150, BoundExact, 6)
	hit := tt.Probe(key, 0)
	if !hit.Found {
		t.Fatal("expected a hit for the stored key")
	}
	if hit.Move != move || hit.Score != 150 || hit.Bound != BoundExact || hit.Depth != 6 {
		t.Errorf("got %+v", hit)
	}
}

func TestTranspositionTableMissOnDifferentKey(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(1, 0, 0, 0, BoundExact, 1)
	if hit := tt.Probe(2, 0); hit.Found {
		t.Error("expected no hit for an unrelated key")
	}
}

func TestTranspositionTableMateScoreNormalization(t *testing.T) {
	tt := NewTranspositionTable(1)
	key := uint64(42)
	const matePlies = 3 // the mate lies 3 plies below the stored node

	// Store as found at ply 5 from the root of that search, so the
	// root-relative score is MateScore-(5+3).
	tt.Store(key, 5, 0, MateScore-(5+matePlies), BoundExact, 4)
	// Probe from a different ply (this position reached via a
	// different path length): the returned score must still reflect
	// a mate 3 plies below this node, relative to the new ply.
	hit := tt.Probe(key, 2)
	if want := MateScore - (2 + matePlies); hit.Score != want {
		t.Errorf("mate score should renormalize across ply, got %d want %d", hit.Score, want)
	}
}

func TestTranspositionTableClearEmptiesTable(t *testing.T) {
	tt := NewTranspositionTable(1)
	tt.Store(7, 0, 0, 10, BoundExact, 3)
	tt.Clear()
	if hit := tt.Probe(7, 0); hit.Found {
		t.Error("Clear should empty the table")
	}
}

func TestTranspositionTableMarshalRoundTrip(t *testing.T) {
	tt := NewTranspositionTable(1)
	move := NewMove(SquareG1, SquareF3, MoveQuiet)
	tt.Store(99, 0, move, 42, BoundLower, 5)

	data, err := tt.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	restored := NewTranspositionTable(1)
	if err := restored.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	hit := restored.Probe(99, 0)
	if !hit.Found || hit.Move != move || hit.Score != 42 || hit.Bound != BoundLower {
		t.Errorf("round trip mismatch: %+v", hit)
	}
}

func TestTranspositionTableUnmarshalRejectsSizeMismatch(t *testing.T) {
	small := NewTranspositionTable(1)
	data, err := small.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	large := NewTranspositionTable(2)
	if err := large.UnmarshalBinary(data); err == nil {
		t.Error("expected an error restoring a snapshot sized for a different table")
	}
}
