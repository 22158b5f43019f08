// Package ttstore persists a transposition table snapshot across
// process runs as a single value in an on-disk Badger database, so a
// long-lived engine process can resume warm after a restart. It is
// strictly a cache: a missing database, a missing key, or a failed
// write never changes search results, only whether the table starts
// warm.
package ttstore

import (
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/PS-Wizard/OopsMate/engine"
)

// snapshotKey is the single key the whole table snapshot is stored
// under; the transposition table is not a natural KV workload (it's
// read and written as one blob, never per-entry), so one key is all
// this package needs.
var snapshotKey = []byte("tt-snapshot")

// Store wraps a Badger database directory holding at most one
// transposition-table snapshot.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a Badger database at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ttstore: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database's file locks.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save snapshots eng's transposition table and writes it under
// snapshotKey, replacing any previous snapshot.
func (s *Store) Save(eng *engine.Engine) error {
	data, err := eng.SaveTT()
	if err != nil {
		return fmt.Errorf("ttstore: snapshot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey, data)
	})
}

// Load restores a previously saved snapshot into eng's transposition
// table. A missing key is not an error -- it just means there is
// nothing to warm the table with yet.
func (s *Store) Load(eng *engine.Engine) error {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey)
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("ttstore: read: %w", err)
	}
	if data == nil {
		return nil
	}
	if err := eng.LoadTT(data); err != nil {
		// A size mismatch or corrupt snapshot is just a cold start.
		return nil
	}
	return nil
}
