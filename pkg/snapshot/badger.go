package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

var badgerPrefix = []byte("snapshot/")

// BadgerStore keeps snapshots in an embedded Badger database.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadgerStore opens the database in dir. An empty dir opens an
// in-memory database.
func NewBadgerStore(dir string, ttl time.Duration) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger %q: %w", dir, err)
	}
	return &BadgerStore{db: db, ttl: ttl}, nil
}

func badgerKey(id uuid.UUID) []byte {
	return append(append([]byte{}, badgerPrefix...), id.String()...)
}

// Save writes s with the store TTL.
func (s *BadgerStore) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(badgerKey(snap.ID), data)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return fmt.Errorf("badger save %s: %w", snap.ID, err)
	}
	return nil
}

// Load reads the snapshot with the given id.
func (s *BadgerStore) Load(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	var snap Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("badger load %s: %w", id, err)
	}
	return &snap, nil
}

// List iterates over every snapshot key.
func (s *BadgerStore) List(ctx context.Context) ([]*Snapshot, error) {
	var out []*Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = badgerPrefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var snap Snapshot
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &snap)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			out = append(out, snap.Summary())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger list: %w", err)
	}
	sortSummaries(out)
	return out, nil
}

// Delete removes the snapshot key.
func (s *BadgerStore) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(id))
	})
	if err != nil {
		return fmt.Errorf("badger delete %s: %w", id, err)
	}
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error { return s.db.Close() }

var _ Store = (*BadgerStore)(nil)
