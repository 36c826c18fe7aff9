package snapshot

import (
	"context"

	"github.com/google/uuid"
)

// NullStore never stores anything. Useful for testing or when snapshots
// are disabled.
type NullStore struct{}

// Save does nothing.
func (NullStore) Save(context.Context, *Snapshot) error { return nil }

// Load always reports NOT_FOUND.
func (NullStore) Load(_ context.Context, id uuid.UUID) (*Snapshot, error) {
	return nil, notFound(id)
}

// List always returns an empty list.
func (NullStore) List(context.Context) ([]*Snapshot, error) { return nil, nil }

// Delete does nothing.
func (NullStore) Delete(context.Context, uuid.UUID) error { return nil }

// Close does nothing.
func (NullStore) Close() error { return nil }

var _ Store = NullStore{}
