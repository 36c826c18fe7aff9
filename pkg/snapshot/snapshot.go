package snapshot

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/multigraph/pkg/errors"
	"github.com/matzehuels/multigraph/pkg/graph"
	mio "github.com/matzehuels/multigraph/pkg/io"
)

// Snapshot is a named, immutable capture of a graph tree.
type Snapshot struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	// Data is the JSON document written by the io package. List leaves it
	// empty.
	Data []byte `json:"data,omitempty"`
}

// New captures g under name.
func New(g *graph.Graph, name string) (*Snapshot, error) {
	if err := errs.ValidateSnapshotName(name); err != nil {
		return nil, err
	}
	data, err := mio.Marshal(g, mio.WithIncidence())
	if err != nil {
		return nil, fmt.Errorf("marshal graph: %w", err)
	}
	return &Snapshot{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Nodes:     g.NumberOfNodes(),
		Edges:     g.NumberOfEdges(),
		Data:      data,
	}, nil
}

// Graph decodes the snapshot into a new root graph.
func (s *Snapshot) Graph(opts ...graph.Option) (*graph.Graph, error) {
	if len(s.Data) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "snapshot %s has no data", s.ID)
	}
	g, err := mio.Unmarshal(s.Data, opts...)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", s.ID, err)
	}
	return g, nil
}

// Summary returns a copy of s without its data.
func (s *Snapshot) Summary() *Snapshot {
	c := *s
	c.Data = nil
	return &c
}

// Store persists snapshots.
//
// Load of an unknown or expired id returns a NOT_FOUND error. Delete of an
// unknown id is not an error. List returns summaries, oldest first.
type Store interface {
	Save(ctx context.Context, s *Snapshot) error
	Load(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	List(ctx context.Context) ([]*Snapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Close() error
}

func notFound(id uuid.UUID) error {
	return errs.New(errs.ErrCodeNotFound, "snapshot %s not found", id)
}

// sortSummaries orders by creation time, then id.
func sortSummaries(list []*Snapshot) {
	slices.SortFunc(list, func(a, b *Snapshot) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
}
