// Package ids allocates small dense non-negative identifiers.
//
// A [Manager] hands out uint32 ids, preferring the smallest previously
// freed id over growing its high-water mark. It underlies node, edge and
// subgraph ids in package graph. Its whole state can be captured with
// [Manager.State] and reinstated with [Manager.Restore], which is how
// undo makes id allocation itself reversible.
//
// A Manager is not safe for concurrent use.
package ids

import (
	"container/heap"
	"math"
	"slices"

	errs "github.com/matzehuels/multigraph/pkg/errors"
)

// Invalid is the reserved id denoting "no element".
const Invalid uint32 = math.MaxUint32

// Manager allocates and frees ids.
//
// Ids in [0, Next()) are either used or free; ids at or beyond Next()
// have never been handed out and are reported free.
type Manager struct {
	next uint32
	free freeHeap
	// isFree mirrors the heap contents for O(1) membership tests.
	isFree map[uint32]struct{}
}

// State is an opaque, restorable snapshot of a Manager.
type State struct {
	next uint32
	free []uint32
}

// New returns an empty Manager whose first id is 0.
func New() *Manager {
	return &Manager{isFree: make(map[uint32]struct{})}
}

// Get returns the smallest free id, or extends the high-water mark when
// none is free. It fails with ID_EXHAUSTED once the mark reaches [Invalid].
func (m *Manager) Get() (uint32, error) {
	if m.free.Len() > 0 {
		id := heap.Pop(&m.free).(uint32)
		delete(m.isFree, id)
		return id, nil
	}
	if m.next == Invalid {
		return Invalid, errs.New(errs.ErrCodeIDExhausted, "id space exhausted")
	}
	id := m.next
	m.next++
	return id, nil
}

// GetN returns n ids: free ids in ascending order first, then fresh ids
// from the high-water mark. On exhaustion no id is allocated.
func (m *Manager) GetN(n int) ([]uint32, error) {
	reuse := min(n, m.free.Len())
	fresh := n - reuse
	if uint64(m.next)+uint64(fresh) > uint64(Invalid) {
		return nil, errs.New(errs.ErrCodeIDExhausted, "id space exhausted allocating %d ids", n)
	}
	out := make([]uint32, 0, n)
	for range reuse {
		id := heap.Pop(&m.free).(uint32)
		delete(m.isFree, id)
		out = append(out, id)
	}
	for range fresh {
		out = append(out, m.next)
		m.next++
	}
	return out, nil
}

// Free returns id to the pool. Freeing an id beyond the high-water mark
// or an id that is already free corrupts undo state and is rejected.
func (m *Manager) Free(id uint32) error {
	if id >= m.next {
		return errs.New(errs.ErrCodeInvalidID, "id %d was never allocated", id)
	}
	if _, ok := m.isFree[id]; ok {
		return errs.New(errs.ErrCodeInvalidID, "id %d is already free", id)
	}
	heap.Push(&m.free, id)
	m.isFree[id] = struct{}{}
	return nil
}

// IsFree reports whether id is not currently in use.
func (m *Manager) IsFree(id uint32) bool {
	if id >= m.next {
		return true
	}
	_, ok := m.isFree[id]
	return ok
}

// IsUsed reports whether id is currently allocated.
func (m *Manager) IsUsed(id uint32) bool { return !m.IsFree(id) }

// Next returns the high-water mark.
func (m *Manager) Next() uint32 { return m.next }

// FreeCount returns the number of free ids below the high-water mark.
func (m *Manager) FreeCount() int { return m.free.Len() }

// Len returns the number of ids in use.
func (m *Manager) Len() int { return int(m.next) - m.free.Len() }

// IDs returns the used ids in ascending order.
func (m *Manager) IDs() []uint32 {
	out := make([]uint32, 0, m.Len())
	for id := uint32(0); id < m.next; id++ {
		if _, ok := m.isFree[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// Reserve pre-sizes the free-id tables for n additional frees.
func (m *Manager) Reserve(n int) {
	m.free = slices.Grow(m.free, n)
}

// State captures the manager for a later [Manager.Restore].
func (m *Manager) State() State {
	return State{next: m.next, free: slices.Clone(m.free)}
}

// Restore resets the manager exactly to s.
func (m *Manager) Restore(s State) {
	m.next = s.next
	m.free = slices.Clone(s.free)
	m.isFree = make(map[uint32]struct{}, len(s.free))
	for _, id := range s.free {
		m.isFree[id] = struct{}{}
	}
}

// Equal reports whether two states describe the same allocation.
func (s State) Equal(o State) bool {
	if s.next != o.next || len(s.free) != len(o.free) {
		return false
	}
	a, b := slices.Clone(s.free), slices.Clone(o.free)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// freeHeap is a min-heap of free ids.
type freeHeap []uint32

func (h freeHeap) Len() int           { return len(h) }
func (h freeHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h freeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *freeHeap) Push(x any)        { *h = append(*h, x.(uint32)) }
func (h *freeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
