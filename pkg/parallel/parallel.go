// Package parallel runs read-only passes over index ranges on a bounded
// number of goroutines.
//
// A [Pool] splits [0, n) into at most Workers() contiguous chunks and runs
// one goroutine per chunk on an errgroup. Callers write per-chunk results
// into disjoint slots or through [Locked] and merge afterward; graph
// mutation stays on the calling goroutine.
//
//	pool := parallel.New(0) // runtime.NumCPU() workers
//	err := pool.For(ctx, len(nodes), func(ctx context.Context, lo, hi int) error {
//	    for i := lo; i < hi; i++ {
//	        out[i] = g.Deg(nodes[i])
//	    }
//	    return nil
//	})
package parallel

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// minChunk keeps tiny ranges on one goroutine.
const minChunk = 64

// Pool holds the worker count used by parallel loops. The zero value is
// not usable; create pools with [New].
type Pool struct {
	workers atomic.Int32
}

// New returns a pool with the given worker count. Zero or a negative
// count means runtime.NumCPU().
func New(workers int) *Pool {
	p := &Pool{}
	p.SetWorkers(workers)
	return p
}

// Workers returns the current worker count.
func (p *Pool) Workers() int { return int(p.workers.Load()) }

// SetWorkers changes the worker count. A count of 1 makes every loop
// sequential and deterministic.
func (p *Pool) SetWorkers(n int) {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	p.workers.Store(int32(n))
}

// chunks splits [0, n) into contiguous ranges, at most one per worker.
func (p *Pool) chunks(n int) [][2]int {
	if n <= 0 {
		return nil
	}
	k := p.Workers()
	if k > 1 && n/k < minChunk {
		k = max(1, n/minChunk)
	}
	size := (n + k - 1) / k
	out := make([][2]int, 0, k)
	for lo := 0; lo < n; lo += size {
		out = append(out, [2]int{lo, min(lo+size, n)})
	}
	return out
}

// For calls fn once per chunk of [0, n). The first error cancels the
// context passed to the other chunks and is returned.
func (p *Pool) For(ctx context.Context, n int, fn func(ctx context.Context, lo, hi int) error) error {
	chunks := p.chunks(n)
	if len(chunks) <= 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, c := range chunks {
			if err := fn(ctx, c[0], c[1]); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, c := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, c[0], c[1])
		})
	}
	return g.Wait()
}

// Map applies fn to every element of in and returns the results in input
// order.
func Map[T, R any](ctx context.Context, p *Pool, in []T, fn func(T) R) ([]R, error) {
	out := make([]R, len(in))
	err := p.For(ctx, len(in), func(ctx context.Context, lo, hi int) error {
		for i := lo; i < hi; i++ {
			out[i] = fn(in[i])
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Reduce folds in with fold per chunk, starting each chunk from zero, and
// merges the partial results in chunk order with merge.
func Reduce[T, R any](ctx context.Context, p *Pool, in []T, zero R, fold func(R, T) R, merge func(R, R) R) (R, error) {
	chunks := p.chunks(len(in))
	partial := make([]R, len(chunks))
	idx := make(map[int]int, len(chunks))
	for i, c := range chunks {
		idx[c[0]] = i
	}
	err := p.For(ctx, len(in), func(ctx context.Context, lo, hi int) error {
		acc := zero
		for i := lo; i < hi; i++ {
			acc = fold(acc, in[i])
		}
		partial[idx[lo]] = acc
		return ctx.Err()
	})
	if err != nil {
		return zero, err
	}
	acc := zero
	for _, r := range partial {
		acc = merge(acc, r)
	}
	return acc, nil
}

// Locked is an accumulator shared between chunks.
type Locked[T any] struct {
	mu sync.Mutex
	v  T
}

// NewLocked returns an accumulator holding v.
func NewLocked[T any](v T) *Locked[T] {
	return &Locked[T]{v: v}
}

// Update applies fn to the value under the lock.
func (l *Locked[T]) Update(fn func(T) T) {
	l.mu.Lock()
	l.v = fn(l.v)
	l.mu.Unlock()
}

// Value returns the current value.
func (l *Locked[T]) Value() T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.v
}
