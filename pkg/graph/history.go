package graph

import (
	"context"
	"slices"
	"time"

	errs "github.com/matzehuels/multigraph/pkg/errors"
)

// history is the checkpoint stack of a root. The last undo recorder is
// the one currently recording.
type history struct {
	undo []*recorder
	redo []*recorder
}

func (h *history) top() *recorder {
	if len(h.undo) == 0 {
		return nil
	}
	return h.undo[len(h.undo)-1]
}

// recording reports whether deleted subgraphs must be kept for undo.
func (sh *shared) recording() bool {
	return sh.replaying || len(sh.hist.undo) > 0
}

// PushOption configures a checkpoint.
type PushOption func(*pushOptions)

type pushOptions struct {
	unpop     bool
	preserved []PropertyInterface
}

// WithoutUnpop makes the checkpoint's changes unrecoverable once popped.
func WithoutUnpop() PushOption {
	return func(o *pushOptions) { o.unpop = false }
}

// PreserveProperties excludes the values of props from the checkpoint;
// popping it leaves them as they are.
func PreserveProperties(props ...PropertyInterface) PushOption {
	return func(o *pushOptions) { o.preserved = append(o.preserved, props...) }
}

// Push opens a checkpoint: every later change to the tree can be undone
// with Pop. It reports whether pending redo history was discarded.
//
// When the current checkpoint has recorded nothing and allows unpop, it
// is reused instead of opening a new one.
func (g *Graph) Push(opts ...PushOption) bool {
	root := g.root
	sh := root.shared
	h := &sh.hist
	o := pushOptions{unpop: true}
	for _, opt := range opts {
		opt(&o)
	}

	discarded := len(h.redo) > 0
	if discarded {
		h.discardRedo(root)
	}

	if top := h.top(); top != nil && o.unpop && top.allowRestart && !top.hasUpdates() {
		top.preserve(o.preserved)
		root.Logger().Debug("push", "depth", len(h.undo), "reused", true)
		sh.opts.hooks.OnPush(context.Background(), len(h.undo), discarded)
		return discarded
	}
	if top := h.top(); top != nil {
		top.stop()
	}
	r := newRecorder(root, o.unpop, o.preserved)
	h.undo = append(h.undo, r)
	r.start()

	if limit := sh.opts.maxCheckpoints; len(h.undo) > limit {
		dropped := h.undo[:len(h.undo)-limit]
		h.undo = slices.Clone(h.undo[len(h.undo)-limit:])
		for _, old := range dropped {
			h.release(root, old)
		}
		root.Logger().Debug("checkpoints dropped", "count", len(dropped))
	}
	root.Logger().Debug("push", "depth", len(h.undo), "unpop", o.unpop, "preserved", len(o.preserved))
	sh.opts.hooks.OnPush(context.Background(), len(h.undo), discarded)
	return discarded
}

// Pop undoes every change since the last checkpoint and closes it. noop
// reports that the checkpoint had recorded nothing. Popping without a
// checkpoint is a NO_CHECKPOINT error.
func (g *Graph) Pop() (noop bool, err error) {
	return g.root.pop(true)
}

// PopIfNoUpdates closes the current checkpoint when nothing was recorded
// since it was opened, without keeping it for redo.
func (g *Graph) PopIfNoUpdates() bool {
	top := g.root.shared.hist.top()
	if top == nil || top.hasUpdates() {
		return false
	}
	_, err := g.root.pop(false)
	return err == nil
}

func (g *Graph) pop(keep bool) (noop bool, err error) {
	sh := g.shared
	h := &sh.hist
	start := time.Now()
	defer func() {
		sh.opts.hooks.OnPop(context.Background(), len(h.undo), noop, time.Since(start), err)
	}()

	r := h.top()
	if r == nil {
		return false, errs.New(errs.ErrCodeNoCheckpoint, "no checkpoint to pop")
	}
	h.undo = h.undo[:len(h.undo)-1]
	noop = !r.hasUpdates()
	r.stop()
	r.undo()
	if keep && r.allowRestart {
		h.redo = append(h.redo, r)
	} else {
		h.release(g, r)
	}
	if next := h.top(); next != nil {
		next.restart()
	}
	g.Logger().Debug("pop", "depth", len(h.undo), "noop", noop, "redo", len(h.redo), "took", time.Since(start))
	return noop, nil
}

// Unpop redoes the last popped checkpoint. Without one it is a NO_REDO
// error.
func (g *Graph) Unpop() (err error) {
	root := g.root
	sh := root.shared
	h := &sh.hist
	start := time.Now()
	defer func() {
		sh.opts.hooks.OnUnpop(context.Background(), len(h.undo), time.Since(start), err)
	}()

	if len(h.redo) == 0 {
		return errs.New(errs.ErrCodeNoRedo, "no popped checkpoint to restore")
	}
	r := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	if top := h.top(); top != nil {
		top.stop()
	}
	r.redo()
	h.undo = append(h.undo, r)
	r.restart()
	root.Logger().Debug("unpop", "depth", len(h.undo), "redo", len(h.redo), "took", time.Since(start))
	return nil
}

// CanPop reports whether a checkpoint is open.
func (g *Graph) CanPop() bool { return len(g.shared.hist.undo) > 0 }

// CanUnpop reports whether a popped checkpoint can be redone.
func (g *Graph) CanUnpop() bool { return len(g.shared.hist.redo) > 0 }

// CanPopThenUnpop reports whether popping the current checkpoint would
// keep it for redo.
func (g *Graph) CanPopThenUnpop() bool {
	top := g.shared.hist.top()
	return top != nil && top.allowRestart
}

// HistoryDepth returns the number of open checkpoints.
func (g *Graph) HistoryDepth() int { return len(g.shared.hist.undo) }

// discardRedo drops every popped checkpoint.
func (h *history) discardRedo(root *Graph) {
	redo := h.redo
	h.redo = nil
	for _, r := range redo {
		h.release(root, r)
	}
	root.Logger().Debug("redo history discarded", "count", len(redo))
}

// release forgets r and frees the ids of detached subgraphs no other
// checkpoint can reattach.
func (h *history) release(root *Graph, r *recorder) {
	r.unsubscribe()
	for _, sg := range r.subgraphs() {
		if root.IsDescendantGraph(sg) || h.references(sg) {
			continue
		}
		sg.release()
	}
}

func (h *history) references(sg *Graph) bool {
	for _, list := range [][]*recorder{h.undo, h.redo} {
		for _, r := range list {
			if slices.Contains(r.subgraphs(), sg) {
				return true
			}
		}
	}
	return false
}
