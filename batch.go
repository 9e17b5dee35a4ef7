package ocif

import (
	"time"
)

// Scheduler defers work to the next rendering frame. RequestFrame returns
// a function that cancels the request if it has not run yet.
type Scheduler interface {
	RequestFrame(fn func()) (cancel func())
}

// FrameQueue is the default Scheduler. Callbacks queue until the next
// Editor.Update, which runs them in request order.
type FrameQueue struct {
	pending []frameRequest
	nextID  uint32
}

type frameRequest struct {
	id uint32
	fn func()
}

// RequestFrame implements Scheduler.
func (q *FrameQueue) RequestFrame(fn func()) func() {
	q.nextID++
	id := q.nextID
	q.pending = append(q.pending, frameRequest{id: id, fn: fn})
	return func() { q.remove(id) }
}

func (q *FrameQueue) remove(id uint32) {
	for i := range q.pending {
		if q.pending[i].id == id {
			copy(q.pending[i:], q.pending[i+1:])
			q.pending[len(q.pending)-1] = frameRequest{}
			q.pending = q.pending[:len(q.pending)-1]
			return
		}
	}
}

// Len returns the number of queued callbacks.
func (q *FrameQueue) Len() int { return len(q.pending) }

// Run executes every callback queued before the call. Callbacks queued while
// running wait for the next Run.
func (q *FrameQueue) Run() {
	if len(q.pending) == 0 {
		return
	}
	batch := q.pending
	q.pending = nil
	for _, r := range batch {
		r.fn()
	}
}

// batcher merges per-node patches and applies them once per frame.
type batcher struct {
	pending map[string]NodePatch
	order   []string
	cancel  func()
}

// UpdateDocument applies fn to the current document, records the result as
// the editor's current value, and forwards it to the change callback.
func (e *Editor) UpdateDocument(fn func(Document) Document) {
	next := fn(e.doc)
	e.doc = next
	if e.onChange != nil {
		e.onChange(next)
	}
}

// UpdateNodeProperties queues a geometry patch for one node. Patches for the
// same node within a frame are merged field by field, later values winning.
// All queued patches are applied in a single UpdateDocument on the next
// frame.
func (e *Editor) UpdateNodeProperties(id string, patch NodePatch) {
	b := &e.batch
	if b.pending == nil {
		b.pending = make(map[string]NodePatch)
	}
	if prev, ok := b.pending[id]; ok {
		b.pending[id] = prev.merge(patch)
	} else {
		b.pending[id] = patch
		b.order = append(b.order, id)
	}
	if b.cancel != nil {
		b.cancel()
	}
	b.cancel = e.scheduler.RequestFrame(e.flushBatch)
}

// PendingPatch returns the queued patch for a node, if any.
func (e *Editor) PendingPatch(id string) (NodePatch, bool) {
	p, ok := e.batch.pending[id]
	return p, ok
}

// Flush applies queued node patches immediately.
func (e *Editor) Flush() {
	if e.batch.cancel != nil {
		e.batch.cancel()
		e.batch.cancel = nil
	}
	e.flushBatch()
}

// cancelBatch drops queued patches without applying them.
func (e *Editor) cancelBatch() {
	if e.batch.cancel != nil {
		e.batch.cancel()
	}
	e.batch = batcher{}
}

func (e *Editor) flushBatch() {
	b := &e.batch
	b.cancel = nil
	if len(b.pending) == 0 {
		return
	}
	start := time.Now()
	patches := b.pending
	n := len(b.order)
	b.pending = nil
	b.order = nil
	e.UpdateDocument(func(d Document) Document {
		return d.PatchNodes(patches)
	})
	e.debugFlush(n, start)
}
