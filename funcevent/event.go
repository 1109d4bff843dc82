// Package funcevent implements Velk's Function and Event runtime:
// invocation plus a handler list partitioned into an immediate segment and
// a deferred segment, split at a single index — component I.
package funcevent

import (
	"sync"

	"github.com/velk-rt/velk/anyval"
	"github.com/velk-rt/velk/types"
)

// Handler is one callback installed on a Function or Event. It mirrors the
// original's three dispatch slot shapes (raw callback, bound target, owned
// callback) by simply being a Go closure — Go closures already capture
// their context the way a bound-target/owned-callback pair would, making
// the three-way split unnecessary; the deleter the original calls on an
// owned callback's destruction becomes an explicit Close, invoked when the
// handler is removed through RemoveHandler. Nothing else calls Close:
// Function and Event have no teardown of their own.
type Handler struct {
	Call  func(args []anyval.Any) (anyval.Any, types.ReturnValue)
	Close func()
}

// Scheduler defers fn to run on the next update() tick — implemented by
// update.Queue. Kept as a minimal interface here so funcevent never
// imports the update package (dependency runs the other way).
type Scheduler interface {
	Enqueue(fn func())
}

// Dispatcher is the shared handler-list plumbing behind both Function and
// Event: a partitioned slice of Handlers, split by immediateCount, plus
// optional invocation of a single "target" callable (Function only; Event
// leaves target nil and dispatch becomes purely handler fan-out).
type Dispatcher struct {
	mu             sync.Mutex
	handlers       []*Handler
	immediateCount int
	sched          Scheduler
}

// NewDispatcher returns a Dispatcher that enqueues deferred work onto
// sched.
func NewDispatcher(sched Scheduler) *Dispatcher {
	return &Dispatcher{sched: sched}
}

// AddHandler installs h. mode = Immediate inserts at the split index and
// advances it; mode = Deferred appends at the tail. Adding the exact same
// *Handler pointer twice is rejected with NothingToDo.
func (d *Dispatcher) AddHandler(h *Handler, mode types.InvokeMode) types.ReturnValue {
	if h == nil {
		return types.InvalidArgument
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, existing := range d.handlers {
		if existing == h {
			return types.NothingToDo
		}
	}

	if mode == types.Immediate {
		d.handlers = append(d.handlers, nil)
		copy(d.handlers[d.immediateCount+1:], d.handlers[d.immediateCount:])
		d.handlers[d.immediateCount] = h
		d.immediateCount++
	} else {
		d.handlers = append(d.handlers, h)
	}
	return types.Success
}

// RemoveHandler removes h, adjusting the split index if it was in the
// immediate segment. Calls h.Close if set.
func (d *Dispatcher) RemoveHandler(h *Handler) types.ReturnValue {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, existing := range d.handlers {
		if existing == h {
			wasImmediate := i < d.immediateCount
			d.handlers = append(d.handlers[:i], d.handlers[i+1:]...)
			if wasImmediate {
				d.immediateCount--
			}
			if h.Close != nil {
				h.Close()
			}
			return types.Success
		}
	}
	return types.NothingToDo
}

// snapshot returns a copy of the immediate and deferred segments under the
// lock, so Dispatch can run callbacks without holding it.
func (d *Dispatcher) snapshot() (immediate, deferred []*Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	immediate = append([]*Handler(nil), d.handlers[:d.immediateCount]...)
	deferred = append([]*Handler(nil), d.handlers[d.immediateCount:]...)
	return
}

// Dispatch runs every immediate handler synchronously in insertion order,
// and for every deferred handler enqueues a task sharing one clone of args
// (cloned once, not once per handler). It does not invoke a distinguished
// "target" callable — that's layered on top by Function.
func (d *Dispatcher) Dispatch(args []anyval.Any) {
	immediate, deferred := d.snapshot()

	for _, h := range immediate {
		h.Call(args)
	}

	if len(deferred) == 0 {
		return
	}
	sharedArgs := cloneArgs(args)
	for _, h := range deferred {
		h := h
		d.sched.Enqueue(func() {
			h.Call(sharedArgs)
		})
	}
}

func cloneArgs(args []anyval.Any) []anyval.Any {
	cloned := make([]anyval.Any, len(args))
	for i, a := range args {
		if a != nil {
			cloned[i] = a.Clone()
		}
	}
	return cloned
}

// Event is a Function-shaped member with no target, no argument
// descriptors beyond whatever Invoke is given, used for onChanged-style
// notifications.
type Event struct {
	*Dispatcher
}

// NewEvent returns an Event whose deferred handlers run via sched.
func NewEvent(sched Scheduler) *Event {
	return &Event{Dispatcher: NewDispatcher(sched)}
}

// Invoke fires the event: every immediate handler runs synchronously now,
// every deferred handler runs on the next update() tick.
func (e *Event) Invoke(args []anyval.Any) {
	e.Dispatch(args)
}
