// Package future implements Velk's Future/Promise pair: a thread-safe
// result cell with blocking wait and continuation chaining — component J.
package future

import (
	"sync"

	"github.com/velk-rt/velk/anyval"
	"github.com/velk-rt/velk/types"
)

// Scheduler defers a continuation to run on the next update() tick.
type Scheduler interface {
	Enqueue(fn func())
}

type continuation struct {
	fn   func(anyval.Any)
	mode types.InvokeMode
}

// Future is a thread-safe, at-most-once-settled result cell.
type Future struct {
	mu      sync.Mutex
	cond    *sync.Cond
	ready   bool
	result  anyval.Any
	pending []continuation
	sched   Scheduler
}

// New returns an unsettled Future whose deferred continuations run via
// sched.
func New(sched Scheduler) *Future {
	f := &Future{sched: sched}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// IsReady reports whether the future has been settled.
func (f *Future) IsReady() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

// Wait blocks until the future is settled and returns the result (nil for
// a valueless future).
func (f *Future) Wait() anyval.Any {
	f.mu.Lock()
	defer f.mu.Unlock()
	for !f.ready {
		f.cond.Wait()
	}
	return f.result
}

// GetResult returns the result without blocking. The second return is
// false if the future isn't settled yet.
func (f *Future) GetResult() (anyval.Any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result, f.ready
}

// AddContinuation registers fn to run when the future settles: immediately
// on the calling thread (mode = Immediate) if already ready, otherwise
// queued for when set_result fires it; mode = Deferred always runs via
// the update() tick.
func (f *Future) AddContinuation(fn func(anyval.Any), mode types.InvokeMode) {
	f.mu.Lock()
	if !f.ready {
		f.pending = append(f.pending, continuation{fn: fn, mode: mode})
		f.mu.Unlock()
		return
	}
	result := f.result
	f.mu.Unlock()

	if mode == types.Deferred {
		f.sched.Enqueue(func() { fn(result) })
	} else {
		fn(result)
	}
}

// setResult settles the future exactly once with result (which may be
// nil for a valueless completion). Subsequent calls are NothingToDo.
func (f *Future) setResult(result anyval.Any) types.ReturnValue {
	f.mu.Lock()
	if f.ready {
		f.mu.Unlock()
		return types.NothingToDo
	}
	if result != nil {
		result = result.Clone()
	}
	f.result = result
	f.ready = true
	pending := f.pending
	f.pending = nil
	f.mu.Unlock()

	f.cond.Broadcast()

	for _, c := range pending {
		if c.mode == types.Deferred {
			c := c
			f.sched.Enqueue(func() { c.fn(result) })
		} else {
			c.fn(result)
		}
	}
	return types.Success
}

// Promise is the write side of a Future.
type Promise struct {
	future *Future
}

// NewPromise returns a Promise paired with a fresh Future.
func NewPromise(sched Scheduler) *Promise {
	return &Promise{future: New(sched)}
}

// Future returns the Promise's paired Future.
func (p *Promise) Future() *Future { return p.future }

// SetResult settles the paired future with a clone of result. At most one
// call across the Promise's lifetime succeeds; the rest return
// NothingToDo.
func (p *Promise) SetResult(result anyval.Any) types.ReturnValue {
	return p.future.setResult(result)
}

// Complete settles a valueless future.
func (p *Promise) Complete() types.ReturnValue {
	return p.future.setResult(nil)
}

// Then registers a typed continuation and returns a new Future resolved
// with fn's return value once f settles. Matches the original's
// Future<T>::then: a continuation returning a value produces a future
// whose result is an Any clone of that value.
func Then[R comparable](f *Future, fn func(anyval.Any) R, mode types.InvokeMode, sched Scheduler) *Future {
	next := New(sched)
	f.AddContinuation(func(v anyval.Any) {
		r := fn(v)
		next.setResult(anyval.NewOwned(r))
	}, mode)
	return next
}

// ThenVoid registers a continuation with no return value; the chained
// future resolves valuelessly once fn runs.
func ThenVoid(f *Future, fn func(anyval.Any), mode types.InvokeMode, sched Scheduler) *Future {
	next := New(sched)
	f.AddContinuation(func(v anyval.Any) {
		fn(v)
		next.setResult(nil)
	}, mode)
	return next
}
