package funcevent

import (
	"github.com/velk-rt/velk/anyval"
	"github.com/velk-rt/velk/types"
)

// Target is the callable a Function invokes before running its handlers —
// the original's raw-callback/bound-target/owned-callback trampoline,
// unified into one closure shape since Go closures already capture
// context the way a bound target or owned callback would.
type Target func(args []anyval.Any) (anyval.Any, types.ReturnValue)

// Function is an invokable member with an optional installed Target plus
// the shared immediate/deferred Dispatcher handler list.
type Function struct {
	*Dispatcher
	target Target
}

// NewFunction returns a Function with no target installed yet, whose
// deferred handlers and deferred invocations run via sched.
func NewFunction(sched Scheduler) *Function {
	return &Function{Dispatcher: NewDispatcher(sched)}
}

// SetInvokeCallback installs (or replaces) the function's target callable.
func (f *Function) SetInvokeCallback(target Target) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.target = target
}

// Invoke calls the function. With mode = Deferred the entire call
// (target and handlers) is queued for the next update() tick and Invoke
// returns an empty Any immediately. With mode = Immediate, the target runs
// synchronously first, then every immediate handler, then one deferred
// task per deferred handler sharing a single args clone; the target's
// return value is returned, or NothingToDo/Success per the no-target
// case below.
func (f *Function) Invoke(args []anyval.Any, mode types.InvokeMode) (anyval.Any, types.ReturnValue) {
	if mode == types.Deferred {
		cloned := cloneArgs(args)
		f.sched.Enqueue(func() {
			f.invokeImmediate(cloned)
		})
		return nil, types.Success
	}
	return f.invokeImmediate(args)
}

func (f *Function) invokeImmediate(args []anyval.Any) (anyval.Any, types.ReturnValue) {
	f.mu.Lock()
	target := f.target
	f.mu.Unlock()

	var result anyval.Any
	rv := types.NothingToDo
	ranTarget := false
	if target != nil {
		result, rv = target(args)
		ranTarget = true
	}

	immediate, deferred := f.snapshot()
	for _, h := range immediate {
		h.Call(args)
	}
	if len(deferred) > 0 {
		shared := cloneArgs(args)
		for _, h := range deferred {
			h := h
			f.sched.Enqueue(func() {
				h.Call(shared)
			})
		}
	}

	if ranTarget {
		return result, rv
	}
	if len(immediate) > 0 || len(deferred) > 0 {
		return nil, types.Success
	}
	return nil, types.NothingToDo
}
