// Package property implements Velk's Property runtime: an Any plus an
// onChanged Event, with immediate and deferred write modes and the
// read-only/external relay rules from spec §3.8 — component H.
package property

import (
	"sync"
	"sync/atomic"

	"github.com/velk-rt/velk/anyval"
	"github.com/velk-rt/velk/funcevent"
	"github.com/velk-rt/velk/types"
)

// Scheduler defers the application of a coalesced property write to the
// next update() tick. Implemented by update.Queue; kept minimal here so
// property never imports update.
type Scheduler interface {
	funcevent.Scheduler
	// EnqueueCoalesced schedules apply to run during the next Drain,
	// replacing any not-yet-applied write previously enqueued for the
	// same key (last-write-wins per key per tick).
	EnqueueCoalesced(key any, apply func())
}

// externalAny is implemented by an Any whose writes already emit their
// own change notification; a Property backed by one relays that signal
// into its own onChanged instead of firing a duplicate.
type externalAny interface {
	anyval.Any
	OnExternalChange(fn func(anyval.Any)) (remove func())
}

// Property wraps an Any with change notification, read-only enforcement,
// and deferred-write coalescing.
type Property struct {
	mu         sync.Mutex
	data       anyval.Any
	onChanged  *funcevent.Event
	external   bool
	removeExt  func()
	flags      types.ObjectFlags
	sched      Scheduler
	destroyed  atomic.Bool
}

// New returns a Property backed by initial, with flags applied.
func New(initial anyval.Any, flags types.ObjectFlags, sched Scheduler) *Property {
	p := &Property{data: initial, flags: flags, sched: sched}
	p.onChanged = funcevent.NewEvent(sched)
	p.setAny(initial)
	return p
}

// setAny installs newAny as the backing value. If newAny implements the
// external-change contract, the property subscribes to it and relays its
// signal into onChanged instead of firing its own on direct writes.
func (p *Property) setAny(newAny anyval.Any) {
	if p.removeExt != nil {
		p.removeExt()
		p.removeExt = nil
		p.external = false
	}
	p.data = newAny
	if ext, ok := newAny.(externalAny); ok {
		p.external = true
		p.removeExt = ext.OnExternalChange(func(v anyval.Any) {
			p.onChanged.Invoke([]anyval.Any{v})
		})
	}
}

// OnChanged returns the property's change-notification Event.
func (p *Property) OnChanged() *funcevent.Event { return p.onChanged }

// Value returns a clone of the current backing Any.
func (p *Property) Value() anyval.Any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.data.Clone()
}

// SetValue writes src into the property. Immediate writes apply
// synchronously and fire onChanged (unless the backing Any is external,
// which relays its own signal). Deferred writes clone the current value,
// apply src to the clone, and — if that changed anything — enqueue the
// clone to replace the stored value on the next update() tick, coalescing
// with any other not-yet-applied deferred write to this same property.
func (p *Property) SetValue(src anyval.Any, mode types.InvokeMode) types.ReturnValue {
	if p.flags.Has(types.FlagReadOnly) {
		return types.ReadOnly
	}

	if mode == types.Deferred {
		p.mu.Lock()
		clone := p.data.Clone()
		p.mu.Unlock()

		rv := clone.CopyFrom(src)
		if rv != types.Success {
			return rv
		}
		p.sched.EnqueueCoalesced(p, func() {
			if p.destroyed.Load() {
				return
			}
			p.applyImmediate(clone)
		})
		return types.Success
	}

	return p.applyImmediate(src)
}

func (p *Property) applyImmediate(src anyval.Any) types.ReturnValue {
	p.mu.Lock()
	rv := p.data.CopyFrom(src)
	external := p.external
	current := p.data
	p.mu.Unlock()

	if rv == types.Success && !external {
		p.onChanged.Invoke([]anyval.Any{current.Clone()})
	}
	return rv
}

// Destroy marks the property as torn down: any deferred write still
// pending from a previous tick becomes a no-op instead of touching freed
// state, the Go analogue of the original's "deferred task whose target is
// gone" skip rule (Go closures keep the Property reachable, so there is no
// weak-pointer expiry to check instead).
func (p *Property) Destroy() {
	p.destroyed.Store(true)
	p.mu.Lock()
	remove := p.removeExt
	p.removeExt = nil
	p.mu.Unlock()
	if remove != nil {
		remove()
	}
}

// IsReadOnly reports whether the read-only flag is set.
func (p *Property) IsReadOnly() bool { return p.flags.Has(types.FlagReadOnly) }
