package hive

import (
	"sync"
	"sync/atomic"

	"github.com/velk-rt/velk/uid"
)

// Destroyer is implemented by values that need cleanup when their strong
// count reaches zero, the hive's substitute for the original's
// destroy_in_place call into the factory.
type Destroyer interface {
	Destroy()
}

type slotControl struct {
	state  slotState
	gen    uint32
	strong atomic.Int32
	weak   atomic.Int32
}

type objectPage[T any] struct {
	slots     []slotControl
	values    []T
	freeLink  []int
	freeHead  int
	liveCount int
}

func newObjectPage[T any](capacity int) *objectPage[T] {
	p := &objectPage[T]{
		slots:    make([]slotControl, capacity),
		values:   make([]T, capacity),
		freeLink: make([]int, capacity),
	}
	for i := 0; i < capacity; i++ {
		if i == capacity-1 {
			p.freeLink[i] = -1
		} else {
			p.freeLink[i] = i + 1
		}
	}
	return p
}

// ObjectHive is a dense, page-allocated, reference-counted object pool:
// adding an object returns a Ref that keeps it alive independent of hive
// membership, removing an object drops the hive's own reference (moving
// the slot to Zombie immediately, regardless of outstanding Refs) and
// frees the slot for reuse only once every Ref and Weak referencing it has
// released.
//
// The original frees an orphaned page's memory by hand once its last
// outstanding weak control block drops. Here every Ref and Weak holds a
// pointer to its ObjectHive, which holds all of its pages, so Go's garbage
// collector keeps the pages alive while the hive or any Ref or Weak is
// reachable and collects them afterwards — there is no orphan bookkeeping
// to replicate here. An ObjectHive never releases a page once allocated.
type ObjectHive[T any] struct {
	mu       sync.RWMutex
	classUID uid.UID
	pages    []*objectPage[T]
	schedule []int
}

// NewObjectHive returns an empty hive for the class identified by classUID,
// using the package's default growth schedule.
func NewObjectHive[T any](classUID uid.UID) *ObjectHive[T] {
	return &ObjectHive[T]{classUID: classUID}
}

// NewObjectHiveWithSchedule returns an empty hive that grows its Nth page to
// schedule[N] slots (doubling past the end of schedule), overriding the
// package default — see runtime.WithHiveGrowthSchedule.
func NewObjectHiveWithSchedule[T any](classUID uid.UID, schedule []int) *ObjectHive[T] {
	return &ObjectHive[T]{classUID: classUID, schedule: schedule}
}

// ClassUID returns the UID of the class this hive stores.
func (h *ObjectHive[T]) ClassUID() uid.UID { return h.classUID }

// Ref is a strong, hive-aware reference to a live object: one of the
// references counted in its slot's strong count.
type Ref[T any] struct {
	hive   *ObjectHive[T]
	handle Handle
}

// Handle returns the slot handle r refers to.
func (r Ref[T]) Handle() Handle { return r.handle }

// Get returns a pointer to the value, or nil if it has been destroyed.
func (r Ref[T]) Get() *T {
	p, ok := r.hive.lookup(r.handle)
	if !ok {
		return nil
	}
	return &p.values[r.handle.slot]
}

// Clone returns a new Ref sharing the same slot, incrementing its strong
// count.
func (r Ref[T]) Clone() Ref[T] {
	p, ok := r.hive.lookup(r.handle)
	if ok {
		p.slots[r.handle.slot].strong.Add(1)
	}
	return r
}

// Release drops this strong reference. When the strong count reaches
// zero the value is destroyed (via Destroyer, if implemented) and the
// slot's implicit weak token is released — if that in turn reaches zero
// with no outstanding Weak handles, the slot is returned to its page's
// freelist for reuse.
func (r Ref[T]) Release() {
	r.hive.releaseStrong(r.handle)
}

// Weaken returns a Weak observing r's slot without extending the value's
// lifetime.
func (r Ref[T]) Weaken() Weak[T] {
	p, ok := r.hive.lookup(r.handle)
	if ok {
		p.slots[r.handle.slot].weak.Add(1)
	}
	return Weak[T]{hive: r.hive, handle: r.handle}
}

// Weak is a non-owning observer of a hive slot.
type Weak[T any] struct {
	hive   *ObjectHive[T]
	handle Handle
}

// Lock attempts to promote w to a Ref, succeeding only while the value's
// strong count is still above zero.
func (w Weak[T]) Lock() (Ref[T], bool) {
	h := w.hive
	h.mu.RLock()
	if w.handle.page < 0 || w.handle.page >= len(h.pages) {
		h.mu.RUnlock()
		return Ref[T]{}, false
	}
	p := h.pages[w.handle.page]
	h.mu.RUnlock()

	slot := &p.slots[w.handle.slot]
	if slot.gen != w.handle.gen {
		return Ref[T]{}, false
	}
	for {
		cur := slot.strong.Load()
		if cur <= 0 {
			return Ref[T]{}, false
		}
		if slot.strong.CompareAndSwap(cur, cur+1) {
			return Ref[T]{hive: h, handle: w.handle}, true
		}
	}
}

// Release drops this weak reference, freeing the slot for reuse if it was
// the last one and the value has already been destroyed.
func (w Weak[T]) Release() {
	w.hive.releaseWeak(w.handle)
}

func (h *ObjectHive[T]) lookup(handle Handle) (*objectPage[T], bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if handle.page < 0 || handle.page >= len(h.pages) {
		return nil, false
	}
	p := h.pages[handle.page]
	slot := &p.slots[handle.slot]
	if slot.state != stateActive || slot.gen != handle.gen {
		return nil, false
	}
	return p, true
}

// Add constructs value into the hive, returning its Handle and a Ref that
// adopts one strong reference (the hive itself implicitly holds a second,
// released by Remove).
func (h *ObjectHive[T]) Add(value T) (Handle, Ref[T]) {
	h.mu.Lock()

	var pageIndex int
	var p *objectPage[T]
	found := false
	for pi, candidate := range h.pages {
		if candidate.freeHead >= 0 {
			pageIndex, p, found = pi, candidate, true
			break
		}
	}
	if !found {
		p = newObjectPage[T](capacityForPage(h.schedule, len(h.pages)))
		h.pages = append(h.pages, p)
		pageIndex = len(h.pages) - 1
	}

	slotIdx := p.freeHead
	p.freeHead = p.freeLink[slotIdx]
	slot := &p.slots[slotIdx]
	slot.state = stateActive
	slot.gen++
	if slot.gen == 0 {
		slot.gen = 1
	}
	slot.strong.Store(2)
	slot.weak.Store(1)
	p.values[slotIdx] = value
	p.liveCount++

	handle := Handle{page: pageIndex, slot: slotIdx, gen: slot.gen}
	h.mu.Unlock()

	return handle, Ref[T]{hive: h, handle: handle}
}

// Remove releases the hive's own strong reference to the object at
// handle, transitioning it to Zombie (no longer Contains/ForEach-visible)
// immediately. If no other Ref is outstanding this also destroys the
// value. Returns false if handle doesn't currently identify an Active
// slot.
func (h *ObjectHive[T]) Remove(handle Handle) bool {
	h.mu.Lock()
	if handle.page < 0 || handle.page >= len(h.pages) {
		h.mu.Unlock()
		return false
	}
	p := h.pages[handle.page]
	slot := &p.slots[handle.slot]
	if slot.state != stateActive || slot.gen != handle.gen {
		h.mu.Unlock()
		return false
	}
	slot.state = stateZombie
	p.liveCount--
	h.mu.Unlock()

	h.releaseStrong(handle)
	return true
}

func (h *ObjectHive[T]) releaseStrong(handle Handle) {
	h.mu.RLock()
	if handle.page < 0 || handle.page >= len(h.pages) {
		h.mu.RUnlock()
		return
	}
	p := h.pages[handle.page]
	h.mu.RUnlock()

	slot := &p.slots[handle.slot]
	if slot.gen != handle.gen {
		return
	}
	if slot.strong.Add(-1) != 0 {
		return
	}

	if d, ok := any(&p.values[handle.slot]).(Destroyer); ok {
		d.Destroy()
	}
	var zero T
	p.values[handle.slot] = zero

	h.releaseWeak(handle)
}

func (h *ObjectHive[T]) releaseWeak(handle Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if handle.page < 0 || handle.page >= len(h.pages) {
		return
	}
	p := h.pages[handle.page]
	slot := &p.slots[handle.slot]
	if slot.gen != handle.gen {
		return
	}
	if slot.weak.Add(-1) != 0 {
		return
	}
	slot.state = stateFree
	p.freeLink[handle.slot] = p.freeHead
	p.freeHead = handle.slot
}

// Contains reports whether handle identifies a currently Active slot.
func (h *ObjectHive[T]) Contains(handle Handle) bool {
	_, ok := h.lookup(handle)
	return ok
}

// ForEach visits every Active slot under a shared lock, in page then
// slot order. visit returns false to stop iteration immediately. Each
// slot's state is read when the walk reaches it. The read lock is held for
// the whole walk, so visit must not call Remove or release the last
// reference to a slot: both take the write lock.
func (h *ObjectHive[T]) ForEach(visit func(Handle, *T) bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for pi, p := range h.pages {
		for si := range p.slots {
			slot := &p.slots[si]
			if slot.state != stateActive {
				continue
			}
			if !visit(Handle{page: pi, slot: si, gen: slot.gen}, &p.values[si]) {
				return
			}
		}
	}
}

// Len returns the number of currently Active objects.
func (h *ObjectHive[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, p := range h.pages {
		n += p.liveCount
	}
	return n
}
