// Package hive implements Velk's dense, page-allocated object pool: the
// Raw Hive primitive (a generic slot arena with generation-checked
// handles) and, on top of it, the reference-counted Object Hive —
// component N.
//
// The original lays out each page as parallel arrays (state, active bitmap,
// embedded control blocks, aligned object storage) and locates a slot by
// pointer arithmetic against page address ranges. Go has no portable
// pointer-to-slot arithmetic, so a Handle carries the page and slot index
// directly, and a per-slot generation counter (the same idea as
// core/id.go's epoch-checked ID[Marker]) replaces pointer-arithmetic-based
// use-after-free detection: a stale Handle's generation no longer matches
// the slot's current one.
package hive

import (
	"sync"
)

// pageCapacities is the hive's growth schedule: the Nth page added has
// this many slots (the schedule repeats-doubling past the last entry).
var pageCapacities = []int{16, 64, 256, 1024}

// approxSlotBytes estimates a hive slot's footprint for the OS-page
// rounding below; it doesn't need to be exact, only in the right order of
// magnitude.
const approxSlotBytes = 64

// capacityForPage computes the Nth page's slot count against schedule (the
// hive's growth schedule — nil falls back to the package default). Past
// the end of the schedule, capacity doubles every page.
func capacityForPage(schedule []int, pageIndex int) int {
	if schedule == nil {
		schedule = pageCapacities
	}
	if pageIndex < len(schedule) {
		return schedule[pageIndex]
	}
	cap := schedule[len(schedule)-1]
	for i := len(schedule); i <= pageIndex; i++ {
		cap *= 2
	}
	// Past the fixed schedule, round up to a whole number of OS pages'
	// worth of slots so very large hives grow in page-aligned chunks
	// rather than purely geometric ones.
	if slotsPerPage := osPageSize() / approxSlotBytes; slotsPerPage > 0 {
		if rem := cap % slotsPerPage; rem != 0 {
			cap += slotsPerPage - rem
		}
	}
	return cap
}

// slotState mirrors the original's Active/Zombie/Free tri-state, though a
// RawHive (no reference counting) only ever uses Active and Free — Zombie
// is meaningful once ObjectHive layers weak-pointer survival on top.
type slotState uint8

const (
	stateFree slotState = iota
	stateActive
	stateZombie
)

// Handle identifies a slot within a hive. The zero Handle never identifies
// a real slot.
type Handle struct {
	page int
	slot int
	gen  uint32
}

// IsZero reports whether h is the zero Handle.
func (h Handle) IsZero() bool { return h == Handle{} }

type rawPage[T any] struct {
	state     []slotState
	gen       []uint32
	freeLink  []int // next free index while Free; meaningless while Active
	values    []T
	freeHead  int // index of first free slot, or -1
	liveCount int
}

func newRawPage[T any](capacity int) *rawPage[T] {
	p := &rawPage[T]{
		state:    make([]slotState, capacity),
		gen:      make([]uint32, capacity),
		freeLink: make([]int, capacity),
		values:   make([]T, capacity),
		freeHead: 0,
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

func (p *rawPage[T]) nextFree(i int) int        { return p.freeLink[i] }
func (p *rawPage[T]) setNextFree(i, next int)   { p.freeLink[i] = next }

// RawHive is a page-allocated slot pool of values of type T with no
// reference counting — the primitive applications reach for when they want hive-style
// contiguous iteration without per-slot control blocks (Design Notes:
// "applications that don't need weak pointers to hive members can
// implement their own arena on top of the Raw Hive primitive").
type RawHive[T any] struct {
	mu       sync.RWMutex
	pages    []*rawPage[T]
	schedule []int
}

// NewRawHive returns an empty RawHive using the package's default growth
// schedule.
func NewRawHive[T any]() *RawHive[T] {
	return &RawHive[T]{}
}

// NewRawHiveWithSchedule returns an empty RawHive that grows its Nth page to
// schedule[N] slots (doubling past the end of schedule), overriding the
// package default — see runtime.WithHiveGrowthSchedule.
func NewRawHiveWithSchedule[T any](schedule []int) *RawHive[T] {
	return &RawHive[T]{schedule: schedule}
}

// Add inserts value into the first page with a free slot (allocating a new
// page per the growth schedule if every existing page is full) and returns
// its Handle.
func (h *RawHive[T]) Add(value T) Handle {
	h.mu.Lock()
	defer h.mu.Unlock()

	for pi, p := range h.pages {
		if p.freeHead >= 0 {
			return h.insertInto(pi, p, value)
		}
	}

	p := newRawPage[T](capacityForPage(h.schedule, len(h.pages)))
	h.pages = append(h.pages, p)
	return h.insertInto(len(h.pages)-1, p, value)
}

func (h *RawHive[T]) insertInto(pageIndex int, p *rawPage[T], value T) Handle {
	slot := p.freeHead
	p.freeHead = p.nextFree(slot)
	p.state[slot] = stateActive
	p.gen[slot]++
	if p.gen[slot] == 0 {
		p.gen[slot] = 1
	}
	p.values[slot] = value
	p.liveCount++
	return Handle{page: pageIndex, slot: slot, gen: p.gen[slot]}
}

// Remove clears the slot identified by h, returning the slot to the
// page's freelist. Returns false if h is stale or the slot isn't Active.
func (h *RawHive[T]) Remove(handle Handle) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, ok := h.locate(handle)
	if !ok {
		return false
	}
	var zero T
	p.values[handle.slot] = zero
	p.state[handle.slot] = stateFree
	p.setNextFree(handle.slot, p.freeHead)
	p.freeHead = handle.slot
	p.liveCount--
	return true
}

// Get returns the value at h and true, or the zero value and false if h is
// stale or its slot isn't Active.
func (h *RawHive[T]) Get(handle Handle) (T, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	p, ok := h.locate(handle)
	if !ok {
		var zero T
		return zero, false
	}
	return p.values[handle.slot], true
}

// Contains reports whether h identifies a currently Active slot.
func (h *RawHive[T]) Contains(handle Handle) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.locate(handle)
	return ok
}

func (h *RawHive[T]) locate(handle Handle) (*rawPage[T], bool) {
	if handle.page < 0 || handle.page >= len(h.pages) {
		return nil, false
	}
	p := h.pages[handle.page]
	if handle.slot < 0 || handle.slot >= len(p.state) {
		return nil, false
	}
	if p.state[handle.slot] != stateActive || p.gen[handle.slot] != handle.gen {
		return nil, false
	}
	return p, true
}

// ForEach visits every Active slot under a shared lock, calling visit with
// each slot's Handle and value. visit returns false to stop iteration
// immediately. The read lock is held for the whole walk, so visit must not
// call Add or Remove on the same hive: both take the write lock.
func (h *RawHive[T]) ForEach(visit func(Handle, T) bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for pi, p := range h.pages {
		for si, state := range p.state {
			if state != stateActive {
				continue
			}
			if !visit(Handle{page: pi, slot: si, gen: p.gen[si]}, p.values[si]) {
				return
			}
		}
	}
}

// Len returns the total number of Active slots across all pages.
func (h *RawHive[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, p := range h.pages {
		n += p.liveCount
	}
	return n
}
