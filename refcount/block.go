// Package refcount implements Velk's reference-counting core: control
// blocks shared between strong (Shared[T]) and weak (Weak[T]) pointers,
// grounded on the original runtime's velk/memory.h. Every control block is
// an ordinary heap allocation. A block created without a destroy callback
// (used for interface objects whose Go value itself carries identity) also
// takes a Block from internal/blockpool and puts it back when its weak
// count reaches zero; a block that carries a destroy callback for a plain
// value takes none, matching the original's distinction between pooled
// intrusive blocks and non-pooled external blocks.
package refcount

import (
	"sync/atomic"

	"github.com/velk-rt/velk/internal/blockpool"
)

// controlBlock mirrors control_block / external_control_block: a strong
// count, a weak count that starts at 1 (representing "the strong group is
// alive"), the controlled value, and an optional destroy callback invoked
// exactly once when strong reaches zero.
type controlBlock struct {
	strong   atomic.Int32
	weak     atomic.Int32
	value    any
	destroy  func(any)
	external bool
	pooled   *blockpool.Block
}

func newBlock(value any, destroy func(any)) *controlBlock {
	external := destroy != nil
	b := &controlBlock{value: value, destroy: destroy, external: external}
	if !external {
		b.pooled = blockpool.Get()
	}
	b.strong.Store(1)
	b.weak.Store(1)
	return b
}

// addRef increments the strong count. Relaxed: callers already hold a
// valid reference, so this can't race with the count reaching zero.
func (b *controlBlock) addRef() {
	b.strong.Add(1)
}

// releaseRef decrements the strong count and, when it reaches zero, runs
// destroy and drops the strong group's weak reference, returning true in
// that case.
func (b *controlBlock) releaseRef() bool {
	if b.strong.Add(-1) == 0 {
		if b.destroy != nil {
			b.destroy(b.value)
		}
		b.releaseWeak()
		return true
	}
	return false
}

// tryAddRef attempts to promote a weak reference to strong via a CAS loop,
// succeeding only while strong > 0 — the building block for Weak[T].Lock.
func (b *controlBlock) tryAddRef() bool {
	for {
		cur := b.strong.Load()
		if cur <= 0 {
			return false
		}
		if b.strong.CompareAndSwap(cur, cur+1) {
			return true
		}
	}
}

func (b *controlBlock) addWeak() {
	b.weak.Add(1)
}

// releaseWeak decrements the weak count and, when it reaches zero,
// recycles the block (if pooled) and returns true.
func (b *controlBlock) releaseWeak() bool {
	if b.weak.Add(-1) == 0 {
		if !b.external && b.pooled != nil {
			blockpool.Put(b.pooled)
		}
		return true
	}
	return false
}

func (b *controlBlock) strongCount() int32 { return b.strong.Load() }
func (b *controlBlock) weakCount() int32   { return b.weak.Load() }
