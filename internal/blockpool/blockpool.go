// Package blockpool implements the pooled allocator for refcount's control
// blocks. The original runtire pools 16-byte intrusive control blocks on a
// per-OS-thread free list (plain TLS) and never pools the larger 24-byte
// external blocks carrying a destroy function pointer.
//
// Go has no goroutine-local storage, so a literal per-thread free list
// isn't expressible. sync.Pool is the idiomatic substitute: it is
// per-P (not per-goroutine, but close enough for the same cache-locality
// goal), integrates with the garbage collector so pooled-but-unused blocks
// can still be reclaimed under memory pressure, and is the mechanism the
// standard library itself uses for exactly this kind of short-lived,
// frequently-allocated object (see sync.Pool's own fmt/encoding use). This
// is a deliberate stdlib exception: no example in the retrieval pack
// implements real thread-local storage either.
package blockpool

import "sync"

// Block is the pooled representation of Velk's intrusive control block.
// refcount's controlBlock takes one Block per block created without a
// destroy callback and returns it when its weak count reaches zero; the
// counts refcount actually uses live in controlBlock's own atomic fields.
// Get/Put recycle the allocation, not the logical strong/weak counts,
// which callers must reset themselves before reuse.
type Block struct {
	Strong int32
	Weak   int32
}

var pool = sync.Pool{
	New: func() any { return new(Block) },
}

// Get returns a Block, possibly recycled. Callers must set Strong/Weak
// before using it.
func Get() *Block {
	return pool.Get().(*Block)
}

// Put returns b to the pool for reuse. b must not be touched afterward.
func Put(b *Block) {
	pool.Put(b)
}

// Prewarm seeds the pool with n freshly allocated Blocks up front. sync.Pool
// has no real capacity (the runtime may drop pooled items at any GC), so
// this doesn't bound the pool's size the way a fixed-capacity free list
// would — it only absorbs the initial allocation burst a caller expects
// when it knows roughly how many control blocks it's about to need.
func Prewarm(n int) {
	blocks := make([]*Block, n)
	for i := range blocks {
		blocks[i] = Get()
	}
	for _, b := range blocks {
		Put(b)
	}
}
