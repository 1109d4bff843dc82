package refcount

// Shared is a strong reference to a value of type T, backed by a pooled
// control block. The zero Shared[T] is the null pointer — Get panics on it
// the same way a dereferenced nullptr would, matching the original's
// convention of treating shared_ptr() as a valid-but-empty state that
// operator-> on would fault.
type Shared[T any] struct {
	block *controlBlock
}

// New constructs a Shared[T] owning value. destroy, if non-nil, is called
// exactly once when the last strong reference is released — use this for
// plain values that need explicit cleanup; pass nil for interface objects
// whose Go value's own lifetime is managed by the GC and only the logical
// refcount needs tracking.
func New[T any](value T, destroy func(T)) Shared[T] {
	var wrapped func(any)
	if destroy != nil {
		wrapped = func(v any) { destroy(v.(T)) }
	}
	return Shared[T]{block: newBlock(value, wrapped)}
}

// IsNil reports whether s holds no control block.
func (s Shared[T]) IsNil() bool { return s.block == nil }

// Get returns the controlled value. Panics if s is the null Shared[T].
func (s Shared[T]) Get() T {
	return s.block.value.(T)
}

// Clone returns a new Shared[T] sharing the same control block, the
// strong-count analogue of a copy constructor.
func (s Shared[T]) Clone() Shared[T] {
	if s.block == nil {
		return Shared[T]{}
	}
	s.block.addRef()
	return Shared[T]{block: s.block}
}

// Release drops this strong reference. Must be called exactly once per
// Shared[T] value obtained from New or Clone (Go has no destructors to do
// this automatically). Returns true if this was the last strong reference
// and destroy (if any) ran.
func (s Shared[T]) Release() bool {
	if s.block == nil {
		return false
	}
	return s.block.releaseRef()
}

// Weaken returns a Weak[T] observing the same control block.
func (s Shared[T]) Weaken() Weak[T] {
	if s.block == nil {
		return Weak[T]{}
	}
	s.block.addWeak()
	return Weak[T]{block: s.block}
}

// StrongCount returns the current strong reference count, for tests and
// diagnostics.
func (s Shared[T]) StrongCount() int32 {
	if s.block == nil {
		return 0
	}
	return s.block.strongCount()
}

// WeakCount returns the current weak reference count (including the
// implicit "strong group alive" reference).
func (s Shared[T]) WeakCount() int32 {
	if s.block == nil {
		return 0
	}
	return s.block.weakCount()
}
