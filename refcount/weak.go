package refcount

// Weak is a non-owning observer of a value also reachable through a
// Shared[T]. It does not keep the value's strong group alive; Lock
// attempts to promote to a Shared[T] and fails once the last strong
// reference has been released.
type Weak[T any] struct {
	block *controlBlock
}

// IsNil reports whether w holds no control block.
func (w Weak[T]) IsNil() bool { return w.block == nil }

// Lock attempts to promote w to a Shared[T]. The second return is false if
// the value's strong group has already gone to zero — the caller must not
// use the returned Shared[T] in that case.
func (w Weak[T]) Lock() (Shared[T], bool) {
	if w.block == nil {
		return Shared[T]{}, false
	}
	if !w.block.tryAddRef() {
		return Shared[T]{}, false
	}
	// tryAddRef already incremented strong. A Shared[T] holds no weak
	// reference of its own (the strong group's single weak reference is
	// dropped when strong reaches zero), so the weak count is left as is.
	return Shared[T]{block: w.block}, true
}

// Expired reports whether the value's strong group has gone to zero.
func (w Weak[T]) Expired() bool {
	if w.block == nil {
		return true
	}
	return w.block.strongCount() == 0
}

// Clone returns a new Weak[T] observing the same control block.
func (w Weak[T]) Clone() Weak[T] {
	if w.block == nil {
		return Weak[T]{}
	}
	w.block.addWeak()
	return Weak[T]{block: w.block}
}

// Release drops this weak reference. Must be called exactly once per
// Weak[T] value obtained from Shared[T].Weaken or Clone.
func (w Weak[T]) Release() bool {
	if w.block == nil {
		return false
	}
	return w.block.releaseWeak()
}
