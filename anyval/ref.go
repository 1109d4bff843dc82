package anyval

import (
	"sync"

	"github.com/velk-rt/velk/types"
	"github.com/velk-rt/velk/uid"
)

// Ref is an Any whose storage is a pointer into externally owned memory —
// typically a field inside an object's per-interface state struct. Clone
// produces an owned snapshot, matching the original runtime's rule that a
// Reference Any's clone() detaches from the external storage.
//
// A Ref is also the runtime's externalAny: code outside a Property (another
// goroutine writing the backing field directly through SetData/CopyFrom
// rather than through Property.SetValue) can still make the owning Property
// relay a single onChanged notification, per spec §3.8's external-Any relay
// rule — the Property subscribes once via OnExternalChange instead of
// polling the field.
type Ref[T comparable] struct {
	ptr *T
	typ uid.UID

	mu        sync.Mutex
	nextID    int
	listeners map[int]func(Any)
}

// NewRef returns a Ref Any targeting ptr. ptr must outlive the Ref.
func NewRef[T comparable](ptr *T) *Ref[T] {
	return &Ref[T]{ptr: ptr, typ: TypeUID[T]()}
}

// OnExternalChange subscribes fn to be called, with a clone of the new
// value, every time SetData or CopyFrom actually changes the referenced
// storage. The returned remove func unsubscribes fn; calling it more than
// once is a no-op.
func (r *Ref[T]) OnExternalChange(fn func(Any)) (remove func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	if r.listeners == nil {
		r.listeners = make(map[int]func(Any))
	}
	r.listeners[id] = fn
	r.mu.Unlock()

	removed := false
	return func() {
		if removed {
			return
		}
		removed = true
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// notify invokes every subscribed listener with a clone of the current
// value. Called after a successful (value-changing) write.
func (r *Ref[T]) notify() {
	r.mu.Lock()
	fns := make([]func(Any), 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.Unlock()
	if len(fns) == 0 {
		return
	}
	snapshot := r.Clone()
	for _, fn := range fns {
		fn(snapshot)
	}
}

// CompatibleTypes implements Any.
func (r *Ref[T]) CompatibleTypes() []uid.UID { return []uid.UID{r.typ} }

// GetData implements Any.
func (r *Ref[T]) GetData(dest any, typ uid.UID) types.ReturnValue {
	if typ != r.typ {
		return types.InvalidArgument
	}
	ptr, ok := dest.(*T)
	if !ok || ptr == nil {
		return types.InvalidArgument
	}
	*ptr = *r.ptr
	return types.Success
}

// SetData implements Any.
func (r *Ref[T]) SetData(src any, typ uid.UID) types.ReturnValue {
	if typ != r.typ {
		return types.InvalidArgument
	}
	v, ok := src.(T)
	if !ok {
		return types.InvalidArgument
	}
	if v == *r.ptr {
		return types.NothingToDo
	}
	*r.ptr = v
	r.notify()
	return types.Success
}

// CopyFrom implements Any.
func (r *Ref[T]) CopyFrom(other Any) types.ReturnValue {
	if !compatible(r.CompatibleTypes(), other.CompatibleTypes()) {
		return types.InvalidArgument
	}
	var v T
	if rv := other.GetData(&v, r.typ); rv.Failed() {
		return rv
	}
	if v == *r.ptr {
		return types.NothingToDo
	}
	*r.ptr = v
	r.notify()
	return types.Success
}

// Clone implements Any. The result is an Owned snapshot, detached from the
// referenced storage.
func (r *Ref[T]) Clone() Any {
	return &Owned[T]{value: *r.ptr, typ: r.typ}
}
