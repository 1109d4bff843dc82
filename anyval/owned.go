package anyval

import (
	"github.com/velk-rt/velk/types"
	"github.com/velk-rt/velk/uid"
)

// Owned is an Any that stores its own value of type T.
type Owned[T comparable] struct {
	value T
	typ   uid.UID
}

// NewOwned returns an Owned Any holding value.
func NewOwned[T comparable](value T) *Owned[T] {
	return &Owned[T]{value: value, typ: TypeUID[T]()}
}

// Value returns the current value directly, for callers that already know
// the concrete type.
func (o *Owned[T]) Value() T { return o.value }

// CompatibleTypes implements Any.
func (o *Owned[T]) CompatibleTypes() []uid.UID { return []uid.UID{o.typ} }

// GetData implements Any.
func (o *Owned[T]) GetData(dest any, typ uid.UID) types.ReturnValue {
	if typ != o.typ {
		return types.InvalidArgument
	}
	ptr, ok := dest.(*T)
	if !ok || ptr == nil {
		return types.InvalidArgument
	}
	*ptr = o.value
	return types.Success
}

// SetData implements Any.
func (o *Owned[T]) SetData(src any, typ uid.UID) types.ReturnValue {
	if typ != o.typ {
		return types.InvalidArgument
	}
	v, ok := src.(T)
	if !ok {
		return types.InvalidArgument
	}
	if v == o.value {
		return types.NothingToDo
	}
	o.value = v
	return types.Success
}

// CopyFrom implements Any.
func (o *Owned[T]) CopyFrom(other Any) types.ReturnValue {
	if !compatible(o.CompatibleTypes(), other.CompatibleTypes()) {
		return types.InvalidArgument
	}
	var v T
	if rv := other.GetData(&v, o.typ); rv.Failed() {
		return rv
	}
	if v == o.value {
		return types.NothingToDo
	}
	o.value = v
	return types.Success
}

// Clone implements Any.
func (o *Owned[T]) Clone() Any {
	return &Owned[T]{value: o.value, typ: o.typ}
}
