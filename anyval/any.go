// Package anyval implements Velk's type-erased value container: the Any
// contract plus owned, reference, and array implementations, generic over
// the concrete Go type they carry.
package anyval

import (
	"reflect"

	"github.com/velk-rt/velk/types"
	"github.com/velk-rt/velk/uid"
)

// TypeUID returns the UID identifying the Go type T as a Velk value type.
// Values of distinct Go types always produce distinct UIDs; two Any
// instances are copy/compare-compatible only if their TypeUID matches (or
// one advertises the other's UID in CompatibleTypes).
func TypeUID[T any]() uid.UID {
	var zero T
	return uid.Hash("velk.any." + reflect.TypeOf(&zero).Elem().String())
}

// Any is the type-erased value contract every Velk property, function
// argument, and future result implements. GetData/SetData work in terms of
// Go values rather than raw bytes (Go offers no portable memcpy-into-any-T);
// this is the idiomatic substitution for the original's byte-level
// get_data/set_data while preserving the same compatible-types and
// copy_from/clone contract.
type Any interface {
	// CompatibleTypes lists the UIDs this Any can be read as or written
	// from. Owned, Ref and Array each list only their own TypeUID.
	CompatibleTypes() []uid.UID
	// GetData copies the current value into dest, which must be a
	// pointer to a value of the type identified by typ. Returns
	// InvalidArgument if dest is nil or typ doesn't match.
	GetData(dest any, typ uid.UID) types.ReturnValue
	// SetData writes src (a value, not a pointer) into the Any. Returns
	// NothingToDo if the new value compares equal to the current one,
	// Success if it changed, InvalidArgument on a type or nil mismatch.
	SetData(src any, typ uid.UID) types.ReturnValue
	// CopyFrom copies the value held by other into this Any, provided
	// their CompatibleTypes intersect. Same return convention as SetData.
	CopyFrom(other Any) types.ReturnValue
	// Clone returns an independent owned copy of the current value.
	Clone() Any
}

// compatible reports whether a and b share at least one compatible type.
func compatible(a, b []uid.UID) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
