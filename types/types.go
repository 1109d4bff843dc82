// Package types holds the small value types shared across every Velk
// package: the flat result enum, object creation flags, dispatch mode, and
// the member-kind/notification enums used by interface descriptors.
package types

import "fmt"

// ReturnValue is the flat result enum every Velk operation surfaces instead
// of a panic or an exception. The numeric convention follows the original
// runtime: Success is zero, NothingToDo is a non-negative success-with-
// qualifier, and the rest are negative failures.
type ReturnValue int32

const (
	// Success indicates the operation completed and changed something.
	Success ReturnValue = 0
	// NothingToDo indicates the operation was a no-op (e.g. a write whose
	// value already equalled the stored value). Still "successful" but
	// callers that use this as a "did it actually change" signal must
	// check for it explicitly.
	NothingToDo ReturnValue = 1
	// Fail is a generic failure distinct from a policy rejection.
	Fail ReturnValue = -1
	// InvalidArgument covers null arguments, type mismatches, and
	// out-of-range indices.
	InvalidArgument ReturnValue = -2
	// ReadOnly is returned by every write rejected because the read-only
	// flag is set, kept distinct from Fail so callers can tell a policy
	// rejection from a real failure.
	ReadOnly ReturnValue = -3
)

// Succeeded reports whether rv represents success (Success or NothingToDo).
func (rv ReturnValue) Succeeded() bool {
	return rv >= Success
}

// Failed reports whether rv represents failure.
func (rv ReturnValue) Failed() bool {
	return rv < Success
}

// String implements fmt.Stringer.
func (rv ReturnValue) String() string {
	switch rv {
	case Success:
		return "Success"
	case NothingToDo:
		return "NothingToDo"
	case Fail:
		return "Fail"
	case InvalidArgument:
		return "InvalidArgument"
	case ReadOnly:
		return "ReadOnly"
	default:
		return fmt.Sprintf("ReturnValue(%d)", int32(rv))
	}
}

// ObjectFlags are creation/behavior flags attached to classes, properties
// and instances (e.g. read-only).
type ObjectFlags uint32

const (
	// FlagNone sets no flags.
	FlagNone ObjectFlags = 0
	// FlagReadOnly marks a property as rejecting writes with ReadOnly.
	FlagReadOnly ObjectFlags = 1 << 0
	// FlagTransient marks an instance as transient. No package in this
	// module reads it: there are no hive save/restore helpers, and hive
	// iteration does not look at it.
	FlagTransient ObjectFlags = 1 << 1
)

// Has reports whether all bits in other are set in f.
func (f ObjectFlags) Has(other ObjectFlags) bool {
	return f&other == other
}

// InvokeMode selects whether a property write, function call, or event
// dispatch happens synchronously on the calling thread (Immediate) or is
// queued for the next update() tick (Deferred).
type InvokeMode uint8

const (
	// Immediate executes synchronously on the calling goroutine.
	Immediate InvokeMode = iota
	// Deferred enqueues the operation for the next update() tick.
	Deferred
)

// String implements fmt.Stringer.
func (m InvokeMode) String() string {
	if m == Deferred {
		return "Deferred"
	}
	return "Immediate"
}

// MemberKind distinguishes the three kinds of interface member a
// MemberDesc can describe.
type MemberKind uint8

const (
	// MemberProperty is a Property member.
	MemberProperty MemberKind = iota
	// MemberEvent is an Event member.
	MemberEvent
	// MemberFunction is a Function member.
	MemberFunction
)

// String implements fmt.Stringer.
func (k MemberKind) String() string {
	switch k {
	case MemberProperty:
		return "Property"
	case MemberEvent:
		return "Event"
	case MemberFunction:
		return "Function"
	default:
		return fmt.Sprintf("MemberKind(%d)", uint8(k))
	}
}

// Notification identifies what kind of change an Event member fires for.
type Notification uint8

const (
	// NotifyChanged fires when a property's value changes.
	NotifyChanged Notification = iota
	// NotifyInvoked fires after a function is invoked.
	NotifyInvoked
	// NotifyReset fires when a member is reset to its default.
	NotifyReset
)
