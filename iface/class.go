package iface

import "github.com/velk-rt/velk/uid"

// Member is the structural contract iface.ClassInfo needs from a member
// descriptor, kept minimal here (name, kind, owning interface) so this
// package does not need to import the member package that defines the
// concrete MemberDesc — the member package imports iface instead, never
// the other way around.
type Member interface {
	MemberName() string
	MemberInterface() *InterfaceInfo
}

// Accessor adapts an Object to one of the interfaces in its ClassInfo.
// Generated once per (class, interface) pair at class registration —
// Velk's cast table entry — rather than once per instance.
type Accessor func(obj Object) any

// Object is implemented by every Velk object instance; ClassInfo exposes
// the static descriptor GetInterface dispatches through.
type Object interface {
	ClassInfo() *ClassInfo
}

// ClassInfo is the compile-time-stable descriptor for a concrete Velk
// class: its UID, its full (deduplicated) interface list, its member
// descriptors, and the cast table used by GetInterface.
type ClassInfo struct {
	UID        uid.UID
	Name       string
	Interfaces []*InterfaceInfo
	Members    []Member
	cast       map[uid.UID]Accessor
}

// NewClassInfo builds a ClassInfo. direct is the set of interfaces the
// class implements directly; the full Interfaces list is computed via
// CollectInterfaces. cast must contain one Accessor per UID present in the
// resulting Interfaces list (including inherited ones, typically re-using
// the same Accessor as a more-derived interface when layout allows).
func NewClassInfo(u uid.UID, name string, direct []*InterfaceInfo, members []Member, cast map[uid.UID]Accessor) *ClassInfo {
	return &ClassInfo{
		UID:        u,
		Name:       name,
		Interfaces: CollectInterfaces(direct...),
		Members:    members,
		cast:       cast,
	}
}

// Implements reports whether the class implements the interface
// identified by target.
func (c *ClassInfo) Implements(target uid.UID) bool {
	_, ok := c.cast[target]
	return ok
}

// GetInterface resolves obj to the interface identified by target. The
// second return is false if the class does not implement target — the Go
// analogue of the original's get_interface returning a null pointer.
func (c *ClassInfo) GetInterface(obj Object, target uid.UID) (any, bool) {
	accessor, ok := c.cast[target]
	if !ok {
		return nil, false
	}
	return accessor(obj), true
}

// MembersOf returns the members declared directly against the interface
// identified by iuid (not inherited ones), in declaration order.
func (c *ClassInfo) MembersOf(iuid uid.UID) []Member {
	var out []Member
	for _, m := range c.Members {
		if m.MemberInterface().UID == iuid {
			out = append(out, m)
		}
	}
	return out
}
