// Package member implements Velk's static, compile-time member
// descriptors: the declarative shape of a class's properties, events, and
// functions, grounded on the original runtime's member_desc.h.
package member

import (
	"github.com/velk-rt/velk/anyval"
	"github.com/velk-rt/velk/iface"
	"github.com/velk-rt/velk/types"
	"github.com/velk-rt/velk/uid"
)

// PropertyKind is the property-specific extension of a MemberDesc: a
// shared default-value factory, a per-instance Any-ref factory targeting
// the member inside an object's state, and behavior flags.
type PropertyKind struct {
	// TypeUID identifies the value type this property holds.
	TypeUID uid.UID
	// GetDefault returns a fresh default-value Any, used when an object
	// has no backing state for this member (a pure metadata property).
	GetDefault func() anyval.Any
	// CreateRef produces an Any-ref targeting the member field inside
	// stateBase, the object's per-interface state struct.
	CreateRef func(stateBase any) anyval.Any
	// Flags carries e.g. types.FlagReadOnly.
	Flags types.ObjectFlags
}

// FnArgDesc describes one argument of a Function member.
type FnArgDesc struct {
	Name    string
	TypeUID uid.UID
}

// Trampoline invokes a function member on self with args, returning the
// result Any (nil for void) or an error ReturnValue.
type Trampoline func(self any, args []anyval.Any) (anyval.Any, types.ReturnValue)

// FunctionKind is the function-specific extension of a MemberDesc: the
// trampoline and its declared argument list. Event members use the same
// shape with an empty Args list.
type FunctionKind struct {
	Trampoline Trampoline
	Args       []FnArgDesc
}

// MemberDesc is the static, immutable descriptor for one member of an
// interface — stable const data embedded in the owning class's ClassInfo.
type MemberDesc struct {
	Name      string
	Kind      types.MemberKind
	Interface *iface.InterfaceInfo
	property  *PropertyKind
	function  *FunctionKind
}

// MemberName implements iface.Member.
func (m *MemberDesc) MemberName() string { return m.Name }

// MemberInterface implements iface.Member.
func (m *MemberDesc) MemberInterface() *iface.InterfaceInfo { return m.Interface }

// PropertyKind returns the property extension, or nil if Kind != MemberProperty.
func (m *MemberDesc) PropertyKind() *PropertyKind {
	if m.Kind != types.MemberProperty {
		return nil
	}
	return m.property
}

// FunctionKind returns the function extension, or nil if Kind is neither
// MemberFunction nor MemberEvent.
func (m *MemberDesc) FunctionKind() *FunctionKind {
	if m.Kind != types.MemberFunction && m.Kind != types.MemberEvent {
		return nil
	}
	return m.function
}

// PropertyDesc declares a property member.
func PropertyDesc(name string, info *iface.InterfaceInfo, pk *PropertyKind) *MemberDesc {
	return &MemberDesc{Name: name, Kind: types.MemberProperty, Interface: info, property: pk}
}

// EventDesc declares an event member (a FunctionKind with no arguments is
// implied at the call site; events are invoked with a single "changed
// value" argument by convention, not enforced here).
func EventDesc(name string, info *iface.InterfaceInfo, fk *FunctionKind) *MemberDesc {
	return &MemberDesc{Name: name, Kind: types.MemberEvent, Interface: info, function: fk}
}

// FunctionDesc declares a function member.
func FunctionDesc(name string, info *iface.InterfaceInfo, fk *FunctionKind) *MemberDesc {
	return &MemberDesc{Name: name, Kind: types.MemberFunction, Interface: info, function: fk}
}

// DefaultValue evaluates desc's PropertyKind.GetDefault and reads it back
// into a value of type T, the Go analogue of the original's
// get_default_value<T>.
func DefaultValue[T comparable](desc *MemberDesc) (T, types.ReturnValue) {
	var zero T
	pk := desc.PropertyKind()
	if pk == nil || pk.GetDefault == nil {
		return zero, types.InvalidArgument
	}
	any := pk.GetDefault()
	var v T
	rv := any.GetData(&v, pk.TypeUID)
	if rv.Failed() {
		return zero, rv
	}
	return v, types.Success
}
