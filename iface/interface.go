// Package iface implements Velk's interface and class descriptors and the
// UID-keyed cast table that replaces the original runtime's compile-time
// vtable-offset interface dispatch.
package iface

import "github.com/velk-rt/velk/uid"

// InterfaceInfo describes a single Velk interface: its UID, its name, and
// a single-link parent (root interfaces have a nil Parent).
type InterfaceInfo struct {
	UID    uid.UID
	Name   string
	Parent *InterfaceInfo
}

// Root is the root interface every other interface descends from,
// identified by the all-zero UID (spec: "the all-zero UID is reserved as
// root interface / no owner").
var Root = &InterfaceInfo{UID: uid.Zero, Name: "IInterface"}

// NewInterfaceInfo returns an InterfaceInfo whose UID is derived from name
// via uid.Hash, parented to parent (Root if parent is nil).
func NewInterfaceInfo(name string, parent *InterfaceInfo) *InterfaceInfo {
	if parent == nil {
		parent = Root
	}
	return &InterfaceInfo{UID: uid.Hash(name), Name: name, Parent: parent}
}

// Ancestors returns info and every ancestor up to (and including) Root, in
// that order.
func (info *InterfaceInfo) Ancestors() []*InterfaceInfo {
	var chain []*InterfaceInfo
	for cur := info; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
		if cur == Root {
			break
		}
	}
	return chain
}

// CollectInterfaces flattens direct and every interface reachable through
// their parent chains into a deduplicated list, first occurrence wins —
// matching ClassInfo's "interfaces list includes every ancestor reachable
// through parent chains (deduplicated, first occurrence wins)".
func CollectInterfaces(direct ...*InterfaceInfo) []*InterfaceInfo {
	seen := make(map[uid.UID]bool)
	var out []*InterfaceInfo
	for _, d := range direct {
		for _, anc := range d.Ancestors() {
			if seen[anc.UID] {
				continue
			}
			seen[anc.UID] = true
			out = append(out, anc)
		}
	}
	return out
}
