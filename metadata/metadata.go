// Package metadata implements the per-instance lazy materialisation of
// runtime property/event/function objects from a class's static
// MemberDesc list — component F. The first get_property/get_event/
// get_function for a given member index constructs the runtime object and
// caches it for the lifetime of the owning instance.
package metadata

import (
	"sync"

	"github.com/velk-rt/velk/member"
	"github.com/velk-rt/velk/types"
)

// PropertyFactory builds the runtime Property object for desc against
// owner's state. Supplied by the runtime package to avoid metadata
// depending on the property package (metadata is purely an index + cache;
// it doesn't know what a Property looks like beyond "some value").
type PropertyFactory func(owner any, desc *member.MemberDesc) any

// Container is the lazily-populated per-instance metadata store. One
// Container is attached to each object that has introspectable members.
type Container struct {
	owner    any
	desc     []*member.MemberDesc
	build    func(owner any, desc *member.MemberDesc) any
	mu       sync.Mutex
	slots    []any // parallel to desc; nil until materialised
}

// New returns a Container for owner's member list. build is called at most
// once per member index, lazily, to materialise the runtime object
// (Property, Event, or Function) for that member.
func New(owner any, desc []*member.MemberDesc, build func(owner any, desc *member.MemberDesc) any) *Container {
	return &Container{owner: owner, desc: desc, build: build, slots: make([]any, len(desc))}
}

// indexOf returns the member index for name and kind, or -1.
func (c *Container) indexOf(name string, kind types.MemberKind) int {
	for i, d := range c.desc {
		if d.Kind == kind && d.Name == name {
			return i
		}
	}
	return -1
}

// Get returns the materialised runtime object for the named member of the
// given kind, building it on first access. The second return is false if
// no such member is declared.
func (c *Container) Get(name string, kind types.MemberKind) (any, bool) {
	i := c.indexOf(name, kind)
	if i < 0 {
		return nil, false
	}
	return c.GetAt(i), true
}

// GetAt returns the materialised runtime object for member index i,
// building it on first access. Caches under a lock so concurrent
// first-accesses for the same index only build once.
func (c *Container) GetAt(i int) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.slots[i] == nil {
		c.slots[i] = c.build(c.owner, c.desc[i])
	}
	return c.slots[i]
}

// Desc returns the static descriptor list this container was built from.
func (c *Container) Desc() []*member.MemberDesc {
	return c.desc
}
