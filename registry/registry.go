// Package registry implements Velk's type registry: a sorted UID→factory
// table with owner-tagging so the plugin registry can bulk-remove every
// type a plugin contributed on unload — component K.
package registry

import (
	"sort"
	"sync"

	"github.com/velk-rt/velk/iface"
	"github.com/velk-rt/velk/log"
	"github.com/velk-rt/velk/types"
	"github.com/velk-rt/velk/uid"
)

// Factory creates a new instance of the class it's registered under.
type Factory func(flags types.ObjectFlags) iface.Object

type entry struct {
	uid     uid.UID
	factory Factory
	class   *iface.ClassInfo
	owner   uid.UID
}

// Registry is a sorted UID→factory table, safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	owner   uid.UID
}

// New returns an empty type registry.
func New() *Registry {
	return &Registry{}
}

func (r *Registry) find(id uid.UID) int {
	return sort.Search(len(r.entries), func(i int) bool {
		return !r.entries[i].uid.Less(id)
	})
}

// RegisterType inserts factory under id, or replaces the existing entry if
// id is already registered, stamping the table's current owner. Logs at
// Debug.
func (r *Registry) RegisterType(id uid.UID, class *iface.ClassInfo, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.find(id)
	e := entry{uid: id, factory: factory, class: class, owner: r.owner}
	if i < len(r.entries) && r.entries[i].uid == id {
		r.entries[i] = e
		log.Debug("type re-registered", "uid", id.String(), "owner", e.owner.String())
		return
	}
	r.entries = append(r.entries, entry{})
	copy(r.entries[i+1:], r.entries[i:])
	r.entries[i] = e
	log.Debug("type registered", "uid", id.String(), "owner", e.owner.String())
}

// UnregisterType removes id from the table. NothingToDo if absent.
func (r *Registry) UnregisterType(id uid.UID) types.ReturnValue {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.find(id)
	if i >= len(r.entries) || r.entries[i].uid != id {
		return types.NothingToDo
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	log.Debug("type unregistered", "uid", id.String())
	return types.Success
}

// Create looks up id and, on a hit, invokes its factory with flags.
// Returns nil, Fail on a miss or a factory returning nil.
func (r *Registry) Create(id uid.UID, flags types.ObjectFlags) (iface.Object, types.ReturnValue) {
	r.mu.RLock()
	i := r.find(id)
	if i >= len(r.entries) || r.entries[i].uid != id {
		r.mu.RUnlock()
		return nil, types.Fail
	}
	factory := r.entries[i].factory
	r.mu.RUnlock()

	obj := factory(flags)
	if obj == nil {
		return nil, types.Fail
	}
	return obj, types.Success
}

// ClassOf returns the ClassInfo registered under id, if any.
func (r *Registry) ClassOf(id uid.UID) (*iface.ClassInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.find(id)
	if i >= len(r.entries) || r.entries[i].uid != id {
		return nil, false
	}
	return r.entries[i].class, true
}

// Contains reports whether id has a registered factory.
func (r *Registry) Contains(id uid.UID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.find(id)
	return i < len(r.entries) && r.entries[i].uid == id
}

// SetOwner sets the owner UID stamped onto every RegisterType call made
// while it is in effect. The plugin registry calls this with the plugin's
// UID before running its initializer and resets it to uid.Zero afterward.
func (r *Registry) SetOwner(owner uid.UID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.owner = owner
}

// SweepOwner bulk-removes every entry tagged with owner, returning the
// count removed. Used on plugin unload unless the plugin set
// retainTypesOnUnload.
func (r *Registry) SweepOwner(owner uid.UID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	removed := 0
	for _, e := range r.entries {
		if e.owner == owner {
			removed++
			log.Debug("type swept", "uid", e.uid.String(), "owner", owner.String())
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed
}

// Count returns the number of registered types.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
