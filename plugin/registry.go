package plugin

import (
	"fmt"
	"sync"

	"github.com/velk-rt/velk/log"
	"github.com/velk-rt/velk/uid"
)

// TypeOwner is the subset of registry.Registry the plugin registry needs:
// stamping and sweeping type-registry ownership around a plugin's
// lifetime.
type TypeOwner interface {
	SetOwner(owner uid.UID)
	SweepOwner(owner uid.UID) int
}

type loadedEntry struct {
	uid     uid.UID
	plugin  Plugin
	lib     *loadedLibrary
	config  Config
}

// Registry tracks loaded plugins, enforces dependency ordering on
// load/unload, and owns the type-registry owner-sweep on unload.
type Registry struct {
	mu      sync.Mutex
	entries map[uid.UID]*loadedEntry
	order   []uid.UID // insertion order, for shutdown_all reverse unload
	types   TypeOwner
	host    Host
	onEnableUpdate   func(Plugin)
	onDisableUpdate  func(Plugin)
}

// New returns an empty plugin registry that stamps ownership on types
// into the given type registry and passes host to every plugin's
// Initialize/Shutdown.
func New(types TypeOwner, host Host) *Registry {
	return &Registry{
		entries: make(map[uid.UID]*loadedEntry),
		types:   types,
		host:    host,
	}
}

// SetUpdateHooks installs the callbacks the update loop uses to learn
// which plugins to notify on each tick (append when config.EnableUpdate
// is set, remove on unload).
func (r *Registry) SetUpdateHooks(onEnable, onDisable func(Plugin)) {
	r.onEnableUpdate = onEnable
	r.onDisableUpdate = onDisable
}

func (r *Registry) dependenciesSatisfied(p Plugin) error {
	for _, dep := range p.Dependencies() {
		e, ok := r.entries[dep.UID]
		if !ok {
			return fmt.Errorf("plugin %s: dependency %s not loaded", p.UID(), dep.UID)
		}
		if dep.MinVersion != (Version{}) && e.plugin.Version().Less(dep.MinVersion) {
			return fmt.Errorf("plugin %s: dependency %s version %s < required %s",
				p.UID(), dep.UID, e.plugin.Version(), dep.MinVersion)
		}
	}
	return nil
}

// LoadPlugin registers and initializes p. Returns NothingToDo-equivalent
// error (nil, already-loaded) or a descriptive error on dependency
// failure or Initialize failure.
func (r *Registry) LoadPlugin(p Plugin) error {
	if p == nil {
		return fmt.Errorf("plugin: nil plugin")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[p.UID()]; ok {
		return nil // already loaded: NothingToDo
	}
	if err := r.dependenciesSatisfied(p); err != nil {
		log.Error("plugin dependency check failed", "plugin", p.UID().String(), "err", err)
		return err
	}

	r.types.SetOwner(p.UID())
	var config Config
	err := p.Initialize(r.host, &config)
	r.types.SetOwner(uid.Zero)

	if err != nil {
		log.Error("plugin initialize failed", "plugin", p.UID().String(), "err", err)
		return err
	}

	entry := &loadedEntry{uid: p.UID(), plugin: p, config: config}
	r.entries[p.UID()] = entry
	r.order = append(r.order, p.UID())
	log.Debug("plugin loaded", "plugin", p.UID().String(), "version", p.Version().String())

	if config.EnableUpdate && r.onEnableUpdate != nil {
		r.onEnableUpdate(p)
	}
	return nil
}

// LoadPluginFromPath opens the shared library at path, resolves its
// velk_plugin_info entry point, and loads the plugin it describes.
func (r *Registry) LoadPluginFromPath(path string) error {
	lib, p, err := loadFromLibrary(path)
	if err != nil {
		log.Error("plugin library load failed", "path", path, "err", err)
		return err
	}
	if err := r.LoadPlugin(p); err != nil {
		lib.close()
		return err
	}

	r.mu.Lock()
	if e, ok := r.entries[p.UID()]; ok {
		e.lib = lib
	}
	r.mu.Unlock()
	return nil
}

// UnloadPlugin shuts down and removes the plugin identified by id.
// Rejects the unload if any still-loaded plugin declares id as a
// dependency. Order matters: Shutdown runs before the type sweep, the
// entry is erased, and only then (if the plugin came from a shared
// library) is the library handle closed — after the plugin's own vtable
// stops being referenced.
func (r *Registry) UnloadPlugin(id uid.UID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil // NothingToDo
	}

	for _, other := range r.entries {
		if other.uid == id {
			continue
		}
		for _, dep := range other.plugin.Dependencies() {
			if dep.UID == id {
				return fmt.Errorf("plugin: cannot unload %s, %s still depends on it", id, other.uid)
			}
		}
	}

	entry.plugin.Shutdown(r.host)
	if entry.config.EnableUpdate && r.onDisableUpdate != nil {
		r.onDisableUpdate(entry.plugin)
	}
	if !entry.config.RetainTypesOnUnload {
		n := r.types.SweepOwner(id)
		log.Debug("plugin unloaded, types swept", "plugin", id.String(), "count", n)
	}

	delete(r.entries, id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	if entry.lib != nil {
		entry.lib.close()
	}
	return nil
}

// ShutdownAll unloads every plugin in reverse insertion order, for
// runtime teardown.
func (r *Registry) ShutdownAll() {
	r.mu.Lock()
	order := append([]uid.UID(nil), r.order...)
	r.mu.Unlock()

	for i := len(order) - 1; i >= 0; i-- {
		if err := r.UnloadPlugin(order[i]); err != nil {
			log.Error("plugin shutdown_all: unload failed", "plugin", order[i].String(), "err", err)
		}
	}
}

// Contains reports whether id is currently loaded.
func (r *Registry) Contains(id uid.UID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	return ok
}
