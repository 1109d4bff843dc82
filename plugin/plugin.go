// Package plugin implements Velk's plugin registry: dependency-checked
// load/unload of shared-library extensions that register their own
// classes against the type registry — component L.
package plugin

import (
	"fmt"
	"time"

	"github.com/velk-rt/velk/uid"
)

// Version is a packed major.minor.patch plugin version.
type Version struct {
	Major, Minor, Patch uint32
}

// Less reports whether v precedes o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	if v.Minor != o.Minor {
		return v.Minor < o.Minor
	}
	return v.Patch < o.Patch
}

// GTE reports whether v is greater than or equal to o.
func (v Version) GTE(o Version) bool {
	return !v.Less(o)
}

// String renders "major.minor.patch".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Dependency declares a required plugin UID and, if MinVersion is
// non-zero, the minimum version of it that must already be loaded.
type Dependency struct {
	UID        uid.UID
	MinVersion Version
}

// Config is the plugin's own load configuration, settable from
// Initialize and read back by the registry afterward.
type Config struct {
	// EnableUpdate, if set by Initialize, appends the plugin to the
	// update loop's notification list.
	EnableUpdate bool
	// RetainTypesOnUnload, if set, skips the type-registry sweep this
	// plugin would otherwise trigger on unload.
	RetainTypesOnUnload bool
}

// UpdateInfo is the timing snapshot passed to every plugin on each
// update() tick.
type UpdateInfo struct {
	SinceInit        time.Duration
	SinceFirstUpdate time.Duration
	SinceLastUpdate  time.Duration
}

// Host is the root runtime instance passed into Initialize/Shutdown. Kept
// as an opaque any here (rather than an imported type) so this package
// never depends on runtime, which depends on plugin — plugins type-assert
// it to whatever concrete or interface type runtime.Instance actually
// implements.
type Host any

// Plugin is implemented by every loadable Velk extension.
type Plugin interface {
	UID() uid.UID
	Version() Version
	Dependencies() []Dependency
	Initialize(host Host, config *Config) error
	Shutdown(host Host)
	Update(info UpdateInfo)
}
