package plugin

import (
	"fmt"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"

	"github.com/velk-rt/velk/uid"
)

// loadedLibrary wraps the open shared-library handle for a plugin loaded
// via LoadPluginFromPath. goffi expects args[] to hold pointers to WHERE
// argument values are stored, never the values themselves — see
// velk_plugin_info below for the pattern this package follows throughout.
type loadedLibrary struct {
	handle unsafe.Pointer
}

func (l *loadedLibrary) close() error {
	if l == nil || l.handle == nil {
		return nil
	}
	h := l.handle
	l.handle = nil
	return ffi.FreeLibrary(h)
}

// pluginInfoC mirrors the exported velk_plugin_info symbol's return
// layout: a UID, a packed version, and the name of a factory already
// registered through RegisterFactory by the library's init-time side
// effects. Shared libraries built against this runtime export their
// Plugin implementation through RegisterFactory rather than a raw
// function pointer, since Go has no portable call-an-unknown-C-function-
// that-returns-a-Go-interface convention.
type pluginInfoC struct {
	uidHi, uidLo               uint64
	versionMajor, versionMinor uint32
	versionPatch               uint32
	nameLen                    uint32
	namePtr                    unsafe.Pointer
}

var factories = map[string]func() Plugin{}

// RegisterFactory associates a plugin name (matching the name a
// velk_plugin_info symbol reports) with a constructor. Plugin shared
// libraries call this from a Go init() function compiled into the
// library, mirroring how the library's velk_plugin_info is the only
// symbol the loader resolves by name.
func RegisterFactory(name string, factory func() Plugin) {
	factories[name] = factory
}

// loadFromLibrary opens the shared library at path, resolves its
// velk_plugin_info entry point, and constructs the Plugin it describes.
func loadFromLibrary(path string) (*loadedLibrary, Plugin, error) {
	handle, err := ffi.LoadLibrary(path)
	if err != nil {
		return nil, nil, fmt.Errorf("plugin: open %s: %w", path, err)
	}
	lib := &loadedLibrary{handle: handle}

	sym, err := ffi.GetSymbol(handle, "velk_plugin_info")
	if err != nil {
		lib.close()
		return nil, nil, fmt.Errorf("plugin: %s has no velk_plugin_info: %w", path, err)
	}

	var cif types.CallInterface
	if err := ffi.PrepareCallInterface(&cif, types.DefaultCall,
		types.PointerTypeDescriptor, nil); err != nil {
		lib.close()
		return nil, nil, fmt.Errorf("plugin: %s: prepare velk_plugin_info call: %w", path, err)
	}

	var infoPtr unsafe.Pointer
	if err := ffi.CallFunction(&cif, sym, unsafe.Pointer(&infoPtr), nil); err != nil {
		lib.close()
		return nil, nil, fmt.Errorf("plugin: %s: call velk_plugin_info: %w", path, err)
	}
	if infoPtr == nil {
		lib.close()
		return nil, nil, fmt.Errorf("plugin: %s: velk_plugin_info returned null", path)
	}

	info := (*pluginInfoC)(infoPtr)
	name := unsafe.String((*byte)(info.namePtr), int(info.nameLen))

	factory, ok := factories[name]
	if !ok {
		lib.close()
		return nil, nil, fmt.Errorf("plugin: %s: no registered factory for %q", path, name)
	}

	p := factory()
	wantUID := uid.UID{Hi: info.uidHi, Lo: info.uidLo}
	if p.UID() != wantUID {
		lib.close()
		return nil, nil, fmt.Errorf("plugin: %s: factory UID mismatch for %q", path, name)
	}
	return lib, p, nil
}
