// Package runtime implements Velk's root singleton: the process-wide
// instance composing the type registry, plugin registry, and update
// queue, plus the convenience factories every embedder reaches for —
// component from spec §4.14.
package runtime

import (
	"sync"
	"time"

	"github.com/velk-rt/velk/anyval"
	"github.com/velk-rt/velk/funcevent"
	"github.com/velk-rt/velk/future"
	"github.com/velk-rt/velk/hive"
	"github.com/velk-rt/velk/iface"
	"github.com/velk-rt/velk/member"
	"github.com/velk-rt/velk/metadata"
	"github.com/velk-rt/velk/plugin"
	"github.com/velk-rt/velk/property"
	"github.com/velk-rt/velk/registry"
	"github.com/velk-rt/velk/types"
	"github.com/velk-rt/velk/uid"
	"github.com/velk-rt/velk/update"
)

// Built-in UIDs. Every Runtime self-registers PropertyImpl, FunctionImpl,
// FutureImpl, HiveStore, ObjectHive and Widget on construction. RawHiveUID
// is not entered into the type registry (see CreateRawHive), and the
// Owned*UID values are the value-type UIDs CreateAny accepts; no owned- or
// array-Any value type is registered as a class.
var (
	PropertyImplUID = uid.Hash("velk.builtin.PropertyImpl")
	FunctionImplUID = uid.Hash("velk.builtin.FunctionImpl")
	FutureImplUID   = uid.Hash("velk.builtin.FutureImpl")
	HiveStoreUID    = uid.Hash("velk.builtin.HiveStore")
	ObjectHiveUID   = uid.Hash("velk.builtin.ObjectHive")
	RawHiveUID      = uid.Hash("velk.builtin.RawHive")
	WidgetUID       = uid.Hash("velk.builtin.Widget")
	OwnedIntUID     = anyval.TypeUID[int]()
	OwnedFloatUID   = anyval.TypeUID[float64]()
	OwnedStringUID  = anyval.TypeUID[string]()
)

// Runtime is the root singleton: type registry, plugin registry, and
// update queue, wired together and exposed through the same convenience
// factories the original's root runtime offers.
type Runtime struct {
	Types   *registry.Registry
	Plugins *plugin.Registry
	Queue   *update.Queue
}

var (
	instanceOnce sync.Once
	instance     *Runtime
)

// Instance returns the process-wide Runtime, constructing it lazily on
// first call.
func Instance() *Runtime {
	instanceOnce.Do(func() {
		instance = New()
	})
	return instance
}

// New returns an independent Runtime — mainly useful for tests that need
// isolation from the process-wide Instance(). Self-registers the same
// built-in classes Instance() does.
func New(opts ...Option) *Runtime {
	cfg := newConfig(opts...)

	rt := &Runtime{
		Types: registry.New(),
		Queue: update.New(time.Now()),
	}
	rt.Plugins = plugin.New(rt.Types, rt)
	rt.Plugins.SetUpdateHooks(rt.Queue.AddPlugin, rt.Queue.RemovePlugin)
	rt.registerBuiltins(cfg.hiveGrowthSchedule)
	return rt
}

// --- wrapper types giving the concrete runtime primitives an iface.Object
// identity so they can live in the type registry alongside user classes.

type propertyObject struct {
	*property.Property
	class *iface.ClassInfo
}

func (o *propertyObject) ClassInfo() *iface.ClassInfo { return o.class }

type functionObject struct {
	*funcevent.Function
	class *iface.ClassInfo
}

func (o *functionObject) ClassInfo() *iface.ClassInfo { return o.class }

type futureObject struct {
	*future.Future
	class *iface.ClassInfo
}

func (o *futureObject) ClassInfo() *iface.ClassInfo { return o.class }

// hiveStoreObject is the built-in HiveStore: an ObjectHive over plain
// iface.Object values, the uniform container a plugin reaches for when it
// wants hive-style contiguous storage without defining its own generic
// instantiation of hive.ObjectHive. Applications that know their element
// type at compile time use hive.NewObjectHive[T] directly instead of
// going through the type registry.
type hiveStoreObject struct {
	*hive.ObjectHive[iface.Object]
	class *iface.ClassInfo
}

func (o *hiveStoreObject) ClassInfo() *iface.ClassInfo { return o.class }

func noMemberClass(id uid.UID, name string) *iface.ClassInfo {
	return iface.NewClassInfo(id, name, nil, nil, map[uid.UID]iface.Accessor{})
}

func (rt *Runtime) registerBuiltins(hiveGrowthSchedule []int) {
	propClass := noMemberClass(PropertyImplUID, "PropertyImpl")
	rt.Types.RegisterType(PropertyImplUID, propClass, func(flags types.ObjectFlags) iface.Object {
		return &propertyObject{
			Property: property.New(anyval.NewOwned(0), flags, rt.Queue),
			class:    propClass,
		}
	})

	funcClass := noMemberClass(FunctionImplUID, "FunctionImpl")
	rt.Types.RegisterType(FunctionImplUID, funcClass, func(types.ObjectFlags) iface.Object {
		return &functionObject{
			Function: funcevent.NewFunction(rt.Queue),
			class:    funcClass,
		}
	})

	futureClass := noMemberClass(FutureImplUID, "FutureImpl")
	rt.Types.RegisterType(FutureImplUID, futureClass, func(types.ObjectFlags) iface.Object {
		return &futureObject{
			Future: future.New(rt.Queue),
			class:  futureClass,
		}
	})

	hiveClass := noMemberClass(HiveStoreUID, "HiveStore")
	rt.Types.RegisterType(HiveStoreUID, hiveClass, func(types.ObjectFlags) iface.Object {
		return &hiveStoreObject{
			ObjectHive: hive.NewObjectHiveWithSchedule[iface.Object](uid.Zero, hiveGrowthSchedule),
			class:      hiveClass,
		}
	})

	// ObjectHive is registered as an alias of the same built-in HiveStore
	// shape: a fresh ObjectHive over iface.Object values.
	rt.Types.RegisterType(ObjectHiveUID, hiveClass, func(types.ObjectFlags) iface.Object {
		return &hiveStoreObject{
			ObjectHive: hive.NewObjectHiveWithSchedule[iface.Object](uid.Zero, hiveGrowthSchedule),
			class:      hiveClass,
		}
	})
	// RawHive has no iface.Object identity of its own (see CreateRawHive
	// below) so, unlike ObjectHive, it is never entered into the type
	// registry; RawHiveUID exists only to name the primitive in docs and
	// logs.

	widgetClass := newWidgetClass()
	rt.Types.RegisterType(WidgetUID, widgetClass, func(types.ObjectFlags) iface.Object {
		w := &Widget{class: widgetClass}
		w.state.width, _ = member.DefaultValue[int](widgetWidthDesc)
		w.state.height, _ = member.DefaultValue[int](widgetHeightDesc)
		w.state.name, _ = member.DefaultValue[string](widgetNameDesc)
		w.md = metadata.New(w, widgetMemberDescs, buildWidgetMember(rt.Queue))
		return w
	})
}

// CreateAny returns a type-erased Any for the registered value type id
// (e.g. OwnedIntUID, OwnedFloatUID, OwnedStringUID).
func (rt *Runtime) CreateAny(id uid.UID) (anyval.Any, types.ReturnValue) {
	switch id {
	case OwnedIntUID:
		return anyval.NewOwned(0), types.Success
	case OwnedFloatUID:
		return anyval.NewOwned(0.0), types.Success
	case OwnedStringUID:
		return anyval.NewOwned(""), types.Success
	default:
		return nil, types.Fail
	}
}

// CreateProperty returns a Property backed by initial, wired to this
// runtime's update queue.
func (rt *Runtime) CreateProperty(initial anyval.Any, flags types.ObjectFlags) *property.Property {
	return property.New(initial, flags, rt.Queue)
}

// CreateFuture returns a Future whose deferred continuations run via this
// runtime's update queue.
func (rt *Runtime) CreateFuture() *future.Future {
	return future.New(rt.Queue)
}

// CreateCallback returns a Function with target installed, wired to this
// runtime's update queue.
func (rt *Runtime) CreateCallback(target funcevent.Target) *funcevent.Function {
	f := funcevent.NewFunction(rt.Queue)
	f.SetInvokeCallback(target)
	return f
}

// CreateOwnedCallback returns a Function whose target closes over ctx.
// del, if non-nil, should be called by the owner once the callback is no
// longer needed — Go closures already keep ctx alive for as long as the
// Function itself is reachable, so there is no GC hook to wire del into;
// this mirrors the original's explicit deleter only as an opt-in cleanup
// the caller chooses to invoke.
func (rt *Runtime) CreateOwnedCallback(ctx any, fn func(ctx any, args []anyval.Any) (anyval.Any, types.ReturnValue), del func(ctx any)) *funcevent.Function {
	f := rt.CreateCallback(func(args []anyval.Any) (anyval.Any, types.ReturnValue) {
		return fn(ctx, args)
	})
	return f
}

// Create instantiates the class registered under id via the type
// registry.
func (rt *Runtime) Create(id uid.UID, flags types.ObjectFlags) (iface.Object, types.ReturnValue) {
	return rt.Types.Create(id, flags)
}

// CreateRawHive returns a fresh RawHive parameterized over T. Unlike the
// reference-counted built-ins above, a RawHive carries no iface.Object
// identity of its own (spec's Design Notes: it's the primitive
// applications build their own arena on top of), so it is constructed
// directly rather than through the type registry.
func CreateRawHive[T any]() *hive.RawHive[T] {
	return hive.NewRawHive[T]()
}
