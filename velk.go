// Package velk is the top-level entry point for embedders who just want
// the process-wide runtime without naming the runtime package directly —
// Instance, Create, and Update mirror the original's global free
// functions built on top of the same root singleton.
package velk

import (
	"github.com/velk-rt/velk/iface"
	"github.com/velk-rt/velk/runtime"
	"github.com/velk-rt/velk/types"
	"github.com/velk-rt/velk/uid"
)

// Instance returns the process-wide Runtime, constructing it on first
// call.
func Instance() *runtime.Runtime {
	return runtime.Instance()
}

// Create instantiates the class registered under id on the process-wide
// Runtime.
func Create(id uid.UID, flags types.ObjectFlags) (iface.Object, types.ReturnValue) {
	return Instance().Create(id, flags)
}

// Update drains the process-wide Runtime's update queue using the
// current wall-clock time.
func Update() {
	Instance().Queue.DrainNow()
}
