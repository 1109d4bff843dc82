package registry

import (
	"testing"

	"github.com/velk-rt/velk/iface"
	"github.com/velk-rt/velk/types"
	"github.com/velk-rt/velk/uid"
)

type stubObject struct{ class *iface.ClassInfo }

func (s *stubObject) ClassInfo() *iface.ClassInfo { return s.class }

func newStubClass(name string) *iface.ClassInfo {
	return iface.NewClassInfo(uid.Hash(name), name, nil, nil, map[uid.UID]iface.Accessor{})
}

func TestRegisterAndCreate(t *testing.T) {
	r := New()
	class := newStubClass("velk.test.widget")

	r.RegisterType(class.UID, class, func(flags types.ObjectFlags) iface.Object {
		return &stubObject{class: class}
	})

	obj, rv := r.Create(class.UID, types.FlagNone)
	if rv != types.Success {
		t.Fatalf("Create rv = %v, want Success", rv)
	}
	if obj.ClassInfo() != class {
		t.Fatal("created object has wrong ClassInfo")
	}
}

func TestCreateMissReturnsFail(t *testing.T) {
	r := New()
	_, rv := r.Create(uid.Hash("velk.test.nonexistent"), types.FlagNone)
	if rv != types.Fail {
		t.Fatalf("rv = %v, want Fail", rv)
	}
}

func TestRegisterReplacesExisting(t *testing.T) {
	r := New()
	id := uid.Hash("velk.test.replace")
	classA := newStubClass("a")
	classB := newStubClass("b")

	r.RegisterType(id, classA, func(types.ObjectFlags) iface.Object { return &stubObject{class: classA} })
	r.RegisterType(id, classB, func(types.ObjectFlags) iface.Object { return &stubObject{class: classB} })

	if r.Count() != 1 {
		t.Fatalf("Count = %d, want 1", r.Count())
	}
	cls, ok := r.ClassOf(id)
	if !ok || cls != classB {
		t.Fatalf("ClassOf = %v, want classB", cls)
	}
}

func TestUnregisterTypeNothingToDoWhenAbsent(t *testing.T) {
	r := New()
	if rv := r.UnregisterType(uid.Hash("velk.test.absent")); rv != types.NothingToDo {
		t.Fatalf("rv = %v, want NothingToDo", rv)
	}
}

func TestSweepOwnerRemovesOnlyMatchingEntries(t *testing.T) {
	r := New()
	pluginA := uid.Hash("plugin.a")
	pluginB := uid.Hash("plugin.b")

	r.SetOwner(pluginA)
	classX := newStubClass("x")
	r.RegisterType(classX.UID, classX, func(types.ObjectFlags) iface.Object { return &stubObject{} })
	r.SetOwner(pluginB)
	classY := newStubClass("y")
	r.RegisterType(classY.UID, classY, func(types.ObjectFlags) iface.Object { return &stubObject{} })
	r.SetOwner(uid.Zero)

	removed := r.SweepOwner(pluginA)
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if r.Contains(classX.UID) {
		t.Fatal("classX should have been swept")
	}
	if !r.Contains(classY.UID) {
		t.Fatal("classY should still be registered")
	}
}

func TestCreateFactoryReturningNilIsFail(t *testing.T) {
	r := New()
	id := uid.Hash("velk.test.nilfactory")
	r.RegisterType(id, newStubClass("nilfactory"), func(types.ObjectFlags) iface.Object { return nil })

	_, rv := r.Create(id, types.FlagNone)
	if rv != types.Fail {
		t.Fatalf("rv = %v, want Fail", rv)
	}
}
