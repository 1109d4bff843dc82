package runtime

import (
	"testing"

	"github.com/velk-rt/velk/anyval"
	"github.com/velk-rt/velk/types"
)

func TestNewRegistersBuiltinClasses(t *testing.T) {
	rt := New()

	if !rt.Types.Contains(PropertyImplUID) {
		t.Fatal("PropertyImpl not registered")
	}
	if !rt.Types.Contains(FunctionImplUID) {
		t.Fatal("FunctionImpl not registered")
	}
	if !rt.Types.Contains(FutureImplUID) {
		t.Fatal("FutureImpl not registered")
	}
	if !rt.Types.Contains(HiveStoreUID) {
		t.Fatal("HiveStore not registered")
	}
	if !rt.Types.Contains(ObjectHiveUID) {
		t.Fatal("ObjectHive not registered")
	}
}

func TestCreatePropertyByUID(t *testing.T) {
	rt := New()
	obj, rv := rt.Create(PropertyImplUID, types.FlagNone)
	if rv != types.Success {
		t.Fatalf("rv = %v, want Success", rv)
	}
	p, ok := obj.(*propertyObject)
	if !ok {
		t.Fatalf("object type = %T, want *propertyObject", obj)
	}
	if p.Value() == nil {
		t.Fatal("property value should not be nil")
	}
}

func TestCreateAnyKnownTypes(t *testing.T) {
	rt := New()
	a, rv := rt.CreateAny(OwnedIntUID)
	if rv != types.Success || a == nil {
		t.Fatalf("CreateAny(int) = (%v, %v)", a, rv)
	}
	var n int
	a.GetData(&n, OwnedIntUID)
	if n != 0 {
		t.Fatalf("default int value = %d, want 0", n)
	}
}

func TestCreateAnyUnknownTypeFails(t *testing.T) {
	rt := New()
	_, rv := rt.CreateAny(anyval.TypeUID[struct{}]())
	if rv != types.Fail {
		t.Fatalf("rv = %v, want Fail", rv)
	}
}

func TestCreateCallbackInvokesTarget(t *testing.T) {
	rt := New()
	ran := false
	f := rt.CreateCallback(func(args []anyval.Any) (anyval.Any, types.ReturnValue) {
		ran = true
		return nil, types.Success
	})
	f.Invoke(nil, types.Immediate)
	if !ran {
		t.Fatal("callback target did not run")
	}
}

func TestInstanceIsASingleton(t *testing.T) {
	a := Instance()
	b := Instance()
	if a != b {
		t.Fatal("Instance() returned different Runtime pointers across calls")
	}
}
