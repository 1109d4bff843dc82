package runtime

import (
	"testing"

	"github.com/velk-rt/velk/anyval"
	"github.com/velk-rt/velk/funcevent"
	"github.com/velk-rt/velk/types"
)

// TestWidgetInterfaceCastAcrossMultiInterfaceClass is spec's seed scenario
// 2: a class implementing two interfaces, each contributing properties,
// cast and read through each interface independently.
func TestWidgetInterfaceCastAcrossMultiInterfaceClass(t *testing.T) {
	rt := New()

	obj, rv := rt.Create(WidgetUID, types.FlagNone)
	if rv != types.Success {
		t.Fatalf("Create(WidgetUID) rv = %v, want Success", rv)
	}

	widgetIface, ok := obj.ClassInfo().GetInterface(obj, IWidgetInfo.UID)
	if !ok {
		t.Fatal("widget does not implement IWidget")
	}
	asWidget := widgetIface.(IWidget)

	var width int
	asWidget.Width().Value().GetData(&width, anyval.TypeUID[int]())
	if width != 100 {
		t.Fatalf("width = %d, want 100", width)
	}

	var height int
	asWidget.Height().Value().GetData(&height, anyval.TypeUID[int]())
	if height != 50 {
		t.Fatalf("height = %d, want 50", height)
	}

	serializableIface, ok := obj.ClassInfo().GetInterface(obj, ISerializableInfo.UID)
	if !ok {
		t.Fatal("widget does not implement ISerializable")
	}
	asSerializable := serializableIface.(ISerializableView)

	var name string
	asSerializable.Name().Value().GetData(&name, anyval.TypeUID[string]())
	if name != "" {
		t.Fatalf("name = %q, want empty", name)
	}
}

func TestWidgetDoesNotImplementUnrelatedInterface(t *testing.T) {
	rt := New()
	obj, _ := rt.Create(WidgetUID, types.FlagNone)

	if _, ok := obj.ClassInfo().GetInterface(obj, anyval.TypeUID[int]()); ok {
		t.Fatal("widget should not satisfy an arbitrary unrelated UID")
	}
}

func TestWidgetPropertySetValuePersistsAndNotifies(t *testing.T) {
	rt := New()
	obj, _ := rt.Create(WidgetUID, types.FlagNone)
	w := obj.(*Widget)

	view := IWidget{w: w}
	fired := false
	h := &funcevent.Handler{Call: func(args []anyval.Any) (anyval.Any, types.ReturnValue) {
		fired = true
		return nil, types.Success
	}}
	view.Width().OnChanged().AddHandler(h, types.Immediate)

	if rv := view.Width().SetValue(anyval.NewOwned(200), types.Immediate); rv != types.Success {
		t.Fatalf("SetValue rv = %v, want Success", rv)
	}
	if !fired {
		t.Fatal("width onChanged handler did not fire")
	}

	var width int
	view.Width().Value().GetData(&width, anyval.TypeUID[int]())
	if width != 200 {
		t.Fatalf("width after SetValue = %d, want 200", width)
	}
}
