package runtime

import (
	"github.com/velk-rt/velk/anyval"
	"github.com/velk-rt/velk/iface"
	"github.com/velk-rt/velk/member"
	"github.com/velk-rt/velk/metadata"
	"github.com/velk-rt/velk/property"
	"github.com/velk-rt/velk/types"
	"github.com/velk-rt/velk/uid"
)

// Widget is the runtime's own instance of the multi-interface class from
// spec's seed scenario 2: one class implementing two interfaces, each
// contributing property members materialised lazily through a
// metadata.Container — the concrete exercise of components E (member
// descriptors) and F (metadata) that every other built-in type sidesteps
// by registering with no members at all. A Widget is created like any
// other built-in, via Runtime.Create(WidgetUID, ...).
type Widget struct {
	class *iface.ClassInfo
	state widgetState
	md    *metadata.Container
}

func (w *Widget) ClassInfo() *iface.ClassInfo { return w.class }

type widgetState struct {
	width  int
	height int
	name   string
}

var (
	// IWidgetInfo and ISerializableInfo are the two interfaces Widget
	// implements, named after spec's seed scenario 2 (IMyWidget,
	// ISerializable).
	IWidgetInfo       = iface.NewInterfaceInfo("velk.builtin.IWidget", nil)
	ISerializableInfo = iface.NewInterfaceInfo("velk.builtin.ISerializable", nil)

	widgetWidthDesc = member.PropertyDesc("width", IWidgetInfo, &member.PropertyKind{
		TypeUID:    anyval.TypeUID[int](),
		GetDefault: func() anyval.Any { return anyval.NewOwned(100) },
		CreateRef: func(stateBase any) anyval.Any {
			return anyval.NewRef(&stateBase.(*widgetState).width)
		},
	})
	widgetHeightDesc = member.PropertyDesc("height", IWidgetInfo, &member.PropertyKind{
		TypeUID:    anyval.TypeUID[int](),
		GetDefault: func() anyval.Any { return anyval.NewOwned(50) },
		CreateRef: func(stateBase any) anyval.Any {
			return anyval.NewRef(&stateBase.(*widgetState).height)
		},
	})
	widgetNameDesc = member.PropertyDesc("name", ISerializableInfo, &member.PropertyKind{
		TypeUID:    anyval.TypeUID[string](),
		GetDefault: func() anyval.Any { return anyval.NewOwned("") },
		CreateRef: func(stateBase any) anyval.Any {
			return anyval.NewRef(&stateBase.(*widgetState).name)
		},
	})

	widgetMemberDescs = []*member.MemberDesc{widgetWidthDesc, widgetHeightDesc, widgetNameDesc}
)

// widgetMembers converts widgetMemberDescs to the iface.Member slice
// ClassInfo wants — member.MemberDesc satisfies iface.Member structurally,
// but ClassInfo.Members is typed as the interface, not the concrete type.
func widgetMembers() []iface.Member {
	out := make([]iface.Member, len(widgetMemberDescs))
	for i, d := range widgetMemberDescs {
		out[i] = d
	}
	return out
}

// IWidget is the accessor view GetInterface(obj, IWidgetInfo.UID) returns:
// the width/height properties, lazily materialised on first access.
type IWidget struct{ w *Widget }

func (v IWidget) Width() *property.Property  { return v.w.propertyAt(widgetWidthDesc) }
func (v IWidget) Height() *property.Property { return v.w.propertyAt(widgetHeightDesc) }

// ISerializableView is the accessor view GetInterface(obj,
// ISerializableInfo.UID) returns.
type ISerializableView struct{ w *Widget }

func (v ISerializableView) Name() *property.Property { return v.w.propertyAt(widgetNameDesc) }

func (w *Widget) propertyAt(desc *member.MemberDesc) *property.Property {
	for i, d := range widgetMemberDescs {
		if d == desc {
			return w.md.GetAt(i).(*property.Property)
		}
	}
	return nil
}

func buildWidgetMember(sched property.Scheduler) func(owner any, desc *member.MemberDesc) any {
	return func(owner any, desc *member.MemberDesc) any {
		w := owner.(*Widget)
		pk := desc.PropertyKind()
		ref := pk.CreateRef(&w.state)
		return property.New(ref, types.FlagNone, sched)
	}
}

func newWidgetClass() *iface.ClassInfo {
	return iface.NewClassInfo(WidgetUID, "Widget",
		[]*iface.InterfaceInfo{IWidgetInfo, ISerializableInfo},
		widgetMembers(),
		map[uid.UID]iface.Accessor{
			iface.Root.UID: func(obj iface.Object) any { return obj },
			IWidgetInfo.UID: func(obj iface.Object) any {
				return IWidget{w: obj.(*Widget)}
			},
			ISerializableInfo.UID: func(obj iface.Object) any {
				return ISerializableView{w: obj.(*Widget)}
			},
		})
}
