package hive

import (
	"testing"

	"github.com/velk-rt/velk/uid"
)

type widget struct {
	name      string
	destroyed *bool
}

func (w *widget) Destroy() {
	if w.destroyed != nil {
		*w.destroyed = true
	}
}

func TestObjectHiveAddRemoveDestroysWhenLastRefDrops(t *testing.T) {
	h := NewObjectHive[widget](uid.Hash("velk.test.widget"))
	destroyed := false
	handle, ref := h.Add(widget{name: "a", destroyed: &destroyed})

	if !h.Contains(handle) {
		t.Fatal("handle should be Active right after Add")
	}

	h.Remove(handle)
	if h.Contains(handle) {
		t.Fatal("handle should not be Active (Zombie) right after Remove")
	}
	if destroyed {
		t.Fatal("object should still be alive: the caller's Ref is still outstanding")
	}

	ref.Release()
	if !destroyed {
		t.Fatal("object should be destroyed once the last Ref releases")
	}
}

func TestObjectHiveRemoveBeforeExternalRefReleaseKeepsObjectAlive(t *testing.T) {
	h := NewObjectHive[widget](uid.Hash("velk.test.widget"))
	destroyed := false
	handle, ref := h.Add(widget{name: "a", destroyed: &destroyed})

	clone := ref.Clone()
	h.Remove(handle)
	ref.Release()
	if destroyed {
		t.Fatal("object destroyed while clone still outstanding")
	}
	clone.Release()
	if !destroyed {
		t.Fatal("object should be destroyed once every Ref has released")
	}
}

func TestObjectHiveWeakLockFailsAfterDestroy(t *testing.T) {
	h := NewObjectHive[widget](uid.Hash("velk.test.widget"))
	handle, ref := h.Add(widget{name: "a"})
	weak := ref.Weaken()

	h.Remove(handle)
	locked, ok := weak.Lock()
	if !ok {
		t.Fatal("weak.Lock should still succeed: ref is still outstanding")
	}
	locked.Release()

	ref.Release()
	if _, ok := weak.Lock(); ok {
		t.Fatal("weak.Lock should fail once the object is destroyed")
	}
}

func TestObjectHiveSlotReusedOnlyAfterWeakReleases(t *testing.T) {
	h := NewObjectHive[widget](uid.Hash("velk.test.widget"))
	handle, ref := h.Add(widget{name: "a"})
	weak := ref.Weaken()

	h.Remove(handle)
	ref.Release()

	before := len(h.pages)
	newHandle, _ := h.Add(widget{name: "b"})
	if newHandle.page == handle.page && newHandle.slot == handle.slot {
		t.Fatal("slot should not be reused while a Weak is still outstanding")
	}
	_ = before

	weak.Release()
}

func TestObjectHiveForEachSkipsRemoved(t *testing.T) {
	h := NewObjectHive[widget](uid.Hash("velk.test.widget"))
	h1, _ := h.Add(widget{name: "a"})
	h.Add(widget{name: "b"})
	h.Add(widget{name: "c"})
	h.Remove(h1)

	names := map[string]bool{}
	h.ForEach(func(_ Handle, w *widget) bool {
		names[w.name] = true
		return true
	})
	if len(names) != 2 || names["a"] {
		t.Fatalf("names = %v, want {b,c}", names)
	}
	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}
}
