package hive

import "testing"

func TestRawHiveAddGetRemove(t *testing.T) {
	h := NewRawHive[string]()
	handle := h.Add("alpha")

	v, ok := h.Get(handle)
	if !ok || v != "alpha" {
		t.Fatalf("Get = (%q, %v), want (alpha, true)", v, ok)
	}

	if !h.Remove(handle) {
		t.Fatal("Remove returned false")
	}
	if h.Contains(handle) {
		t.Fatal("handle should no longer be contained after Remove")
	}
}

func TestRawHiveStaleHandleAfterReuseIsRejected(t *testing.T) {
	h := NewRawHive[int]()
	first := h.Add(1)
	h.Remove(first)
	second := h.Add(2)

	if first.page == second.page && first.slot == second.slot && first.gen == second.gen {
		t.Fatal("expected the reused slot's generation to differ from the stale handle")
	}
	if h.Contains(first) {
		t.Fatal("stale handle should not be Contains-true after slot reuse")
	}
	v, ok := h.Get(second)
	if !ok || v != 2 {
		t.Fatalf("Get(second) = (%d, %v), want (2, true)", v, ok)
	}
}

func TestRawHiveGrowthSchedule(t *testing.T) {
	h := NewRawHive[int]()
	for i := 0; i < 20; i++ {
		h.Add(i)
	}
	if h.Len() != 20 {
		t.Fatalf("Len = %d, want 20", h.Len())
	}
	if len(h.pages) != 2 {
		t.Fatalf("pages = %d, want 2 (16 then 64-capacity page)", len(h.pages))
	}
}

func TestRawHiveForEachVisitsEveryActiveSlotAndCanStopEarly(t *testing.T) {
	h := NewRawHive[int]()
	for i := 0; i < 5; i++ {
		h.Add(i)
	}

	count := 0
	h.ForEach(func(Handle, int) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Fatalf("count = %d, want 3 (stopped early)", count)
	}

	total := 0
	h.ForEach(func(Handle, int) bool {
		total++
		return true
	})
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
}

func TestRawHiveRemoveThenAddReusesFreedSlot(t *testing.T) {
	h := NewRawHive[int]()
	a := h.Add(1)
	h.Add(2)
	h.Remove(a)

	before := len(h.pages)
	c := h.Add(3)
	after := len(h.pages)

	if after != before {
		t.Fatalf("page count grew from %d to %d, want reuse of freed slot", before, after)
	}
	if c.page != a.page || c.slot != a.slot {
		t.Fatalf("new handle %+v did not reuse freed slot %+v", c, a)
	}
}
