package update

import (
	"testing"
	"time"

	"github.com/velk-rt/velk/plugin"
	"github.com/velk-rt/velk/uid"
)

func TestEnqueueRunsOnlyAfterDrain(t *testing.T) {
	q := New(time.Now())
	ran := false
	q.Enqueue(func() { ran = true })
	if ran {
		t.Fatal("task ran before Drain")
	}
	q.DrainNow()
	if !ran {
		t.Fatal("task did not run after Drain")
	}
}

func TestEnqueuedDuringDrainRunsNextTick(t *testing.T) {
	q := New(time.Now())
	var secondRan bool
	q.Enqueue(func() {
		q.Enqueue(func() { secondRan = true })
	})
	q.DrainNow()
	if secondRan {
		t.Fatal("nested enqueue ran in the same Drain")
	}
	q.DrainNow()
	if !secondRan {
		t.Fatal("nested enqueue did not run on the next Drain")
	}
}

func TestCoalescedWritesKeepOnlyLastPerKey(t *testing.T) {
	q := New(time.Now())
	var seen []int
	key := "prop"
	q.EnqueueCoalesced(key, func() { seen = append(seen, 1) })
	q.EnqueueCoalesced(key, func() { seen = append(seen, 2) })
	q.EnqueueCoalesced(key, func() { seen = append(seen, 3) })
	q.DrainNow()

	if len(seen) != 1 || seen[0] != 3 {
		t.Fatalf("seen = %v, want [3]", seen)
	}
}

func TestCoalescedKeysPreserveFirstSeenOrder(t *testing.T) {
	q := New(time.Now())
	var order []string
	q.EnqueueCoalesced("b", func() { order = append(order, "b") })
	q.EnqueueCoalesced("a", func() { order = append(order, "a") })
	q.EnqueueCoalesced("b", func() { order = append(order, "b2") })
	q.DrainNow()

	if len(order) != 2 || order[0] != "b2" || order[1] != "a" {
		t.Fatalf("order = %v, want [b2 a]", order)
	}
}

func TestDrainAppliesCoalescedPropertyWritesBeforeDeferredTasks(t *testing.T) {
	q := New(time.Now())
	var order []string

	q.Enqueue(func() { order = append(order, "task") })
	q.EnqueueCoalesced("prop", func() { order = append(order, "property") })
	q.DrainNow()

	if len(order) != 2 || order[0] != "property" || order[1] != "task" {
		t.Fatalf("order = %v, want [property task] (coalesced property writes apply before deferred tasks)", order)
	}
}

type fakePlugin struct {
	uid     uid.UID
	updates []plugin.UpdateInfo
}

func (p *fakePlugin) UID() uid.UID                       { return p.uid }
func (p *fakePlugin) Version() plugin.Version            { return plugin.Version{Major: 1} }
func (p *fakePlugin) Dependencies() []plugin.Dependency   { return nil }
func (p *fakePlugin) Initialize(plugin.Host, *plugin.Config) error { return nil }
func (p *fakePlugin) Shutdown(plugin.Host)                {}
func (p *fakePlugin) Update(info plugin.UpdateInfo)       { p.updates = append(p.updates, info) }

func TestDrainNotifiesRegisteredPlugins(t *testing.T) {
	start := time.Now()
	q := New(start)
	p := &fakePlugin{uid: uid.Hash("plugin.fake")}
	q.AddPlugin(p)

	q.Drain(start.Add(10 * time.Millisecond))
	q.Drain(start.Add(30 * time.Millisecond))

	if len(p.updates) != 2 {
		t.Fatalf("updates = %d, want 2", len(p.updates))
	}
	if p.updates[1].SinceLastUpdate != 20*time.Millisecond {
		t.Fatalf("SinceLastUpdate = %v, want 20ms", p.updates[1].SinceLastUpdate)
	}
	if p.updates[0].SinceFirstUpdate != 0 {
		t.Fatalf("first SinceFirstUpdate = %v, want 0", p.updates[0].SinceFirstUpdate)
	}
}

func TestRemovePluginStopsNotifications(t *testing.T) {
	q := New(time.Now())
	p := &fakePlugin{uid: uid.Hash("plugin.removable")}
	q.AddPlugin(p)
	q.RemovePlugin(p)
	q.DrainNow()
	if len(p.updates) != 0 {
		t.Fatalf("updates = %d, want 0", len(p.updates))
	}
}
