// Package update implements Velk's update loop: the deferred-task queue
// and coalesced property-write scheduler that funcevent and property
// enqueue into, drained by a single call to Queue.Drain per tick —
// component M.
package update

import (
	"sync"
	"time"

	"github.com/velk-rt/velk/plugin"
)

// Queue is a swap-and-drain task queue: Enqueue/EnqueueCoalesced append
// under a lock, Drain swaps the accumulated work into locals and releases
// the lock before running any of it, so handlers enqueueing further work
// during Drain land in the *next* tick rather than deadlocking or
// re-entering the current one.
type Queue struct {
	mu        sync.Mutex
	tasks     []func()
	keyOrder  []any
	coalesced map[any]func()

	initAt  time.Time
	firstAt time.Time
	lastAt  time.Time

	plugins []plugin.Plugin
}

// New returns an empty Queue, its init time stamped now.
func New(now time.Time) *Queue {
	return &Queue{
		coalesced: make(map[any]func()),
		initAt:    now,
	}
}

// Enqueue appends fn to run on the next Drain. Satisfies
// funcevent.Scheduler and future.Scheduler.
func (q *Queue) Enqueue(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, fn)
}

// EnqueueCoalesced schedules apply to run on the next Drain, replacing any
// not-yet-applied write previously enqueued for the same key — last-write-
// wins per key per tick. Satisfies property.Scheduler.
func (q *Queue) EnqueueCoalesced(key any, apply func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.coalesced[key]; !ok {
		q.keyOrder = append(q.keyOrder, key)
	}
	q.coalesced[key] = apply
}

// AddPlugin registers p to receive a plugin.UpdateInfo on every Drain.
// The plugin registry calls this when a plugin's Config.EnableUpdate is
// set during load.
func (q *Queue) AddPlugin(p plugin.Plugin) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.plugins = append(q.plugins, p)
}

// RemovePlugin stops notifying p, called on unload.
func (q *Queue) RemovePlugin(p plugin.Plugin) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, other := range q.plugins {
		if other == p {
			q.plugins = append(q.plugins[:i], q.plugins[i+1:]...)
			return
		}
	}
}

// Drain snapshots and clears both queues atomically, then applies every
// coalesced property write (in first-enqueued-key order) before running any
// deferred task, then notifies every registered plugin with fresh timing —
// spec §9's recommended ordering, since a deferred task that reads a
// property should see that tick's coalesced write rather than last tick's
// value. now drives the explicit-time mode; call DrainNow for wall-clock
// mode. Tasks enqueued by a task or apply running during Drain are visible
// only at the next call.
func (q *Queue) Drain(now time.Time) {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	keys := q.keyOrder
	coalesced := q.coalesced
	q.keyOrder = nil
	q.coalesced = make(map[any]func())
	plugins := append([]plugin.Plugin(nil), q.plugins...)

	if q.firstAt.IsZero() {
		q.firstAt = now
	}
	last := q.lastAt
	q.lastAt = now
	q.mu.Unlock()

	for _, k := range keys {
		if fn, ok := coalesced[k]; ok {
			fn()
		}
	}
	for _, fn := range tasks {
		fn()
	}

	if len(plugins) == 0 {
		return
	}
	info := plugin.UpdateInfo{
		SinceInit:        now.Sub(q.initAt),
		SinceFirstUpdate: now.Sub(q.firstAt),
	}
	if !last.IsZero() {
		info.SinceLastUpdate = now.Sub(last)
	}
	for _, p := range plugins {
		p.Update(info)
	}
}

// DrainNow drains using the wall-clock time, Velk's default update()
// calling convention when the caller doesn't supply an explicit time.
func (q *Queue) DrainNow() {
	q.Drain(time.Now())
}
