package refcount

import (
	"sync"
	"testing"
)

func TestSharedCloneAndRelease(t *testing.T) {
	destroyed := false
	s := New(42, func(int) { destroyed = true })

	c := s.Clone()
	if s.StrongCount() != 2 {
		t.Fatalf("StrongCount after Clone = %d, want 2", s.StrongCount())
	}

	if s.Release() {
		t.Fatal("first Release should not be the last reference")
	}
	if destroyed {
		t.Fatal("destroy ran too early")
	}

	if !c.Release() {
		t.Fatal("second Release should be the last reference")
	}
	if !destroyed {
		t.Fatal("destroy should have run")
	}
}

func TestWeakLockAfterStrongReleased(t *testing.T) {
	s := New("hello", nil)
	w := s.Weaken()

	s.Release()

	if _, ok := w.Lock(); ok {
		t.Fatal("Lock should fail once the strong group is gone")
	}
	if !w.Expired() {
		t.Fatal("Expired should be true")
	}
	w.Release()
}

func TestWeakLockWhileStrongAlive(t *testing.T) {
	s := New(7, nil)
	w := s.Weaken()

	locked, ok := w.Lock()
	if !ok {
		t.Fatal("Lock should succeed while strong group is alive")
	}
	if locked.Get() != 7 {
		t.Fatalf("locked value = %d, want 7", locked.Get())
	}

	locked.Release()
	s.Release()
	w.Release()
}

func TestConcurrentCloneRelease(t *testing.T) {
	s := New(1, func(int) {})
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := s.Clone()
			c.Release()
		}()
	}
	wg.Wait()
	if s.StrongCount() != 1 {
		t.Fatalf("StrongCount after concurrent clone/release = %d, want 1", s.StrongCount())
	}
	s.Release()
}
