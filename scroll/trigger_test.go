package scroll

import (
	"context"
	"sync"
	"testing"
)

type fakeLoader struct {
	mu      sync.Mutex
	canLoad bool
	calls   int
	entered chan struct{} // closed when the first load begins
	block   chan struct{} // when set, LoadNextPage waits on it
}

func (f *fakeLoader) LoadNextPage(ctx context.Context) error {
	f.mu.Lock()
	f.calls++
	if f.calls == 1 && f.entered != nil {
		close(f.entered)
	}
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return nil
}

func (f *fakeLoader) CanLoadMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canLoad
}

func (f *fakeLoader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestOnScroll_FiresWithinThreshold(t *testing.T) {
	loader := &fakeLoader{canLoad: true}
	trig := NewTrigger(loader)

	// 200px from the bottom: 1800 + 600 = 2400 >= 2600 - 200.
	if !trig.OnScroll(context.Background(), 1800, 600, 2600) {
		t.Error("scroll within threshold must trigger a load")
	}
	if loader.callCount() != 1 {
		t.Errorf("LoadNextPage called %d times, want 1", loader.callCount())
	}
}

func TestOnScroll_IgnoresFarFromBottom(t *testing.T) {
	loader := &fakeLoader{canLoad: true}
	trig := NewTrigger(loader)

	if trig.OnScroll(context.Background(), 0, 600, 5000) {
		t.Error("scroll far from the bottom must not trigger")
	}
	if loader.callCount() != 0 {
		t.Errorf("LoadNextPage called %d times, want 0", loader.callCount())
	}
}

func TestOnScroll_RespectsLoaderGate(t *testing.T) {
	loader := &fakeLoader{canLoad: false}
	trig := NewTrigger(loader)

	if trig.OnScroll(context.Background(), 1800, 600, 2600) {
		t.Error("must not trigger when the loader reports no more pages")
	}
	if loader.callCount() != 0 {
		t.Errorf("LoadNextPage called %d times, want 0", loader.callCount())
	}
}

func TestOnScroll_ShortContentCountsAsBottom(t *testing.T) {
	loader := &fakeLoader{canLoad: true}
	trig := NewTrigger(loader)

	if !trig.OnScroll(context.Background(), 0, 800, 500) {
		t.Error("content shorter than the viewport is already at the bottom")
	}
}

func TestOnScroll_BurstCollapsesToOneLoad(t *testing.T) {
	loader := &fakeLoader{
		canLoad: true,
		entered: make(chan struct{}),
		block:   make(chan struct{}),
	}
	trig := NewTrigger(loader)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		trig.OnScroll(context.Background(), 1800, 600, 2600)
	}()
	<-loader.entered

	// Hammer the trigger while the first load is in flight. The frame gate
	// swallows every one of them.
	for i := 0; i < 20; i++ {
		if trig.OnScroll(context.Background(), 1800, 600, 2600) {
			t.Fatal("trigger fired while a load was in flight")
		}
	}
	close(loader.block)
	wg.Wait()

	if got := loader.callCount(); got != 1 {
		t.Errorf("LoadNextPage called %d times during burst, want 1", got)
	}
}
