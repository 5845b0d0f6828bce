// Package scroll decides when a viewport position should pull the next
// catalog page.
package scroll

import (
	"context"
	"sync/atomic"
)

// ThresholdPx is how close to the bottom (in pixels) the viewport must be
// before the next page loads.
const ThresholdPx = 200

// Loader fetches and appends the next page. Trigger only gates; the widget
// engine owns the actual fetch.
type Loader interface {
	// LoadNextPage appends the page after the current one. It must be safe
	// to call concurrently; redundant calls are expected to coalesce.
	LoadNextPage(ctx context.Context) error
	// CanLoadMore reports whether another page exists, nothing is already
	// loading, and pagination was not disabled by a fallback.
	CanLoadMore() bool
}

// Trigger converts raw scroll positions into at-most-one pending load. The
// inFrame gate mirrors animation-frame throttling: bursts of positions
// between evaluations collapse into a single check.
type Trigger struct {
	loader  Loader
	inFrame atomic.Bool
}

func NewTrigger(loader Loader) *Trigger {
	return &Trigger{loader: loader}
}

// OnScroll feeds one viewport measurement. scrollTop is the distance already
// scrolled, viewport the visible height, content the full scrollable height.
// It returns true when a load was started.
func (t *Trigger) OnScroll(ctx context.Context, scrollTop, viewport, content int) bool {
	if !t.inFrame.CompareAndSwap(false, true) {
		return false
	}
	defer t.inFrame.Store(false)

	if !nearBottom(scrollTop, viewport, content) {
		return false
	}
	if !t.loader.CanLoadMore() {
		return false
	}
	return t.loader.LoadNextPage(ctx) == nil
}

// nearBottom reports whether the viewport is within ThresholdPx of the end.
// A content height shorter than the viewport counts as at-bottom.
func nearBottom(scrollTop, viewport, content int) bool {
	return scrollTop+viewport >= content-ThresholdPx
}
