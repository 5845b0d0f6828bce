// Package jobs holds the background job functions named in config.CronJobs.
// The jobs are declared at package level so the schedule map can reference
// them before the application is wired; Bind connects them to live
// components during startup. An unbound job is a logged no-op.
package jobs

import (
	"log"
	"sync"
)

var (
	mu        sync.Mutex
	flushFn   func()
	refreshFn func()
)

// BindSelectionFlush connects the periodic cart/quotation flush to the
// persistence layer.
func BindSelectionFlush(fn func()) {
	mu.Lock()
	flushFn = fn
	mu.Unlock()
}

// BindFacetRefresh connects the hourly facet refresh to the options loader.
func BindFacetRefresh(fn func()) {
	mu.Lock()
	refreshFn = fn
	mu.Unlock()
}

// SelectionFlushJob writes the selection stores to disk.
func SelectionFlushJob(args ...string) {
	mu.Lock()
	fn := flushFn
	mu.Unlock()
	if fn == nil {
		log.Println("jobs: selection:flush not bound, skipping")
		return
	}
	fn()
}

// FacetRefreshJob drops the cached facet lists so the next sidebar render
// re-discovers them.
func FacetRefreshJob(args ...string) {
	mu.Lock()
	fn := refreshFn
	mu.Unlock()
	if fn == nil {
		log.Println("jobs: facets:refresh not bound, skipping")
		return
	}
	fn()
}
