package catalog

import (
	"sync"

	"storefront.GO/model/entity"
)

// LoadState is the session's load machine: Idle -> Loading -> {Idle | Error}.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateError
)

// ChangeKind tells subscribers what mutated.
type ChangeKind int

const (
	ChangeReplace ChangeKind = iota
	ChangeAppend
	ChangeLoading
	ChangeError
)

// Change is delivered to subscribers after the session's fields are fully
// updated; Appended carries only the newly added products on ChangeAppend.
type Change struct {
	Kind     ChangeKind
	Appended []entity.Product
}

// Session is the single source of truth for the current product list, its
// pagination cursor and loading status. It is multi-reader, but only its own
// methods mutate it, and a fetch result is applied only when its query still
// matches the active one; a stale response for an abandoned query is
// silently discarded.
type Session struct {
	mu          sync.Mutex
	items       []entity.Product
	seen        map[int64]struct{}
	page        int
	totalPages  int
	state       LoadState
	lastErr     error
	sourceQuery Query
	activeQuery Query
	noMorePages bool // set when the client-side fallback produced the items
	subs        []func(Change)
}

func NewSession() *Session {
	return &Session{seen: make(map[int64]struct{})}
}

// Subscribe registers a change listener. Listeners are invoked synchronously
// after every mutation, outside the session lock.
func (s *Session) Subscribe(fn func(Change)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// SetActiveQuery records the query the user currently wants. Results carrying
// any other query are discarded from here on.
func (s *Session) SetActiveQuery(q Query) {
	s.mu.Lock()
	s.activeQuery = q
	s.mu.Unlock()
}

func (s *Session) ActiveQuery() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeQuery
}

// BeginLoad transitions Idle/Error -> Loading. A load arriving while one is
// already in flight is ignored, not queued.
func (s *Session) BeginLoad() bool {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return false
	}
	s.state = StateLoading
	s.lastErr = nil
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeLoading})
	return true
}

// Replace atomically swaps in a fresh page-1 result for query q. Returns
// false (a no-op on store contents) when q is no longer the active query.
func (s *Session) Replace(products []entity.Product, page, totalPages int, q Query) bool {
	s.mu.Lock()
	if !q.Equal(s.activeQuery) {
		// StaleResult: never surfaced.
		s.mu.Unlock()
		return false
	}
	s.items = s.items[:0]
	s.seen = make(map[int64]struct{}, len(products))
	for _, p := range products {
		if _, dup := s.seen[p.ID]; dup {
			continue
		}
		s.seen[p.ID] = struct{}{}
		s.items = append(s.items, p)
	}
	s.page = page
	s.totalPages = totalPages
	s.sourceQuery = q
	s.state = StateIdle
	s.lastErr = nil
	s.noMorePages = false
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeReplace})
	return true
}

// Append concatenates a "load more" result. Valid only while q matches the
// session's owning query; later duplicates by id are dropped, not merged.
func (s *Session) Append(products []entity.Product, page, totalPages int, q Query) bool {
	s.mu.Lock()
	if !q.Equal(s.sourceQuery) || !q.Equal(s.activeQuery) {
		s.mu.Unlock()
		return false
	}
	appended := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if _, dup := s.seen[p.ID]; dup {
			continue
		}
		s.seen[p.ID] = struct{}{}
		s.items = append(s.items, p)
		appended = append(appended, p)
	}
	s.page = page
	s.totalPages = totalPages
	s.state = StateIdle
	s.lastErr = nil
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeAppend, Appended: appended})
	return true
}

// DisablePagination marks the session as non-paginable; used after the
// client-side filter fallback, whose result is not meaningfully paginated.
func (s *Session) DisablePagination() {
	s.mu.Lock()
	s.noMorePages = true
	s.mu.Unlock()
}

func (s *Session) MarkLoading(loading bool) {
	s.mu.Lock()
	if loading {
		s.state = StateLoading
	} else if s.state == StateLoading {
		s.state = StateIdle
	}
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeLoading})
}

// MarkError records a terminal load failure; user-recoverable via retry.
func (s *Session) MarkError(err error) {
	s.mu.Lock()
	s.state = StateError
	s.lastErr = err
	s.mu.Unlock()
	s.notify(Change{Kind: ChangeError})
}

func (s *Session) Items() []entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Product(nil), s.items...)
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

func (s *Session) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPages
}

func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.noMorePages && s.page < s.totalPages
}

func (s *Session) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateLoading
}

func (s *Session) State() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Session) SourceQuery() Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sourceQuery
}

func (s *Session) notify(c Change) {
	s.mu.Lock()
	subs := append(make([]func(Change), 0, len(s.subs)), s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(c)
	}
}
