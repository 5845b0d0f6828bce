// Package render turns catalog and selection state into HTML fragments and
// pushes them through a ViewSink. Nothing else in the module touches markup.
package render

import (
	"strings"
	"sync"
)

// ViewSink is the one boundary the widget draws through. The HTTP layer
// implements it for server-side rendering; tests use BufferSink.
type ViewSink interface {
	// ReplaceGrid swaps the whole product grid.
	ReplaceGrid(html string)
	// AppendCards adds cards for a follow-up page without touching the
	// existing ones.
	AppendCards(html string)
	// UpdateCard re-renders a single product card in place.
	UpdateCard(productID int64, html string)
	// ShowEmpty replaces the grid with an empty-state panel.
	ShowEmpty(html string)
	// ShowError replaces the grid with an error panel.
	ShowError(html string)
	// SetLoading toggles the loading indicator.
	SetLoading(on bool)
	// SetCounts updates the cart and quotation badges.
	SetCounts(cart, quotation int)
	// Notify surfaces a transient inline message (add rejections).
	Notify(message string)
}

// BufferSink records everything pushed at it. It backs tests and the
// snapshot endpoint.
type BufferSink struct {
	mu        sync.Mutex
	grid      []string // appended card fragments follow the last replace
	empty     string
	errorHTML string
	loading   bool
	cartCount int
	quoteSum  int
	notices   []string
	updates   map[int64]string
}

func NewBufferSink() *BufferSink {
	return &BufferSink{updates: make(map[int64]string)}
}

func (b *BufferSink) ReplaceGrid(html string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.grid = b.grid[:0]
	b.grid = append(b.grid, html)
	b.empty = ""
	b.errorHTML = ""
}

func (b *BufferSink) AppendCards(html string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.grid = append(b.grid, html)
}

func (b *BufferSink) UpdateCard(productID int64, html string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates[productID] = html
}

func (b *BufferSink) ShowEmpty(html string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.grid = b.grid[:0]
	b.empty = html
	b.errorHTML = ""
}

func (b *BufferSink) ShowError(html string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.errorHTML = html
}

func (b *BufferSink) SetLoading(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = on
}

func (b *BufferSink) SetCounts(cart, quotation int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cartCount = cart
	b.quoteSum = quotation
}

func (b *BufferSink) Notify(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, message)
}

// GridHTML joins the current grid fragments, latest replace first.
func (b *BufferSink) GridHTML() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.grid, "\n")
}

func (b *BufferSink) EmptyHTML() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.empty
}

func (b *BufferSink) ErrorHTML() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errorHTML
}

func (b *BufferSink) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

func (b *BufferSink) Counts() (cart, quotation int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cartCount, b.quoteSum
}

func (b *BufferSink) Notices() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.notices...)
}

func (b *BufferSink) CardUpdate(productID int64) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	html, ok := b.updates[productID]
	return html, ok
}

// AppendCount reports how many append fragments followed the last replace.
func (b *BufferSink) AppendCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.grid) == 0 {
		return 0
	}
	return len(b.grid) - 1
}
