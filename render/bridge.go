package render

import (
	"fmt"
	"log"
	"sync"

	"storefront.GO/catalog"
	"storefront.GO/model/entity"
)

// ActionFunc handles one user action. variant is "" when no variant is
// involved.
type ActionFunc func(productID int64, variant string) error

// Bridge is the single listener between state and markup. It is constructed
// once per widget: the action table is delegated dispatch, never re-bound
// when the grid redraws, so replacing cards cannot leak or drop handlers.
type Bridge struct {
	session  *catalog.Session
	cart     countedStore
	quote    countedStore
	renderer *Renderer
	sink     ViewSink

	mu      sync.Mutex
	actions map[string]ActionFunc
}

// countedStore is the store surface the bridge needs. Both selection stores
// satisfy it.
type countedStore interface {
	SelectionLookup
	Count() int
}

// NewBridge wires the bridge to its inputs and subscribes immediately. The
// session and store subscriptions are taken here and never again.
func NewBridge(session *catalog.Session, cart, quote countedStore, sink ViewSink) *Bridge {
	b := &Bridge{
		session:  session,
		cart:     cart,
		quote:    quote,
		renderer: NewRenderer(cart, quote),
		sink:     sink,
		actions:  make(map[string]ActionFunc),
	}
	session.Subscribe(b.onSessionChange)
	return b
}

// Bind registers the handler for a data-action name. Later binds replace
// earlier ones.
func (b *Bridge) Bind(action string, fn ActionFunc) {
	b.mu.Lock()
	b.actions[action] = fn
	b.mu.Unlock()
}

// HandleAction routes one user action to its bound handler. Unknown actions
// are logged and dropped, never fatal.
func (b *Bridge) HandleAction(action string, productID int64, variant string) error {
	b.mu.Lock()
	fn, ok := b.actions[action]
	b.mu.Unlock()
	if !ok {
		log.Printf("render: unbound action %q", action)
		return fmt.Errorf("unknown action %q", action)
	}
	return fn(productID, variant)
}

// RefreshCard re-renders a single card in place, after a selection change.
func (b *Bridge) RefreshCard(p *entity.Product) {
	html, err := b.renderer.Card(p)
	if err != nil {
		log.Printf("render: card %d: %v", p.ID, err)
		return
	}
	b.sink.UpdateCard(p.ID, html)
	b.refreshCounts()
}

// Notify surfaces a transient message, typically an add rejection.
func (b *Bridge) Notify(message string) {
	b.sink.Notify(message)
}

// RenderDetail builds the product detail fragment. Where it lands (modal,
// panel, separate page) is the sink implementation's business.
func (b *Bridge) RenderDetail(p *entity.Product, selectedVariant, inquiryLink string) (string, error) {
	return b.renderer.Detail(p, selectedVariant, inquiryLink)
}

// RenderCards builds card fragments for a product run without touching the
// sink, for callers that ship fragments over the wire themselves.
func (b *Bridge) RenderCards(products []entity.Product) (string, error) {
	return b.renderer.Cards(products)
}

func (b *Bridge) refreshCounts() {
	b.sink.SetCounts(b.cart.Count(), b.quote.Count())
}

func (b *Bridge) onSessionChange(ch catalog.Change) {
	switch ch.Kind {
	case catalog.ChangeLoading:
		// A loading notification also fires when a load is abandoned, so
		// the indicator mirrors the session rather than latching on.
		b.sink.SetLoading(b.session.IsLoading())

	case catalog.ChangeReplace:
		b.sink.SetLoading(false)
		items := b.session.Items()
		q := b.session.ActiveQuery()
		if len(items) == 0 {
			b.showEmpty(q)
			return
		}
		html, err := b.renderer.Cards(items)
		if err != nil {
			log.Printf("render: grid: %v", err)
			return
		}
		b.sink.ReplaceGrid(html)
		b.refreshCounts()

	case catalog.ChangeAppend:
		b.sink.SetLoading(false)
		if len(ch.Appended) == 0 {
			return
		}
		// Only the new page's cards render; the existing grid is untouched.
		html, err := b.renderer.Cards(ch.Appended)
		if err != nil {
			log.Printf("render: append: %v", err)
			return
		}
		b.sink.AppendCards(html)

	case catalog.ChangeError:
		b.sink.SetLoading(false)
		msg := "Something went wrong while loading products."
		if err := b.session.LastError(); err != nil {
			msg = "Could not load products. Please try again."
		}
		html, rerr := b.renderer.ErrorPanel(msg, true)
		if rerr != nil {
			log.Printf("render: error panel: %v", rerr)
			return
		}
		b.sink.ShowError(html)
	}
}

func (b *Bridge) showEmpty(q catalog.Query) {
	kind := EmptyCatalog
	if q.Text() != "" {
		kind = EmptySearch
	} else if q.HasFacets() {
		kind = EmptyFiltered
	}
	html, err := b.renderer.EmptyState(kind, q.Text())
	if err != nil {
		log.Printf("render: empty state: %v", err)
		return
	}
	b.sink.ShowEmpty(html)
}
