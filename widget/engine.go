// Package widget ties the catalog session, fetch orchestration, selection
// stores and rendering together behind the operations a shopper can perform.
package widget

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"storefront.GO/catalog"
	"storefront.GO/config"
	"storefront.GO/model/entity"
	"storefront.GO/render"
	"storefront.GO/selection"
	svc "storefront.GO/service/catalog"
)

// Engine is the widget's coordinator. One engine per storefront instance;
// all user operations go through it.
type Engine struct {
	cfg     *config.Config
	session *catalog.Session
	orch    *svc.Orchestrator
	options *svc.OptionsLoader
	cart    *selection.Store
	quote   *selection.Store
	repo    *selection.Repository // nil disables persistence
	bridge  *render.Bridge

	debounceMu sync.Mutex
	lastClick  map[string]time.Time
	debounce   time.Duration
	now        func() time.Time
}

func NewEngine(
	cfg *config.Config,
	orch *svc.Orchestrator,
	options *svc.OptionsLoader,
	cart, quote *selection.Store,
	repo *selection.Repository,
	sink render.ViewSink,
) *Engine {
	e := &Engine{
		cfg:       cfg,
		session:   catalog.NewSession(),
		orch:      orch,
		options:   options,
		cart:      cart,
		quote:     quote,
		repo:      repo,
		lastClick: make(map[string]time.Time),
		debounce:  cfg.ClickDebounce,
		now:       time.Now,
	}
	e.bridge = render.NewBridge(e.session, cart, quote, sink)
	e.bindActions()

	if repo != nil {
		if err := repo.LoadInto(cart); err != nil {
			log.Printf("widget: restore cart: %v", err)
		}
		if err := repo.LoadInto(quote); err != nil {
			log.Printf("widget: restore quotation: %v", err)
		}
	}
	return e
}

func (e *Engine) Session() *catalog.Session { return e.session }
func (e *Engine) Bridge() *render.Bridge    { return e.bridge }
func (e *Engine) Cart() *selection.Store    { return e.cart }
func (e *Engine) Quote() *selection.Store   { return e.quote }

// bindActions registers every data-action handler exactly once, at
// construction. Redraws never touch this table.
func (e *Engine) bindActions() {
	e.bridge.Bind("add-to-cart", func(id int64, variant string) error {
		return e.AddToCart(id, variant)
	})
	e.bridge.Bind("add-to-quote", func(id int64, variant string) error {
		return e.AddToQuote(id, variant)
	})
	e.bridge.Bind("clear-filters", func(int64, string) error {
		return e.ClearFilters(context.Background())
	})
	e.bridge.Bind("retry", func(int64, string) error {
		return e.Retry(context.Background())
	})
	e.bridge.Bind("open-detail", func(id int64, _ string) error {
		_, err := e.Detail(id, "")
		return err
	})
}

// Load runs the initial page-1 load for the current (empty) query.
func (e *Engine) Load(ctx context.Context) error {
	return e.runQuery(ctx, catalog.EmptyQuery())
}

// Search replaces the free-text term, keeping the active facets, and reloads
// from page 1.
func (e *Engine) Search(ctx context.Context, text string) error {
	q := e.session.ActiveQuery().WithText(text)
	return e.runQuery(ctx, q)
}

// ApplyFilters swaps the facet selection wholesale, keeping the search text,
// and reloads from page 1.
func (e *Engine) ApplyFilters(ctx context.Context, categories, brands []string, stocks []catalog.StockStatus, band catalog.PriceBand) error {
	q := catalog.EmptyQuery().
		WithText(e.session.ActiveQuery().Text()).
		WithCategories(categories...).
		WithBrands(brands...).
		WithStockStatuses(stocks...).
		WithPriceBand(band)
	return e.runQuery(ctx, q)
}

// Navigate applies text and facets in one step, for callers where both
// arrive together (the HTTP layer's query string).
func (e *Engine) Navigate(ctx context.Context, text string, categories, brands []string, stocks []catalog.StockStatus, band catalog.PriceBand) error {
	q := catalog.EmptyQuery().
		WithText(text).
		WithCategories(categories...).
		WithBrands(brands...).
		WithStockStatuses(stocks...).
		WithPriceBand(band)
	return e.runQuery(ctx, q)
}

// ClearFilters resets the widget to the unfiltered, unsearched catalog.
func (e *Engine) ClearFilters(ctx context.Context) error {
	return e.runQuery(ctx, catalog.EmptyQuery())
}

// Retry re-runs the active query after an error.
func (e *Engine) Retry(ctx context.Context) error {
	return e.runQuery(ctx, e.session.ActiveQuery())
}

// runQuery makes q active and loads its first page. A load already in flight
// for an older query keeps running; its result will fail the stale check.
func (e *Engine) runQuery(ctx context.Context, q catalog.Query) error {
	e.session.SetActiveQuery(q)
	e.session.BeginLoad()

	res, err := e.orch.FetchPage(ctx, q, 1, true)
	if err != nil {
		if q.Equal(e.session.ActiveQuery()) {
			e.session.MarkError(err)
		}
		return err
	}
	if e.session.Replace(res.Products, res.Page, res.TotalPages, q) && res.PaginationDisabled {
		e.session.DisablePagination()
	}
	return nil
}

// CanLoadMore gates infinite scroll: another page must exist, nothing may be
// loading, and pagination must not have been disabled by a fallback.
func (e *Engine) CanLoadMore() bool {
	return e.session.HasMore() && !e.session.IsLoading()
}

// LoadNextPage appends the page after the current one. Duplicate ids across
// the page boundary are dropped by the session.
func (e *Engine) LoadNextPage(ctx context.Context) error {
	if !e.CanLoadMore() {
		return nil
	}
	q := e.session.ActiveQuery()
	page := e.session.Page() + 1
	if !e.session.BeginLoad() {
		return nil
	}

	res, err := e.orch.FetchPage(ctx, q, page, false)
	if err != nil {
		// A failed "load more" keeps the current grid; the session just
		// leaves Loading so the next scroll can retry.
		e.session.MarkLoading(false)
		return err
	}
	e.session.Append(res.Products, res.Page, res.TotalPages, q)
	return nil
}

// FilterOptions exposes the facet lists for the sidebar.
func (e *Engine) FilterOptions(ctx context.Context) svc.FilterOptions {
	return e.options.Load(ctx)
}

// AddToCart adds one unit of a product (or one of its variants) to the cart.
// Rejections surface as inline notices, not errors.
func (e *Engine) AddToCart(id int64, variantName string) error {
	if !e.allowClick("cart", id) {
		return nil
	}
	p, v, err := e.resolve(id, variantName)
	if err != nil {
		return err
	}
	if _, err := e.cart.Add(p, v); err != nil {
		if rej, ok := selection.AsRejection(err); ok {
			e.bridge.Notify(rej.Error())
			e.bridge.RefreshCard(p)
			return nil
		}
		return err
	}
	e.bridge.RefreshCard(p)
	e.persist(e.cart)
	return nil
}

// AddToQuote adds a product to the quotation list. No stock gate applies.
func (e *Engine) AddToQuote(id int64, variantName string) error {
	if !e.allowClick("quote", id) {
		return nil
	}
	p, v, err := e.resolve(id, variantName)
	if err != nil {
		return err
	}
	if _, err := e.quote.Add(p, v); err != nil {
		return err
	}
	e.bridge.RefreshCard(p)
	e.persist(e.quote)
	return nil
}

// SetCartQuantity adjusts a cart line; 0 removes it.
func (e *Engine) SetCartQuantity(key entity.ItemKey, n int) {
	e.cart.SetQuantity(key, n)
	if p := e.find(key.ProductID); p != nil {
		e.bridge.RefreshCard(p)
	}
	e.persist(e.cart)
}

// RemoveFromQuote drops a quotation line.
func (e *Engine) RemoveFromQuote(key entity.ItemKey) {
	e.quote.Remove(key)
	if p := e.find(key.ProductID); p != nil {
		e.bridge.RefreshCard(p)
	}
	e.persist(e.quote)
}

// QuoteLink builds the WhatsApp handoff for the current quotation list.
func (e *Engine) QuoteLink() (link, ref string, err error) {
	items := e.quote.Items()
	if len(items) == 0 {
		return "", "", fmt.Errorf("quotation list is empty")
	}
	link, ref = selection.QuoteLink(e.cfg.WhatsAppNumber, items)
	return link, ref, nil
}

// Detail renders the detail panel for a loaded product.
func (e *Engine) Detail(id int64, variantName string) (string, error) {
	p, v, err := e.resolve(id, variantName)
	if err != nil {
		return "", err
	}
	selected := ""
	if v != nil {
		selected = v.Name
	}
	return e.bridge.RenderDetail(p, selected, selection.InquiryLink(p, v, e.cfg.WhatsAppNumber))
}

// Close flushes the selection stores. Safe to call with no repository.
func (e *Engine) Close() {
	if e.repo != nil {
		e.repo.FlushAll(e.cart, e.quote)
	}
}

// resolve finds a loaded product and optionally one of its variants. A named
// variant must exist; "" on a product with variants picks the first one with
// stock so a bare card click is still addable.
func (e *Engine) resolve(id int64, variantName string) (*entity.Product, *entity.Variant, error) {
	p := e.find(id)
	if p == nil {
		return nil, nil, fmt.Errorf("product %d is not loaded", id)
	}
	if variantName != "" {
		v := p.VariantByName(variantName)
		if v == nil {
			return nil, nil, fmt.Errorf("product %d has no variant %q", id, variantName)
		}
		return p, v, nil
	}
	if len(p.Variants) > 0 {
		return p, p.FirstSelectableVariant(), nil
	}
	return p, nil, nil
}

func (e *Engine) find(id int64) *entity.Product {
	for _, p := range e.session.Items() {
		if p.ID == id {
			item := p
			return &item
		}
	}
	return nil
}

// allowClick is the rapid-click guard: repeats of the same action on the
// same product inside the debounce window are dropped.
func (e *Engine) allowClick(action string, id int64) bool {
	if e.debounce <= 0 {
		return true
	}
	key := fmt.Sprintf("%s:%d", action, id)
	now := e.now()
	e.debounceMu.Lock()
	defer e.debounceMu.Unlock()
	if last, ok := e.lastClick[key]; ok && now.Sub(last) < e.debounce {
		return false
	}
	e.lastClick[key] = now
	return true
}

func (e *Engine) persist(s *selection.Store) {
	if e.repo == nil {
		return
	}
	if err := e.repo.SaveAll(s); err != nil {
		log.Printf("widget: persist %s: %v", s.Name(), err)
	}
}
