package render

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"storefront.GO/catalog"
	"storefront.GO/model/entity"
	"storefront.GO/selection"
)

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func stockPtr(n int64) *int64 { return &n }

func product(id int64, name string, stock int64) entity.Product {
	return entity.Product{
		ID:           id,
		Name:         name,
		Manufacturer: "Bosch",
		OfferPrice:   dec(2500),
		MRP:          dec(3000),
		StockNumber:  stockPtr(stock),
	}
}

func newTestBridge(t *testing.T) (*Bridge, *catalog.Session, *BufferSink, *selection.Store, *selection.Store) {
	t.Helper()
	session := catalog.NewSession()
	cart := selection.NewCart(10)
	quote := selection.NewQuotation()
	sink := NewBufferSink()
	bridge := NewBridge(session, cart, quote, sink)
	return bridge, session, sink, cart, quote
}

func TestStockBadge(t *testing.T) {
	cases := []struct {
		stock int64
		known bool
		want  string
	}{
		{0, true, "Out of Stock"},
		{3, true, "Low Stock (3 left)"},
		{5, true, "Low Stock (5 left)"},
		{6, true, "In Stock (6 available)"},
		{20, true, "In Stock (20 available)"},
		{21, true, "In Stock"},
		{0, false, ""},
	}
	for _, c := range cases {
		got, _ := stockBadge(c.stock, c.known)
		if got != c.want {
			t.Errorf("stockBadge(%d, %v) = %q, want %q", c.stock, c.known, got, c.want)
		}
	}
}

func TestCard_DiscountShowsStruckMRP(t *testing.T) {
	r := NewRenderer(nil, nil)
	p := product(1, "Bosch Drill", 8)
	html, err := r.Card(&p)
	if err != nil {
		t.Fatalf("Card: %v", err)
	}
	if !strings.Contains(html, "<s>₹3000</s>") {
		t.Errorf("card missing struck-through mrp:\n%s", html)
	}
	if !strings.Contains(html, "₹2500") {
		t.Errorf("card missing offer price:\n%s", html)
	}
}

func TestCard_NoImageRendersPlaceholder(t *testing.T) {
	r := NewRenderer(nil, nil)
	p := product(1, "Bosch Drill", 8)
	html, _ := r.Card(&p)
	if !strings.Contains(html, fallbackImage) {
		t.Errorf("card missing image placeholder:\n%s", html)
	}

	p.ImageURLs = []string{"https://cdn.example.com/drill.jpg"}
	html, _ = r.Card(&p)
	if strings.Contains(html, fallbackImage) || !strings.Contains(html, "drill.jpg") {
		t.Errorf("card should use the first image:\n%s", html)
	}
}

func TestCard_OutOfStockDisablesCartButton(t *testing.T) {
	r := NewRenderer(nil, nil)
	p := product(1, "Bosch Drill", 0)
	html, _ := r.Card(&p)
	if !strings.Contains(html, `data-action="add-to-cart" data-product-id="1" disabled`) {
		t.Errorf("out-of-stock card must disable add-to-cart:\n%s", html)
	}
	// The quote button stays enabled.
	if strings.Contains(html, `data-action="add-to-quote" data-product-id="1" disabled`) {
		t.Errorf("quote button must stay enabled:\n%s", html)
	}
}

func TestCard_ReflectsCartMembership(t *testing.T) {
	cart := selection.NewCart(10)
	p := product(1, "Bosch Drill", 8)
	cart.Add(&p, nil)
	cart.Add(&p, nil)

	r := NewRenderer(cart, selection.NewQuotation())
	html, _ := r.Card(&p)
	if !strings.Contains(html, "In Cart (2)") {
		t.Errorf("card missing cart quantity:\n%s", html)
	}
}

func variantProduct(id int64, name string) entity.Product {
	p := product(id, name, 0)
	p.StockNumber = nil
	p.Variants = []entity.Variant{
		{Name: "100mm", Price: dec(2200), StockNumber: stockPtr(4)},
		{Name: "125mm", StockNumber: stockPtr(0)},
	}
	return p
}

func TestCard_VariantAddMarksProductAsMember(t *testing.T) {
	cart := selection.NewCart(10)
	quote := selection.NewQuotation()
	p := variantProduct(1, "Bosch Grinder")
	if _, err := cart.Add(&p, &p.Variants[0]); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := quote.Add(&p, &p.Variants[0]); err != nil {
		t.Fatalf("Add: %v", err)
	}

	r := NewRenderer(cart, quote)
	html, _ := r.Card(&p)
	if !strings.Contains(html, "In Cart (1)") {
		t.Errorf("card must reflect a variant line item in the cart:\n%s", html)
	}
	if !strings.Contains(html, "Quoted") {
		t.Errorf("card must reflect a variant line item in the quotation:\n%s", html)
	}
}

func TestDetail_VariantChoicesAreLinks(t *testing.T) {
	r := NewRenderer(nil, nil)
	p := variantProduct(1, "Bosch Grinder")
	html, err := r.Detail(&p, "100mm", "https://wa.me/917738096075")
	if err != nil {
		t.Fatalf("Detail: %v", err)
	}
	if !strings.Contains(html, `href="?variant=100mm"`) {
		t.Errorf("selectable variant must link back with the variant applied:\n%s", html)
	}
	if !strings.Contains(html, `class="sfw-variant sfw-variant-active"`) {
		t.Errorf("chosen variant must be highlighted:\n%s", html)
	}
	if !strings.Contains(html, `<span class="sfw-variant sfw-variant-disabled">125mm`) {
		t.Errorf("out-of-stock variant must render inert:\n%s", html)
	}
	if strings.Contains(html, "data-action=\"select-variant\"") {
		t.Errorf("variant choices must not dispatch an action:\n%s", html)
	}
}

func TestCard_EscapesProductName(t *testing.T) {
	r := NewRenderer(nil, nil)
	p := product(1, `<script>alert("x")</script>`, 8)
	html, _ := r.Card(&p)
	if strings.Contains(html, "<script>") {
		t.Error("product name must be HTML-escaped")
	}
}

func TestBridge_ReplaceRendersGrid(t *testing.T) {
	_, session, sink, _, _ := newTestBridge(t)
	q := catalog.EmptyQuery()
	session.SetActiveQuery(q)
	session.Replace([]entity.Product{product(1, "Drill", 8), product(2, "Hammer", 3)}, 1, 2, q)

	grid := sink.GridHTML()
	if !strings.Contains(grid, "Drill") || !strings.Contains(grid, "Hammer") {
		t.Errorf("grid missing cards:\n%s", grid)
	}
	if sink.Loading() {
		t.Error("loading indicator must clear after replace")
	}
}

func TestBridge_AppendOnlyRendersNewCards(t *testing.T) {
	_, session, sink, _, _ := newTestBridge(t)
	q := catalog.EmptyQuery()
	session.SetActiveQuery(q)
	session.Replace([]entity.Product{product(1, "Drill", 8)}, 1, 2, q)
	session.Append([]entity.Product{product(2, "Hammer", 3)}, 2, 2, q)

	if got := sink.AppendCount(); got != 1 {
		t.Fatalf("AppendCount = %d, want 1", got)
	}
	grid := sink.GridHTML()
	if strings.Count(grid, `data-product-id="1"`) < 1 || !strings.Contains(grid, "Hammer") {
		t.Errorf("grid lost cards across append:\n%s", grid)
	}
}

func TestBridge_LoadingClearsWhenLoadAborts(t *testing.T) {
	_, session, sink, _, _ := newTestBridge(t)
	session.BeginLoad()
	if !sink.Loading() {
		t.Fatal("loading indicator must show while a load is in flight")
	}
	// A failed follow-up page abandons the load without a replace or error.
	session.MarkLoading(false)
	if sink.Loading() {
		t.Error("loading indicator must clear when the load is abandoned")
	}
}

func TestBridge_EmptyStates(t *testing.T) {
	cases := []struct {
		name  string
		query catalog.Query
		want  string
	}{
		// The template escapes the quotes around the search term.
		{"search", catalog.EmptyQuery().WithText("widget"), "No products found for &#34;widget&#34;"},
		{"filtered", catalog.EmptyQuery().WithBrands("Bosch"), "No products match the selected filters"},
		{"catalog", catalog.EmptyQuery(), "No products available"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, session, sink, _, _ := newTestBridge(t)
			session.SetActiveQuery(c.query)
			session.Replace(nil, 1, 1, c.query)
			if !strings.Contains(sink.EmptyHTML(), c.want) {
				t.Errorf("empty state = %q, want it to contain %q", sink.EmptyHTML(), c.want)
			}
		})
	}
}

func TestBridge_ErrorShowsRetry(t *testing.T) {
	_, session, sink, _, _ := newTestBridge(t)
	session.MarkError(errFake{})
	if !strings.Contains(sink.ErrorHTML(), `data-action="retry"`) {
		t.Errorf("error panel missing retry action:\n%s", sink.ErrorHTML())
	}
}

type errFake struct{}

func (errFake) Error() string { return "boom" }

func TestBridge_ActionsDispatchOnce(t *testing.T) {
	bridge, _, _, _, _ := newTestBridge(t)
	var calls int
	bridge.Bind("add-to-cart", func(productID int64, variant string) error {
		calls++
		if productID != 42 || variant != "100mm" {
			t.Errorf("handler got (%d, %q)", productID, variant)
		}
		return nil
	})

	if err := bridge.HandleAction("add-to-cart", 42, "100mm"); err != nil {
		t.Fatalf("HandleAction: %v", err)
	}
	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
	if err := bridge.HandleAction("no-such-action", 1, ""); err == nil {
		t.Error("unknown action must return an error")
	}
}

func TestBridge_RefreshCardUpdatesCounts(t *testing.T) {
	bridge, _, sink, cart, _ := newTestBridge(t)
	p := product(1, "Drill", 8)
	cart.Add(&p, nil)

	bridge.RefreshCard(&p)
	if _, ok := sink.CardUpdate(1); !ok {
		t.Fatal("expected a partial card update for product 1")
	}
	cartCount, _ := sink.Counts()
	if cartCount != 1 {
		t.Errorf("cart badge = %d, want 1", cartCount)
	}
}
