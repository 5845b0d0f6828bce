package html

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"storefront.GO/config"
	"storefront.GO/render"
	"storefront.GO/selection"
	svc "storefront.GO/service/catalog"
	"storefront.GO/widget"
)

const testPage1 = `{
	"products": [
		{"id": 1, "product_name": "Bosch GSB 500 Drill", "manufacturer": "Bosch", "category": "Tools", "offer_price": 2500, "mrp": 3000, "stock_number": 8},
		{"id": 2, "product_name": "Stanley Hammer", "manufacturer": "Stanley", "category": "Tools", "offer_price": 450, "stock_number": 0}
	],
	"current_page": 1, "total_pages": 2
}`

const testPage2 = `{
	"products": [
		{"id": 3, "product_name": "Bosch Jigsaw", "manufacturer": "Bosch", "category": "Tools", "offer_price": 1200, "stock_number": 3}
	],
	"current_page": 2, "total_pages": 2
}`

func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/filtered":
			if r.URL.Query().Get("page") == "2" {
				fmt.Fprint(w, testPage2)
			} else {
				fmt.Fprint(w, testPage1)
			}
		case "/products/filter-options":
			fmt.Fprint(w, `{"categories": ["Tools"], "brands": ["Bosch", "Stanley"]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newApp(t *testing.T, baseURL string) *echo.Echo {
	t.Helper()
	cfg := &config.Config{
		PerPage:          12,
		FallbackPerPage:  50,
		FallbackMaxPages: 5,
		CartMaxPerItem:   10,
		WhatsAppNumber:   "917738096075",
	}
	client := svc.NewClient(baseURL, 5*time.Second)
	orch := svc.NewOrchestrator(client, nil, cfg.PerPage, cfg.FallbackPerPage, cfg.FallbackMaxPages)
	options := svc.NewOptionsLoader(client, nil, cfg.FallbackMaxPages, cfg.FallbackPerPage)
	sink := render.NewBufferSink()
	engine := widget.NewEngine(cfg, orch, options, selection.NewCart(10), selection.NewQuotation(), nil, sink)

	e := echo.New()
	RegisterStorefrontRoutes(e, engine, sink, nil)
	return e
}

func TestStorefrontPage_RendersGridAndFacets(t *testing.T) {
	srv := upstream(t)
	defer srv.Close()
	app := newApp(t, srv.URL)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Bosch GSB 500 Drill", "Stanley Hammer", `name="category"`, `value="Bosch"`, "sfw-grid"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestStorefrontPage_SearchParamFlowsThrough(t *testing.T) {
	var sawQ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/filtered":
			sawQ = r.URL.Query().Get("q")
			fmt.Fprint(w, testPage1)
		case "/products/filter-options":
			fmt.Fprint(w, `{"categories": [], "brands": []}`)
		}
	}))
	defer srv.Close()
	app := newApp(t, srv.URL)

	req := httptest.NewRequest(http.MethodGet, "/?q=drill&brand=Bosch", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if sawQ != "drill" {
		t.Errorf("upstream saw q = %q, want drill", sawQ)
	}
	if !strings.Contains(rec.Body.String(), `value="drill"`) {
		t.Error("search box must keep the entered text")
	}
}

func TestLoadMore_ReturnsOnlyNewCards(t *testing.T) {
	srv := upstream(t)
	defer srv.Close()
	app := newApp(t, srv.URL)

	// Prime page 1.
	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	req := httptest.NewRequest(http.MethodPost, "/load-more", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /load-more = %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Bosch Jigsaw") {
		t.Errorf("fragment missing the new product: %s", body)
	}
	if strings.Contains(body, "Bosch GSB 500 Drill") {
		t.Error("fragment must not re-ship page-1 cards")
	}
}

func TestAction_AddToCartUpdatesCounts(t *testing.T) {
	srv := upstream(t)
	defer srv.Close()
	app := newApp(t, srv.URL)
	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	form := url.Values{"action": {"add-to-cart"}, "product_id": {"1"}}
	req := httptest.NewRequest(http.MethodPost, "/action", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("POST /action = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"cart_count":1`) {
		t.Errorf("response = %s, want cart_count 1", rec.Body.String())
	}
}

func TestAction_UnknownActionRejected(t *testing.T) {
	srv := upstream(t)
	defer srv.Close()
	app := newApp(t, srv.URL)

	form := url.Values{"action": {"self-destruct"}, "product_id": {"1"}}
	req := httptest.NewRequest(http.MethodPost, "/action", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /action unknown = %d, want 400", rec.Code)
	}
}

func TestDetailPage_RendersProduct(t *testing.T) {
	srv := upstream(t)
	defer srv.Close()
	app := newApp(t, srv.URL)
	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/detail/1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /detail/1 = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Bosch GSB 500 Drill") {
		t.Error("detail page missing the product")
	}

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/detail/999", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET /detail/999 = %d, want 404", rec.Code)
	}
}

func TestQuoteRedirect_EmptyListIsBadRequest(t *testing.T) {
	srv := upstream(t)
	defer srv.Close()
	app := newApp(t, srv.URL)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quote", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("GET /quote = %d, want 400", rec.Code)
	}
}
