package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	cat "storefront.GO/catalog"
)

const productPage1 = `{
	"products": [
		{"id": 1, "product_name": "Bosch GSB 500 Drill", "manufacturer": "Bosch", "category": "Tools", "offer_price": 2500, "mrp": 3000, "stock_number": 8},
		{"id": 2, "product_name": "Stanley Hammer", "manufacturer": "Stanley", "category": "Tools", "offer_price": 450, "stock_number": 3}
	],
	"current_page": 1, "total_pages": 2
}`

const productPage2 = `{
	"products": [
		{"id": 3, "product_name": "Bosch Jigsaw", "manufacturer": "Bosch", "category": "Tools", "offer_price": 1200, "stock_number": 12},
		{"id": 4, "product_name": "Makita Sander", "manufacturer": "Makita", "category": "Tools", "offer_price": 5500, "stock_number": 6}
	],
	"current_page": 2, "total_pages": 2
}`

func newOrchestrator(baseURL string) *Orchestrator {
	client := NewClient(baseURL, 5*time.Second)
	return NewOrchestrator(client, nil, 12, 50, 5)
}

func TestFetchPage_FilteredEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/filtered" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("min_price"); got != "1000" {
			t.Errorf("min_price = %q, want 1000", got)
		}
		fmt.Fprint(w, `{"products": [{"id": 1, "product_name": "Bosch Drill"}], "current_page": 1, "total_pages": 3, "has_next": true}`)
	}))
	defer srv.Close()

	o := newOrchestrator(srv.URL)
	q := cat.EmptyQuery().WithPriceBand(cat.PriceBand1000To3000)
	res, err := o.FetchPage(context.Background(), q, 1, false)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if res.Strategy != StrategyFiltered {
		t.Errorf("Strategy = %s, want %s", res.Strategy, StrategyFiltered)
	}
	if res.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", res.TotalPages)
	}
	if res.PaginationDisabled {
		t.Error("filtered strategy should keep pagination enabled")
	}
}

func TestFetchPage_FallsBackToSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/filtered":
			w.WriteHeader(http.StatusInternalServerError)
		case "/search":
			if got := r.URL.Query().Get("q"); got != "drill" {
				t.Errorf("q = %q, want drill", got)
			}
			fmt.Fprint(w, `{"products": [{"id": 1, "product_name": "Bosch Drill"}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	o := newOrchestrator(srv.URL)
	q := cat.EmptyQuery().WithText("drill")
	res, err := o.FetchPage(context.Background(), q, 1, false)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if res.Strategy != StrategySearch {
		t.Errorf("Strategy = %s, want %s", res.Strategy, StrategySearch)
	}
	if !res.PaginationDisabled {
		t.Error("search fallback has no guaranteed pagination; want PaginationDisabled")
	}
}

func TestFetchPage_ClientFilterFallback(t *testing.T) {
	// Scenario: filtered and search both fail; two unfiltered pages get
	// sampled and the price/brand predicates run locally.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products/filtered", "/search":
			w.WriteHeader(http.StatusBadGateway)
		case "/products":
			if r.URL.Query().Get("page") == "2" {
				fmt.Fprint(w, productPage2)
			} else {
				fmt.Fprint(w, productPage1)
			}
		}
	}))
	defer srv.Close()

	o := newOrchestrator(srv.URL)
	q := cat.EmptyQuery().WithPriceBand(cat.PriceBand1000To3000).WithBrands("Bosch")
	res, err := o.FetchPage(context.Background(), q, 1, true)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if res.Strategy != StrategyClientFilter {
		t.Fatalf("Strategy = %s, want %s", res.Strategy, StrategyClientFilter)
	}
	// Bosch drill at 2500 and Bosch jigsaw at 1200 match; Stanley at 450
	// and Makita at 5500 do not.
	if len(res.Products) != 2 {
		t.Fatalf("got %d products, want 2: %v", len(res.Products), res.Products)
	}
	for _, p := range res.Products {
		if p.Manufacturer != "Bosch" {
			t.Errorf("client filter kept %s, want only Bosch", p.Manufacturer)
		}
	}
	if !res.PaginationDisabled {
		t.Error("client-filter fallback must disable pagination")
	}
}

func TestFetchPage_AllStrategiesFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	o := newOrchestrator(srv.URL)
	q := cat.EmptyQuery().WithText("drill")
	_, err := o.FetchPage(context.Background(), q, 1, true)
	if err == nil {
		t.Fatal("want typed error when every strategy fails")
	}
	fe, ok := AsFetchError(err)
	if !ok {
		t.Fatalf("error %T is not a FetchError", err)
	}
	if fe.Kind != ServerError {
		t.Errorf("Kind = %v, want ServerError", fe.Kind)
	}
}

func TestFetchPage_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"current_page": 1}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.FetchPage(context.Background(), 1, 12)
	fe, ok := AsFetchError(err)
	if !ok || fe.Kind != MalformedResponse {
		t.Errorf("err = %v, want MalformedResponse", err)
	}
}

func TestFetchPage_CoalescesInFlightRequests(t *testing.T) {
	var hits int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		<-release
		fmt.Fprint(w, `{"products": [], "current_page": 2, "total_pages": 2}`)
	}))
	defer srv.Close()

	o := newOrchestrator(srv.URL)
	q := cat.EmptyQuery()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.FetchPage(context.Background(), q, 2, false)
		}()
	}
	// Give the goroutines time to pile onto the same key, then release.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Errorf("server saw %d requests for one (query, page), want 1", got)
	}
}
