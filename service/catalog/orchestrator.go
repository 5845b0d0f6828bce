package catalog

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	cat "storefront.GO/catalog"
	"storefront.GO/model/entity"
)

// Strategy names, reported on the Result for logging and tests.
const (
	StrategyFiltered     = "filtered"
	StrategySearch       = "search"
	StrategyElastic      = "elasticsearch"
	StrategyClientFilter = "client-filter"
)

// Result is one resolved product page. The orchestrator does no client-visible
// side effects; the caller decides how to apply this to the session store.
type Result struct {
	Products           []entity.Product
	Page               int
	TotalPages         int
	PaginationDisabled bool
	Strategy           string
}

// Orchestrator resolves (query, page) to a product page, trying the filtered
// endpoint first and degrading through keyword search down to bounded
// unfiltered sampling with local predicates. Concurrent calls for the same
// (query, page) attach to the one in-flight request.
type Orchestrator struct {
	client *Client
	es     *ESSearch // nil when not configured
	group  singleflight.Group

	perPage          int
	fallbackPerPage  int
	fallbackMaxPages int
}

func NewOrchestrator(client *Client, es *ESSearch, perPage, fallbackPerPage, fallbackMaxPages int) *Orchestrator {
	if perPage <= 0 {
		perPage = 12
	}
	if fallbackPerPage <= 0 {
		fallbackPerPage = 50
	}
	if fallbackMaxPages <= 0 {
		fallbackMaxPages = 5
	}
	return &Orchestrator{
		client:           client,
		es:               es,
		perPage:          perPage,
		fallbackPerPage:  fallbackPerPage,
		fallbackMaxPages: fallbackMaxPages,
	}
}

func (o *Orchestrator) PerPage() int { return o.perPage }

// FetchPage runs the strategy chain for (q, page). allowClientFilter opts in
// to the last-resort bounded sampling fallback; once that fires, the result's
// pagination is disabled.
func (o *Orchestrator) FetchPage(ctx context.Context, q cat.Query, page int, allowClientFilter bool) (*Result, error) {
	key := fmt.Sprintf("%s|page=%d", q.Key(), page)
	v, err, _ := o.group.Do(key, func() (interface{}, error) {
		return o.fetchChain(ctx, q, page, allowClientFilter)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (o *Orchestrator) fetchChain(ctx context.Context, q cat.Query, page int, allowClientFilter bool) (*Result, error) {
	// (1) combined filtered-search endpoint.
	filteredPage, err := o.client.FetchFiltered(ctx, q, page, o.perPage)
	if err == nil {
		return &Result{
			Products:   filteredPage.Products,
			Page:       filteredPage.CurrentPage,
			TotalPages: filteredPage.TotalPages,
			Strategy:   StrategyFiltered,
		}, nil
	}
	lastErr := err
	log.Printf("catalog: filtered endpoint failed (%v), falling back", err)

	// (2) plain keyword search, only meaningful when there is free text.
	if q.Text() != "" {
		products, searchErr := o.client.FetchSearch(ctx, q.Text(), o.fallbackPerPage)
		if searchErr == nil {
			return o.searchResult(q, products, StrategySearch), nil
		}
		lastErr = searchErr
		log.Printf("catalog: search endpoint failed (%v)", searchErr)

		// (2b) upstream search index, when a host is configured.
		if o.es != nil && o.es.Enabled() {
			products, esErr := o.es.Search(ctx, q.Text(), o.fallbackPerPage)
			if esErr == nil {
				return o.searchResult(q, products, StrategyElastic), nil
			}
			lastErr = esErr
			log.Printf("catalog: elasticsearch fallback failed (%v)", esErr)
		}
	}

	// (3) last resort: bounded unfiltered sampling + local predicates.
	// The result is not meaningfully paginated upstream, so pagination is
	// disabled afterwards.
	if allowClientFilter {
		sampled, sampleErr := o.samplePages(ctx)
		if sampleErr == nil {
			filtered := make([]entity.Product, 0, len(sampled))
			for i := range sampled {
				if q.Matches(&sampled[i]) {
					filtered = append(filtered, sampled[i])
				}
			}
			return &Result{
				Products:           filtered,
				Page:               1,
				TotalPages:         1,
				PaginationDisabled: true,
				Strategy:           StrategyClientFilter,
			}, nil
		}
		lastErr = sampleErr
	}

	return nil, lastErr
}

// searchResult wraps keyword-search output. The search endpoints do not honor
// the facets, so the query's predicates are applied locally (matching what
// the filtered endpoint would have done); no further pages exist.
func (o *Orchestrator) searchResult(q cat.Query, products []entity.Product, strategy string) *Result {
	if q.HasFacets() {
		kept := make([]entity.Product, 0, len(products))
		facetsOnly := cat.EmptyQuery().
			WithCategories(q.Categories()...).
			WithBrands(q.Brands()...).
			WithStockStatuses(q.StockStatuses()...).
			WithPriceBand(q.PriceBand())
		for i := range products {
			if facetsOnly.Matches(&products[i]) {
				kept = append(kept, products[i])
			}
		}
		products = kept
	}
	return &Result{
		Products:           products,
		Page:               1,
		TotalPages:         1,
		PaginationDisabled: true,
		Strategy:           strategy,
	}
}

// samplePages pulls up to fallbackMaxPages unfiltered pages. Partial results
// count: a page failing mid-run stops the walk but keeps what was fetched.
func (o *Orchestrator) samplePages(ctx context.Context) ([]entity.Product, error) {
	var all []entity.Product
	for page := 1; page <= o.fallbackMaxPages; page++ {
		p, err := o.client.FetchPage(ctx, page, o.fallbackPerPage)
		if err != nil {
			if len(all) > 0 {
				return all, nil
			}
			return nil, err
		}
		all = append(all, p.Products...)
		if p.CurrentPage >= p.TotalPages {
			break
		}
	}
	return all, nil
}
