// Package catalog holds the widget's client-side view of the remote product
// catalog: the immutable Query value describing what the user asked for, and
// the Session store holding the products currently on screen.
package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront.GO/model/entity"
)

// PriceBand is a coarse bucketed price range used for filtering.
type PriceBand string

const (
	PriceBandNone       PriceBand = ""
	PriceBandUnder1000  PriceBand = "under-1000"
	PriceBand1000To3000 PriceBand = "1000-3000"
	PriceBand3000To5000 PriceBand = "3000-5000"
	PriceBandAbove5000  PriceBand = "above-5000"
)

// Bounds maps a band to the wire parameters the filtered endpoint expects.
// Band edges are inclusive on both sides; the open-ended bands keep the
// upstream wire encoding (max_price=999, min_price=5001).
func (b PriceBand) Bounds() (minPrice, maxPrice int64, hasMin, hasMax bool) {
	switch b {
	case PriceBandUnder1000:
		return 0, 999, false, true
	case PriceBand1000To3000:
		return 1000, 3000, true, true
	case PriceBand3000To5000:
		return 3000, 5000, true, true
	case PriceBandAbove5000:
		return 5001, 0, true, false
	}
	return 0, 0, false, false
}

// Matches applies the band predicate client-side. Convention: [min,max]
// inclusive, under-1000 means < 1000, above-5000 means > 5000.
func (b PriceBand) Matches(price decimal.Decimal) bool {
	switch b {
	case PriceBandUnder1000:
		return price.LessThan(decimal.NewFromInt(1000))
	case PriceBand1000To3000:
		return price.GreaterThanOrEqual(decimal.NewFromInt(1000)) && price.LessThanOrEqual(decimal.NewFromInt(3000))
	case PriceBand3000To5000:
		return price.GreaterThanOrEqual(decimal.NewFromInt(3000)) && price.LessThanOrEqual(decimal.NewFromInt(5000))
	case PriceBandAbove5000:
		return price.GreaterThan(decimal.NewFromInt(5000))
	}
	return true
}

// StockStatus is the filterable stock facet.
type StockStatus string

const (
	StockInStock  StockStatus = "in-stock"
	StockLowStock StockStatus = "low-stock"
)

// Matches uses the one boundary convention chosen for the whole widget:
// in-stock means more than 5 units, low-stock means 1..5.
func (s StockStatus) Matches(stock int64) bool {
	switch s {
	case StockInStock:
		return stock > 5
	case StockLowStock:
		return stock > 0 && stock <= 5
	}
	return true
}

// Query is an immutable value: free text plus the active filter facets. All
// request parameters derive from it and from nothing else, so "search",
// "apply filters" and "scroll" can never disagree about what is being asked.
type Query struct {
	text       string
	categories []string
	brands     []string
	stock      []StockStatus
	priceBand  PriceBand
}

func EmptyQuery() Query { return Query{} }

func (q Query) WithText(text string) Query {
	q.text = strings.TrimSpace(text)
	return q
}

func (q Query) WithCategories(categories ...string) Query {
	q.categories = normalizeSet(categories)
	return q
}

func (q Query) WithBrands(brands ...string) Query {
	q.brands = normalizeSet(brands)
	return q
}

func (q Query) WithStockStatuses(statuses ...StockStatus) Query {
	set := make([]string, len(statuses))
	for i, s := range statuses {
		set[i] = string(s)
	}
	normalized := normalizeSet(set)
	q.stock = make([]StockStatus, len(normalized))
	for i, s := range normalized {
		q.stock[i] = StockStatus(s)
	}
	return q
}

func (q Query) WithPriceBand(band PriceBand) Query {
	q.priceBand = band
	return q
}

func (q Query) Text() string         { return q.text }
func (q Query) Categories() []string { return append([]string(nil), q.categories...) }
func (q Query) Brands() []string     { return append([]string(nil), q.brands...) }
func (q Query) PriceBand() PriceBand { return q.priceBand }

func (q Query) StockStatuses() []StockStatus {
	return append([]StockStatus(nil), q.stock...)
}

// IsEmpty reports the "no filters active" state.
func (q Query) IsEmpty() bool {
	return q.text == "" && len(q.categories) == 0 && len(q.brands) == 0 &&
		len(q.stock) == 0 && q.priceBand == PriceBandNone
}

// HasFacets reports whether any non-text filter is active.
func (q Query) HasFacets() bool {
	return len(q.categories) > 0 || len(q.brands) > 0 || len(q.stock) > 0 ||
		q.priceBand != PriceBandNone
}

func (q Query) Equal(other Query) bool {
	return q.Key() == other.Key()
}

// Key is a canonical encoding of the query, used for request coalescing and
// for the stale-result check. Page is deliberately not part of it.
func (q Query) Key() string {
	var b strings.Builder
	b.WriteString("q=")
	b.WriteString(q.text)
	b.WriteString("|c=")
	b.WriteString(strings.Join(q.categories, ","))
	b.WriteString("|b=")
	b.WriteString(strings.Join(q.brands, ","))
	b.WriteString("|s=")
	for i, s := range q.stock {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(string(s))
	}
	b.WriteString("|p=")
	b.WriteString(string(q.priceBand))
	return b.String()
}

// RequestParams maps the query to the wire parameter shape of the filtered
// endpoint. Pure: equal queries always yield identical values.
func (q Query) RequestParams(page, perPage int) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	if q.text != "" {
		params.Set("q", q.text)
	}
	for _, c := range q.categories {
		params.Add("categories", c)
	}
	for _, b := range q.brands {
		params.Add("brands", b)
	}
	for _, s := range q.stock {
		params.Add("stock_status", string(s))
	}
	if minPrice, maxPrice, hasMin, hasMax := q.priceBand.Bounds(); hasMin || hasMax {
		if hasMin {
			params.Set("min_price", strconv.FormatInt(minPrice, 10))
		}
		if hasMax {
			params.Set("max_price", strconv.FormatInt(maxPrice, 10))
		}
	}
	return params
}

// Matches applies the same predicates client-side, for the last-resort
// fallback where the result set is filtered locally.
func (q Query) Matches(p *entity.Product) bool {
	if q.text != "" {
		needle := strings.ToLower(q.text)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Manufacturer), needle) {
			return false
		}
	}
	if len(q.categories) > 0 && !containsString(q.categories, p.Category) {
		return false
	}
	if len(q.brands) > 0 {
		name := strings.ToLower(p.Name)
		manufacturer := strings.ToLower(p.Manufacturer)
		matched := false
		for _, brand := range q.brands {
			b := strings.ToLower(brand)
			if strings.Contains(name, b) || strings.Contains(manufacturer, b) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if len(q.stock) > 0 {
		stock, _ := p.EffectiveStock()
		matched := false
		for _, s := range q.stock {
			if s.Matches(stock) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	if q.priceBand != PriceBandNone && !q.priceBand.Matches(p.EffectivePrice()) {
		return false
	}
	return true
}

func normalizeSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
