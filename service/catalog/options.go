package catalog

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"storefront.GO/core/cache"
)

const (
	filterOptionsCacheKey = "catalog:filter-options"
	filterOptionsCacheTag = "facets"
	filterOptionsTTL      = time.Hour
)

// DefaultFilterOptions is the small built-in facet list used when both the
// endpoint and the heuristic extraction fail. The sidebar must never end up
// permanently empty.
var DefaultFilterOptions = FilterOptions{
	Categories: []string{"Tools", "Hardware", "Electrical", "Accessories", "Safety Equipment"},
	Brands:     []string{"Bosch", "Stanley", "DeWalt", "Black & Decker", "Makita"},
}

// DefaultSpecPatterns reject manufacturer strings that look like raw
// measurements or technical codes rather than brands: numbers with unit
// suffixes, fractions, decimals, bare unit abbreviations, short all-caps
// codes, TORX-style T-numbers. Best-effort UX filter, not a correctness
// rule; override via OptionsLoader.SpecPatterns.
var DefaultSpecPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\w*$`),
	regexp.MustCompile(`^\d+/\d+`),
	regexp.MustCompile(`^\d+\.\d+`),
	regexp.MustCompile(`(?i)^\d+(\.\d+)?\s?(mm|cm|v|w|a|kg|g)$`),
	regexp.MustCompile(`(?i)^(mm|cm|v|w|a|kg|g)$`),
	regexp.MustCompile(`^[A-Z][A-Z0-9]{1,3}\+?$`),
	regexp.MustCompile(`^T\d+$`),
}

// OptionsLoader discovers the category/brand facet lists. Discovery is a
// cached-once operation: endpoint first, then heuristic extraction over a
// bounded page sample, then built-in defaults.
type OptionsLoader struct {
	client       *Client
	cache        *cache.Cache
	SpecPatterns []*regexp.Regexp
	maxPages     int
	perPage      int
}

func NewOptionsLoader(client *Client, c *cache.Cache, maxPages, perPage int) *OptionsLoader {
	if maxPages <= 0 {
		maxPages = 5
	}
	if perPage <= 0 {
		perPage = 50
	}
	return &OptionsLoader{
		client:       client,
		cache:        c,
		SpecPatterns: DefaultSpecPatterns,
		maxPages:     maxPages,
		perPage:      perPage,
	}
}

// Load returns the facet lists, from cache when warm. Never returns an error:
// the worst case is the built-in default list.
func (l *OptionsLoader) Load(ctx context.Context) FilterOptions {
	if l.cache != nil {
		if v, ok := l.cache.Get(filterOptionsCacheKey); ok {
			var opts FilterOptions
			// Redis restores land as generic maps; mapstructure covers both.
			if err := mapstructure.Decode(v, &opts); err == nil && (len(opts.Categories) > 0 || len(opts.Brands) > 0) {
				return opts
			}
		}
		var opts FilterOptions
		if l.cache.GetJSON(filterOptionsCacheKey, &opts) && (len(opts.Categories) > 0 || len(opts.Brands) > 0) {
			return opts
		}
	}

	opts := l.discover(ctx)
	if l.cache != nil {
		l.cache.Set(filterOptionsCacheKey, opts, filterOptionsTTL, []string{filterOptionsCacheTag})
	}
	return opts
}

// Invalidate drops the cached facet lists (used by the refresh job).
func (l *OptionsLoader) Invalidate() {
	if l.cache != nil {
		l.cache.DeleteByTag(filterOptionsCacheTag)
	}
}

func (l *OptionsLoader) discover(ctx context.Context) FilterOptions {
	opts, err := l.client.FetchFilterOptions(ctx)
	if err == nil {
		return *opts
	}
	log.Printf("catalog: filter-options endpoint failed (%v), extracting from pages", err)

	extracted, err := l.extractFromPages(ctx)
	if err == nil && (len(extracted.Categories) > 0 || len(extracted.Brands) > 0) {
		return extracted
	}
	if err != nil {
		log.Printf("catalog: facet extraction failed (%v), using defaults", err)
	}
	return DefaultFilterOptions
}

// extractFromPages samples a bounded number of unfiltered pages and collects
// distinct categories plus non-specification-looking manufacturers.
func (l *OptionsLoader) extractFromPages(ctx context.Context) (FilterOptions, error) {
	categories := make(map[string]struct{})
	brands := make(map[string]struct{})

	for page := 1; page <= l.maxPages; page++ {
		p, err := l.client.FetchPage(ctx, page, l.perPage)
		if err != nil {
			if len(categories) > 0 || len(brands) > 0 {
				break
			}
			return FilterOptions{}, err
		}
		for i := range p.Products {
			if c := strings.TrimSpace(p.Products[i].Category); c != "" {
				categories[c] = struct{}{}
			}
			if m := strings.TrimSpace(p.Products[i].Manufacturer); m != "" && !l.looksLikeSpecification(m) {
				brands[m] = struct{}{}
			}
		}
		if p.CurrentPage >= p.TotalPages {
			break
		}
	}

	return FilterOptions{
		Categories: sortedKeys(categories),
		Brands:     sortedKeys(brands),
	}, nil
}

func (l *OptionsLoader) looksLikeSpecification(text string) bool {
	text = strings.TrimSpace(text)
	for _, pattern := range l.SpecPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
