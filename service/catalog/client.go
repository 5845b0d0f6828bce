// Package catalog fetches product pages from the remote catalog API. The
// Client speaks the raw endpoints; the Orchestrator layers the fallback chain
// and request coalescing on top.
package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	cat "storefront.GO/catalog"
	"storefront.GO/config"
	"storefront.GO/model/entity"
)

// Page is one page of products as the API returns it.
type Page struct {
	Products    []entity.Product `json:"products"`
	CurrentPage int              `json:"current_page"`
	TotalPages  int              `json:"total_pages"`
	HasNext     bool             `json:"has_next"`
}

// FilterOptions is the facet discovery payload.
type FilterOptions struct {
	Categories []string `json:"categories"`
	Brands     []string `json:"brands"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchPage gets an unfiltered catalog page.
func (c *Client) FetchPage(ctx context.Context, page, perPage int) (*Page, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	if perPage > 0 {
		params.Set("per_page", strconv.Itoa(perPage))
	}
	var out Page
	if err := c.getJSON(ctx, config.PathProducts, params, &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		return nil, malformedResponse()
	}
	if out.CurrentPage == 0 {
		out.CurrentPage = page
	}
	if out.TotalPages == 0 {
		out.TotalPages = out.CurrentPage
	}
	return &out, nil
}

// FetchFiltered gets a page from the combined filtered-search endpoint.
func (c *Client) FetchFiltered(ctx context.Context, q cat.Query, page, perPage int) (*Page, error) {
	var out Page
	if err := c.getJSON(ctx, config.PathFiltered, q.RequestParams(page, perPage), &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		return nil, malformedResponse()
	}
	if out.CurrentPage == 0 {
		out.CurrentPage = page
	}
	if out.TotalPages == 0 {
		// The filtered endpoint may report pagination via has_next only.
		if out.HasNext {
			out.TotalPages = out.CurrentPage + 1
		} else {
			out.TotalPages = out.CurrentPage
		}
	}
	return &out, nil
}

// FetchSearch hits the plain keyword search endpoint. No guaranteed
// pagination upstream.
func (c *Client) FetchSearch(ctx context.Context, text string, perPage int) ([]entity.Product, error) {
	params := url.Values{}
	params.Set("q", text)
	if perPage > 0 {
		params.Set("per_page", strconv.Itoa(perPage))
	}
	var out struct {
		Products []entity.Product `json:"products"`
	}
	if err := c.getJSON(ctx, config.PathSearch, params, &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		return nil, malformedResponse()
	}
	return out.Products, nil
}

// FetchFilterOptions gets the facet lists from the dedicated endpoint.
func (c *Client) FetchFilterOptions(ctx context.Context) (*FilterOptions, error) {
	var out FilterOptions
	if err := c.getJSON(ctx, config.PathFilterOptions, nil, &out); err != nil {
		return nil, err
	}
	if out.Categories == nil && out.Brands == nil {
		return nil, malformedResponse()
	}
	return &out, nil
}

// getJSON runs one GET and decodes the body. HTTP non-success and transport
// failure both come back as typed errors so callers can treat them
// identically and fall through.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return networkFailure(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return networkFailure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return serverError(resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return malformedResponse()
	}
	return nil
}
