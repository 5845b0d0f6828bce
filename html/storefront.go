// Package html serves the storefront pages and fragments over echo.
package html

import (
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"storefront.GO/catalog"
	"storefront.GO/html/parts"
	"storefront.GO/render"
	"storefront.GO/scroll"
	svc "storefront.GO/service/catalog"
	"storefront.GO/service/media"
	"storefront.GO/widget"
)

type Template struct {
	Templates *template.Template
}

func (t *Template) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.Templates.ExecuteTemplate(w, name, data)
}

var pageTemplates = template.Must(template.New("storefront").Parse(`
{{define "page"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<div class="sfw-root">
  <form class="sfw-toolbar" method="get" action="/">
    <input type="search" name="q" value="{{.SearchText}}" placeholder="Search products">
    <button class="sfw-btn" type="submit">Search</button>
    <span class="sfw-counts">Cart: {{.CartCount}} | Quote: {{.QuoteCount}}</span>
  </form>
  {{range .Notices}}<div class="sfw-notice">{{.}}</div>{{end}}
  <div class="sfw-layout">
    <form class="sfw-sidebar" method="get" action="/">
      <input type="hidden" name="q" value="{{.SearchText}}">
      <h4>Category</h4>
      {{range .Options.Categories}}<label><input type="checkbox" name="category" value="{{.}}"{{if index $.SelectedCategories .}} checked{{end}}> {{.}}</label>{{end}}
      <h4>Brand</h4>
      {{range .Options.Brands}}<label><input type="checkbox" name="brand" value="{{.}}"{{if index $.SelectedBrands .}} checked{{end}}> {{.}}</label>{{end}}
      <h4>Price</h4>
      {{range .PriceBands}}<label><input type="radio" name="price" value="{{.Value}}"{{if .Selected}} checked{{end}}> {{.Label}}</label>{{end}}
      <h4>Availability</h4>
      {{range .StockBands}}<label><input type="checkbox" name="stock" value="{{.Value}}"{{if .Selected}} checked{{end}}> {{.Label}}</label>{{end}}
      <button class="sfw-btn" type="submit">Apply</button>
      <a class="sfw-btn" href="/">Clear</a>
    </form>
    <div class="sfw-grid" id="sfw-grid" data-has-more="{{.HasMore}}">
      {{if .ErrorHTML}}{{.ErrorHTML}}{{else if .EmptyHTML}}{{.EmptyHTML}}{{else}}{{.GridHTML}}{{end}}
    </div>
  </div>
  {{if .Loading}}<div class="sfw-loading">Loading…</div>{{end}}
</div>
</body>
</html>{{end}}

{{define "detail-page"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
<div class="sfw-root">
  <a class="sfw-btn" href="/">&larr; Back to catalog</a>
  {{.DetailHTML}}
</div>
</body>
</html>{{end}}
`))

type bandOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Title              string
	CSS                template.CSS
	SearchText         string
	Options            svc.FilterOptions
	SelectedCategories map[string]bool
	SelectedBrands     map[string]bool
	PriceBands         []bandOption
	StockBands         []bandOption
	GridHTML           template.HTML
	EmptyHTML          template.HTML
	ErrorHTML          template.HTML
	Loading            bool
	HasMore            bool
	CartCount          int
	QuoteCount         int
	Notices            []string
}

// RegisterStorefrontRoutes mounts the widget pages and fragment endpoints.
func RegisterStorefrontRoutes(e *echo.Echo, engine *widget.Engine, sink *render.BufferSink, thumbs *media.Thumbnailer) {
	e.Renderer = &Template{Templates: pageTemplates}
	trigger := scroll.NewTrigger(engine)

	e.GET("/", func(c echo.Context) error {
		text := c.QueryParam("q")
		categories := c.QueryParams()["category"]
		brands := c.QueryParams()["brand"]
		stocks := stockStatuses(c.QueryParams()["stock"])
		band := catalog.PriceBand(c.QueryParam("price"))

		if err := engine.Navigate(c.Request().Context(), text, categories, brands, stocks, band); err != nil {
			// The bridge already pushed an error panel; the page still renders.
			c.Logger().Errorf("storefront: load: %v", err)
		}

		data := pageData{
			Title:              "Storefront",
			CSS:                template.CSS(parts.CriticalCSS),
			SearchText:         text,
			Options:            engine.FilterOptions(c.Request().Context()),
			SelectedCategories: toSet(categories),
			SelectedBrands:     toSet(brands),
			PriceBands:         priceBands(band),
			StockBands:         stockBands(stocks),
			GridHTML:           template.HTML(sink.GridHTML()),
			EmptyHTML:          template.HTML(sink.EmptyHTML()),
			ErrorHTML:          template.HTML(sink.ErrorHTML()),
			Loading:            sink.Loading(),
			HasMore:            engine.CanLoadMore(),
			CartCount:          engine.Cart().Count(),
			QuoteCount:         engine.Quote().Count(),
			Notices:            sink.Notices(),
		}
		return c.Render(http.StatusOK, "page", data)
	})

	e.POST("/load-more", func(c echo.Context) error {
		before := engine.Session().Len()
		if err := engine.LoadNextPage(c.Request().Context()); err != nil {
			return c.JSON(http.StatusBadGateway, map[string]interface{}{"error": "load failed"})
		}
		items := engine.Session().Items()
		fragment := ""
		if len(items) > before {
			html, err := engine.Bridge().RenderCards(items[before:])
			if err != nil {
				return c.NoContent(http.StatusInternalServerError)
			}
			fragment = html
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"html":     fragment,
			"has_more": engine.CanLoadMore(),
		})
	})

	e.POST("/scroll", func(c echo.Context) error {
		scrollTop, _ := strconv.Atoi(c.FormValue("scroll_top"))
		viewport, _ := strconv.Atoi(c.FormValue("viewport"))
		content, _ := strconv.Atoi(c.FormValue("content"))
		triggered := trigger.OnScroll(c.Request().Context(), scrollTop, viewport, content)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"triggered": triggered,
			"has_more":  engine.CanLoadMore(),
		})
	})

	e.POST("/action", func(c echo.Context) error {
		action := c.FormValue("action")
		productID, _ := strconv.ParseInt(c.FormValue("product_id"), 10, 64)
		variant := c.FormValue("variant")

		if err := engine.Bridge().HandleAction(action, productID, variant); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{"error": err.Error()})
		}
		resp := map[string]interface{}{
			"cart_count":  engine.Cart().Count(),
			"quote_count": engine.Quote().Count(),
		}
		if html, ok := sink.CardUpdate(productID); ok {
			resp["card"] = html
		}
		if notices := sink.Notices(); len(notices) > 0 {
			resp["notice"] = notices[len(notices)-1]
		}
		return c.JSON(http.StatusOK, resp)
	})

	e.GET("/detail/:id", func(c echo.Context) error {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			return c.String(http.StatusBadRequest, "bad product id")
		}
		html, err := engine.Detail(id, c.QueryParam("variant"))
		if err != nil {
			return c.String(http.StatusNotFound, "Product not found")
		}
		return c.Render(http.StatusOK, "detail-page", map[string]interface{}{
			"Title":      "Product",
			"CSS":        template.CSS(parts.CriticalCSS),
			"DetailHTML": template.HTML(html),
		})
	})

	e.GET("/quote", func(c echo.Context) error {
		link, _, err := engine.QuoteLink()
		if err != nil {
			return c.String(http.StatusBadRequest, "Your quotation list is empty.")
		}
		return c.Redirect(http.StatusFound, link)
	})

	if thumbs != nil {
		e.GET("/thumb", func(c echo.Context) error {
			src := c.QueryParam("src")
			width, _ := strconv.Atoi(c.QueryParam("w"))
			data, err := thumbs.Thumb(c.Request().Context(), src, width)
			if err != nil {
				return c.String(http.StatusBadGateway, "thumbnail unavailable")
			}
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
			return c.Blob(http.StatusOK, "image/webp", data)
		})
	}
}

func stockStatuses(values []string) []catalog.StockStatus {
	out := make([]catalog.StockStatus, 0, len(values))
	for _, v := range values {
		switch catalog.StockStatus(v) {
		case catalog.StockInStock, catalog.StockLowStock:
			out = append(out, catalog.StockStatus(v))
		}
	}
	return out
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func priceBands(selected catalog.PriceBand) []bandOption {
	bands := []struct {
		value catalog.PriceBand
		label string
	}{
		{catalog.PriceBandUnder1000, "Under ₹1,000"},
		{catalog.PriceBand1000To3000, "₹1,000 – ₹3,000"},
		{catalog.PriceBand3000To5000, "₹3,000 – ₹5,000"},
		{catalog.PriceBandAbove5000, "Above ₹5,000"},
	}
	out := make([]bandOption, 0, len(bands))
	for _, b := range bands {
		out = append(out, bandOption{
			Value:    string(b.value),
			Label:    b.label,
			Selected: b.value == selected,
		})
	}
	return out
}

func stockBands(selected []catalog.StockStatus) []bandOption {
	set := make(map[catalog.StockStatus]bool, len(selected))
	for _, s := range selected {
		set[s] = true
	}
	return []bandOption{
		{Value: string(catalog.StockInStock), Label: "In Stock", Selected: set[catalog.StockInStock]},
		{Value: string(catalog.StockLowStock), Label: "Low Stock", Selected: set[catalog.StockLowStock]},
	}
}
