package render

import (
	"fmt"
	"html/template"
	"strings"

	"storefront.GO/model/entity"
)

// Stock badge thresholds. A count is only trusted when the API sent one.
const (
	lowStockMax   = 5
	showCountMax  = 20
	fallbackImage = "sfw-image-placeholder"
)

var cardTemplates = template.Must(template.New("cards").Parse(`
{{define "card"}}<div class="sfw-card" data-product-id="{{.ID}}">
  <div class="sfw-card-media" data-action="open-detail" data-product-id="{{.ID}}">
    {{if .Image}}<img src="{{.Image}}" alt="{{.Name}}" loading="lazy">{{else}}<div class="{{.Placeholder}}">No image</div>{{end}}
    {{if .Badge}}<span class="sfw-badge {{.BadgeClass}}">{{.Badge}}</span>{{end}}
  </div>
  <div class="sfw-card-body">
    {{if .Manufacturer}}<span class="sfw-card-brand">{{.Manufacturer}}</span>{{end}}
    <h3 class="sfw-card-name" data-action="open-detail" data-product-id="{{.ID}}">{{.Name}}</h3>
    <div class="sfw-card-price">
      <span class="sfw-price">{{.Price}}</span>
      {{if .HasDiscount}}<span class="sfw-mrp"><s>{{.MRP}}</s></span>{{end}}
    </div>
    {{if .VariantNote}}<span class="sfw-card-variants">{{.VariantNote}}</span>{{end}}
  </div>
  <div class="sfw-card-actions">
    <button class="sfw-btn sfw-btn-cart{{if .InCart}} sfw-btn-active{{end}}" data-action="add-to-cart" data-product-id="{{.ID}}"{{if not .Purchasable}} disabled{{end}}>{{if .InCart}}In Cart ({{.CartQty}}){{else}}Add to Cart{{end}}</button>
    <button class="sfw-btn sfw-btn-quote{{if .InQuotation}} sfw-btn-active{{end}}" data-action="add-to-quote" data-product-id="{{.ID}}">{{if .InQuotation}}Quoted{{else}}Get Quote{{end}}</button>
  </div>
</div>{{end}}

{{define "empty"}}<div class="sfw-empty">
  <p class="sfw-empty-title">{{.Title}}</p>
  {{if .Hint}}<p class="sfw-empty-hint">{{.Hint}}</p>{{end}}
  {{if .ShowClear}}<button class="sfw-btn" data-action="clear-filters">Clear filters</button>{{end}}
</div>{{end}}

{{define "error"}}<div class="sfw-error">
  <p>{{.Message}}</p>
  {{if .Retryable}}<button class="sfw-btn" data-action="retry">Try again</button>{{end}}
</div>{{end}}

{{define "detail"}}<div class="sfw-detail" data-product-id="{{.ID}}">
  <div class="sfw-detail-media">
    {{range .Images}}<img src="{{.}}" alt="{{$.Name}}">{{else}}<div class="{{.Placeholder}}">No image</div>{{end}}
  </div>
  <div class="sfw-detail-info">
    <h2>{{.Name}}</h2>
    {{if .SKU}}<span class="sfw-detail-sku">SKU: {{.SKU}}</span>{{end}}
    <div class="sfw-card-price">
      <span class="sfw-price">{{.Price}}</span>
      {{if .HasDiscount}}<span class="sfw-mrp"><s>{{.MRP}}</s></span>{{end}}
    </div>
    {{if .Badge}}<span class="sfw-badge {{.BadgeClass}}">{{.Badge}}</span>{{end}}
    {{if .Variants}}<div class="sfw-detail-variants">
      {{range .Variants}}{{if .Selectable}}<a class="sfw-variant{{if .Selected}} sfw-variant-active{{end}}" href="?variant={{.Name}}">{{.Name}} {{.Price}}</a>{{else}}<span class="sfw-variant sfw-variant-disabled">{{.Name}} {{.Price}}</span>{{end}}{{end}}
    </div>{{end}}
    {{if .Description}}<p class="sfw-detail-desc">{{.Description}}</p>{{end}}
    {{if .Specs}}<table class="sfw-detail-specs">
      {{range .Specs}}<tr><td>{{.Name}}</td><td>{{.Value}}</td></tr>{{end}}
    </table>{{end}}
    <div class="sfw-card-actions">
      <button class="sfw-btn sfw-btn-cart" data-action="add-to-cart" data-product-id="{{.ID}}"{{if not .Purchasable}} disabled{{end}}>Add to Cart</button>
      <button class="sfw-btn sfw-btn-quote" data-action="add-to-quote" data-product-id="{{.ID}}">Get Quote</button>
      <a class="sfw-btn sfw-btn-wa" href="{{.InquiryLink}}" target="_blank" rel="noopener">WhatsApp</a>
    </div>
  </div>
</div>{{end}}
`))

type cardView struct {
	ID           int64
	Name         string
	Manufacturer string
	Image        string
	Placeholder  string
	Price        string
	MRP          string
	HasDiscount  bool
	Badge        string
	BadgeClass   string
	VariantNote  string
	Purchasable  bool
	InCart       bool
	CartQty      int
	InQuotation  bool
}

type detailView struct {
	ID          int64
	Name        string
	SKU         string
	Images      []string
	Placeholder string
	Price       string
	MRP         string
	HasDiscount bool
	Badge       string
	BadgeClass  string
	Variants    []detailVariant
	Description string
	Specs       []entity.SpecificationRow
	Purchasable bool
	InquiryLink string
}

type detailVariant struct {
	Name       string
	Price      string
	Selectable bool
	Selected   bool
}

// SelectionLookup answers the membership questions a card needs. Both
// selection stores satisfy it.
type SelectionLookup interface {
	Quantity(key entity.ItemKey) int
	Contains(key entity.ItemKey) bool
	ProductQuantity(productID int64) int
}

// Renderer builds HTML fragments. Currency formatting follows the upstream
// convention of whole-rupee display.
type Renderer struct {
	cart  SelectionLookup
	quote SelectionLookup
}

func NewRenderer(cart, quote SelectionLookup) *Renderer {
	return &Renderer{cart: cart, quote: quote}
}

// Card renders one product card.
func (r *Renderer) Card(p *entity.Product) (string, error) {
	stock, known := p.EffectiveStock()
	badge, class := stockBadge(stock, known)

	view := cardView{
		ID:           p.ID,
		Name:         p.Name,
		Manufacturer: p.Manufacturer,
		Image:        p.PrimaryImage(),
		Placeholder:  fallbackImage,
		Price:        formatPrice(p.EffectivePrice().InexactFloat64()),
		HasDiscount:  p.HasDiscount(),
		Badge:        badge,
		BadgeClass:   class,
		Purchasable:  !known || stock > 0,
		InQuotation:  r.quote != nil && r.quote.ProductQuantity(p.ID) > 0,
	}
	if view.HasDiscount {
		view.MRP = formatPrice(p.MRP.InexactFloat64())
	}
	if n := len(p.Variants); n > 0 {
		view.VariantNote = fmt.Sprintf("%d options", n)
		if n == 1 {
			view.VariantNote = "1 option"
		}
	}
	if r.cart != nil {
		// Cart membership counts any variant of the product.
		view.CartQty = r.cart.ProductQuantity(p.ID)
		view.InCart = view.CartQty > 0
	}

	var b strings.Builder
	if err := cardTemplates.ExecuteTemplate(&b, "card", view); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Cards renders a run of products in order.
func (r *Renderer) Cards(products []entity.Product) (string, error) {
	var b strings.Builder
	for i := range products {
		html, err := r.Card(&products[i])
		if err != nil {
			return "", err
		}
		b.WriteString(html)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// EmptyKind distinguishes why the grid is empty, which changes the copy.
type EmptyKind int

const (
	EmptyCatalog EmptyKind = iota
	EmptySearch
	EmptyFiltered
)

func (r *Renderer) EmptyState(kind EmptyKind, searchText string) (string, error) {
	view := struct {
		Title     string
		Hint      string
		ShowClear bool
	}{}
	switch kind {
	case EmptySearch:
		view.Title = fmt.Sprintf("No products found for %q", searchText)
		view.Hint = "Check the spelling or try a more general term."
	case EmptyFiltered:
		view.Title = "No products match the selected filters"
		view.ShowClear = true
	default:
		view.Title = "No products available"
		view.Hint = "Please check back later."
	}
	var b strings.Builder
	if err := cardTemplates.ExecuteTemplate(&b, "empty", view); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *Renderer) ErrorPanel(message string, retryable bool) (string, error) {
	var b strings.Builder
	err := cardTemplates.ExecuteTemplate(&b, "error", struct {
		Message   string
		Retryable bool
	}{message, retryable})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// Detail renders the product detail panel, with per-variant availability.
// Variant choices are links back to the same page with the variant applied.
func (r *Renderer) Detail(p *entity.Product, selectedVariant, inquiryLink string) (string, error) {
	stock, known := p.EffectiveStock()
	badge, class := stockBadge(stock, known)

	view := detailView{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Images:      p.ImageURLs,
		Placeholder: fallbackImage,
		Price:       formatPrice(p.EffectivePrice().InexactFloat64()),
		HasDiscount: p.HasDiscount(),
		Badge:       badge,
		BadgeClass:  class,
		Description: p.Description,
		Specs:       p.Specifications,
		Purchasable: !known || stock > 0,
		InquiryLink: inquiryLink,
	}
	if view.HasDiscount {
		view.MRP = formatPrice(p.MRP.InexactFloat64())
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		view.Variants = append(view.Variants, detailVariant{
			Name:       v.Name,
			Price:      formatPrice(v.EffectivePrice(p).InexactFloat64()),
			Selectable: v.Selectable(),
			Selected:   v.Name == selectedVariant,
		})
	}

	var b strings.Builder
	if err := cardTemplates.ExecuteTemplate(&b, "detail", view); err != nil {
		return "", err
	}
	return b.String(), nil
}

// stockBadge maps a stock count to badge copy. Unknown stock shows nothing
// rather than a false "out of stock".
func stockBadge(stock int64, known bool) (text, class string) {
	switch {
	case !known:
		return "", ""
	case stock <= 0:
		return "Out of Stock", "sfw-badge-out"
	case stock <= lowStockMax:
		return fmt.Sprintf("Low Stock (%d left)", stock), "sfw-badge-low"
	case stock <= showCountMax:
		return fmt.Sprintf("In Stock (%d available)", stock), "sfw-badge-in"
	default:
		return "In Stock", "sfw-badge-in"
	}
}

func formatPrice(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("₹%d", int64(v))
	}
	return fmt.Sprintf("₹%.2f", v)
}
