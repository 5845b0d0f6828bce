package entity

import (
	"github.com/shopspring/decimal"
)

// Product is the read-only catalog shape served by the remote API. The server
// is authoritative; the widget never writes products back.
type Product struct {
	ID              int64               `json:"id" mapstructure:"id"`
	SKU             string              `json:"sku,omitempty" mapstructure:"sku"`
	Name            string              `json:"product_name" mapstructure:"product_name"`
	Category        string              `json:"category,omitempty" mapstructure:"category"`
	Manufacturer    string              `json:"manufacturer,omitempty" mapstructure:"manufacturer"`
	MRP             *decimal.Decimal    `json:"mrp,omitempty" mapstructure:"mrp"`
	OfferPrice      *decimal.Decimal    `json:"offer_price,omitempty" mapstructure:"offer_price"`
	StockNumber     *int64              `json:"stock_number" mapstructure:"stock_number"`
	ImageURLs       []string            `json:"product_image_urls,omitempty" mapstructure:"product_image_urls"`
	Variants        []Variant           `json:"variants,omitempty" mapstructure:"variants"`
	WhatsAppNumber  string              `json:"whatsapp_number,omitempty" mapstructure:"whatsapp_number"`
	Description     string              `json:"description,omitempty" mapstructure:"description"`
	Specifications  []SpecificationRow  `json:"specifications,omitempty" mapstructure:"specifications"`
	Documents       []Document          `json:"documents,omitempty" mapstructure:"documents"`
	VideoURLs       []string            `json:"videos,omitempty" mapstructure:"videos"`
}

// Variant belongs to exactly one product. Its name is its identity within the
// parent. There is no numeric variant id upstream, so two same-named variants
// on one product are indistinguishable. That is a data-source issue; do not
// invent ids here.
type Variant struct {
	Name          string           `json:"name" mapstructure:"name"`
	SKU           string           `json:"sku,omitempty" mapstructure:"sku"`
	Price         *decimal.Decimal `json:"price,omitempty" mapstructure:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty" mapstructure:"original_price"`
	StockNumber   *int64           `json:"stock_number" mapstructure:"stock_number"`
}

type SpecificationRow struct {
	Name  string `json:"name" mapstructure:"name"`
	Value string `json:"value" mapstructure:"value"`
}

type Document struct {
	Name string `json:"name" mapstructure:"name"`
	URL  string `json:"url" mapstructure:"url"`
}

// Stock returns the variant's stock quantity, treating null as zero.
func (v *Variant) Stock() int64 {
	if v.StockNumber == nil {
		return 0
	}
	return *v.StockNumber
}

// Selectable reports whether the variant can be chosen (stock > 0).
func (v *Variant) Selectable() bool {
	return v.Stock() > 0
}

// EffectivePrice is the price a variant is charged at: its own price when set,
// otherwise the parent's.
func (v *Variant) EffectivePrice(parent *Product) decimal.Decimal {
	if v.Price != nil {
		return *v.Price
	}
	return parent.EffectivePrice()
}

// EffectiveStock resolves the stock shown and gated on: the sum over variants
// when the product has any, the product's own field otherwise. known is false
// only for a variant-less product with a null stock_number.
func (p *Product) EffectiveStock() (stock int64, known bool) {
	if len(p.Variants) > 0 {
		var total int64
		for i := range p.Variants {
			total += p.Variants[i].Stock()
		}
		return total, true
	}
	if p.StockNumber == nil {
		return 0, false
	}
	return *p.StockNumber, true
}

// EffectivePrice is offer_price when present, else mrp, else zero.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.OfferPrice != nil && !p.OfferPrice.IsZero() {
		return *p.OfferPrice
	}
	if p.MRP != nil {
		return *p.MRP
	}
	return decimal.Zero
}

// HasDiscount reports a real markdown. An offer price that is absent or not
// below mrp counts as no discount.
func (p *Product) HasDiscount() bool {
	if p.OfferPrice == nil || p.MRP == nil {
		return false
	}
	return p.OfferPrice.LessThan(*p.MRP) && !p.OfferPrice.IsZero()
}

// PrimaryImage returns the first image reference or "".
func (p *Product) PrimaryImage() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}

// VariantByName finds a variant by its name key. Returns nil if absent.
func (p *Product) VariantByName(name string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Name == name {
			return &p.Variants[i]
		}
	}
	return nil
}

// FirstSelectableVariant returns the first variant with stock, or nil.
func (p *Product) FirstSelectableVariant() *Variant {
	for i := range p.Variants {
		if p.Variants[i].Selectable() {
			return &p.Variants[i]
		}
	}
	return nil
}
