package entity

import (
	"github.com/shopspring/decimal"
)

// ItemKey identifies a line item: product id plus the chosen variant's name.
// VariantKey "" means the base product with no variant chosen.
type ItemKey struct {
	ProductID  int64
	VariantKey string
}

// LineItem is one cart or quotation entry. Price, name and image are
// snapshotted at add-time and not live-updated from the catalog.
type LineItem struct {
	ProductID   int64           `json:"id"`
	VariantKey  string          `json:"variant,omitempty"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category,omitempty"`
	Quantity    int             `json:"quantity"`
	StockAtAdd  int64           `json:"stock_number,omitempty"`
}

func (li *LineItem) Key() ItemKey {
	return ItemKey{ProductID: li.ProductID, VariantKey: li.VariantKey}
}

// Subtotal is unit price times quantity.
func (li *LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// SnapshotLineItem builds a new line item from the product (and variant, when
// chosen) as it looks right now.
func SnapshotLineItem(p *Product, v *Variant) LineItem {
	li := LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.EffectivePrice(),
		Image:     p.PrimaryImage(),
		Category:  p.Category,
		Quantity:  1,
	}
	if stock, known := p.EffectiveStock(); known {
		li.StockAtAdd = stock
	}
	if v != nil {
		li.VariantKey = v.Name
		li.UnitPrice = v.EffectivePrice(p)
		li.StockAtAdd = v.Stock()
	}
	return li
}
