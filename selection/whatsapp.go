package selection

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"storefront.GO/model/entity"
)

// DefaultWhatsAppNumber receives quotation requests when neither the product
// nor the configuration carries a number.
const DefaultWhatsAppNumber = "917738096075"

// QuoteMessage formats the quotation request text: one numbered line per
// item with name, variant and quantity, plus a reference for follow-up.
func QuoteMessage(items []entity.LineItem, ref string) string {
	var b strings.Builder
	b.WriteString("Hi, I would like to request a quotation for the following items:\n\n")
	for i, item := range items {
		b.WriteString(fmt.Sprintf("%d. %s", i+1, item.Name))
		if item.VariantKey != "" {
			b.WriteString(fmt.Sprintf(" (%s)", item.VariantKey))
		}
		b.WriteString(fmt.Sprintf(" x %d\n", item.Quantity))
	}
	b.WriteString(fmt.Sprintf("\nReference: %s", ref))
	return b.String()
}

// QuoteLink builds the wa.me handoff URL for a quotation store's contents.
// The generated reference is returned alongside so the caller can surface it.
func QuoteLink(number string, items []entity.LineItem) (link, ref string) {
	ref = uuid.NewString()[:8]
	return waLink(number, QuoteMessage(items, ref)), ref
}

// InquiryLink builds a wa.me URL asking about a single product. A product
// with its own contact number overrides the configured one.
func InquiryLink(p *entity.Product, v *entity.Variant, number string) string {
	if p.WhatsAppNumber != "" {
		number = p.WhatsAppNumber
	}
	msg := fmt.Sprintf("Hi, I'm interested in %s", p.Name)
	if v != nil {
		msg += fmt.Sprintf(" (%s)", v.Name)
	}
	if p.SKU != "" {
		msg += fmt.Sprintf(" [SKU: %s]", p.SKU)
	}
	return waLink(number, msg)
}

func waLink(number, message string) string {
	number = digitsOnly(number)
	if number == "" {
		number = DefaultWhatsAppNumber
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", number, url.QueryEscape(message))
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
