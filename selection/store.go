// Package selection holds the cart and quotation line-item stores. Both use
// the same store shape; only the policy differs. The cart gates on stock and
// caps per-item quantity, the quotation accepts anything (an out-of-stock
// item can still be quoted).
package selection

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"storefront.GO/model/entity"
)

// SchemaVersion is written into serialized blobs. Early snapshots were bare
// arrays; Restore accepts those as version 1.
const SchemaVersion = 1

// RejectionReason says why an Add was refused.
type RejectionReason int

const (
	RejectedOutOfStock RejectionReason = iota
	RejectedStockLimit
	RejectedItemCap
)

// Rejection is the value returned when an add is refused. It is an inline
// notice for the UI, never a panic.
type Rejection struct {
	Reason RejectionReason
	Limit  int64
}

func (r *Rejection) Error() string {
	switch r.Reason {
	case RejectedOutOfStock:
		return "This item is currently out of stock."
	case RejectedStockLimit:
		return fmt.Sprintf("Cannot add more items. Only %d in stock.", r.Limit)
	case RejectedItemCap:
		return fmt.Sprintf("Maximum quantity limit (%d) reached for this item.", r.Limit)
	}
	return "Item cannot be added."
}

// AsRejection unwraps err into a Rejection if it is one.
func AsRejection(err error) (*Rejection, bool) {
	r, ok := err.(*Rejection)
	return r, ok
}

// Policy parameterizes a store.
type Policy struct {
	StockGated bool
	MaxPerItem int // 0 = unlimited
}

func CartPolicy(maxPerItem int) Policy {
	if maxPerItem <= 0 {
		maxPerItem = 10
	}
	return Policy{StockGated: true, MaxPerItem: maxPerItem}
}

func QuotationPolicy() Policy {
	return Policy{}
}

// Event describes one mutation, delivered synchronously after the store's
// fields are fully updated so renderers never read a stale snapshot.
type Event struct {
	Key      entity.ItemKey
	Quantity int // 0 when the line item was removed
}

// Store is an ordered line-item collection keyed by (product, variant).
type Store struct {
	name   string
	policy Policy

	mu    sync.Mutex
	items []entity.LineItem
	index map[entity.ItemKey]int
	subs  []func(Event)
}

func NewStore(name string, policy Policy) *Store {
	return &Store{
		name:   name,
		policy: policy,
		index:  make(map[entity.ItemKey]int),
	}
}

func NewCart(maxPerItem int) *Store {
	return NewStore("cartItems", CartPolicy(maxPerItem))
}

func NewQuotation() *Store {
	return NewStore("quotationItems", QuotationPolicy())
}

func (s *Store) Name() string { return s.name }

// Subscribe registers a mutation listener.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Add puts one unit of (product, variant) into the collection. On the first
// add for an identity key it snapshots price/name/image; subsequent adds
// increment. Quantity saturates at the policy limits: further calls return a
// Rejection and the stored quantity, never wrapping or silently dropping.
func (s *Store) Add(p *entity.Product, v *entity.Variant) (int, error) {
	stock, stockKnown := resolveStock(p, v)
	if s.policy.StockGated && stockKnown && stock <= 0 {
		return 0, &Rejection{Reason: RejectedOutOfStock}
	}

	key := entity.ItemKey{ProductID: p.ID}
	if v != nil {
		key.VariantKey = v.Name
	}

	s.mu.Lock()
	if i, ok := s.index[key]; ok {
		item := &s.items[i]
		if s.policy.MaxPerItem > 0 && item.Quantity >= s.policy.MaxPerItem {
			qty := item.Quantity
			s.mu.Unlock()
			return qty, &Rejection{Reason: RejectedItemCap, Limit: int64(s.policy.MaxPerItem)}
		}
		if s.policy.StockGated && stockKnown && int64(item.Quantity) >= stock {
			qty := item.Quantity
			s.mu.Unlock()
			return qty, &Rejection{Reason: RejectedStockLimit, Limit: stock}
		}
		item.Quantity++
		qty := item.Quantity
		s.mu.Unlock()
		s.notify(Event{Key: key, Quantity: qty})
		return qty, nil
	}

	item := entity.SnapshotLineItem(p, v)
	s.index[key] = len(s.items)
	s.items = append(s.items, item)
	s.mu.Unlock()
	s.notify(Event{Key: key, Quantity: 1})
	return 1, nil
}

// Remove drops a line item entirely.
func (s *Store) Remove(key entity.ItemKey) bool {
	s.mu.Lock()
	i, ok := s.index[key]
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.reindex()
	s.mu.Unlock()
	s.notify(Event{Key: key, Quantity: 0})
	return true
}

// SetQuantity sets a line item's quantity; n <= 0 removes it. For a gated
// store the quantity clamps to the per-item cap and the stock snapshot.
func (s *Store) SetQuantity(key entity.ItemKey, n int) int {
	if n <= 0 {
		s.Remove(key)
		return 0
	}
	s.mu.Lock()
	i, ok := s.index[key]
	if !ok {
		s.mu.Unlock()
		return 0
	}
	item := &s.items[i]
	if s.policy.MaxPerItem > 0 && n > s.policy.MaxPerItem {
		n = s.policy.MaxPerItem
	}
	if s.policy.StockGated && item.StockAtAdd > 0 && int64(n) > item.StockAtAdd {
		n = int(item.StockAtAdd)
	}
	item.Quantity = n
	s.mu.Unlock()
	s.notify(Event{Key: key, Quantity: n})
	return n
}

// Quantity returns the stored quantity for a key, 0 when absent.
func (s *Store) Quantity(key entity.ItemKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[key]; ok {
		return s.items[i].Quantity
	}
	return 0
}

func (s *Store) Contains(key entity.ItemKey) bool {
	return s.Quantity(key) > 0
}

// ProductQuantity sums quantities across every line item of a product, so a
// card can show membership no matter which variant was added.
func (s *Store) ProductQuantity(productID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for i := range s.items {
		if s.items[i].ProductID == productID {
			total += s.items[i].Quantity
		}
	}
	return total
}

// Count is the sum of quantities, used for badge display.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for i := range s.items {
		total += s.items[i].Quantity
	}
	return total
}

func (s *Store) Items() []entity.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.LineItem(nil), s.items...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Total is the money sum over all line items.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for i := range s.items {
		total = total.Add(s.items[i].Subtotal())
	}
	return total
}

type serializedStore struct {
	Schema int               `json:"schema"`
	Items  []entity.LineItem `json:"items"`
}

// Serialize renders the collection for durable persistence.
func (s *Store) Serialize() ([]byte, error) {
	s.mu.Lock()
	blob := serializedStore{Schema: SchemaVersion, Items: append([]entity.LineItem(nil), s.items...)}
	s.mu.Unlock()
	return json.Marshal(blob)
}

// Restore replaces the collection from a serialized blob. A bare array (the
// pre-versioned layout) is accepted as schema 1.
func (s *Store) Restore(blob []byte) error {
	var versioned serializedStore
	if err := json.Unmarshal(blob, &versioned); err == nil && versioned.Items != nil {
		s.RestoreItems(versioned.Items)
		return nil
	}
	var bare []entity.LineItem
	if err := json.Unmarshal(blob, &bare); err != nil {
		return err
	}
	s.RestoreItems(bare)
	return nil
}

// RestoreItems replaces the collection wholesale, bypassing add policies.
// Persisted items were already policy-checked when added.
func (s *Store) RestoreItems(items []entity.LineItem) {
	s.mu.Lock()
	s.items = s.items[:0]
	s.index = make(map[entity.ItemKey]int, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		key := item.Key()
		if _, dup := s.index[key]; dup {
			continue
		}
		s.index[key] = len(s.items)
		s.items = append(s.items, item)
	}
	s.mu.Unlock()
	s.notify(Event{})
}

func (s *Store) Clear() {
	s.RestoreItems(nil)
}

// reindex rebuilds the key index after a removal. Caller holds mu.
func (s *Store) reindex() {
	s.index = make(map[entity.ItemKey]int, len(s.items))
	for i := range s.items {
		s.index[s.items[i].Key()] = i
	}
}

func (s *Store) notify(e Event) {
	s.mu.Lock()
	subs := append(make([]func(Event), 0, len(s.subs)), s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(e)
	}
}

// resolveStock picks the stock the gate runs against: the chosen variant's
// own count, else the product's effective stock. Unknown stock (null
// upstream, no variants) does not gate.
func resolveStock(p *entity.Product, v *entity.Variant) (int64, bool) {
	if v != nil {
		return v.Stock(), true
	}
	return p.EffectiveStock()
}
