package selection

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"storefront.GO/model/entity"
)

// lineItemRecord is the durable row for one line item. Collection holds the
// store name ("cartItems" or "quotationItems"), mirroring the storage keys
// the embedding sites already rely on.
type lineItemRecord struct {
	ID         uint   `gorm:"primaryKey"`
	Collection string `gorm:"index;size:32"`
	ProductID  int64
	VariantKey string `gorm:"size:255"`
	Name       string
	UnitPrice  decimal.Decimal `gorm:"type:numeric"`
	Image      string
	Category   string
	Quantity   int
	StockAtAdd int64
	UpdatedAt  time.Time
}

func (lineItemRecord) TableName() string {
	return "selection_items"
}

// Repository persists selection stores across sessions.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&lineItemRecord{}); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

// SaveAll replaces the persisted rows for a store with its current contents.
func (r *Repository) SaveAll(s *Store) error {
	items := s.Items()
	records := make([]lineItemRecord, 0, len(items))
	for _, item := range items {
		records = append(records, lineItemRecord{
			Collection: s.Name(),
			ProductID:  item.ProductID,
			VariantKey: item.VariantKey,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Image:      item.Image,
			Category:   item.Category,
			Quantity:   item.Quantity,
			StockAtAdd: item.StockAtAdd,
		})
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection = ?", s.Name()).Delete(&lineItemRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
}

// LoadInto restores a store's contents from its persisted rows.
func (r *Repository) LoadInto(s *Store) error {
	var records []lineItemRecord
	if err := r.db.Where("collection = ?", s.Name()).Order("id asc").Find(&records).Error; err != nil {
		return err
	}
	items := make([]entity.LineItem, 0, len(records))
	for _, rec := range records {
		items = append(items, entity.LineItem{
			ProductID:  rec.ProductID,
			VariantKey: rec.VariantKey,
			Name:       rec.Name,
			UnitPrice:  rec.UnitPrice,
			Image:      rec.Image,
			Category:   rec.Category,
			Quantity:   rec.Quantity,
			StockAtAdd: rec.StockAtAdd,
		})
	}
	s.RestoreItems(items)
	return nil
}

// FlushAll saves every store, logging failures instead of propagating them.
// Persistence is best-effort: a write failure must never take the widget down.
func (r *Repository) FlushAll(stores ...*Store) {
	for _, s := range stores {
		if err := r.SaveAll(s); err != nil {
			log.Printf("selection: flush %s failed: %v", s.Name(), err)
		}
	}
}
