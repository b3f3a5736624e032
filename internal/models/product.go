package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockStatus is derived from quantity and thresholds, never stored.
type StockStatus string

const (
	InStock    StockStatus = "in_stock"
	LowStock   StockStatus = "low_stock"
	OutOfStock StockStatus = "out_of_stock"
)

// Valid reports whether s is one of the known stock statuses.
func (s StockStatus) Valid() bool {
	switch s {
	case InStock, LowStock, OutOfStock:
		return true
	}
	return false
}

// DeriveStockStatus classifies a stock level against its minimum threshold.
func DeriveStockStatus(currentStock, minStock int) StockStatus {
	switch {
	case currentStock <= 0:
		return OutOfStock
	case currentStock <= minStock:
		return LowStock
	default:
		return InStock
	}
}

// Product represents a product in the store together with its stock record.
type Product struct {
	ID              string           `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name            string           `json:"name" validate:"required,min=3,max=100"`
	SKU             string           `json:"sku" gorm:"uniqueIndex:idx_products_sku_live,where:deleted_at IS NULL;type:varchar(64)" validate:"required,max=64"`
	Description     string           `json:"description" validate:"omitempty,max=500"`
	Category        string           `json:"category" gorm:"index" validate:"omitempty,max=100"`
	Brand           string           `json:"brand" gorm:"index" validate:"omitempty,max=100"`
	Price           decimal.Decimal  `json:"price" gorm:"type:decimal(12,2)"`
	DiscountedPrice *decimal.Decimal `json:"discounted_price,omitempty" gorm:"type:decimal(12,2)"`
	CurrentStock    int              `json:"current_stock" validate:"gte=0"`
	MinStock        int              `json:"min_stock" validate:"gte=0"`
	MaxStock        int              `json:"max_stock" validate:"gte=0,gtefield=MinStock"`
	LastUpdated     time.Time        `json:"last_updated"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `json:"-" gorm:"index"`
}

// StockStatus derives the product's current stock status.
func (p Product) StockStatus() StockStatus {
	return DeriveStockStatus(p.CurrentStock, p.MinStock)
}

// EffectivePrice is the discounted price when one is set, the list price otherwise.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

// MarshalJSON adds the derived stock status to the encoded product.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Status StockStatus `json:"status"`
	}{plain(p), p.StockStatus()})
}
