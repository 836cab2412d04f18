package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory: mağazadaki malzeme stok kaydı.
type Inventory struct {
	ID           uint `gorm:"primaryKey"`
	StoreID      uint `gorm:"index;not null"`
	Store        Store
	IngredientID uint `gorm:"index;not null"`
	Ingredient   Ingredient
	Quantity     decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Unit         string          `gorm:"size:20;not null"`
	ExpiryDate   *time.Time      `gorm:"index"` // Opsiyonel son kullanma tarihi
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// InventoryLog: her stok değişimi için önce/sonra miktarlarıyla iz kaydı.
type InventoryLog struct {
	ID          uint `gorm:"primaryKey"`
	InventoryID uint `gorm:"index;not null"`
	Inventory   Inventory
	OrderID     *uint // Sipariş kaynaklı düşümlerde dolu
	LogType     InventoryLogType `gorm:"size:10;not null"`
	QuantityChange decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	BeforeQuantity decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	AfterQuantity  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Reason         string          `gorm:"size:255"`
	CreatedAt      time.Time
}
