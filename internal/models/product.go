package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product: menüdeki satış kalemi.
type Product struct {
	ID       uint `gorm:"primaryKey"`
	StoreID  uint `gorm:"index;not null"`
	Store    Store
	Name     string          `gorm:"size:100;not null"`
	Price    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Category string          `gorm:"size:50"`
	IsActive bool            `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Ingredients []Ingredient
}

// Ingredient: bir ürünün reçetesindeki malzeme ve ürün başına miktarı.
type Ingredient struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Product   Product
	Name      string          `gorm:"size:100;not null"`
	AmountPerProduct decimal.Decimal `gorm:"type:decimal(12,3);not null"` // ürün başına kullanım
	Unit      string          `gorm:"size:20;not null"` // g, ml, adet...
	CreatedAt time.Time
	UpdatedAt time.Time
}
