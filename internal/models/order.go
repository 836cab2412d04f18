package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID       uint `gorm:"primaryKey"`
	StoreID  uint `gorm:"index;not null"`
	Store    Store
	Name     string          `gorm:"size:100;not null"`
	Quantity int             `gorm:"not null"`
	SubtotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null"` // vergi öncesi
	TotalAmount    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PaymentMethod  PaymentMethod   `gorm:"size:20;not null"`
	Status         OrderStatus     `gorm:"size:20;not null;default:active;index"`
	CreatedAt      time.Time       `gorm:"index"`
	UpdatedAt      time.Time

	Transactions []Transaction `gorm:"foreignKey:OrderID"`
}
