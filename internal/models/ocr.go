package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OcrJob: fiş görseli için OCR iş kaydı. Ham OCR çıktısı Mongo'da tutulur,
// buradaki ArtifactID o dokümanı işaret eder.
type OcrJob struct {
	ID         string `gorm:"primaryKey;size:36"` // uuid
	StoreID    uint   `gorm:"index;not null"`
	Store      Store
	ImagePath  string       `gorm:"size:255;not null"`
	Status     OcrJobStatus `gorm:"size:20;not null;default:pending;index"`
	ArtifactID string       `gorm:"size:64"` // Mongo doküman id'si (hex)
	ErrorMessage string     `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Products []ReceiptProduct `gorm:"foreignKey:OcrJobID"`
}

// ReceiptProduct: OCR sonucundan ayrıştırılıp kullanıcı onayı bekleyen fiş kalemi.
type ReceiptProduct struct {
	ID        uint   `gorm:"primaryKey"`
	OcrJobID  string `gorm:"size:36;index;not null"`
	Name      string `gorm:"size:100;not null"`
	Quantity  decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Confirmed  bool            `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
