package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTransactionType     = errors.New("geçersiz işlem türü")
	ErrInvalidPaymentMethod       = errors.New("geçersiz ödeme yöntemi")
	ErrInvalidCostCategory        = errors.New("geçersiz maliyet kategorisi")
	ErrCostCategoryNotAllowed     = errors.New("maliyet kategorisi sadece maliyet türü işlemlerde kullanılabilir")
	ErrNonPositiveAmount          = errors.New("tutar sıfırdan büyük olmalı")
	ErrCategoryTypeMismatch       = errors.New("işlem kategorisi işlem türüyle uyuşmuyor")
)

// Transaction: tek bir parasal olay (satış, vergi, iade, maliyet, diğer gider).
// Tutar her zaman pozitif tutulur; gelir/gider yönü kategoriden gelir.
// (store_id, date) bileşik indeksi analitik sorguların tamamı bu ikiliye
// filtre uyguladığı için zorunlu.
type Transaction struct {
	ID       uint `gorm:"primaryKey"`
	StoreID  uint `gorm:"not null;index:idx_transactions_store_date,priority:1"`
	Store    Store
	OrderID  *uint `gorm:"index"` // Siparişten doğan işlemlerde dolu
	Name     string `gorm:"size:100;not null"`
	Date     time.Time       `gorm:"not null;index:idx_transactions_store_date,priority:2"`
	Amount   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Type     TransactionType `gorm:"size:20;not null"`
	Category TransactionCategory `gorm:"size:10;not null"` // Type'tan türetilir
	PaymentMethod PaymentMethod `gorm:"size:20;not null"`
	CostCategory  *CostCategory `gorm:"size:20"` // Sadece type=cost için
	Description   string        `gorm:"size:255"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewTransaction: kategori türetme ve alan doğrulamasını tek noktada yapar.
// Elle kategori atamak mümkün değildir; tür-kategori çelişkisi burada engellenir.
func NewTransaction(storeID uint, name string, date time.Time, amount decimal.Decimal,
	txType TransactionType, method PaymentMethod, costCategory *CostCategory) (*Transaction, error) {

	if !txType.Valid() {
		return nil, ErrInvalidTransactionType
	}
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	if !amount.IsPositive() {
		return nil, ErrNonPositiveAmount
	}
	if costCategory != nil {
		if txType != TransactionTypeCost {
			return nil, ErrCostCategoryNotAllowed
		}
		if !costCategory.Valid() {
			return nil, ErrInvalidCostCategory
		}
	}

	return &Transaction{
		StoreID:       storeID,
		Name:          name,
		Date:          date,
		Amount:        amount.Round(2),
		Type:          txType,
		Category:      txType.Category(),
		PaymentMethod: method,
		CostCategory:  costCategory,
	}, nil
}
