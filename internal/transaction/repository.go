package transaction

import (
	"context"
	"time"

	"dukkan-backend/internal/models"

	"gorm.io/gorm"
)

// Repository: işlem tablosu üzerindeki okuma/silme erişimi. Analitik motoru
// bu tipin arkasındaki (store_id, date) indeksine yaslanır.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByStoreAndDateRange(ctx context.Context, storeID uint, start, end time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND date >= ? AND date <= ?", storeID, start, end).
		Order("date asc").
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

func (r *Repository) DeleteByOrderID(ctx context.Context, orderID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.Transaction{})
	return res.RowsAffected, res.Error
}
