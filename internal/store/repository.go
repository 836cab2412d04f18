package store

import (
	"context"
	"errors"

	"dukkan-backend/internal/models"

	"gorm.io/gorm"
)

// Repository: analitik motorunun mağaza varlık kontrolü için kullandığı okuma katmanı.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindStoreByID: mağaza yoksa hata değil nil döner; yokluk kararını çağıran verir.
func (r *Repository) FindStoreByID(ctx context.Context, storeID uint) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).First(&store, storeID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}
