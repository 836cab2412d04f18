package order

import (
	"context"
	"errors"

	"dukkan-backend/internal/models"

	"gorm.io/gorm"
)

type gormRepos struct {
	db *gorm.DB
}

func (r *gormRepos) FindOrderByID(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepos) SaveOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *gormRepos) DeleteTransactionsByOrderID(ctx context.Context, orderID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&models.Transaction{})
	return res.RowsAffected, res.Error
}

// GormUnitOfWork: koordinatörün istediği atomiklik sınırını tek veritabanı
// transaction'ı olarak kurar.
type GormUnitOfWork struct {
	db *gorm.DB
}

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

func (u *GormUnitOfWork) Do(ctx context.Context, fn func(Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepos{db: tx})
	})
}
