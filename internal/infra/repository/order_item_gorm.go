package repository

import (
	"context"

	"storefront/internal/domain/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// 注文明細。注文リポジトリの内側からだけ使う。
type orderItemGormRepository struct {
	db *gorm.DB
}

func newOrderItemGormRepository(db *gorm.DB) *orderItemGormRepository {
	return &orderItemGormRepository{db: db}
}

func (r *orderItemGormRepository) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].OrderID = orderID
	}
	if err := r.db.WithContext(ctx).Omit("Product").Create(&items).Error; err != nil {
		return errors.Wrapf(err, "insert items for order %d", orderID)
	}
	return nil
}
