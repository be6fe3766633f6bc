package repository

import (
	"context"

	"storefront/internal/domain/model"
)

type OrderRepository interface {
	// 注文と明細をまとめて保存する。どちらか片方だけ残ることはない。
	CreateWithItems(ctx context.Context, order model.Order, items []model.OrderItem) (model.Order, error)

	//管理者用の注文一覧（新しい順、明細＋商品つき）
	ListWithItems(ctx context.Context) ([]model.Order, error)

	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	Count(ctx context.Context) (int64, error)
}
