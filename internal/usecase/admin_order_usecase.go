package usecase

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// 注文ログファイルを読む窓口。無ければ fs.ErrNotExist を返す。
type OrdersLogReader interface {
	Open() (io.ReadCloser, error)
}

type AdminOrderUsecase struct {
	orders    repo.OrderRepository
	logReader OrdersLogReader
	log       logrus.FieldLogger
}

func NewAdminOrderUsecase(orders repo.OrderRepository, logReader OrdersLogReader, log logrus.FieldLogger) *AdminOrderUsecase {
	return &AdminOrderUsecase{orders: orders, logReader: logReader, log: log}
}

type OrderItemOutput struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"orderId"`
	ProductID       int64           `json:"productId"`
	Quantity        int64           `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
	// 商品が物理的に存在しない場合はnull
	Product *model.Product `json:"product"`
}

type OrderWithItemsOutput struct {
	OrderOutput
	Items []OrderItemOutput `json:"items"`
}

// 注文一覧（新しい順、明細と商品つき）
func (u *AdminOrderUsecase) ListOrders(ctx context.Context) ([]OrderWithItemsOutput, error) {
	orders, err := u.orders.ListWithItems(ctx)
	if err != nil {
		u.log.WithError(err).Error("list orders failed")
		return []OrderWithItemsOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderWithItemsOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderWithItemsOutput(o))
	}
	return outs, nil
}

// ステータス変更（pending / fulfilled / cancelled）
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, orderID int64, status string) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	s := model.OrderStatus(strings.ToLower(strings.TrimSpace(status)))
	if !s.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	err := u.orders.UpdateStatus(ctx, orderID, s)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "Order not found")
	}
	if err != nil {
		u.log.WithError(err).WithField("order_id", orderID).Error("update order status failed")
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err != nil {
		u.log.WithError(err).WithField("order_id", orderID).Error("reload order failed")
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toOrderOutput(o), nil
}

// 注文ログ（orders.txt）を開く。呼び出し側でCloseすること。
func (u *AdminOrderUsecase) OpenOrdersLog(ctx context.Context) (io.ReadCloser, error) {
	rc, err := u.logReader.Open()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, NewHTTPError(http.StatusNotFound, "Orders log file not found")
	}
	if err != nil {
		u.log.WithError(err).Error("open orders log failed")
		return nil, NewHTTPError(http.StatusInternalServerError, "Failed to download orders log")
	}
	return rc, nil
}

func toOrderWithItemsOutput(o model.Order) OrderWithItemsOutput {
	items := make([]OrderItemOutput, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemOutput{
			ID:              it.ID,
			OrderID:         it.OrderID,
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase,
			Product:         it.Product,
		})
	}
	return OrderWithItemsOutput{
		OrderOutput: toOrderOutput(o),
		Items:       items,
	}
}
