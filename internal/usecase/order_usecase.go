package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// 注文確定後に走る副作用（注文ログ・イベント送信など）。
// 失敗してもログに残すだけで、確定した注文は取り消さない。
type OrderCreatedHook interface {
	Name() string
	OnOrderCreated(ctx context.Context, order model.Order, lines []model.CartLine) error
}

// POST /api/orders の形チェック
type OrderValidator interface {
	ValidateCreateOrder(in CreateOrderInput) error
}

type OrderUsecase struct {
	tx          repo.TransactionManager
	validator   OrderValidator
	deliveryFee decimal.Decimal
	hooks       []OrderCreatedHook
	log         logrus.FieldLogger
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	validator OrderValidator,
	deliveryFee decimal.Decimal,
	log logrus.FieldLogger,
	hooks ...OrderCreatedHook,
) *OrderUsecase {
	return &OrderUsecase{
		tx:          tx,
		validator:   validator,
		deliveryFee: deliveryFee,
		hooks:       hooks,
		log:         log,
	}
}

// Itemsがnilなら「items未指定」、空スライスなら空カート
type CreateOrderInput struct {
	Customer model.CustomerInfo
	Items    []model.CartLine
}

type OrderOutput struct {
	ID            int64           `json:"id"`
	ClientName    string          `json:"clientName"`
	ClientSurname string          `json:"clientSurname"`
	Address       string          `json:"address"`
	PostalCode    string          `json:"postalCode"`
	City          string          `json:"city"`
	Phone         string          `json:"phone"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// 注文を作成する。
// 価格はクライアントの値を使わず、商品テーブルから読み直して合計＋配送料を計算する。
func (u *OrderUsecase) CreateOrder(ctx context.Context, in CreateOrderInput) (OrderOutput, error) {
	if err := u.validator.ValidateCreateOrder(in); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}
	c := trimCustomer(in.Customer)

	var created model.Order

	//商品の確認〜注文・明細の保存はトランザクション
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, subtotal, err := u.priceCart(ctx, r.Products(), in.Items)
		if err != nil {
			return err
		}

		created, err = r.Orders().CreateWithItems(ctx, model.Order{
			ClientName:    c.ClientName,
			ClientSurname: c.ClientSurname,
			Address:       c.Address,
			PostalCode:    c.PostalCode,
			City:          c.City,
			Phone:         c.Phone,
			TotalPrice:    subtotal.Add(u.deliveryFee),
			Status:        model.OrderStatusPending,
		}, items)
		if err != nil {
			u.log.WithError(err).Error("create order failed")
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return OrderOutput{}, err
		}
		//commit失敗など
		u.log.WithError(err).Error("order transaction failed")
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.log.WithFields(logrus.Fields{
		"order_id": created.ID,
		"items":    len(in.Items),
		"total":    created.TotalPrice.String(),
	}).Info("order created")

	//ここから先はベストエフォート
	u.runHooks(context.WithoutCancel(ctx), created, in.Items)

	return toOrderOutput(created), nil
}

// カートの各行を入力順に商品と突き合わせ、価格スナップショットと小計を作る。
// 同じ商品が複数行あってもまとめない。
func (u *OrderUsecase) priceCart(ctx context.Context, products repo.ProductRepository, lines []model.CartLine) ([]model.OrderItem, decimal.Decimal, error) {
	items := make([]model.OrderItem, 0, len(lines))
	subtotal := decimal.Zero

	for _, l := range lines {
		p, err := products.FindByID(ctx, l.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, decimal.Zero, NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Product %d not found", l.ProductID))
		}
		if err != nil {
			u.log.WithError(err).WithField("product_id", l.ProductID).Error("find product failed")
			return nil, decimal.Zero, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items = append(items, model.OrderItem{
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			PriceAtPurchase: p.Price,
		})
		subtotal = subtotal.Add(model.LineTotal(p.Price, l.Quantity))
	}

	return items, subtotal, nil
}

func (u *OrderUsecase) runHooks(ctx context.Context, order model.Order, lines []model.CartLine) {
	for _, h := range u.hooks {
		if err := h.OnOrderCreated(ctx, order, lines); err != nil {
			u.log.WithError(err).WithFields(logrus.Fields{
				"order_id": order.ID,
				"hook":     h.Name(),
			}).Warn("order side effect failed")
		}
	}
}

func trimCustomer(c model.CustomerInfo) model.CustomerInfo {
	return model.CustomerInfo{
		ClientName:    strings.TrimSpace(c.ClientName),
		ClientSurname: strings.TrimSpace(c.ClientSurname),
		Address:       strings.TrimSpace(c.Address),
		PostalCode:    strings.TrimSpace(c.PostalCode),
		City:          strings.TrimSpace(c.City),
		Phone:         strings.TrimSpace(c.Phone),
	}
}

func toOrderOutput(o model.Order) OrderOutput {
	return OrderOutput{
		ID:            o.ID,
		ClientName:    o.ClientName,
		ClientSurname: o.ClientSurname,
		Address:       o.Address,
		PostalCode:    o.PostalCode,
		City:          o.City,
		Phone:         o.Phone,
		TotalPrice:    o.TotalPrice,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
}
