package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 注文作成（ゲスト購入なので認証なし）
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type OrderLineRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type OrderCreateRequest struct {
	ClientName    string             `json:"clientName"`
	ClientSurname string             `json:"clientSurname"`
	Address       string             `json:"address"`
	PostalCode    string             `json:"postalCode"`
	City          string             `json:"city"`
	Phone         string             `json:"phone"`
	Items         []OrderLineRequest `json:"items"`

	//受け取るが使わない（サーバー側で再計算）
	TotalPrice *decimal.Decimal `json:"totalPrice"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/orders", h.create)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), usecase.CreateOrderInput{
		Customer: model.CustomerInfo{
			ClientName:    req.ClientName,
			ClientSurname: req.ClientSurname,
			Address:       req.Address,
			PostalCode:    req.PostalCode,
			City:          req.City,
			Phone:         req.Phone,
		},
		Items: toCartLines(req.Items),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

// nil（items未指定）はnilのまま渡す
func toCartLines(items []OrderLineRequest) []model.CartLine {
	if items == nil {
		return nil
	}
	lines := make([]model.CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, model.CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}
