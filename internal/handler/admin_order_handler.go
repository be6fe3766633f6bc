package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc *usecase.AdminOrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) RegisterRoutes(e *echo.Echo, mws ...echo.MiddlewareFunc) {
	e.GET("/api/orders", h.list, mws...)
	e.PUT("/api/orders/:id/status", h.updateStatus, mws...)
	e.GET("/api/admin/orders-log", h.downloadLog, mws...)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	out, err := h.uc.ListOrders(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid id")
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateStatus(c.Request().Context(), orderID, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// orders.txt をそのまま添付ファイルとして返す
func (h *AdminOrderHandler) downloadLog(c echo.Context) error {
	rc, err := h.uc.OpenOrdersLog(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=orders.txt")
	return c.Stream(http.StatusOK, echo.MIMETextPlain, rc)
}
