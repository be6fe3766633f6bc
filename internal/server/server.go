package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// ルーティングに必要な部品
type Handlers struct {
	Auth         *handler.AuthHandler
	Products     *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Orders       *handler.OrderHandler
	AdminOrders  *handler.AdminOrderHandler
}

// echoを組み立てる
func New(h Handlers, tokens middleware.TokenValidator, log logrus.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	RegisterRoutes(e, h, tokens)
	return e
}

func RegisterRoutes(e *echo.Echo, h Handlers, tokens middleware.TokenValidator) {
	requireAuth := middleware.RequireAuth(tokens)
	adminOnly := middleware.AdminRoleGuard()

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	h.Auth.RegisterRoutes(e, requireAuth)
	h.Products.RegisterRoutes(e)
	h.AdminProduct.RegisterRoutes(e, requireAuth, adminOnly)
	h.Orders.RegisterRoutes(e)
	h.AdminOrders.RegisterRoutes(e, requireAuth, adminOnly)
}

// SIGINT等でctxがキャンセルされるまで待ち、graceful shutdownする
func Start(ctx context.Context, e *echo.Echo, addr string, log logrus.FieldLogger) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
