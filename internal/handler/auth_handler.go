package handler

import (
	"errors"
	"net/http"

	auth "storefront/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	loginUC *auth.LoginUsecase
}

// DIコンストラクタ
func NewAuthHandler(loginUC *auth.LoginUsecase) *AuthHandler {
	return &AuthHandler{loginUC: loginUC}
}

// /api/auth/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// mwsはlogoutにだけ付ける
func (h *AuthHandler) RegisterRoutes(e *echo.Echo, mws ...echo.MiddlewareFunc) {
	e.POST("/api/auth/login", h.login)
	e.POST("/api/auth/logout", h.logout, mws...)
}

// POST /api/auth/login
func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, out)
	case errors.Is(err, auth.ErrInvalidInput):
		return badRequest(c, "invalid email or password format")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid credentials"})
	default:
		return err
	}
}

// POST /api/auth/logout
func (h *AuthHandler) logout(c echo.Context) error {
	token, ok := getTokenFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "unauthenticated"})
	}

	err := h.loginUC.Logout(c.Request().Context(), token)
	if errors.Is(err, auth.ErrInvalidToken) {
		return c.JSON(http.StatusForbidden, ErrorResponse{Message: "unauthorized"})
	}
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
