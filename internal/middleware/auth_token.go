package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	auth "storefront/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey   = "user_id"   // int64
	CtxUserRoleKey = "user_role" // string
	CtxTokenKey    = "token"     // string
)

// トークン検証の約束（SessionStoreが満たす）
type TokenValidator interface {
	Validate(ctx context.Context, token string) (auth.Principal, error)
}

// bearerトークンの検証ミドルウェア。
// トークンなし → 401 unauthenticated、トークンはあるが無効 → 403 unauthorized。
func RequireAuth(v TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken, ok := bearerToken(c.Request().Header.Get("Authorization"))
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthenticated"))
			}

			p, err := v.Validate(c.Request().Context(), rawToken)
			if errors.Is(err, auth.ErrInvalidToken) {
				return c.JSON(http.StatusForbidden, errorJSON("unauthorized"))
			}
			if err != nil {
				return err
			}

			//contextへ保存
			c.Set(CtxUserIDKey, p.UserID)
			c.Set(CtxUserRoleKey, string(p.Role))
			c.Set(CtxTokenKey, rawToken)

			return next(c)
		}
	}
}

// "Bearer xxx" からトークンを抜く
func bearerToken(authz string) (string, bool) {
	if authz == "" {
		return "", false
	}
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	tok := strings.TrimSpace(parts[1])
	if tok == "" {
		return "", false
	}
	return tok, true
}

type errorResponse struct {
	Message string `json:"message"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Message: msg}
}
