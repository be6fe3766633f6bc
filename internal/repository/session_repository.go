package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
)

// ログインセッションの保存・取得・失効
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	FindByID(ctx context.Context, id string) (*model.Session, error)
	Revoke(ctx context.Context, id string, revokedAt time.Time) error
	// 期限切れセッションの掃除
	DeleteExpiredByUserID(ctx context.Context, userID int64, now time.Time) (int64, error)
}
