package repository

import (
	"context"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type sessionGormRepository struct {
	db *gorm.DB
}

func NewSessionGormRepository(db *gorm.DB) repo.SessionRepository {
	return &sessionGormRepository{db: db}
}

func (r *sessionGormRepository) Create(ctx context.Context, s *model.Session) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		return errors.Wrap(err, "create session")
	}
	return nil
}

func (r *sessionGormRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find session")
	}
	return &s, nil
}

// 失効。既に失効済み/存在しない場合はErrNotFound
func (r *sessionGormRepository) Revoke(ctx context.Context, id string, revokedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", revokedAt)
	if res.Error != nil {
		return errors.Wrap(res.Error, "revoke session")
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *sessionGormRepository) DeleteExpiredByUserID(ctx context.Context, userID int64, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at <= ?", userID, now).
		Delete(&model.Session{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "delete expired sessions")
	}
	return res.RowsAffected, nil
}
