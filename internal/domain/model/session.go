package model

import "time"

// ログインセッション。トークンのjtiがIDになる。
type Session struct {
	ID        string     `gorm:"type:uuid;primaryKey"`
	UserID    int64      `gorm:"not null;index"`
	Role      Role       `gorm:"type:text;not null"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	RevokedAt *time.Time `gorm:"index"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime"`
}

// 有効か（失効・期限切れでない）
func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
