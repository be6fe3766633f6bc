package model

import "time"

type Role string

const (
	RoleAdmin Role = "admin"
)

// 管理者ユーザー。起動時のseedでのみ作る。
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	Role         Role      `gorm:"type:text;not null;default:'admin'" json:"role"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"-"`
}
