package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 商品。価格は注文時に必ずここから読み直す。
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:text;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Image       string          `gorm:"type:text;not null" json:"image"`
	Description string          `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"-"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"-"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
