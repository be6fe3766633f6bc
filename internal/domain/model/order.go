package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// 有効なステータスか
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusFulfilled, OrderStatusCancelled:
		return true
	}
	return false
}

// 注文。TotalPriceは作成時に確定し、その後は再計算しない。
type Order struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientName    string          `gorm:"type:text;not null" json:"clientName"`
	ClientSurname string          `gorm:"type:text;not null" json:"clientSurname"`
	Address       string          `gorm:"type:text;not null" json:"address"`
	PostalCode    string          `gorm:"type:text;not null" json:"postalCode"`
	City          string          `gorm:"type:text;not null" json:"city"`
	Phone         string          `gorm:"type:text;not null" json:"phone"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalPrice"`
	Status        OrderStatus     `gorm:"type:text;not null;default:'pending'" json:"status"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`

	// 管理画面の一覧でだけ埋める
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"-"`
}

// 注文者情報
type CustomerInfo struct {
	ClientName    string
	ClientSurname string
	Address       string
	PostalCode    string
	City          string
	Phone         string
}

// カートの1行（送信されたまま）
type CartLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}
