package model

import "github.com/shopspring/decimal"

// 注文明細。PriceAtPurchaseは注文時点の商品価格のスナップショット。
// ProductIDは弱い参照（商品が後で消えても明細は残る）。
type OrderItem struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         int64           `gorm:"not null;index" json:"orderId"`
	ProductID       int64           `gorm:"not null;index" json:"productId"`
	Quantity        int64           `gorm:"not null" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"priceAtPurchase"`

	Product *Product `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`
}
