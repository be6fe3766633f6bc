package model

import "github.com/shopspring/decimal"

// 価格はJSONでは数値として出す（"85" ではなく 85）
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// 価格の小数桁
const PriceScale = 2

// 価格 × 数量
func LineTotal(price decimal.Decimal, quantity int64) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(quantity))
}
