package validator

import (
	"fmt"
	"strings"

	"storefront/internal/usecase"
)

type orderValidator struct{}

func NewOrderValidator() usecase.OrderValidator {
	return &orderValidator{}
}

// 注文作成の入力を検証。最初に見つかった問題だけ返す。
func (v *orderValidator) ValidateCreateOrder(in usecase.CreateOrderInput) error {
	c := in.Customer
	required := []struct {
		field string
		value string
	}{
		{"clientName", c.ClientName},
		{"clientSurname", c.ClientSurname},
		{"address", c.Address},
		{"postalCode", c.PostalCode},
		{"city", c.City},
		{"phone", c.Phone},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required", r.field)
		}
	}

	// 空配列はOK（配送料だけの注文になる）
	if in.Items == nil {
		return fmt.Errorf("items is required")
	}

	for i, it := range in.Items {
		if it.ProductID <= 0 {
			return fmt.Errorf("items[%d].productId must be a positive integer", i)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("items[%d].quantity must be >= 1", i)
		}
	}

	return nil
}
