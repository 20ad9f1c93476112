package pricing

import (
	"context"

	"innkeep/internal/domain/shared/money"
)

// DiscountPolicy is the extension point for promotional logic. The returned
// amount must be non-negative; it is applied before tax.
type DiscountPolicy interface {
	Discount(ctx context.Context, stay StayInput, subtotal money.Money) (money.Money, error)
}

// NoDiscount is the default policy.
type NoDiscount struct{}

func (NoDiscount) Discount(ctx context.Context, stay StayInput, subtotal money.Money) (money.Money, error) {
	return money.Money{Amount: 0, Currency: subtotal.Currency}, nil
}

// FlatDiscount subtracts a fixed amount from every stay, useful for
// campaign wiring and tests.
type FlatDiscount struct {
	Amount money.Money
}

func (d FlatDiscount) Discount(ctx context.Context, stay StayInput, subtotal money.Money) (money.Money, error) {
	return d.Amount.ClampNonNegative(), nil
}
