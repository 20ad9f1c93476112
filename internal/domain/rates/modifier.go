package rates

import (
	"errors"

	"innkeep/internal/domain/shared/money"
)

var ErrUnknownModifierKind = errors.New("rates: unknown modifier kind")

// ModifierKind is the closed set of price adjustment variants.
type ModifierKind string

const (
	// ModifierPercentage adjusts the price by Value percent.
	ModifierPercentage ModifierKind = "percentage"
	// ModifierFixed adds Value major units to the price.
	ModifierFixed ModifierKind = "fixed"
	// ModifierAbsolute replaces the price with Value major units.
	ModifierAbsolute ModifierKind = "absolute"
)

// Modifier is a tagged price adjustment. Value is interpreted according to
// Kind: percent for percentage, major currency units otherwise.
type Modifier struct {
	Kind  ModifierKind `json:"kind" bson:"kind"`
	Value float64      `json:"value" bson:"value"`
}

// Apply returns the adjusted price. Unknown kinds leave the price untouched
// so a stale record cannot corrupt a quote.
func (m Modifier) Apply(price money.Money) money.Money {
	switch m.Kind {
	case ModifierPercentage:
		return price.ApplyPercent(m.Value)
	case ModifierFixed:
		result, err := price.Add(money.FromFloat(m.Value, price.Currency))
		if err != nil {
			return price
		}
		return result
	case ModifierAbsolute:
		return money.FromFloat(m.Value, price.Currency)
	default:
		return price
	}
}

// Validate rejects modifiers outside the closed variant set.
func (m Modifier) Validate() error {
	switch m.Kind {
	case ModifierPercentage, ModifierFixed, ModifierAbsolute:
		return nil
	default:
		return ErrUnknownModifierKind
	}
}

// IsNoop reports whether applying the modifier never changes a price.
func (m Modifier) IsNoop() bool {
	return (m.Kind == ModifierPercentage || m.Kind == ModifierFixed) && m.Value == 0
}
