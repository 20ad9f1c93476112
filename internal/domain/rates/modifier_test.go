package rates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeep/internal/domain/rates"
	"innkeep/internal/domain/shared/money"
)

func TestModifierApply(t *testing.T) {
	base := money.Must(10000, "USD")

	tests := []struct {
		name     string
		modifier rates.Modifier
		want     int64
	}{
		{"percentage up", rates.Modifier{Kind: rates.ModifierPercentage, Value: 10}, 11000},
		{"percentage down", rates.Modifier{Kind: rates.ModifierPercentage, Value: -15}, 8500},
		{"fixed add", rates.Modifier{Kind: rates.ModifierFixed, Value: 5}, 10500},
		{"fixed subtract", rates.Modifier{Kind: rates.ModifierFixed, Value: -3}, 9700},
		{"absolute replace", rates.Modifier{Kind: rates.ModifierAbsolute, Value: 79.99}, 7999},
		{"unknown kind untouched", rates.Modifier{Kind: "mystery", Value: 50}, 10000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.modifier.Apply(base)
			assert.Equal(t, tt.want, got.Amount)
			assert.Equal(t, "USD", got.Currency)
		})
	}
}

func TestModifierValidate(t *testing.T) {
	assert.NoError(t, rates.Modifier{Kind: rates.ModifierPercentage, Value: 10}.Validate())
	assert.NoError(t, rates.Modifier{Kind: rates.ModifierAbsolute, Value: 0}.Validate())
	assert.ErrorIs(t, rates.Modifier{Kind: "coupon"}.Validate(), rates.ErrUnknownModifierKind)
}

func TestModifierIsNoop(t *testing.T) {
	assert.True(t, rates.Modifier{Kind: rates.ModifierPercentage, Value: 0}.IsNoop())
	assert.True(t, rates.Modifier{Kind: rates.ModifierFixed, Value: 0}.IsNoop())
	// Absolute zero sets the price to zero, it is not a noop.
	assert.False(t, rates.Modifier{Kind: rates.ModifierAbsolute, Value: 0}.IsNoop())
	assert.False(t, rates.Modifier{Kind: rates.ModifierPercentage, Value: 1}.IsNoop())
}
