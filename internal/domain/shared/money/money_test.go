package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/internal/domain/shared/money"
)

func TestNewValidatesCurrency(t *testing.T) {
	m, err := money.New(1050, "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", m.Currency)
	assert.Equal(t, int64(1050), m.Amount)

	_, err = money.New(100, "dollars")
	assert.ErrorIs(t, err, money.ErrInvalidCurrency)
}

func TestFromFloatRoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, int64(1005), money.FromFloat(10.045, "USD").Amount)
	assert.Equal(t, int64(-1005), money.FromFloat(-10.045, "USD").Amount)
	assert.Equal(t, int64(11430), money.FromFloat(114.30, "USD").Amount)
}

func TestAddRejectsCurrencyMismatch(t *testing.T) {
	usd := money.Must(100, "USD")
	eur := money.Must(100, "EUR")

	_, err := usd.Add(eur)
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)

	sum, err := usd.Add(money.Must(250, "USD"))
	require.NoError(t, err)
	assert.Equal(t, int64(350), sum.Amount)
}

func TestApplyPercent(t *testing.T) {
	base := money.Must(10000, "USD")
	assert.Equal(t, int64(11000), base.ApplyPercent(10).Amount)
	assert.Equal(t, int64(9000), base.ApplyPercent(-10).Amount)
	// 100.00 * 1.0275 = 102.75, exact cents.
	assert.Equal(t, int64(10275), base.ApplyPercent(2.75).Amount)
	// Rounding at the cent: 99.99 * 1.10 = 109.989 -> 109.99.
	assert.Equal(t, int64(10999), money.Must(9999, "USD").ApplyPercent(10).Amount)
}

func TestScale(t *testing.T) {
	base := money.Must(24000, "USD")
	assert.Equal(t, int64(2400), base.Scale(0.10).Amount)
	assert.Equal(t, int64(0), base.Scale(0).Amount)
}

func TestClampNonNegative(t *testing.T) {
	assert.Equal(t, int64(0), money.Must(-500, "USD").ClampNonNegative().Amount)
	assert.Equal(t, int64(500), money.Must(500, "USD").ClampNonNegative().Amount)
}

func TestString(t *testing.T) {
	assert.Equal(t, "114.30 USD", money.Must(11430, "USD").String())
	assert.Equal(t, "0.05 EUR", money.Must(5, "EUR").String())
}

func TestStringKeepsSignOnSmallNegativeAmounts(t *testing.T) {
	assert.Equal(t, "-0.50 USD", money.Must(-50, "USD").String())
	assert.Equal(t, "-123.45 USD", money.Must(-12345, "USD").String())
	assert.Equal(t, "0.00 USD", money.Must(0, "USD").String())
}
