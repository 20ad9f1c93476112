package money

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
)

// Money keeps amounts in integer minor units (cents) to avoid floating point drift.
type Money struct {
	Amount   int64
	Currency string
}

// New constructs a Money value validating minimal invariants.
func New(amount int64, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	currency = strings.ToUpper(currency)
	return Money{Amount: amount, Currency: currency}, nil
}

// Must creates Money and panics if validation fails; useful in tests and fixtures.
func Must(amount int64, currency string) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// FromFloat converts a major-unit amount (e.g. 99.95) into Money, rounding
// half away from zero to the nearest cent.
func FromFloat(amount float64, currency string) Money {
	return Money{Amount: int64(math.Round(amount * 100)), Currency: strings.ToUpper(currency)}
}

// Float returns the amount in major units.
func (m Money) Float() float64 {
	return float64(m.Amount) / 100
}

// Add adds two money values ensuring currencies match.
func (m Money) Add(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Sub subtracts other from the receiver.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.ensureSameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}, nil
}

// Neg returns the negated amount preserving currency.
func (m Money) Neg() Money {
	return Money{Amount: -m.Amount, Currency: m.Currency}
}

// Multiply multiplies the amount by the provided factor.
func (m Money) Multiply(times int64) Money {
	return Money{Amount: m.Amount * times, Currency: m.Currency}
}

// ApplyPercent adjusts the amount by the given percentage, rounding to the
// nearest cent. ApplyPercent(10) on 100.00 yields 110.00.
func (m Money) ApplyPercent(percent float64) Money {
	return Money{
		Amount:   int64(math.Round(float64(m.Amount) * (1 + percent/100))),
		Currency: m.Currency,
	}
}

// Scale multiplies the amount by an arbitrary factor, rounding to the nearest
// cent. Used for tax and fee rates expressed as fractions.
func (m Money) Scale(factor float64) Money {
	return Money{Amount: int64(math.Round(float64(m.Amount) * factor)), Currency: m.Currency}
}

// ClampNonNegative floors the amount at zero.
func (m Money) ClampNonNegative() Money {
	if m.Amount < 0 {
		return Money{Amount: 0, Currency: m.Currency}
	}
	return m
}

// IsZero returns true if the amount equals zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// String renders the amount in major units, e.g. "114.30 USD".
func (m Money) String() string {
	sign := ""
	if m.Amount < 0 {
		sign = "-"
	}
	abs := absInt64(m.Amount)
	return fmt.Sprintf("%s%d.%02d %s", sign, abs/100, abs%100, m.Currency)
}

func (m Money) ensureSameCurrency(other Money) error {
	if m.Currency == "" || other.Currency == "" {
		return ErrInvalidCurrency
	}
	if m.Currency != other.Currency {
		return ErrCurrencyMismatch
	}
	return nil
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
