package daterange_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"innkeep/internal/domain/shared/daterange"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRejectsInvertedAndZeroNightRanges(t *testing.T) {
	_, err := daterange.New(date(2026, 3, 10), date(2026, 3, 10))
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	_, err = daterange.New(date(2026, 3, 12), date(2026, 3, 10))
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestNewNormalizesToMidnight(t *testing.T) {
	r, err := daterange.New(
		time.Date(2026, 3, 10, 15, 4, 5, 0, time.UTC),
		time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, date(2026, 3, 10), r.CheckIn)
	assert.Equal(t, date(2026, 3, 12), r.CheckOut)
	assert.Equal(t, 2, r.Nights())
}

func TestDatesExcludeCheckOut(t *testing.T) {
	r, err := daterange.New(date(2026, 3, 10), date(2026, 3, 13))
	require.NoError(t, err)

	nights := r.Dates()
	require.Len(t, nights, 3)
	assert.Equal(t, date(2026, 3, 10), nights[0])
	assert.Equal(t, date(2026, 3, 12), nights[2])
}

func TestContains(t *testing.T) {
	r, err := daterange.New(date(2026, 3, 10), date(2026, 3, 12))
	require.NoError(t, err)

	assert.True(t, r.Contains(date(2026, 3, 10)))
	assert.True(t, r.Contains(date(2026, 3, 11)))
	assert.False(t, r.Contains(date(2026, 3, 12)), "check-out is not a stayed night")
	assert.False(t, r.Contains(date(2026, 3, 9)))
}
