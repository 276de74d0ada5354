package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	t.Run("valid time", func(t *testing.T) {
		ts, err := NewTimeStringFromString("09:30")
		require.NoError(t, err)
		assert.Equal(t, "09:30", ts.String())
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := NewTimeStringFromString("9:30am")
		require.ErrorIs(t, err, ErrInvalidTimeFormat)
	})

	t.Run("out of range hour", func(t *testing.T) {
		_, err := NewTimeStringFromString("25:00")
		require.ErrorIs(t, err, ErrInvalidTimeFormat)
	})
}

func TestTimeString_Minutes(t *testing.T) {
	ts := TimeString("10:45")
	min, err := ts.Minutes()
	require.NoError(t, err)
	assert.Equal(t, 645, min)
}

func TestNewTimeStringFromMinutes(t *testing.T) {
	ts, err := NewTimeStringFromMinutes(645)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:45"), ts)

	_, err = NewTimeStringFromMinutes(24 * 60)
	require.ErrorIs(t, err, ErrInvalidTimeFormat)

	_, err = NewTimeStringFromMinutes(-1)
	require.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestTimeString_AddMinutes(t *testing.T) {
	t.Run("within day", func(t *testing.T) {
		ts := TimeString("10:00")
		got, err := ts.AddMinutes(40)
		require.NoError(t, err)
		assert.Equal(t, TimeString("10:40"), got)
	})

	t.Run("crossing midnight is rejected", func(t *testing.T) {
		ts := TimeString("23:50")
		_, err := ts.AddMinutes(20)
		require.Error(t, err)
	})
}

func TestTimeString_Comparison(t *testing.T) {
	a := TimeString("09:00")
	b := TimeString("10:00")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsAfter(a))
}

func TestNewTimeString(t *testing.T) {
	now := time.Date(2025, 11, 3, 14, 5, 59, 0, time.UTC)
	assert.Equal(t, TimeString("14:05"), NewTimeString(now))
}
