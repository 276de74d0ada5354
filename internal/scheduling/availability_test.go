package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"

	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

func businessHours(weekday time.Weekday, open, close string) *domain.BusinessHours {
	o := types.TimeString(open)
	c := types.TimeString(close)
	return &domain.BusinessHours{
		BusinessID: 1,
		Entries: []domain.OpeningHours{
			{Weekday: weekday, Open: &o, Close: &c},
		},
	}
}

func TestResolveBusinessWindow(t *testing.T) {
	monday := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	t.Run("open day", func(t *testing.T) {
		w := ResolveBusinessWindow(businessHours(time.Monday, "09:00", "20:00"), monday)
		require.NotNil(t, w)
		assert.Equal(t, domain.Window{StartMin: 540, EndMin: 1200}, *w)
	})

	t.Run("no entry for weekday means closed", func(t *testing.T) {
		assert.Nil(t, ResolveBusinessWindow(businessHours(time.Tuesday, "09:00", "20:00"), monday))
	})

	t.Run("day marked open with null times is closed", func(t *testing.T) {
		hours := &domain.BusinessHours{
			Entries: []domain.OpeningHours{{Weekday: time.Monday}},
		}
		assert.Nil(t, ResolveBusinessWindow(hours, monday))
	})

	t.Run("inverted hours are treated as closed", func(t *testing.T) {
		assert.Nil(t, ResolveBusinessWindow(businessHours(time.Monday, "20:00", "09:00"), monday))
	})

	t.Run("nil hours", func(t *testing.T) {
		assert.Nil(t, ResolveBusinessWindow(nil, monday))
	})
}

func TestResolveWorkerWindow(t *testing.T) {
	monday := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	business := &domain.Window{StartMin: 540, EndMin: 1200}

	t.Run("no availability config defaults to business window", func(t *testing.T) {
		w := &domain.Worker{ID: "avi", Active: true}
		assert.Equal(t, business, ResolveWorkerWindow(w, monday, business))
	})

	t.Run("config without weekday entry means closed", func(t *testing.T) {
		open := types.TimeString("10:00")
		close := types.TimeString("16:00")
		w := &domain.Worker{
			ID:     "avi",
			Active: true,
			Availability: []domain.OpeningHours{
				{Weekday: time.Tuesday, Open: &open, Close: &close},
			},
		}
		assert.Nil(t, ResolveWorkerWindow(w, monday, business))
	})

	t.Run("weekday entry yields its own window", func(t *testing.T) {
		open := types.TimeString("10:00")
		close := types.TimeString("16:00")
		w := &domain.Worker{
			ID:     "avi",
			Active: true,
			Availability: []domain.OpeningHours{
				{Weekday: time.Monday, Open: &open, Close: &close},
			},
		}
		got := ResolveWorkerWindow(w, monday, business)
		require.NotNil(t, got)
		assert.Equal(t, domain.Window{StartMin: 600, EndMin: 960}, *got)
	})
}

func TestBusinessBreaksFor(t *testing.T) {
	monday := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	t.Run("breaks of the weekday entry", func(t *testing.T) {
		hours := businessHours(time.Monday, "09:00", "20:00")
		hours.Entries[0].Breaks = []domain.BreakRange{{StartMin: 780, EndMin: 840}}

		got := BusinessBreaksFor(hours, monday)
		require.Len(t, got, 1)
		assert.Equal(t, domain.BreakRange{StartMin: 780, EndMin: 840}, got[0])
	})

	t.Run("no entry for weekday", func(t *testing.T) {
		hours := businessHours(time.Tuesday, "09:00", "20:00")
		hours.Entries[0].Breaks = []domain.BreakRange{{StartMin: 780, EndMin: 840}}

		assert.Nil(t, BusinessBreaksFor(hours, monday))
	})

	t.Run("nil hours", func(t *testing.T) {
		assert.Nil(t, BusinessBreaksFor(nil, monday))
	})
}

func TestEffectiveWindow(t *testing.T) {
	business := &domain.Window{StartMin: 540, EndMin: 1080}
	worker := &domain.Window{StartMin: 600, EndMin: 1200}

	t.Run("intersection", func(t *testing.T) {
		got := EffectiveWindow(business, worker)
		require.NotNil(t, got)
		assert.Equal(t, domain.Window{StartMin: 600, EndMin: 1080}, *got)
	})

	t.Run("nil on either side yields nil", func(t *testing.T) {
		assert.Nil(t, EffectiveWindow(nil, worker))
		assert.Nil(t, EffectiveWindow(business, nil))
	})
}

func TestBuildWorkerWindows(t *testing.T) {
	monday := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	business := &domain.Window{StartMin: 540, EndMin: 1200}

	open := types.TimeString("10:00")
	close := types.TimeString("16:00")
	workers := []*domain.Worker{
		{ID: "default", Active: true},
		{ID: "scheduled", Active: true, Availability: []domain.OpeningHours{
			{Weekday: time.Monday, Open: &open, Close: &close},
		}},
		{ID: "off", Active: true, Availability: []domain.OpeningHours{
			{Weekday: time.Tuesday, Open: &open, Close: &close},
		}},
	}

	windows := BuildWorkerWindows(workers, monday, business)

	require.NotNil(t, windows["default"])
	assert.Equal(t, *business, *windows["default"])

	require.NotNil(t, windows["scheduled"])
	assert.Equal(t, domain.Window{StartMin: 600, EndMin: 960}, *windows["scheduled"])

	assert.Nil(t, windows["off"])
}
