package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

func TestIntervalsOverlap(t *testing.T) {
	t.Run("real overlap", func(t *testing.T) {
		assert.True(t, IntervalsOverlap(600, 660, 630, 690))
	})

	t.Run("touching intervals do not overlap", func(t *testing.T) {
		assert.False(t, IntervalsOverlap(600, 660, 660, 720))
		assert.False(t, IntervalsOverlap(660, 720, 600, 660))
	})

	t.Run("containment overlaps", func(t *testing.T) {
		assert.True(t, IntervalsOverlap(600, 720, 630, 660))
	})
}

func TestWindow_Intersect(t *testing.T) {
	business := Window{StartMin: 540, EndMin: 1080} // 09:00 - 18:00
	worker := Window{StartMin: 600, EndMin: 960}    // 10:00 - 16:00

	got := business.Intersect(worker)
	require.NotNil(t, got)
	assert.Equal(t, Window{StartMin: 600, EndMin: 960}, *got)

	t.Run("empty intersection is nil", func(t *testing.T) {
		morning := Window{StartMin: 480, EndMin: 600}
		evening := Window{StartMin: 1020, EndMin: 1200}
		assert.Nil(t, morning.Intersect(evening))
	})

	t.Run("touching windows give empty intersection", func(t *testing.T) {
		a := Window{StartMin: 480, EndMin: 600}
		b := Window{StartMin: 600, EndMin: 720}
		assert.Nil(t, a.Intersect(b))
	})
}

func TestWindow_Contains(t *testing.T) {
	w := Window{StartMin: 540, EndMin: 1080}

	assert.True(t, w.Contains(540, 600))
	assert.True(t, w.Contains(1020, 1080))
	assert.False(t, w.Contains(500, 600))
	assert.False(t, w.Contains(1050, 1081))
}

func TestNewWindowFromTimes(t *testing.T) {
	t.Run("valid window", func(t *testing.T) {
		w := NewWindowFromTimes(types.TimeString("09:00"), types.TimeString("18:00"))
		require.NotNil(t, w)
		assert.Equal(t, 540, w.StartMin)
		assert.Equal(t, 1080, w.EndMin)
	})

	t.Run("inverted window is treated as closed", func(t *testing.T) {
		assert.Nil(t, NewWindowFromTimes(types.TimeString("18:00"), types.TimeString("09:00")))
	})

	t.Run("garbage input is treated as closed", func(t *testing.T) {
		assert.Nil(t, NewWindowFromTimes(types.TimeString("whenever"), types.TimeString("18:00")))
	})
}

func TestBreakRange_BlocksPhase(t *testing.T) {
	br := BreakRange{StartMin: 780, EndMin: 840} // 13:00 - 14:00

	t.Run("phase fully inside break is blocked", func(t *testing.T) {
		assert.True(t, br.BlocksPhase(790, 820))
		assert.True(t, br.BlocksPhase(780, 840))
	})

	t.Run("phase straddling break is not blocked", func(t *testing.T) {
		assert.False(t, br.BlocksPhase(760, 800))
		assert.False(t, br.BlocksPhase(820, 880))
		assert.False(t, br.BlocksPhase(760, 880))
	})

	t.Run("phase outside break is not blocked", func(t *testing.T) {
		assert.False(t, br.BlocksPhase(600, 660))
	})
}
