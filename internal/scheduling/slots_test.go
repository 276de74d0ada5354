package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
)

func TestCandidateStartTimes(t *testing.T) {
	window := domain.Window{StartMin: 540, EndMin: 660} // 09:00 - 11:00

	t.Run("granularity and inclusive upper bound", func(t *testing.T) {
		// Цепочка на 60 минут: последний допустимый старт ровно 10:00
		got := CandidateStartTimes(window, 60, 15)
		assert.Equal(t, []int{540, 555, 570, 585, 600}, got)
	})

	t.Run("chain longer than the day yields no candidates", func(t *testing.T) {
		assert.Empty(t, CandidateStartTimes(window, 180, 15))
	})

	t.Run("chain exactly filling the day yields opening time only", func(t *testing.T) {
		assert.Equal(t, []int{540}, CandidateStartTimes(window, 120, 15))
	})

	t.Run("invalid window yields no candidates", func(t *testing.T) {
		assert.Empty(t, CandidateStartTimes(domain.Window{StartMin: 660, EndMin: 540}, 30, 15))
	})
}

func TestFilterPastCandidates(t *testing.T) {
	candidates := []int{540, 555, 570, 585, 600}
	date := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

	t.Run("future date passes through", func(t *testing.T) {
		now := time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, candidates, FilterPastCandidates(candidates, date, now, 0))
	})

	t.Run("past date yields nothing", func(t *testing.T) {
		now := time.Date(2025, 11, 4, 0, 0, 0, 0, time.UTC)
		assert.Empty(t, FilterPastCandidates(candidates, date, now, 0))
	})

	t.Run("today filters candidates at or before now", func(t *testing.T) {
		// Сейчас 09:15 - кандидат 09:15 отбрасывается, 09:30 и позже остаются
		now := time.Date(2025, 11, 3, 9, 15, 0, 0, time.UTC)
		assert.Equal(t, []int{570, 585, 600}, FilterPastCandidates(candidates, date, now, 0))
	})

	t.Run("today honors minimum notice", func(t *testing.T) {
		// Сейчас 09:00, минимум 30 минут до записи: первый допустимый старт 09:30
		now := time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC)
		assert.Equal(t, []int{570, 585, 600}, FilterPastCandidates(candidates, date, now, 30))
	})
}
