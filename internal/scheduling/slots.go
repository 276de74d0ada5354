package scheduling

import (
	"time"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
)

// CandidateStartTimes генерирует кандидатные времена начала цепочки:
// от открытия салона до (закрытие - полная длительность) включительно,
// с фиксированным шагом granularityMin.
//
// Это дешёвое надмножество: реальная выполнимость (мастера, конфликты,
// перерывы) решается резолвером по каждому кандидату отдельно.
func CandidateStartTimes(businessWindow domain.Window, totalDurationMin, granularityMin int) []int {
	if granularityMin <= 0 {
		granularityMin = domain.DefaultSlotGranularityMinutes
	}
	if totalDurationMin <= 0 || !businessWindow.IsValid() {
		return []int{}
	}

	latestStart := businessWindow.EndMin - totalDurationMin
	candidates := make([]int, 0)
	for start := businessWindow.StartMin; start <= latestStart; start += granularityMin {
		candidates = append(candidates, start)
	}
	return candidates
}

// FilterPastCandidates отбрасывает кандидатов, на которые уже нельзя записаться.
//
// Для прошедшей даты список пустой. Для сегодняшней даты отбрасываются
// кандидаты, начинающиеся не позже "сейчас" (в локальном времени салона)
// и не выдерживающие минимальное время до записи. Будущие даты проходят целиком.
func FilterPastCandidates(candidates []int, date, now time.Time, minNoticeMin int) []int {
	if isDateInPast(date, now) {
		return []int{}
	}
	if !isSameDay(date, now) {
		return candidates
	}

	nowMin := now.Hour()*60 + now.Minute()
	filtered := make([]int, 0, len(candidates))
	for _, start := range candidates {
		if start <= nowMin {
			continue
		}
		if start < nowMin+minNoticeMin {
			continue
		}
		filtered = append(filtered, start)
	}
	return filtered
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата раньше сегодняшнего дня
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
