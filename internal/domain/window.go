package domain

import "github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"

// Window временное окно в минутах с полуночи, полуоткрытое: [StartMin, EndMin)
type Window struct {
	StartMin int
	EndMin   int
}

// NewWindowFromTimes строит окно из пары "HH:MM" строк.
// Возвращает nil при некорректном формате или пустом окне (end <= start):
// кривые данные расписания трактуются как "закрыто", а не как ошибка.
func NewWindowFromTimes(open, close types.TimeString) *Window {
	startMin, err := open.Minutes()
	if err != nil {
		return nil
	}
	endMin, err := close.Minutes()
	if err != nil {
		return nil
	}

	w := Window{StartMin: startMin, EndMin: endMin}
	if !w.IsValid() {
		return nil
	}
	return &w
}

// IsValid возвращает true, если окно непустое
func (w Window) IsValid() bool {
	return w.EndMin > w.StartMin
}

// Duration возвращает длину окна в минутах
func (w Window) Duration() int {
	return w.EndMin - w.StartMin
}

// Contains возвращает true, если интервал [startMin, endMin) целиком лежит в окне
func (w Window) Contains(startMin, endMin int) bool {
	return startMin >= w.StartMin && endMin <= w.EndMin
}

// Overlaps возвращает true, если интервал [startMin, endMin) пересекается с окном.
// Граничные случаи (конец одного равен началу другого) пересечением не считаются.
func (w Window) Overlaps(startMin, endMin int) bool {
	return IntervalsOverlap(w.StartMin, w.EndMin, startMin, endMin)
}

// Intersect возвращает пересечение двух окон или nil, если оно пусто
func (w Window) Intersect(other Window) *Window {
	result := Window{
		StartMin: maxInt(w.StartMin, other.StartMin),
		EndMin:   minInt(w.EndMin, other.EndMin),
	}
	if !result.IsValid() {
		return nil
	}
	return &result
}

// IntervalsOverlap проверяет пересечение двух полуоткрытых интервалов
func IntervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
