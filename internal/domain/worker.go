package domain

import (
	"strings"
	"time"

	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

// ServiceKey ключ услуги для проверки совместимости мастера.
// В исторических данных список услуг мастера может содержать как id услуг,
// так и их названия, поэтому ключ несёт оба варианта и разрешается один раз
// при сборке цепочки.
type ServiceKey struct {
	ID   string
	Name string
}

// Candidates возвращает непустые варианты ключа для сравнения
func (k ServiceKey) Candidates() []string {
	candidates := make([]string, 0, 2)
	if id := strings.TrimSpace(k.ID); id != "" {
		candidates = append(candidates, id)
	}
	if name := strings.TrimSpace(k.Name); name != "" {
		candidates = append(candidates, name)
	}
	return candidates
}

// BreakRange перерыв внутри рабочего дня, в минутах с полуночи
type BreakRange struct {
	StartMin int
	EndMin   int
}

// BlocksPhase возвращает true, если фаза [startMin, endMin) целиком попадает в перерыв.
// Частичное пересечение перерыв не блокирует, а wait-разрыв цепочки
// вообще не проверяется: фильтрация идёт по отдельным фазам.
func (b BreakRange) BlocksPhase(startMin, endMin int) bool {
	return startMin >= b.StartMin && endMin <= b.EndMin
}

// OpeningHours расписание на один день недели.
// Open/Close равные nil означают "закрыто в этот день".
type OpeningHours struct {
	Weekday time.Weekday
	Open    *types.TimeString
	Close   *types.TimeString
	Breaks  []BreakRange
}

// Window возвращает рабочее окно дня или nil, если день закрыт
// либо запись некорректна (close <= open)
func (h OpeningHours) Window() *Window {
	if h.Open == nil || h.Close == nil {
		return nil
	}
	return NewWindowFromTimes(*h.Open, *h.Close)
}

// Worker мастер салона
type Worker struct {
	ID       string
	Name     string
	Active   bool
	Services []string // id или названия услуг; пустой список = ноль умений

	// Availability индивидуальное расписание, по одной записи на день недели.
	// Пустой срез означает "расписание не задано" - мастер работает
	// по часам салона.
	Availability []OpeningHours
}

// CanPerform возвращает true, если мастер умеет выполнять услугу.
// Сравнение по точному совпадению после обрезки пробелов: в списке услуг
// мастера может лежать id услуги или её название. Пустой список означает
// ноль умений, а не "умеет всё".
func (w *Worker) CanPerform(key ServiceKey) bool {
	candidates := key.Candidates()
	if len(candidates) == 0 {
		return false
	}

	for _, entry := range w.Services {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		for _, candidate := range candidates {
			if trimmed == candidate {
				return true
			}
		}
	}
	return false
}

// IsBookable возвращает true, если мастеру вообще можно назначать фазы.
// Неактивный мастер не участвует в подборе независимо от умений.
func (w *Worker) IsBookable() bool {
	return w.Active
}

// HasAvailabilityConfig возвращает true, если у мастера задано индивидуальное расписание
func (w *Worker) HasAvailabilityConfig() bool {
	return len(w.Availability) > 0
}

// AvailabilityFor возвращает запись расписания на день недели или nil, если записи нет
func (w *Worker) AvailabilityFor(weekday time.Weekday) *OpeningHours {
	for i := range w.Availability {
		if w.Availability[i].Weekday == weekday {
			return &w.Availability[i]
		}
	}
	return nil
}
