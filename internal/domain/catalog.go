package domain

import "time"

// Service услуга салона. Неизменяемые справочные данные.
type Service struct {
	ID         string
	BusinessID int64
	Name       string
	Category   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FollowUpSpec описание завершающего этапа, выполняемого после паузы
// (например, сушка и укладка после окрашивания)
type FollowUpSpec struct {
	Name            string
	ServiceID       string
	DurationMinutes int
	WaitMinutes     int
}

// PricingItem бронируемый вариант услуги: длительность, цена и
// опциональный завершающий этап
type PricingItem struct {
	ID         string
	ServiceID  string
	BusinessID int64
	Name       string

	DurationMinMinutes int
	DurationMaxMinutes int

	Price    *float64
	PriceMax *float64

	FollowUp *FollowUpSpec

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasFollowUp возвращает true, если у варианта услуги есть завершающий этап
func (p *PricingItem) HasFollowUp() bool {
	return p.FollowUp != nil && p.FollowUp.DurationMinutes >= MinPhaseDurationMinutes
}

// ChainDurationMinutes возвращает длительность, которую фаза резервирует в расписании.
// Берётся верхняя граница диапазона: слот, вмещающий самый долгий вариант визита,
// может только освободиться раньше.
func (p *PricingItem) ChainDurationMinutes() int {
	if p.DurationMaxMinutes > 0 {
		return p.DurationMaxMinutes
	}
	return p.DurationMinMinutes
}

// ChainStepOrigin происхождение шага цепочки
type ChainStepOrigin string

const (
	// StepSelected шаг выбран клиентом
	StepSelected ChainStepOrigin = "selected"
	// StepCombo шаг добавлен правилом комбо
	StepCombo ChainStepOrigin = "combo"
	// StepFinishing завершающий этап, добавленный из followUp варианта услуги
	StepFinishing ChainStepOrigin = "finishing"
)

// ChainStep один шаг цепочки бронирования до подбора мастеров
type ChainStep struct {
	Service         ServiceKey
	ServiceType     string // название варианта услуги (PricingItem.Name)
	PricingItemID   string
	DurationMin     int
	FinishGapBefore int // пауза перед этим шагом, минуты
	Origin          ChainStepOrigin
}

// ComboStep один шаг правила комбо
type ComboStep struct {
	ServiceID       string
	PricingItemID   string
	FinishGapBefore int
	AutoAppended    bool // шаг добавляется правилом, клиент его не выбирал
}

// Combo админское правило: набор выбранных типов услуг разворачивается
// в фиксированную последовательность шагов с паузами
type Combo struct {
	ID         string
	BusinessID int64
	Name       string

	// TriggerPricingItemIDs набор типов услуг, при выборе которого срабатывает правило
	TriggerPricingItemIDs []string

	// Steps полная упорядоченная последовательность шагов, включая авто-добавленные
	Steps []ComboStep

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Matches возвращает true, если выбранный набор типов услуг в точности
// соответствует триггеру правила (без учёта порядка)
func (c *Combo) Matches(pricingItemIDs []string) bool {
	if len(pricingItemIDs) != len(c.TriggerPricingItemIDs) {
		return false
	}

	remaining := make(map[string]int, len(c.TriggerPricingItemIDs))
	for _, id := range c.TriggerPricingItemIDs {
		remaining[id]++
	}
	for _, id := range pricingItemIDs {
		if remaining[id] == 0 {
			return false
		}
		remaining[id]--
	}
	return true
}
