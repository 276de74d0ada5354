package domain

import "time"

// BusinessHours расписание работы салона: по одной записи на день недели
type BusinessHours struct {
	BusinessID int64
	Entries    []OpeningHours
	UpdatedAt  time.Time
}

// EntryFor возвращает запись расписания на день недели или nil, если записи нет
func (h *BusinessHours) EntryFor(weekday time.Weekday) *OpeningHours {
	for i := range h.Entries {
		if h.Entries[i].Weekday == weekday {
			return &h.Entries[i]
		}
	}
	return nil
}

// BookingSettings настройки записи салона
type BookingSettings struct {
	ID         int64
	BusinessID int64

	// SlotGranularityMinutes шаг генерации кандидатных времён начала
	SlotGranularityMinutes int

	// MinBookingNoticeMinutes минимальное время до начала визита при записи на сегодня
	MinBookingNoticeMinutes int

	// AdvanceBookingDays максимальная глубина записи, 0 = без ограничения
	AdvanceBookingDays int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasAdvanceBookingLimit возвращает true, если глубина записи ограничена
func (s *BookingSettings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}

// DefaultBookingSettings возвращает настройки по умолчанию для салона без конфигурации
func DefaultBookingSettings(businessID int64) *BookingSettings {
	return &BookingSettings{
		BusinessID:              businessID,
		SlotGranularityMinutes:  DefaultSlotGranularityMinutes,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
	}
}
