package domain

// Настройки движка подбора слотов по умолчанию
const (
	// DefaultSlotGranularityMinutes шаг генерации кандидатных времён начала
	DefaultSlotGranularityMinutes = 15

	// DefaultMinBookingNoticeMinutes минимальное время до начала визита при записи на сегодня
	DefaultMinBookingNoticeMinutes = 0

	// DefaultAdvanceBookingDays максимальная глубина записи (0 = без ограничения)
	DefaultAdvanceBookingDays = 90
)

// Ограничения бизнес-валидации
const (
	MinPhaseDurationMinutes     = 1
	MaxPhaseDurationMinutes     = 480 // 8 часов
	MaxWaitGapMinutes           = 240 // 4 часа
	MaxChainPhases              = 12
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Форматы времени и даты
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses статусы бронирований, не блокирующие время мастеров.
// Используются при построении busy-интервалов и фильтрации выборок.
var InactiveStatuses = []BookingStatus{
	StatusCancelledByClient,
	StatusCancelledByBusiness,
	StatusNoShow,
}

// ActiveStatuses статусы бронирований, блокирующие время мастеров
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}
