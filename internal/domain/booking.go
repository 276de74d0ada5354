package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusInProgress          BookingStatus = "in_progress"
	StatusCompleted           BookingStatus = "completed"
	StatusCancelledByClient   BookingStatus = "cancelled_by_client"
	StatusCancelledByBusiness BookingStatus = "cancelled_by_business"
	StatusNoShow              BookingStatus = "no_show"
)

// ResolvedFollowUp завершающий этап фазы после подбора мастера
type ResolvedFollowUp struct {
	ServiceID   string
	ServiceName string
	ServiceType string
	DurationMin int
	WaitMin     int
	StartAt     types.TimeString
	EndAt       types.TimeString
	WorkerID    string
	WorkerName  string
}

// ResolvedPhase одна фаза визита после подбора мастера.
// Список фаз создаётся заново при каждом вызове движка и
// не удерживается им - сохранение лежит на вызывающей стороне.
type ResolvedPhase struct {
	ServiceOrder int
	ServiceID    string
	ServiceName  string
	ServiceType  string
	DurationMin  int
	StartAt      types.TimeString
	EndAt        types.TimeString
	WorkerID     string
	WorkerName   string
	FollowUp     *ResolvedFollowUp
}

// Booking сохранённое бронирование
type Booking struct {
	ID         int64
	PublicID   uuid.UUID
	BusinessID int64
	ClientID   int64

	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	TotalMin    int
	Status      BookingStatus

	Phases []ResolvedPhase

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive возвращает true, если бронирование блокирует время мастеров
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelledByClient &&
		b.Status != StatusCancelledByBusiness &&
		b.Status != StatusNoShow
}

// CanBeCancelled возвращает true, если бронирование можно отменить
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsCancelled возвращает true, если бронирование отменено
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByClient || b.Status == StatusCancelledByBusiness
}

// BookedPhase один занятый отрезок уже сохранённого бронирования
type BookedPhase struct {
	WorkerID string
	StartAt  types.TimeString
	EndAt    types.TimeString
}

// BookingForDate минимальная проекция сохранённого бронирования на дату.
// Используется только для вычисления busy-интервалов и никогда не мутируется движком.
type BookingForDate struct {
	ID       int64
	Status   BookingStatus
	WorkerID string
	StartAt  types.TimeString
	EndAt    types.TimeString

	DurationMin int
	WaitMin     int

	SecondaryWorkerID *string
	SecondaryStartAt  types.TimeString
	SecondaryEndAt    types.TimeString

	FollowUpWorkerID *string
	FollowUpStartAt  types.TimeString
	FollowUpEndAt    types.TimeString

	Phases []BookedPhase
}

// IsActive возвращает true, если бронирование блокирует время мастеров
func (b *BookingForDate) IsActive() bool {
	return b.Status != StatusCancelledByClient &&
		b.Status != StatusCancelledByBusiness &&
		b.Status != StatusNoShow
}

// BusinessBookingsFilter фильтр для выборки бронирований салона
type BusinessBookingsFilter struct {
	BusinessID      int64          // Обязательный параметр
	WorkerID        *string        // Фильтр по мастеру (опционально)
	StartDate       *time.Time     // Начало периода (опционально)
	EndDate         *time.Time     // Конец периода (опционально)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отменённые и no-show
}
