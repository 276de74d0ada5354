package models

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetClientBookingsRequest запрос на получение бронирований клиента
type GetClientBookingsRequest struct {
	ClientID int64   `json:"clientId"`
	Status   *string `json:"status,omitempty"`
}

// GetBusinessBookingsRequest запрос на получение бронирований салона
type GetBusinessBookingsRequest struct {
	UserID          int64      `json:"userId"`
	BusinessID      int64      `json:"businessId"`
	WorkerID        *string    `json:"workerId,omitempty"`        // Фильтр по мастеру (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessBookingsRequest) ToDomainFilter() (domain.BusinessBookingsFilter, error) {
	filter := domain.BusinessBookingsFilter{
		BusinessID:      r.BusinessID,
		WorkerID:        r.WorkerID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// FollowUpResponse завершающий этап фазы визита
type FollowUpResponse struct {
	ServiceID       string `json:"serviceId"`
	ServiceName     string `json:"serviceName"`
	ServiceType     string `json:"serviceType,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	WaitMinutes     int    `json:"waitMinutes"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	WorkerID        string `json:"workerId"`
	WorkerName      string `json:"workerName"`
}

// PhaseResponse одна фаза визита
type PhaseResponse struct {
	ServiceOrder    int               `json:"serviceOrder"`
	ServiceID       string            `json:"serviceId"`
	ServiceName     string            `json:"serviceName"`
	ServiceType     string            `json:"serviceType,omitempty"`
	DurationMinutes int               `json:"durationMinutes"`
	StartTime       string            `json:"startTime"`
	EndTime         string            `json:"endTime"`
	WorkerID        string            `json:"workerId"`
	WorkerName      string            `json:"workerName"`
	FollowUp        *FollowUpResponse `json:"followUp,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID           int64           `json:"id"`
	PublicID     uuid.UUID       `json:"publicId"`
	BusinessID   int64           `json:"businessId"`
	ClientID     int64           `json:"clientId"`
	BookingDate  string          `json:"bookingDate"` // "2025-11-03"
	StartTime    string          `json:"startTime"`   // "10:00"
	EndTime      string          `json:"endTime"`
	TotalMinutes int             `json:"totalMinutes"`
	Status       string          `json:"status"`
	Phases       []PhaseResponse `json:"phases"`

	Notes              *string `json:"notes,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		PublicID:           b.PublicID,
		BusinessID:         b.BusinessID,
		ClientID:           b.ClientID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime.String(),
		TotalMinutes:       b.TotalMin,
		Status:             string(b.Status),
		Phases:             fromDomainPhases(b.Phases),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// fromDomainPhases конвертирует фазы визита в DTO
func fromDomainPhases(phases []domain.ResolvedPhase) []PhaseResponse {
	result := make([]PhaseResponse, len(phases))

	for i, phase := range phases {
		result[i] = PhaseResponse{
			ServiceOrder:    phase.ServiceOrder,
			ServiceID:       phase.ServiceID,
			ServiceName:     phase.ServiceName,
			ServiceType:     phase.ServiceType,
			DurationMinutes: phase.DurationMin,
			StartTime:       phase.StartAt.String(),
			EndTime:         phase.EndAt.String(),
			WorkerID:        phase.WorkerID,
			WorkerName:      phase.WorkerName,
		}

		if fu := phase.FollowUp; fu != nil {
			result[i].FollowUp = &FollowUpResponse{
				ServiceID:       fu.ServiceID,
				ServiceName:     fu.ServiceName,
				ServiceType:     fu.ServiceType,
				DurationMinutes: fu.DurationMin,
				WaitMinutes:     fu.WaitMin,
				StartTime:       fu.StartAt.String(),
				EndTime:         fu.EndAt.String(),
				WorkerID:        fu.WorkerID,
				WorkerName:      fu.WorkerName,
			}
		}
	}

	return result
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	if bookings == nil {
		return &BookingListResponse{
			Bookings: []BookingResponse{},
		}
	}

	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, len(bookings)),
	}

	for i, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings[i] = *bookingResp
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	// Валидируем статус
	validStatuses := []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusCancelledByClient,
		domain.StatusCancelledByBusiness,
		domain.StatusNoShow,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
