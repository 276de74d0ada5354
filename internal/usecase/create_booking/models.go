package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID         int64            // ID клиента
	BusinessID     int64            // ID салона
	PricingItemIDs []string         // Выбранные типы услуг в порядке выбора клиента
	WorkerID       *string          // Предпочитаемый мастер (nil = любой)
	Date           time.Time        // Дата визита (без времени)
	StartTime      types.TimeString // Время начала цепочки
	Notes          *string          // Комментарий клиента
}

// FollowUpResult завершающий этап фазы в ответе
type FollowUpResult struct {
	ServiceID   string
	ServiceName string
	ServiceType string
	DurationMin int
	WaitMin     int
	StartTime   types.TimeString
	EndTime     types.TimeString
	WorkerID    string
	WorkerName  string
}

// PhaseResult одна фаза созданного бронирования
type PhaseResult struct {
	ServiceOrder int
	ServiceID    string
	ServiceName  string
	ServiceType  string
	DurationMin  int
	StartTime    types.TimeString
	EndTime      types.TimeString
	WorkerID     string
	WorkerName   string
	FollowUp     *FollowUpResult
}

// Response модель ответа на создание бронирования
type Response struct {
	ID           int64
	PublicID     uuid.UUID
	BusinessID   int64
	ClientID     int64
	BookingDate  time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	TotalMinutes int
	Status       string
	Phases       []PhaseResult
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// toResponse конвертирует сохранённое бронирование в модель ответа
func toResponse(booking *domain.Booking) *Response {
	phases := make([]PhaseResult, 0, len(booking.Phases))
	for _, phase := range booking.Phases {
		result := PhaseResult{
			ServiceOrder: phase.ServiceOrder,
			ServiceID:    phase.ServiceID,
			ServiceName:  phase.ServiceName,
			ServiceType:  phase.ServiceType,
			DurationMin:  phase.DurationMin,
			StartTime:    phase.StartAt,
			EndTime:      phase.EndAt,
			WorkerID:     phase.WorkerID,
			WorkerName:   phase.WorkerName,
		}
		if phase.FollowUp != nil {
			result.FollowUp = &FollowUpResult{
				ServiceID:   phase.FollowUp.ServiceID,
				ServiceName: phase.FollowUp.ServiceName,
				ServiceType: phase.FollowUp.ServiceType,
				DurationMin: phase.FollowUp.DurationMin,
				WaitMin:     phase.FollowUp.WaitMin,
				StartTime:   phase.FollowUp.StartAt,
				EndTime:     phase.FollowUp.EndAt,
				WorkerID:    phase.FollowUp.WorkerID,
				WorkerName:  phase.FollowUp.WorkerName,
			}
		}
		phases = append(phases, result)
	}

	return &Response{
		ID:           booking.ID,
		PublicID:     booking.PublicID,
		BusinessID:   booking.BusinessID,
		ClientID:     booking.ClientID,
		BookingDate:  booking.BookingDate,
		StartTime:    booking.StartTime,
		EndTime:      booking.EndTime,
		TotalMinutes: booking.TotalMin,
		Status:       string(booking.Status),
		Phases:       phases,
		Notes:        booking.Notes,
		CreatedAt:    booking.CreatedAt,
		UpdatedAt:    booking.UpdatedAt,
	}
}
