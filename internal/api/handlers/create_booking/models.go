package create_booking

import (
	"time"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	createBooking "github.com/amitayhanson-cloud/salon-platform-sub002/internal/usecase/create_booking"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BusinessID     int64    `json:"businessId" validate:"required,gt=0"`
	ServiceTypeIDs []string `json:"serviceTypeIds" validate:"required,min=1,max=12,dive,required"`
	WorkerID       *string  `json:"workerId,omitempty" validate:"omitempty,min=1"`
	BookingDate    string   `json:"bookingDate" validate:"required"` // "2025-11-03"
	StartTime      string   `json:"startTime" validate:"required"`   // "10:00"
	Notes          *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// FollowUpResponse завершающий этап фазы
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

// PhaseResponse одна фаза созданного бронирования
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

// BookingResponse HTTP response model
type BookingResponse struct {
	ID           int64           `json:"id"`
	PublicID     string          `json:"publicId"`
	BusinessID   int64           `json:"businessId"`
	ClientID     int64           `json:"clientId"`
	BookingDate  string          `json:"bookingDate"`
	StartTime    string          `json:"startTime"`
	EndTime      string          `json:"endTime"`
	TotalMinutes int             `json:"totalMinutes"`
	Status       string          `json:"status"`
	Phases       []PhaseResponse `json:"phases"`
	Notes        *string         `json:"notes,omitempty"`
	CreatedAt    string          `json:"createdAt"`
	UpdatedAt    string          `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:         userID,
		BusinessID:     r.BusinessID,
		PricingItemIDs: r.ServiceTypeIDs,
		WorkerID:       r.WorkerID,
		Date:           bookingDate,
		StartTime:      startTime,
		Notes:          r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	phases := make([]PhaseResponse, 0, len(resp.Phases))
	for _, phase := range resp.Phases {
		phaseResp := PhaseResponse{
			ServiceOrder:    phase.ServiceOrder,
			ServiceID:       phase.ServiceID,
			ServiceName:     phase.ServiceName,
			ServiceType:     phase.ServiceType,
			DurationMinutes: phase.DurationMin,
			StartTime:       phase.StartTime.String(),
			EndTime:         phase.EndTime.String(),
			WorkerID:        phase.WorkerID,
			WorkerName:      phase.WorkerName,
		}
		if phase.FollowUp != nil {
			phaseResp.FollowUp = &FollowUpResponse{
				ServiceID:       phase.FollowUp.ServiceID,
				ServiceName:     phase.FollowUp.ServiceName,
				ServiceType:     phase.FollowUp.ServiceType,
				DurationMinutes: phase.FollowUp.DurationMin,
				WaitMinutes:     phase.FollowUp.WaitMin,
				StartTime:       phase.FollowUp.StartTime.String(),
				EndTime:         phase.FollowUp.EndTime.String(),
				WorkerID:        phase.FollowUp.WorkerID,
				WorkerName:      phase.FollowUp.WorkerName,
			}
		}
		phases = append(phases, phaseResp)
	}

	return &BookingResponse{
		ID:           resp.ID,
		PublicID:     resp.PublicID.String(),
		BusinessID:   resp.BusinessID,
		ClientID:     resp.ClientID,
		BookingDate:  resp.BookingDate.Format(domain.DateFormat),
		StartTime:    resp.StartTime.String(),
		EndTime:      resp.EndTime.String(),
		TotalMinutes: resp.TotalMinutes,
		Status:       resp.Status,
		Phases:       phases,
		Notes:        resp.Notes,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    resp.UpdatedAt.Format(time.RFC3339),
	}
}
