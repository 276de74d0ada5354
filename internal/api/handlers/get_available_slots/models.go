package get_available_slots

import (
	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	getAvailableSlots "github.com/amitayhanson-cloud/salon-platform-sub002/internal/usecase/get_available_slots"
)

// SlotResponse одно предлагаемое время начала визита
type SlotResponse struct {
	StartTime string `json:"startTime"` // "10:00"
	EndTime   string `json:"endTime"`   // "11:00"
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date                 string         `json:"date"` // "2025-11-03"
	BusinessID           int64          `json:"businessId"`
	TotalDurationMinutes int            `json:"totalDurationMinutes"`
	Slots                []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartTime: slot.StartTime.String(),
			EndTime:   slot.EndTime.String(),
		})
	}

	return &AvailableSlotsResponse{
		Date:                 resp.Date.Format(domain.DateFormat),
		BusinessID:           resp.BusinessID,
		TotalDurationMinutes: resp.TotalDurationMinutes,
		Slots:                slots,
	}
}
