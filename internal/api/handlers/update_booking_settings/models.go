package update_booking_settings

import (
	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/service/schedule/models"
)

// UpdateSettingsRequest HTTP request model
type UpdateSettingsRequest struct {
	SlotGranularityMinutes  int `json:"slotGranularityMinutes"`
	MinBookingNoticeMinutes int `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays      int `json:"advanceBookingDays"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest(businessID, userID int64) *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		UserID:                  userID,
		BusinessID:              businessID,
		SlotGranularityMinutes:  r.SlotGranularityMinutes,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
	}
}
