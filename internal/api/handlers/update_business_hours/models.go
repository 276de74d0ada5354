package update_business_hours

import (
	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/service/schedule/models"
)

// UpdateHoursRequest HTTP request model: полная замена расписания салона
type UpdateHoursRequest struct {
	Entries []models.HoursEntryPayload `json:"entries"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateHoursRequest) ToServiceRequest(businessID, userID int64) *models.UpdateHoursRequest {
	return &models.UpdateHoursRequest{
		UserID:     userID,
		BusinessID: businessID,
		Entries:    r.Entries,
	}
}
