package update_business_hours

import (
	"context"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateHours(ctx context.Context, req *models.UpdateHoursRequest) (*models.HoursResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
