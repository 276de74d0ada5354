package update_booking_settings

import (
	"context"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
