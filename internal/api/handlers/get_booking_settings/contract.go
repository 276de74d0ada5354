package get_booking_settings

import (
	"context"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/service/schedule/models"
)

type ScheduleService interface {
	GetSettings(ctx context.Context, businessID int64) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
