package schedule

import (
	"context"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписания салона
type ScheduleRepository interface {
	GetBusinessHours(ctx context.Context, businessID int64) (*domain.BusinessHours, error)
	ReplaceBusinessHours(ctx context.Context, businessID int64, entries []domain.OpeningHours) error
	GetBookingSettings(ctx context.Context, businessID int64) (*domain.BookingSettings, error)
	UpsertBookingSettings(ctx context.Context, settings *domain.BookingSettings) (*domain.BookingSettings, error)
}

// StaffRepository интерфейс репозитория мастеров для проверки прав менеджера
type StaffRepository interface {
	IsBusinessManager(ctx context.Context, businessID, userID int64) (bool, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
