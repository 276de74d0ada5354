package create_booking

import (
	"context"
	"time"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ListForDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.BookingForDate, error)
}

// CatalogRepository интерфейс репозитория каталога услуг
type CatalogRepository interface {
	ListServices(ctx context.Context, businessID int64) ([]*domain.Service, error)
	GetPricingItemsByIDs(ctx context.Context, businessID int64, ids []string) ([]*domain.PricingItem, error)
	ListCombos(ctx context.Context, businessID int64) ([]*domain.Combo, error)
}

// StaffRepository интерфейс репозитория мастеров
type StaffRepository interface {
	ListWorkers(ctx context.Context, businessID int64) ([]*domain.Worker, error)
}

// ScheduleRepository интерфейс репозитория расписания и настроек
type ScheduleRepository interface {
	GetBusinessHours(ctx context.Context, businessID int64) (*domain.BusinessHours, error)
	GetBookingSettings(ctx context.Context, businessID int64) (*domain.BookingSettings, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	IncBookingCreated(businessID string)
	IncBookingRejected(reason string)
	IncRepair(outcome string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
