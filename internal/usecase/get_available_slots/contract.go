package get_available_slots

import (
	"context"
	"time"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ListForDate получает занятость мастеров салона на дату
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
	// ListWorkers возвращает ростер в стабильном порядке
	ListWorkers(ctx context.Context, businessID int64) ([]*domain.Worker, error)
}

// ScheduleRepository интерфейс репозитория расписания салона
type ScheduleRepository interface {
	GetBusinessHours(ctx context.Context, businessID int64) (*domain.BusinessHours, error)
	GetBookingSettings(ctx context.Context, businessID int64) (*domain.BookingSettings, error)
}

// Metrics интерфейс для записи метрик проверки слотов
type Metrics interface {
	IncSlotCheck(outcome string)
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
