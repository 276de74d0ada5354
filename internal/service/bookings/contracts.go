package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Booking, error)
	GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error)
	ListForDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.BookingForDate, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error
}

// StaffRepository интерфейс репозитория мастеров для проверки прав менеджера
type StaffRepository interface {
	IsBusinessManager(ctx context.Context, businessID, userID int64) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
