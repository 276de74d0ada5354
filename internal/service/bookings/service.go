package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	bookingRepo "github.com/amitayhanson-cloud/salon-platform-sub002/internal/infra/storage/booking"
	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	staffRepo   StaffRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	staffRepo StaffRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		staffRepo:   staffRepo,
		logger:      logger,
	}
}

// GetByPublicID получает бронирование по публичному UUID.
// Проверяет права доступа - клиент может видеть только своё бронирование
// или если он является менеджером салона
func (s *Service) GetByPublicID(ctx context.Context, publicID uuid.UUID, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByPublicID: fetching booking publicId=%s for user=%d", publicID, userID)

	booking, err := s.bookingRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByPublicID: booking publicId=%s not found", publicID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByPublicID: repository error for booking publicId=%s: %v", publicID, err)
		return nil, fmt.Errorf("%w: GetByPublicID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByPublicID: access denied for user=%d to booking publicId=%s", userID, publicID)
		return nil, err
	}

	s.logger.Info("GetByPublicID: successfully fetched booking id=%d", booking.ID)
	return models.FromDomainBooking(booking), nil
}

// GetClientBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%d, status=%v", req.ClientID, req.Status)

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: successfully fetched %d bookings for client=%d", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBusinessBookings получает бронирования салона с гибкой фильтрацией.
// Поддерживает фильтрацию по мастеру, периоду, статусу и включению
// неактивных бронирований. Доступно только менеджерам салона.
//
// Примеры использования:
// - Все активные бронирования: GetBusinessBookings(ctx, &GetBusinessBookingsRequest{BusinessID: 123, UserID: 456})
// - Расписание мастера: указать WorkerID
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Бронирования за период: StartDate и EndDate указывают на разные даты
// - Только подтвержденные: указать Status = "confirmed"
// - Включая отменённые: IncludeInactive = true
func (s *Service) GetBusinessBookings(ctx context.Context, req *models.GetBusinessBookingsRequest) (*models.BookingListResponse, error) {
	// Логируем запрос с деталями фильтрации
	logMsg := fmt.Sprintf("GetBusinessBookings: fetching bookings for business=%d, user=%d", req.BusinessID, req.UserID)
	if req.WorkerID != nil {
		logMsg += fmt.Sprintf(", worker=%s", *req.WorkerID)
	}
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	// Проверяем права доступа менеджера
	if err := s.checkManagerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessBookings: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	// Получаем бронирования с фильтрацией
	bookings, err := s.bookingRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessBookings: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessBookings: successfully fetched %d bookings for business=%d", len(bookings), req.BusinessID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Клиент может отменить только своё бронирование (cancelled_by_client)
// Менеджер может отменить любое бронирование салона (cancelled_by_business)
func (s *Service) Cancel(ctx context.Context, publicID uuid.UUID, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking publicId=%s by user=%d", publicID, req.UserID)

	// Получаем бронирование
	booking, err := s.bookingRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking publicId=%s not found", publicID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking publicId=%s: %v", publicID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем, можно ли отменить бронирование
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", booking.ID, booking.Status)
		return ErrCannotCancel
	}

	// Определяем статус отмены в зависимости от прав доступа
	var cancelStatus domain.BookingStatus

	// Проверяем, является ли пользователь владельцем бронирования
	if booking.ClientID == req.UserID {
		cancelStatus = domain.StatusCancelledByClient
	} else {
		// Проверяем, является ли пользователь менеджером салона
		if err := s.checkManagerAccess(ctx, booking.BusinessID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, booking.ID)
			return ErrAccessDenied
		}
		cancelStatus = domain.StatusCancelledByBusiness
	}

	// Отменяем бронирование
	if err := s.bookingRepo.Cancel(ctx, booking.ID, cancelStatus, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", booking.ID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d with status=%s", booking.ID, cancelStatus)
	return nil
}

// UpdateStatus обновляет статус бронирования.
// Бронирование адресуется публичным UUID, как и остальные клиентские операции.
// Доступно только менеджерам салона
func (s *Service) UpdateStatus(ctx context.Context, publicID uuid.UUID, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating booking publicId=%s to status=%s by user=%d",
		publicID, req.Status, req.UserID)

	// Получаем бронирование
	booking, err := s.bookingRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking publicId=%s not found", publicID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking publicId=%s: %v", publicID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа (только менеджер салона)
	if err := s.checkManagerAccess(ctx, booking.BusinessID, req.UserID); err != nil {
		return err
	}

	// Валидируем и конвертируем статус
	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, booking.ID)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	// Обновляем статус
	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, newStatus); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found during update", booking.ID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", booking.ID, newStatus)
	return nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь имеет доступ к бронированию
// Клиент может видеть своё бронирование или если он менеджер салона
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	// Если пользователь владелец бронирования - доступ разрешён
	if booking.ClientID == userID {
		return nil
	}

	// Проверяем, является ли пользователь менеджером салона
	if err := s.checkManagerAccess(ctx, booking.BusinessID, userID); err != nil {
		// Ошибка уже залогирована в checkManagerAccess
		return ErrAccessDenied
	}

	return nil
}

// checkManagerAccess проверяет, что пользователь является менеджером салона
func (s *Service) checkManagerAccess(ctx context.Context, businessID int64, userID int64) error {
	isManager, err := s.staffRepo.IsBusinessManager(ctx, businessID, userID)
	if err != nil {
		s.logger.Error("checkManagerAccess: failed to check manager for business=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to check manager: %v", ErrInternal, err)
	}

	if !isManager {
		s.logger.Warn("checkManagerAccess: user=%d is not a manager of business=%d", userID, businessID)
		return ErrAccessDenied
	}

	s.logger.Info("checkManagerAccess: user=%d is manager of business=%d", userID, businessID)
	return nil
}
