package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	scheduleRepo "github.com/amitayhanson-cloud/salon-platform-sub002/internal/infra/storage/schedule"
	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/service/schedule/models"
)

// Service сервис для работы с расписанием салона и настройками записи
type Service struct {
	scheduleRepo ScheduleRepository
	staffRepo    StaffRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	scheduleRepo ScheduleRepository,
	staffRepo StaffRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		staffRepo:    staffRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetHours получает расписание работы салона
// Публичный метод - доступен всем
func (s *Service) GetHours(ctx context.Context, businessID int64) (*models.HoursResponse, error) {
	s.logger.Info("GetHours: fetching hours for business=%d", businessID)

	hours, err := s.scheduleRepo.GetBusinessHours(ctx, businessID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrHoursNotFound) {
			s.logger.Warn("GetHours: hours for business=%d not found", businessID)
			return nil, ErrHoursNotFound
		}
		s.logger.Error("GetHours: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetHours: successfully fetched %d entries for business=%d", len(hours.Entries), businessID)
	return models.FromDomainHours(hours), nil
}

// UpdateHours полностью заменяет расписание салона.
// Доступно только менеджерам салона. Замена идет в транзакции:
// показ слотов в любой момент видит либо старое расписание, либо новое.
func (s *Service) UpdateHours(ctx context.Context, req *models.UpdateHoursRequest) (*models.HoursResponse, error) {
	s.logger.Info("UpdateHours: updating hours for business=%d by user=%d, entries=%d",
		req.BusinessID, req.UserID, len(req.Entries))

	// 1. Проверяем права доступа (только менеджер салона)
	if err := s.checkManagerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	// 2. Конвертируем payload в domain записи
	entries, err := req.ToDomainEntries()
	if err != nil {
		s.logger.Warn("UpdateHours: invalid entries for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 3. Валидируем записи расписания
	if err := s.validateEntries(entries); err != nil {
		s.logger.Warn("UpdateHours: validation failed for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	// 4. Заменяем расписание в транзакции
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		return s.scheduleRepo.ReplaceBusinessHours(txCtx, req.BusinessID, entries)
	})
	if err != nil {
		s.logger.Error("UpdateHours: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: UpdateHours - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateHours: successfully updated hours for business=%d", req.BusinessID)

	hours := &domain.BusinessHours{BusinessID: req.BusinessID, Entries: entries, UpdatedAt: time.Now()}
	return models.FromDomainHours(hours), nil
}

// GetSettings получает настройки записи салона.
// Если настройки не заданы, возвращает значения по умолчанию:
// у салона без конфигурации запись все равно работает.
func (s *Service) GetSettings(ctx context.Context, businessID int64) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: fetching settings for business=%d", businessID)

	settings, err := s.scheduleRepo.GetBookingSettings(ctx, businessID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
			s.logger.Info("GetSettings: no settings for business=%d, using defaults", businessID)
			return models.FromDomainSettings(domain.DefaultBookingSettings(businessID)), nil
		}
		s.logger.Error("GetSettings: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSettings: successfully fetched settings for business=%d", businessID)
	return models.FromDomainSettings(settings), nil
}

// UpdateSettings создает или обновляет настройки записи салона
// Доступно только менеджерам салона
func (s *Service) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: updating settings for business=%d by user=%d", req.BusinessID, req.UserID)

	// 1. Валидируем входные данные
	if err := s.validateSettingsData(req.SlotGranularityMinutes, req.MinBookingNoticeMinutes, req.AdvanceBookingDays); err != nil {
		s.logger.Warn("UpdateSettings: validation failed for business=%d: %v", req.BusinessID, err)
		return nil, err
	}

	// 2. Проверяем права доступа (только менеджер салона)
	if err := s.checkManagerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	// 3. Создаем или обновляем настройки
	settings, err := s.scheduleRepo.UpsertBookingSettings(ctx, req.ToDomainSettings())
	if err != nil {
		s.logger.Error("UpdateSettings: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: UpdateSettings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateSettings: successfully updated settings id=%d for business=%d", settings.ID, req.BusinessID)
	return models.FromDomainSettings(settings), nil
}

// Вспомогательные методы

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

	return nil
}

// validateEntries валидирует записи расписания:
// не больше одной записи на день недели, открытие раньше закрытия,
// перерывы корректны и лежат внутри рабочего окна
func (s *Service) validateEntries(entries []domain.OpeningHours) error {
	seen := make(map[int]bool, len(entries))

	for _, entry := range entries {
		weekday := int(entry.Weekday)
		if seen[weekday] {
			return fmt.Errorf("%w: duplicate entry for weekday %d", ErrInvalidInput, weekday)
		}
		seen[weekday] = true

		window := entry.Window()
		if entry.Open != nil && entry.Close != nil && window == nil {
			return fmt.Errorf("%w: open time must be before close time for weekday %d", ErrInvalidInput, weekday)
		}

		for _, breakRange := range entry.Breaks {
			if breakRange.StartMin >= breakRange.EndMin {
				return fmt.Errorf("%w: break start must be before break end for weekday %d", ErrInvalidInput, weekday)
			}
			if window == nil {
				return fmt.Errorf("%w: break on closed weekday %d", ErrInvalidInput, weekday)
			}
			if !window.Contains(breakRange.StartMin, breakRange.EndMin) {
				return fmt.Errorf("%w: break outside opening hours for weekday %d", ErrInvalidInput, weekday)
			}
		}
	}

	return nil
}

// validateSettingsData валидирует параметры настроек записи
func (s *Service) validateSettingsData(granularity, minNotice, advanceDays int) error {
	// Проверяем slotGranularityMinutes
	if granularity <= 0 || granularity > 480 { // максимум 8 часов
		return fmt.Errorf("%w: slotGranularityMinutes must be between 1 and 480", ErrInvalidInput)
	}

	// Проверяем minBookingNoticeMinutes
	if minNotice < 0 || minNotice > 10080 { // максимум 7 дней в минутах
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between 0 and 10080", ErrInvalidInput)
	}

	// Проверяем advanceBookingDays
	if advanceDays < 0 || advanceDays > 365 {
		return fmt.Errorf("%w: advanceBookingDays must be between 0 and 365", ErrInvalidInput)
	}

	return nil
}
