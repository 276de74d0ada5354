package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	catalogRepo "github.com/amitayhanson-cloud/salon-platform-sub002/internal/infra/storage/catalog"
	scheduleRepo "github.com/amitayhanson-cloud/salon-platform-sub002/internal/infra/storage/schedule"
	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/scheduling"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	staffRepo    StaffRepository
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalogRepo CatalogRepository,
	staffRepo StaffRepository,
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		staffRepo:    staffRepo,
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
//
// Показ слотов и фиксация разнесены во времени, поэтому подбор мастеров
// повторяется здесь целиком на свежих данных в сериализуемой транзакции:
// бронирования дня перечитываются с блокировкой FOR UPDATE, ростер мастеров
// читается в той же транзакции, назначения чинятся и проходят финальную
// структурную проверку перед сохранением.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, business=%d, items=%v, date=%s, time=%s",
		req.UserID, req.BusinessID, req.PricingItemIDs, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем настройки записи (дефолты, если не заданы)
	settings, err := uc.scheduleRepo.GetBookingSettings(ctx, req.BusinessID)
	if err != nil {
		if !errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
			uc.logger.Error("CreateBooking: failed to get settings: %v", err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		settings = domain.DefaultBookingSettings(req.BusinessID)
		uc.logger.Info("CreateBooking: using default settings for business=%d", req.BusinessID)
	}

	// 4. Валидация даты и времени с учетом настроек
	if err := validateDate(req.Date, now, settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	if err := validateBookingTime(req.Date, req.StartTime, now, settings.MinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateBooking: booking time validation failed: %v", err)
		return nil, err
	}

	// 5. Получаем рабочее окно салона на дату
	hours, err := uc.scheduleRepo.GetBusinessHours(ctx, req.BusinessID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrHoursNotFound) {
		uc.logger.Error("CreateBooking: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}

	businessWindow := scheduling.ResolveBusinessWindow(hours, req.Date)
	if businessWindow == nil {
		uc.logger.Warn("CreateBooking: business=%d is closed on %s",
			req.BusinessID, req.Date.Format(domain.DateFormat))
		return nil, ErrBusinessClosed
	}
	businessBreaks := scheduling.BusinessBreaksFor(hours, req.Date)

	// 6. Строим цепочку бронирования из выбранных типов услуг
	chain, err := uc.buildChain(ctx, req)
	if err != nil {
		return nil, err
	}

	totalDuration := scheduling.ChainTotalDuration(chain)

	startMin, err := req.StartTime.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 7. Подбор мастеров и сохранение в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Перечитываем бронирования дня с блокировкой (FOR UPDATE)
		bookings, err := uc.bookingRepo.ListForDate(txCtx, req.BusinessID, req.Date)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		// 7.2. Свежий ростер мастеров читается в той же транзакции, что и
		// бронирования: подбор не должен видеть уволенного или занятого мастера
		workers, err := uc.staffRepo.ListWorkers(txCtx, req.BusinessID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to list workers: %v", err)
			return fmt.Errorf("%w: failed to list workers: %v", ErrInternal, err)
		}

		selection := scheduling.AnyWorker()
		if req.WorkerID != nil {
			if !workerInRoster(workers, *req.WorkerID) {
				uc.logger.Warn("CreateBooking: worker id=%s not found in business=%d", *req.WorkerID, req.BusinessID)
				return ErrWorkerNotFound
			}
			selection = scheduling.Preferred(*req.WorkerID)
		}

		workerWindows := scheduling.BuildWorkerWindows(workers, req.Date, businessWindow)

		params := scheduling.ResolveParams{
			Chain:           chain,
			StartMin:        startMin,
			Date:            req.Date,
			Workers:         workers,
			BookingsForDate: bookings,
			Selection:       selection,
			WorkerWindows:   workerWindows,
			BusinessWindow:  *businessWindow,
			BusinessBreaks:  businessBreaks,
		}

		// 7.3. Подбираем мастера каждой фазе цепочки
		phases := scheduling.ResolveChainWorkers(params)
		if phases == nil {
			check := scheduling.CheckSlot(params)
			uc.logger.Warn("CreateBooking: slot %s rejected: reason=%s, service=%s",
				req.StartTime, check.RejectReason, check.RejectServiceName)
			uc.metrics.IncBookingRejected(string(check.RejectReason))
			return ErrSlotNotAvailable
		}

		// 7.4. Чиним назначения (между подбором и сохранением данные могли устареть)
		repaired := scheduling.RepairInvalidAssignments(phases, workers, scheduling.RepairParams{
			Date:            req.Date,
			BookingsForDate: bookings,
			WorkerWindows:   workerWindows,
			BusinessWindow:  *businessWindow,
			BusinessBreaks:  businessBreaks,
		})
		if repaired == nil {
			uc.logger.Warn("CreateBooking: assignments for slot %s are not repairable", req.StartTime)
			uc.metrics.IncRepair("failed")
			uc.metrics.IncBookingRejected(string(scheduling.RejectNoEligible))
			return ErrSlotNotAvailable
		}
		uc.metrics.IncRepair(repairOutcome(phases, repaired))
		phases = repaired

		// 7.5. Финальная структурная проверка цепочки
		if validation := scheduling.ValidateChainAssignments(phases, workers); !validation.Valid {
			uc.logger.Error("CreateBooking: chain validation failed: %v", validation.Errors)
			uc.metrics.IncBookingRejected("validation_failed")
			return fmt.Errorf("%w: chain validation failed: %v", ErrInternal, validation.Errors)
		}

		endTime, err := types.NewTimeStringFromMinutes(startMin + totalDuration)
		if err != nil {
			return fmt.Errorf("%w: failed to calculate end time: %v", ErrInternal, err)
		}

		// 7.6. Сохраняем бронирование с зафиксированными фазами
		booking := &domain.Booking{
			PublicID:    uuid.New(),
			BusinessID:  req.BusinessID,
			ClientID:    req.UserID,
			BookingDate: req.Date,
			StartTime:   req.StartTime,
			EndTime:     endTime,
			TotalMin:    totalDuration,
			Status:      domain.StatusConfirmed,
			Phases:      phases,
			Notes:       req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.metrics.IncBookingCreated(strconv.FormatInt(req.BusinessID, 10))
	uc.logger.Info("CreateBooking: successfully created booking id=%d, public_id=%s",
		result.ID, result.PublicID)

	return toResponse(result), nil
}

// buildChain собирает цепочку бронирования: комбо-правило, если выбранный
// набор в точности совпадает с триггером, иначе базовая цепочка с
// опциональным завершающим этапом
func (uc *UseCase) buildChain(ctx context.Context, req *Request) ([]domain.ChainStep, error) {
	items, err := uc.catalogRepo.GetPricingItemsByIDs(ctx, req.BusinessID, req.PricingItemIDs)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrPricingItemNotFound) {
			uc.logger.Warn("CreateBooking: unknown pricing item in %v", req.PricingItemIDs)
			return nil, ErrPricingItemNotFound
		}
		uc.logger.Error("CreateBooking: failed to get pricing items: %v", err)
		return nil, fmt.Errorf("%w: failed to get pricing items: %v", ErrInternal, err)
	}

	services, err := uc.catalogRepo.ListServices(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list services: %v", err)
		return nil, fmt.Errorf("%w: failed to list services: %v", ErrInternal, err)
	}

	serviceByID := make(map[string]*domain.Service, len(services))
	for _, service := range services {
		serviceByID[service.ID] = service
	}

	itemByID := make(map[string]*domain.PricingItem, len(items))
	for _, item := range items {
		itemByID[item.ID] = item
	}

	combos, err := uc.catalogRepo.ListCombos(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to list combos: %v", err)
		return nil, fmt.Errorf("%w: failed to list combos: %v", ErrInternal, err)
	}

	if combo := scheduling.MatchCombo(combos, req.PricingItemIDs); combo != nil {
		uc.logger.Info("CreateBooking: selection matches combo id=%s (%s)", combo.ID, combo.Name)

		if err := uc.loadComboItems(ctx, req.BusinessID, combo, itemByID); err != nil {
			return nil, err
		}

		chain, err := scheduling.ComboChain(combo, serviceByID, itemByID)
		if err != nil {
			uc.logger.Error("CreateBooking: broken combo id=%s: %v", combo.ID, err)
			return nil, fmt.Errorf("%w: broken combo: %v", ErrInternal, err)
		}
		return chain, nil
	}

	selection := make([]scheduling.SelectedService, 0, len(items))
	for _, item := range items {
		service, ok := serviceByID[item.ServiceID]
		if !ok {
			uc.logger.Warn("CreateBooking: pricing item id=%s references unknown service id=%s", item.ID, item.ServiceID)
			return nil, ErrServiceNotFound
		}
		selection = append(selection, scheduling.SelectedService{Service: service, PricingItem: item})
	}

	chain := scheduling.BaseChain(selection)
	return scheduling.BuildChainWithFinishingService(chain, serviceByID, itemByID), nil
}

// loadComboItems догружает типы услуг, на которые ссылаются шаги комбо,
// но которых нет среди выбранных клиентом
func (uc *UseCase) loadComboItems(ctx context.Context, businessID int64, combo *domain.Combo, itemByID map[string]*domain.PricingItem) error {
	missing := make([]string, 0)
	for _, step := range combo.Steps {
		if _, ok := itemByID[step.PricingItemID]; !ok {
			missing = append(missing, step.PricingItemID)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	items, err := uc.catalogRepo.GetPricingItemsByIDs(ctx, businessID, missing)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to load combo items %v: %v", missing, err)
		return fmt.Errorf("%w: failed to load combo items: %v", ErrInternal, err)
	}
	for _, item := range items {
		itemByID[item.ID] = item
	}
	return nil
}

// repairOutcome сравнивает назначения до и после починки для метрики
func repairOutcome(before, after []domain.ResolvedPhase) string {
	if len(before) != len(after) {
		return "reassigned"
	}
	for i := range before {
		if before[i].WorkerID != after[i].WorkerID {
			return "reassigned"
		}
		beforeFU, afterFU := before[i].FollowUp, after[i].FollowUp
		if beforeFU != nil && afterFU != nil && beforeFU.WorkerID != afterFU.WorkerID {
			return "reassigned"
		}
	}
	return "noop"
}

// workerInRoster проверяет наличие мастера в ростере
func workerInRoster(workers []*domain.Worker, workerID string) bool {
	for _, worker := range workers {
		if worker.ID == workerID {
			return true
		}
	}
	return false
}
