package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	catalogRepo "github.com/amitayhanson-cloud/salon-platform-sub002/internal/infra/storage/catalog"
	scheduleRepo "github.com/amitayhanson-cloud/salon-platform-sub002/internal/infra/storage/schedule"
	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/scheduling"
)

// UseCase use case для получения доступных слотов для бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	catalogRepo  CatalogRepository
	staffRepo    StaffRepository
	scheduleRepo ScheduleRepository
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
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalogRepo:  catalogRepo,
		staffRepo:    staffRepo,
		scheduleRepo: scheduleRepo,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов.
//
// Кандидатные времена начала генерируются по шагу настроек салона,
// затем каждый кандидат проверяется тем же движком подбора, что и
// путь фиксации: слот предлагается только если вся цепочка выполнима.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, business=%d, items=%v, date=%s",
		req.UserID, req.BusinessID, req.PricingItemIDs, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем настройки записи (дефолты, если не заданы)
	settings, err := uc.scheduleRepo.GetBookingSettings(ctx, req.BusinessID)
	if err != nil {
		if !errors.Is(err, scheduleRepo.ErrSettingsNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		settings = domain.DefaultBookingSettings(req.BusinessID)
		uc.logger.Info("GetAvailableSlots: using default settings for business=%d", req.BusinessID)
	}

	// 4. Валидация даты с учетом настроек
	if err := validateDate(req.Date, now, settings.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 5. Получаем рабочее окно салона на дату
	hours, err := uc.scheduleRepo.GetBusinessHours(ctx, req.BusinessID)
	if err != nil && !errors.Is(err, scheduleRepo.ErrHoursNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to get business hours: %v", err)
		return nil, fmt.Errorf("%w: failed to get business hours: %v", ErrInternal, err)
	}

	businessWindow := scheduling.ResolveBusinessWindow(hours, req.Date)
	if businessWindow == nil {
		uc.logger.Info("GetAvailableSlots: business=%d is closed on %s",
			req.BusinessID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, 0), nil
	}
	businessBreaks := scheduling.BusinessBreaksFor(hours, req.Date)

	// 6. Строим цепочку бронирования из выбранных типов услуг
	chain, err := uc.buildChain(ctx, req)
	if err != nil {
		return nil, err
	}

	totalDuration := scheduling.ChainTotalDuration(chain)

	// 7. Получаем ростер мастеров и проверяем предпочитаемого мастера
	workers, err := uc.staffRepo.ListWorkers(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list workers: %v", err)
		return nil, fmt.Errorf("%w: failed to list workers: %v", ErrInternal, err)
	}

	selection := scheduling.AnyWorker()
	if req.WorkerID != nil {
		if !workerInRoster(workers, *req.WorkerID) {
			uc.logger.Warn("GetAvailableSlots: worker id=%s not found in business=%d", *req.WorkerID, req.BusinessID)
			return nil, ErrWorkerNotFound
		}
		selection = scheduling.Preferred(*req.WorkerID)
	}

	// 8. Получаем занятость мастеров на дату
	bookings, err := uc.bookingRepo.ListForDate(ctx, req.BusinessID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 9. Генерируем кандидатов и проверяем каждого движком подбора
	workerWindows := scheduling.BuildWorkerWindows(workers, req.Date, businessWindow)

	candidates := scheduling.CandidateStartTimes(*businessWindow, totalDuration, settings.SlotGranularityMinutes)
	candidates = scheduling.FilterPastCandidates(candidates, req.Date, now, settings.MinBookingNoticeMinutes)

	slots := make([]Slot, 0, len(candidates))
	for _, startMin := range candidates {
		check := scheduling.CheckSlot(scheduling.ResolveParams{
			Chain:           chain,
			StartMin:        startMin,
			Date:            req.Date,
			Workers:         workers,
			BookingsForDate: bookings,
			Selection:       selection,
			WorkerWindows:   workerWindows,
			BusinessWindow:  *businessWindow,
			BusinessBreaks:  businessBreaks,
		})

		if !check.Valid {
			uc.metrics.IncSlotCheck(string(check.RejectReason))
			continue
		}
		uc.metrics.IncSlotCheck("valid")

		slot, ok := makeSlot(startMin, totalDuration)
		if !ok {
			continue
		}
		slots = append(slots, slot)
	}

	uc.logger.Info("GetAvailableSlots: %d of %d candidates offered for business=%d, date=%s",
		len(slots), len(candidates), req.BusinessID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:                 req.Date,
		BusinessID:           req.BusinessID,
		TotalDurationMinutes: totalDuration,
		Slots:                slots,
	}, nil
}

// buildChain собирает цепочку бронирования: комбо-правило, если выбранный
// набор в точности совпадает с триггером, иначе базовая цепочка с
// опциональным завершающим этапом
func (uc *UseCase) buildChain(ctx context.Context, req *Request) ([]domain.ChainStep, error) {
	items, err := uc.catalogRepo.GetPricingItemsByIDs(ctx, req.BusinessID, req.PricingItemIDs)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrPricingItemNotFound) {
			uc.logger.Warn("GetAvailableSlots: unknown pricing item in %v", req.PricingItemIDs)
			return nil, ErrPricingItemNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get pricing items: %v", err)
		return nil, fmt.Errorf("%w: failed to get pricing items: %v", ErrInternal, err)
	}

	services, err := uc.catalogRepo.ListServices(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list services: %v", err)
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
		uc.logger.Error("GetAvailableSlots: failed to list combos: %v", err)
		return nil, fmt.Errorf("%w: failed to list combos: %v", ErrInternal, err)
	}

	if combo := scheduling.MatchCombo(combos, req.PricingItemIDs); combo != nil {
		uc.logger.Info("GetAvailableSlots: selection matches combo id=%s (%s)", combo.ID, combo.Name)

		// Комбо может ссылаться на типы услуг вне выбора клиента - догружаем
		if err := uc.loadComboItems(ctx, req.BusinessID, combo, itemByID); err != nil {
			return nil, err
		}

		chain, err := scheduling.ComboChain(combo, serviceByID, itemByID)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: broken combo id=%s: %v", combo.ID, err)
			return nil, fmt.Errorf("%w: broken combo: %v", ErrInternal, err)
		}
		return chain, nil
	}

	selection := make([]scheduling.SelectedService, 0, len(items))
	for _, item := range items {
		service, ok := serviceByID[item.ServiceID]
		if !ok {
			uc.logger.Warn("GetAvailableSlots: pricing item id=%s references unknown service id=%s", item.ID, item.ServiceID)
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
		uc.logger.Error("GetAvailableSlots: failed to load combo items %v: %v", missing, err)
		return fmt.Errorf("%w: failed to load combo items: %v", ErrInternal, err)
	}
	for _, item := range items {
		itemByID[item.ID] = item
	}
	return nil
}

// emptyResponse ответ без слотов (салон закрыт либо ничего не подошло)
func (uc *UseCase) emptyResponse(req *Request, totalDuration int) *Response {
	return &Response{
		Date:                 req.Date,
		BusinessID:           req.BusinessID,
		TotalDurationMinutes: totalDuration,
		Slots:                []Slot{},
	}
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
