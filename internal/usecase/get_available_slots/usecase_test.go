package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	catalogRepo "github.com/amitayhanson-cloud/salon-platform-sub002/internal/infra/storage/catalog"
	scheduleRepo "github.com/amitayhanson-cloud/salon-platform-sub002/internal/infra/storage/schedule"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/ptr"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

// Тестовая дата - понедельник
var testDate = time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)

type fakeBookingRepo struct {
	bookings []*domain.BookingForDate
	err      error
}

func (f *fakeBookingRepo) ListForDate(_ context.Context, _ int64, _ time.Time) ([]*domain.BookingForDate, error) {
	return f.bookings, f.err
}

type fakeCatalogRepo struct {
	services []*domain.Service
	items    map[string]*domain.PricingItem
	combos   []*domain.Combo
}

func (f *fakeCatalogRepo) ListServices(_ context.Context, _ int64) ([]*domain.Service, error) {
	return f.services, nil
}

func (f *fakeCatalogRepo) GetPricingItemsByIDs(_ context.Context, _ int64, ids []string) ([]*domain.PricingItem, error) {
	items := make([]*domain.PricingItem, 0, len(ids))
	for _, id := range ids {
		item, ok := f.items[id]
		if !ok {
			return nil, catalogRepo.ErrPricingItemNotFound
		}
		items = append(items, item)
	}
	return items, nil
}

func (f *fakeCatalogRepo) ListCombos(_ context.Context, _ int64) ([]*domain.Combo, error) {
	return f.combos, nil
}

type fakeStaffRepo struct {
	workers []*domain.Worker
}

func (f *fakeStaffRepo) ListWorkers(_ context.Context, _ int64) ([]*domain.Worker, error) {
	return f.workers, nil
}

type fakeScheduleRepo struct {
	hours    *domain.BusinessHours
	settings *domain.BookingSettings
}

func (f *fakeScheduleRepo) GetBusinessHours(_ context.Context, _ int64) (*domain.BusinessHours, error) {
	if f.hours == nil {
		return nil, scheduleRepo.ErrHoursNotFound
	}
	return f.hours, nil
}

func (f *fakeScheduleRepo) GetBookingSettings(_ context.Context, _ int64) (*domain.BookingSettings, error) {
	if f.settings == nil {
		return nil, scheduleRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

type fakeMetrics struct {
	slotChecks map[string]int
}

func (f *fakeMetrics) IncSlotCheck(outcome string) {
	if f.slotChecks == nil {
		f.slotChecks = make(map[string]int)
	}
	f.slotChecks[outcome]++
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	bookingRepo  *fakeBookingRepo
	catalogRepo  *fakeCatalogRepo
	staffRepo    *fakeStaffRepo
	scheduleRepo *fakeScheduleRepo
	metrics      *fakeMetrics
	uc           *UseCase
}

// newFixture салон с одной услугой "тспорет" (30 мин), одним мастером
// и рабочим окном 09:00-11:00 по понедельникам
func newFixture() *fixture {
	f := &fixture{
		bookingRepo: &fakeBookingRepo{},
		catalogRepo: &fakeCatalogRepo{
			services: []*domain.Service{
				{ID: "svc-cut", BusinessID: 1, Name: "תספורת"},
			},
			items: map[string]*domain.PricingItem{
				"pi-cut": {ID: "pi-cut", ServiceID: "svc-cut", BusinessID: 1, Name: "תספורת נשים", DurationMinMinutes: 30},
			},
		},
		staffRepo: &fakeStaffRepo{
			workers: []*domain.Worker{
				{ID: "avi", Name: "Avi", Active: true, Services: []string{"תספורת"}},
			},
		},
		scheduleRepo: &fakeScheduleRepo{
			hours: &domain.BusinessHours{
				BusinessID: 1,
				Entries: []domain.OpeningHours{
					{
						Weekday: time.Monday,
						Open:    ptr.Ptr(types.TimeString("09:00")),
						Close:   ptr.Ptr(types.TimeString("11:00")),
					},
				},
			},
			settings: &domain.BookingSettings{
				BusinessID:              1,
				SlotGranularityMinutes:  60,
				MinBookingNoticeMinutes: 0,
				AdvanceBookingDays:      30,
			},
		},
		metrics: &fakeMetrics{},
	}

	f.uc = NewUseCase(f.bookingRepo, f.catalogRepo, f.staffRepo, f.scheduleRepo, f.metrics, nopLogger{})
	f.uc.timeProvider = &fakeTimeProvider{now: time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)}
	return f
}

func slotRequest() *Request {
	return &Request{
		UserID:         7,
		BusinessID:     1,
		PricingItemIDs: []string{"pi-cut"},
		Date:           testDate,
	}
}

func TestExecute_OffersFreeSlots(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), slotRequest())
	require.NoError(t, err)

	// Шаг 60 минут в окне 09:00-11:00 для 30-минутной цепочки: 09:00 и 10:00
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, types.TimeString("09:30"), resp.Slots[0].EndTime)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[1].StartTime)
	assert.Equal(t, 30, resp.TotalDurationMinutes)
	assert.Equal(t, 2, f.metrics.slotChecks["valid"])
}

func TestExecute_BusySlotNotOffered(t *testing.T) {
	f := newFixture()
	f.bookingRepo.bookings = []*domain.BookingForDate{
		{
			ID:     1,
			Status: domain.StatusConfirmed,
			Phases: []domain.BookedPhase{
				{WorkerID: "avi", StartAt: "09:00", EndAt: "09:30"},
			},
		},
	}

	resp, err := f.uc.Execute(context.Background(), slotRequest())
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[0].StartTime)
	assert.Equal(t, 1, f.metrics.slotChecks["valid"])
	assert.Equal(t, 1, f.metrics.slotChecks["no_eligible"])
}

func TestExecute_BusinessBreakBlocksSlot(t *testing.T) {
	f := newFixture()
	// Перерыв салона 10:00 - 10:30: у Avi нет своего расписания,
	// он работает по часам салона и перерыв наследует
	f.scheduleRepo.hours.Entries[0].Breaks = []domain.BreakRange{
		{StartMin: 600, EndMin: 630},
	}

	resp, err := f.uc.Execute(context.Background(), slotRequest())
	require.NoError(t, err)

	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("09:00"), resp.Slots[0].StartTime)
	assert.Equal(t, 1, f.metrics.slotChecks["valid"])
	assert.Equal(t, 1, f.metrics.slotChecks["no_eligible"])
}

func TestExecute_CancelledBookingFreesSlot(t *testing.T) {
	f := newFixture()
	f.bookingRepo.bookings = []*domain.BookingForDate{
		{
			ID:     1,
			Status: domain.StatusCancelledByClient,
			Phases: []domain.BookedPhase{
				{WorkerID: "avi", StartAt: "09:00", EndAt: "09:30"},
			},
		},
	}

	resp, err := f.uc.Execute(context.Background(), slotRequest())
	require.NoError(t, err)
	assert.Len(t, resp.Slots, 2)
}

func TestExecute_ClosedDayReturnsNoSlots(t *testing.T) {
	f := newFixture()
	// Запрос на воскресенье, записи расписания на этот день нет
	req := slotRequest()
	req.Date = testDate.AddDate(0, 0, -1)

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DefaultSettingsWhenMissing(t *testing.T) {
	f := newFixture()
	f.scheduleRepo.settings = nil

	resp, err := f.uc.Execute(context.Background(), slotRequest())
	require.NoError(t, err)
	// Дефолтный шаг мельче 60 минут, слотов становится больше
	assert.NotEmpty(t, resp.Slots)
}

func TestExecute_UnknownPricingItem(t *testing.T) {
	f := newFixture()
	req := slotRequest()
	req.PricingItemIDs = []string{"pi-ghost"}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPricingItemNotFound)
}

func TestExecute_PreferredWorkerNotFound(t *testing.T) {
	f := newFixture()
	req := slotRequest()
	req.WorkerID = ptr.Ptr("ghost")

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrWorkerNotFound)
}

func TestExecute_DateInPast(t *testing.T) {
	f := newFixture()
	req := slotRequest()
	req.Date = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_DateTooFarInFuture(t *testing.T) {
	f := newFixture()
	f.scheduleRepo.settings.AdvanceBookingDays = 7
	req := slotRequest()
	req.Date = testDate.AddDate(0, 1, 0)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture()

	t.Run("no pricing items", func(t *testing.T) {
		req := slotRequest()
		req.PricingItemIDs = nil
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("empty preferred worker id", func(t *testing.T) {
		req := slotRequest()
		req.WorkerID = ptr.Ptr("")
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestExecute_FinishingServiceExtendsChain(t *testing.T) {
	f := newFixture()
	f.catalogRepo.services = append(f.catalogRepo.services,
		&domain.Service{ID: "svc-blow", BusinessID: 1, Name: "פן"})
	f.catalogRepo.items["pi-color"] = &domain.PricingItem{
		ID:                 "pi-color",
		ServiceID:          "svc-color",
		BusinessID:         1,
		Name:               "גוונים מלאים",
		DurationMinMinutes: 30,
		FollowUp: &domain.FollowUpSpec{
			Name:            "פן",
			ServiceID:       "svc-blow",
			DurationMinutes: 20,
			WaitMinutes:     10,
		},
	}
	f.catalogRepo.services = append(f.catalogRepo.services,
		&domain.Service{ID: "svc-color", BusinessID: 1, Name: "גוונים"})
	f.staffRepo.workers = []*domain.Worker{
		{ID: "avi", Name: "Avi", Active: true, Services: []string{"גוונים", "פן"}},
	}

	req := slotRequest()
	req.PricingItemIDs = []string{"pi-color"}

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// 30 + 10 паузы + 20 завершающего этапа
	assert.Equal(t, 60, resp.TotalDurationMinutes)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[1].StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.Slots[1].EndTime)
}
