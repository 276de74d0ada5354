package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
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
	created  *domain.Booking
	nextID   int64
}

func (f *fakeBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	f.nextID++
	saved := *booking
	saved.ID = f.nextID
	saved.CreatedAt = time.Now()
	saved.UpdatedAt = saved.CreatedAt
	f.created = &saved
	return &saved, nil
}

func (f *fakeBookingRepo) ListForDate(_ context.Context, _ int64, _ time.Time) ([]*domain.BookingForDate, error) {
	return f.bookings, nil
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

	tx         *fakeTxManager
	listedInTx bool
}

func (f *fakeStaffRepo) ListWorkers(_ context.Context, _ int64) ([]*domain.Worker, error) {
	if f.tx != nil {
		f.listedInTx = f.tx.inTx
	}
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

type fakeTxManager struct {
	serializableCalls int
	inTx              bool
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.serializableCalls++
	f.inTx = true
	defer func() { f.inTx = false }()
	return fn(ctx)
}

type fakeMetrics struct {
	created  map[string]int
	rejected map[string]int
	repairs  map[string]int
}

func (f *fakeMetrics) IncBookingCreated(businessID string) {
	if f.created == nil {
		f.created = make(map[string]int)
	}
	f.created[businessID]++
}

func (f *fakeMetrics) IncBookingRejected(reason string) {
	if f.rejected == nil {
		f.rejected = make(map[string]int)
	}
	f.rejected[reason]++
}

func (f *fakeMetrics) IncRepair(outcome string) {
	if f.repairs == nil {
		f.repairs = make(map[string]int)
	}
	f.repairs[outcome]++
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
	txManager    *fakeTxManager
	metrics      *fakeMetrics
	uc           *UseCase
}

// newFixture салон с услугой "окрашивание + укладка" (30 + пауза 10 + 20 мин),
// двумя мастерами и рабочим окном 09:00-13:00 по понедельникам
func newFixture() *fixture {
	f := &fixture{
		bookingRepo: &fakeBookingRepo{},
		catalogRepo: &fakeCatalogRepo{
			services: []*domain.Service{
				{ID: "svc-color", BusinessID: 1, Name: "גוונים"},
				{ID: "svc-blow", BusinessID: 1, Name: "פן"},
			},
			items: map[string]*domain.PricingItem{
				"pi-color": {
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
				},
			},
		},
		staffRepo: &fakeStaffRepo{
			workers: []*domain.Worker{
				{ID: "avi", Name: "Avi", Active: true, Services: []string{"גוונים"}},
				{ID: "bob", Name: "Bob", Active: true, Services: []string{"פן"}},
			},
		},
		scheduleRepo: &fakeScheduleRepo{
			hours: &domain.BusinessHours{
				BusinessID: 1,
				Entries: []domain.OpeningHours{
					{
						Weekday: time.Monday,
						Open:    ptr.Ptr(types.TimeString("09:00")),
						Close:   ptr.Ptr(types.TimeString("13:00")),
					},
				},
			},
			settings: &domain.BookingSettings{
				BusinessID:              1,
				SlotGranularityMinutes:  30,
				MinBookingNoticeMinutes: 60,
				AdvanceBookingDays:      30,
			},
		},
		txManager: &fakeTxManager{},
		metrics:   &fakeMetrics{},
	}
	f.staffRepo.tx = f.txManager

	f.uc = NewUseCase(f.bookingRepo, f.catalogRepo, f.staffRepo, f.scheduleRepo, f.txManager, f.metrics, nopLogger{})
	f.uc.timeProvider = &fakeTimeProvider{now: time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC)}
	return f
}

func bookingRequest() *Request {
	return &Request{
		UserID:         7,
		BusinessID:     1,
		PricingItemIDs: []string{"pi-color"},
		Date:           testDate,
		StartTime:      types.TimeString("10:00"),
	}
}

func TestExecute_CreatesBooking(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), bookingRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.NotEqual(t, uuid.Nil, resp.PublicID)
	assert.Equal(t, int64(7), resp.ClientID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, types.TimeString("10:00"), resp.StartTime)
	assert.Equal(t, types.TimeString("11:00"), resp.EndTime)
	assert.Equal(t, 60, resp.TotalMinutes)

	// Фазы зафиксированы вместе с бронированием: окрашивание у Avi,
	// завершающий этап у Bob
	require.Len(t, resp.Phases, 1)
	main := resp.Phases[0]
	assert.Equal(t, "avi", main.WorkerID)
	assert.Equal(t, types.TimeString("10:30"), main.EndTime)
	require.NotNil(t, main.FollowUp)
	assert.Equal(t, "bob", main.FollowUp.WorkerID)
	assert.Equal(t, types.TimeString("10:40"), main.FollowUp.StartTime)

	assert.Equal(t, 1, f.txManager.serializableCalls)
	assert.Equal(t, 1, f.metrics.created["1"])
	assert.Equal(t, 1, f.metrics.repairs["noop"])
	require.NotNil(t, f.bookingRepo.created)
	assert.Equal(t, domain.StatusConfirmed, f.bookingRepo.created.Status)
}

func TestExecute_SlotTaken(t *testing.T) {
	f := newFixture()
	// Avi занят на весь интервал основной фазы, заменить его некем
	f.bookingRepo.bookings = []*domain.BookingForDate{
		{
			ID:     1,
			Status: domain.StatusConfirmed,
			Phases: []domain.BookedPhase{
				{WorkerID: "avi", StartAt: "09:30", EndAt: "10:30"},
			},
		},
	}

	_, err := f.uc.Execute(context.Background(), bookingRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, 1, f.metrics.rejected["no_eligible"])
	assert.Nil(t, f.bookingRepo.created)
}

func TestExecute_PreferredWorkerAssigned(t *testing.T) {
	f := newFixture()
	// Второй мастер с умением окрашивания раньше в ростере
	f.staffRepo.workers = append([]*domain.Worker{
		{ID: "carmen", Name: "Carmen", Active: true, Services: []string{"גוונים"}},
	}, f.staffRepo.workers...)

	req := bookingRequest()
	req.WorkerID = ptr.Ptr("avi")

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "avi", resp.Phases[0].WorkerID)
}

func TestExecute_PreferredWorkerNotFound(t *testing.T) {
	f := newFixture()
	req := bookingRequest()
	req.WorkerID = ptr.Ptr("ghost")

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrWorkerNotFound)
}

func TestExecute_RosterReadInsideTransaction(t *testing.T) {
	// Ростер мастеров читается в той же сериализуемой транзакции,
	// что и бронирования дня: подбор не должен видеть устаревший состав
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), bookingRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, f.txManager.serializableCalls)
	assert.True(t, f.staffRepo.listedInTx)
}

func TestExecute_BusinessBreakBlocksSlot(t *testing.T) {
	f := newFixture()
	// Перерыв салона 10:00 - 11:00 накрывает обе фазы цепочки,
	// собственного расписания у мастеров нет - перерыв наследуется
	f.scheduleRepo.hours.Entries[0].Breaks = []domain.BreakRange{
		{StartMin: 600, EndMin: 660},
	}

	_, err := f.uc.Execute(context.Background(), bookingRequest())
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, 1, f.metrics.rejected["no_eligible"])
	assert.Nil(t, f.bookingRepo.created)
}

func TestExecute_BusinessClosed(t *testing.T) {
	f := newFixture()
	// Воскресенье: записи расписания на этот день нет
	req := bookingRequest()
	req.Date = testDate.AddDate(0, 0, -1)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecute_TooLateToBook(t *testing.T) {
	f := newFixture()
	f.uc.timeProvider = &fakeTimeProvider{now: time.Date(2025, 11, 3, 9, 30, 0, 0, time.UTC)}

	// Запись на сегодня 10:00 при minNotice=60 и текущем времени 09:30
	_, err := f.uc.Execute(context.Background(), bookingRequest())
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_DateInPast(t *testing.T) {
	f := newFixture()
	req := bookingRequest()
	req.Date = time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_UnknownPricingItem(t *testing.T) {
	f := newFixture()
	req := bookingRequest()
	req.PricingItemIDs = []string{"pi-ghost"}

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrPricingItemNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture()

	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero user", func(r *Request) { r.UserID = 0 }},
		{"zero business", func(r *Request) { r.BusinessID = 0 }},
		{"no pricing items", func(r *Request) { r.PricingItemIDs = nil }},
		{"empty pricing item id", func(r *Request) { r.PricingItemIDs = []string{""} }},
		{"missing start time", func(r *Request) { r.StartTime = "" }},
		{"bad start time format", func(r *Request) { r.StartTime = "25:99" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := bookingRequest()
			tc.mutate(req)
			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_ComboChainResolved(t *testing.T) {
	f := newFixture()
	f.catalogRepo.items["pi-blow"] = &domain.PricingItem{
		ID: "pi-blow", ServiceID: "svc-blow", BusinessID: 1, Name: "פן", DurationMinMinutes: 20,
	}
	f.catalogRepo.combos = []*domain.Combo{
		{
			ID:                    "combo-1",
			BusinessID:            1,
			Name:                  "צבע + פן",
			TriggerPricingItemIDs: []string{"pi-color"},
			Steps: []domain.ComboStep{
				{ServiceID: "svc-color", PricingItemID: "pi-color"},
				{ServiceID: "svc-blow", PricingItemID: "pi-blow", FinishGapBefore: 15, AutoAppended: true},
			},
		},
	}

	resp, err := f.uc.Execute(context.Background(), bookingRequest())
	require.NoError(t, err)

	// Паузы комбо авторитетны: 30 + 15 + 20, а не followUp-пауза 10.
	// Авто-добавленный шаг комбо остаётся самостоятельной фазой.
	assert.Equal(t, 65, resp.TotalMinutes)
	require.Len(t, resp.Phases, 2)
	assert.Nil(t, resp.Phases[0].FollowUp)
	second := resp.Phases[1]
	assert.Equal(t, 2, second.ServiceOrder)
	assert.Equal(t, "bob", second.WorkerID)
	assert.Equal(t, types.TimeString("10:45"), second.StartTime)
	assert.Equal(t, types.TimeString("11:05"), second.EndTime)
}
