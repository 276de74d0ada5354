package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	scheduleRepo "github.com/amitayhanson-cloud/salon-platform-sub002/internal/infra/storage/schedule"
	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/service/schedule/models"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/ptr"
)

type fakeScheduleRepo struct {
	hours    *domain.BusinessHours
	settings *domain.BookingSettings

	replacedBusinessID int64
	replacedEntries    []domain.OpeningHours
}

func (f *fakeScheduleRepo) GetBusinessHours(ctx context.Context, businessID int64) (*domain.BusinessHours, error) {
	if f.hours == nil {
		return nil, scheduleRepo.ErrHoursNotFound
	}
	return f.hours, nil
}

func (f *fakeScheduleRepo) ReplaceBusinessHours(ctx context.Context, businessID int64, entries []domain.OpeningHours) error {
	f.replacedBusinessID = businessID
	f.replacedEntries = entries
	return nil
}

func (f *fakeScheduleRepo) GetBookingSettings(ctx context.Context, businessID int64) (*domain.BookingSettings, error) {
	if f.settings == nil {
		return nil, scheduleRepo.ErrSettingsNotFound
	}
	return f.settings, nil
}

func (f *fakeScheduleRepo) UpsertBookingSettings(ctx context.Context, settings *domain.BookingSettings) (*domain.BookingSettings, error) {
	stored := *settings
	stored.ID = 1
	stored.UpdatedAt = time.Now()
	f.settings = &stored
	return &stored, nil
}

type fakeStaffRepo struct {
	managers map[int64][]int64
}

func (f *fakeStaffRepo) IsBusinessManager(ctx context.Context, businessID, userID int64) (bool, error) {
	for _, id := range f.managers[businessID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newService(repo *fakeScheduleRepo, staff *fakeStaffRepo) (*Service, *fakeTxManager) {
	tx := &fakeTxManager{}
	return NewService(repo, staff, tx, nopLogger{}), tx
}

func TestGetHours_NotFound(t *testing.T) {
	svc, _ := newService(&fakeScheduleRepo{}, &fakeStaffRepo{})

	_, err := svc.GetHours(context.Background(), 1)

	assert.ErrorIs(t, err, ErrHoursNotFound)
}

func TestUpdateHours_ReplacesInTransaction(t *testing.T) {
	repo := &fakeScheduleRepo{}
	staff := &fakeStaffRepo{managers: map[int64][]int64{1: {500}}}
	svc, tx := newService(repo, staff)

	resp, err := svc.UpdateHours(context.Background(), &models.UpdateHoursRequest{
		UserID:     500,
		BusinessID: 1,
		Entries: []models.HoursEntryPayload{
			{Weekday: 1, Open: ptr.Ptr("09:00"), Close: ptr.Ptr("18:00"),
				Breaks: []models.BreakPayload{{StartTime: "13:00", EndTime: "14:00"}}},
			{Weekday: 0}, // воскресенье закрыто
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, int64(1), repo.replacedBusinessID)
	require.Len(t, repo.replacedEntries, 2)
	assert.Equal(t, time.Monday, repo.replacedEntries[0].Weekday)
	require.Len(t, repo.replacedEntries[0].Breaks, 1)
	assert.Equal(t, 13*60, repo.replacedEntries[0].Breaks[0].StartMin)
	assert.Len(t, resp.Entries, 2)
}

func TestUpdateHours_NonManagerDenied(t *testing.T) {
	svc, tx := newService(&fakeScheduleRepo{}, &fakeStaffRepo{})

	_, err := svc.UpdateHours(context.Background(), &models.UpdateHoursRequest{
		UserID:     999,
		BusinessID: 1,
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, tx.calls)
}

func TestUpdateHours_ValidationRejects(t *testing.T) {
	staff := &fakeStaffRepo{managers: map[int64][]int64{1: {500}}}

	tests := []struct {
		name    string
		entries []models.HoursEntryPayload
	}{
		{
			name: "duplicate weekday",
			entries: []models.HoursEntryPayload{
				{Weekday: 1, Open: ptr.Ptr("09:00"), Close: ptr.Ptr("18:00")},
				{Weekday: 1, Open: ptr.Ptr("10:00"), Close: ptr.Ptr("19:00")},
			},
		},
		{
			name: "open after close",
			entries: []models.HoursEntryPayload{
				{Weekday: 1, Open: ptr.Ptr("18:00"), Close: ptr.Ptr("09:00")},
			},
		},
		{
			name: "break outside opening hours",
			entries: []models.HoursEntryPayload{
				{Weekday: 1, Open: ptr.Ptr("09:00"), Close: ptr.Ptr("12:00"),
					Breaks: []models.BreakPayload{{StartTime: "13:00", EndTime: "14:00"}}},
			},
		},
		{
			name: "break on closed day",
			entries: []models.HoursEntryPayload{
				{Weekday: 0, Breaks: []models.BreakPayload{{StartTime: "13:00", EndTime: "14:00"}}},
			},
		},
		{
			name: "invalid weekday",
			entries: []models.HoursEntryPayload{
				{Weekday: 7, Open: ptr.Ptr("09:00"), Close: ptr.Ptr("18:00")},
			},
		},
		{
			name: "malformed time",
			entries: []models.HoursEntryPayload{
				{Weekday: 1, Open: ptr.Ptr("9 утра"), Close: ptr.Ptr("18:00")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, tx := newService(&fakeScheduleRepo{}, staff)

			_, err := svc.UpdateHours(context.Background(), &models.UpdateHoursRequest{
				UserID:     500,
				BusinessID: 1,
				Entries:    tt.entries,
			})

			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Zero(t, tx.calls)
		})
	}
}

func TestGetSettings_DefaultsWhenMissing(t *testing.T) {
	svc, _ := newService(&fakeScheduleRepo{}, &fakeStaffRepo{})

	resp, err := svc.GetSettings(context.Background(), 42)

	require.NoError(t, err)
	defaults := domain.DefaultBookingSettings(42)
	assert.Equal(t, int64(42), resp.BusinessID)
	assert.Equal(t, defaults.SlotGranularityMinutes, resp.SlotGranularityMinutes)
	assert.Equal(t, defaults.MinBookingNoticeMinutes, resp.MinBookingNoticeMinutes)
	assert.Equal(t, defaults.AdvanceBookingDays, resp.AdvanceBookingDays)
}

func TestUpdateSettings_Upserts(t *testing.T) {
	repo := &fakeScheduleRepo{}
	staff := &fakeStaffRepo{managers: map[int64][]int64{1: {500}}}
	svc, _ := newService(repo, staff)

	resp, err := svc.UpdateSettings(context.Background(), &models.UpdateSettingsRequest{
		UserID:                  500,
		BusinessID:              1,
		SlotGranularityMinutes:  30,
		MinBookingNoticeMinutes: 120,
		AdvanceBookingDays:      14,
	})

	require.NoError(t, err)
	assert.Equal(t, 30, resp.SlotGranularityMinutes)
	assert.Equal(t, 120, repo.settings.MinBookingNoticeMinutes)
	assert.Equal(t, 14, repo.settings.AdvanceBookingDays)
}

func TestUpdateSettings_OutOfRange(t *testing.T) {
	staff := &fakeStaffRepo{managers: map[int64][]int64{1: {500}}}

	tests := []struct {
		name        string
		granularity int
		minNotice   int
		advanceDays int
	}{
		{"zero granularity", 0, 0, 7},
		{"granularity too large", 481, 0, 7},
		{"negative notice", 30, -1, 7},
		{"notice over a week", 30, 10081, 7},
		{"negative advance days", 30, 0, -1},
		{"advance days over a year", 30, 0, 366},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(&fakeScheduleRepo{}, staff)

			_, err := svc.UpdateSettings(context.Background(), &models.UpdateSettingsRequest{
				UserID:                  500,
				BusinessID:              1,
				SlotGranularityMinutes:  tt.granularity,
				MinBookingNoticeMinutes: tt.minNotice,
				AdvanceBookingDays:      tt.advanceDays,
			})

			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
