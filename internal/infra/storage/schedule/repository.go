package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/dbmetrics"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/psqlbuilder"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

// Repository репозиторий расписания салона и настроек записи
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBusinessHours получает расписание работы салона вместе с перерывами.
// Если у салона нет ни одной записи расписания, возвращает ErrHoursNotFound.
func (r *Repository) GetBusinessHours(ctx context.Context, businessID int64) (*domain.BusinessHours, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"weekday",
		"open_time",
		"close_time",
		"updated_at",
	).
		From("business_hours").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	hours := &domain.BusinessHours{BusinessID: businessID}
	entryIndex := make(map[time.Weekday]int)

	for rows.Next() {
		var weekday int
		var openTime, closeTime sql.NullString
		var updatedAt sql.NullTime

		if err := rows.Scan(&weekday, &openTime, &closeTime, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: GetBusinessHours - scan row: %v", ErrScanRow, err)
		}

		entry := domain.OpeningHours{Weekday: time.Weekday(weekday)}
		if openTime.Valid && closeTime.Valid {
			open := types.TimeString(openTime.String)
			close := types.TimeString(closeTime.String)
			entry.Open = &open
			entry.Close = &close
		}

		hours.Entries = append(hours.Entries, entry)
		entryIndex[entry.Weekday] = len(hours.Entries) - 1

		if updatedAt.Valid && updatedAt.Time.After(hours.UpdatedAt) {
			hours.UpdatedAt = updatedAt.Time
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - rows error: %v", ErrScanRow, err)
	}

	if len(hours.Entries) == 0 {
		return nil, ErrHoursNotFound
	}

	query, args, err = psqlbuilder.Select(
		"weekday",
		"start_minutes",
		"end_minutes",
	).
		From("business_breaks").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("weekday ASC, start_minutes ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - build breaks query: %v", ErrBuildQuery, err)
	}

	breakRows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - execute breaks query: %v", ErrExecQuery, err)
	}
	defer breakRows.Close()

	for breakRows.Next() {
		var weekday int
		var breakRange domain.BreakRange

		if err := breakRows.Scan(&weekday, &breakRange.StartMin, &breakRange.EndMin); err != nil {
			return nil, fmt.Errorf("%w: GetBusinessHours - scan breaks row: %v", ErrScanRow, err)
		}

		idx, ok := entryIndex[time.Weekday(weekday)]
		if !ok {
			continue
		}
		hours.Entries[idx].Breaks = append(hours.Entries[idx].Breaks, breakRange)
	}
	if err := breakRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBusinessHours - breaks rows error: %v", ErrScanRow, err)
	}

	return hours, nil
}

// ReplaceBusinessHours полностью заменяет расписание салона.
// Вызывается внутри транзакции: удаление и вставка должны быть атомарными,
// иначе параллельный показ слотов увидит салон без расписания.
func (r *Repository) ReplaceBusinessHours(ctx context.Context, businessID int64, entries []domain.OpeningHours) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, table := range []string{"business_breaks", "business_hours"} {
		query, args, err := psqlbuilder.Delete(table).
			Where(squirrel.Eq{"business_id": businessID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceBusinessHours - build delete query: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: ReplaceBusinessHours - execute delete: %v", ErrExecQuery, err)
		}
	}

	if len(entries) == 0 {
		return nil
	}

	hoursBuilder := psqlbuilder.Insert("business_hours").
		Columns("business_id", "weekday", "open_time", "close_time", "updated_at")

	for _, entry := range entries {
		var openTime, closeTime *string
		if entry.Open != nil && entry.Close != nil {
			open := string(*entry.Open)
			close := string(*entry.Close)
			openTime = &open
			closeTime = &close
		}
		hoursBuilder = hoursBuilder.Values(businessID, int(entry.Weekday), openTime, closeTime, squirrel.Expr("NOW()"))
	}

	query, args, err := hoursBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - execute insert: %v", ErrExecQuery, err)
	}

	hasBreaks := false
	breaksBuilder := psqlbuilder.Insert("business_breaks").
		Columns("business_id", "weekday", "start_minutes", "end_minutes")

	for _, entry := range entries {
		for _, breakRange := range entry.Breaks {
			hasBreaks = true
			breaksBuilder = breaksBuilder.Values(businessID, int(entry.Weekday), breakRange.StartMin, breakRange.EndMin)
		}
	}

	if !hasBreaks {
		return nil
	}

	query, args, err = breaksBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - build breaks insert: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - execute breaks insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetBookingSettings получает настройки записи салона
func (r *Repository) GetBookingSettings(ctx context.Context, businessID int64) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"slot_granularity_minutes",
		"min_booking_notice_minutes",
		"advance_booking_days",
		"created_at",
		"updated_at",
	).
		From("booking_settings").
		Where(squirrel.Eq{"business_id": businessID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBookingSettings - build select query: %v", ErrBuildQuery, err)
	}

	var settings domain.BookingSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.ID,
		&settings.BusinessID,
		&settings.SlotGranularityMinutes,
		&settings.MinBookingNoticeMinutes,
		&settings.AdvanceBookingDays,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBookingSettings - scan settings: %v", ErrScanRow, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}

// UpsertBookingSettings создает или обновляет настройки записи салона
func (r *Repository) UpsertBookingSettings(ctx context.Context, settings *domain.BookingSettings) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_settings").
		Columns(
			"business_id",
			"slot_granularity_minutes",
			"min_booking_notice_minutes",
			"advance_booking_days",
		).
		Values(
			settings.BusinessID,
			settings.SlotGranularityMinutes,
			settings.MinBookingNoticeMinutes,
			settings.AdvanceBookingDays,
		).
		Suffix(`ON CONFLICT (business_id) DO UPDATE SET
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertBookingSettings - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertBookingSettings - execute upsert: %v", ErrExecQuery, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return settings, nil
}
