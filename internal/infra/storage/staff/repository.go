package staff

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/dbmetrics"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/psqlbuilder"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

// Repository репозиторий для работы с мастерами и их расписаниями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория мастеров
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListWorkers получает ростер мастеров салона вместе с индивидуальными
// расписаниями и перерывами.
//
// Порядок ростера стабильный (sort_order, затем id): движок подбора
// разрешает ничьи первым подходящим мастером, и этот порядок должен
// совпадать между показом слотов и фиксацией бронирования.
func (r *Repository) ListWorkers(ctx context.Context, businessID int64) ([]*domain.Worker, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"active",
		"services",
	).
		From("workers").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("sort_order ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListWorkers - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListWorkers - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.Worker)
	workers := make([]*domain.Worker, 0)
	ids := make([]string, 0)

	for rows.Next() {
		var worker domain.Worker
		err := rows.Scan(
			&worker.ID,
			&worker.Name,
			&worker.Active,
			pq.Array(&worker.Services),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListWorkers - scan row: %v", ErrScanRow, err)
		}

		byID[worker.ID] = &worker
		workers = append(workers, &worker)
		ids = append(ids, worker.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListWorkers - rows error: %v", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return workers, nil
	}

	if err := r.loadAvailability(ctx, executor, byID, ids); err != nil {
		return nil, err
	}

	return workers, nil
}

// GetWorkerByID получает одного мастера с расписанием
func (r *Repository) GetWorkerByID(ctx context.Context, businessID int64, workerID string) (*domain.Worker, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"active",
		"services",
	).
		From("workers").
		Where(squirrel.Eq{"business_id": businessID, "id": workerID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkerByID - build select query: %v", ErrBuildQuery, err)
	}

	var worker domain.Worker
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&worker.ID,
		&worker.Name,
		&worker.Active,
		pq.Array(&worker.Services),
	)

	if err == sql.ErrNoRows {
		return nil, ErrWorkerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetWorkerByID - scan worker: %v", ErrScanRow, err)
	}

	byID := map[string]*domain.Worker{worker.ID: &worker}
	if err := r.loadAvailability(ctx, executor, byID, []string{worker.ID}); err != nil {
		return nil, err
	}

	return &worker, nil
}

// IsBusinessManager проверяет, является ли пользователь менеджером салона
func (r *Repository) IsBusinessManager(ctx context.Context, businessID, userID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("business_managers").
		Where(squirrel.Eq{"business_id": businessID, "user_id": userID}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: IsBusinessManager - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: IsBusinessManager - scan row: %v", ErrScanRow, err)
	}

	return true, nil
}

// loadAvailability догружает индивидуальные расписания и перерывы мастеров.
// У мастера без строк в worker_hours расписание остаётся пустым -
// такой мастер работает по часам салона.
func (r *Repository) loadAvailability(ctx context.Context, executor DBExecutor, byID map[string]*domain.Worker, ids []string) error {
	query, args, err := psqlbuilder.Select(
		"worker_id",
		"weekday",
		"open_time",
		"close_time",
	).
		From("worker_hours").
		Where(squirrel.Eq{"worker_id": ids}).
		OrderBy("worker_id ASC, weekday ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadAvailability - build hours query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadAvailability - execute hours query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	// Ключ для раскладки перерывов по записям расписания
	type dayKey struct {
		workerID string
		weekday  time.Weekday
	}
	entryIndex := make(map[dayKey]int)

	for rows.Next() {
		var workerID string
		var weekday int
		var openTime, closeTime sql.NullString

		if err := rows.Scan(&workerID, &weekday, &openTime, &closeTime); err != nil {
			return fmt.Errorf("%w: loadAvailability - scan hours row: %v", ErrScanRow, err)
		}

		worker, ok := byID[workerID]
		if !ok {
			continue
		}

		entry := domain.OpeningHours{Weekday: time.Weekday(weekday)}
		if openTime.Valid && closeTime.Valid {
			open := types.TimeString(openTime.String)
			close := types.TimeString(closeTime.String)
			entry.Open = &open
			entry.Close = &close
		}

		worker.Availability = append(worker.Availability, entry)
		entryIndex[dayKey{workerID, entry.Weekday}] = len(worker.Availability) - 1
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadAvailability - hours rows error: %v", ErrScanRow, err)
	}

	query, args, err = psqlbuilder.Select(
		"worker_id",
		"weekday",
		"start_minutes",
		"end_minutes",
	).
		From("worker_breaks").
		Where(squirrel.Eq{"worker_id": ids}).
		OrderBy("worker_id ASC, weekday ASC, start_minutes ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadAvailability - build breaks query: %v", ErrBuildQuery, err)
	}

	breakRows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadAvailability - execute breaks query: %v", ErrExecQuery, err)
	}
	defer breakRows.Close()

	for breakRows.Next() {
		var workerID string
		var weekday int
		var breakRange domain.BreakRange

		if err := breakRows.Scan(&workerID, &weekday, &breakRange.StartMin, &breakRange.EndMin); err != nil {
			return fmt.Errorf("%w: loadAvailability - scan breaks row: %v", ErrScanRow, err)
		}

		worker, ok := byID[workerID]
		if !ok {
			continue
		}

		// Перерыв без записи расписания на этот день игнорируется
		idx, ok := entryIndex[dayKey{workerID, time.Weekday(weekday)}]
		if !ok {
			continue
		}
		worker.Availability[idx].Breaks = append(worker.Availability[idx].Breaks, breakRange)
	}
	if err := breakRows.Err(); err != nil {
		return fmt.Errorf("%w: loadAvailability - breaks rows error: %v", ErrScanRow, err)
	}

	return nil
}
