package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/dbmetrics"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/psqlbuilder"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

// Колонки таблицы bookings для выборок
var bookingColumns = []string{
	"id",
	"public_id",
	"business_id",
	"client_id",
	"booking_date",
	"start_time",
	"end_time",
	"total_minutes",
	"status",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями и их фазами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование вместе с фазами визита.
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Иначе выполняет обычные запросы без транзакции.
//
// При создании через usecase бронирования запись ВСЕГДА идет в serializable-транзакции:
// между показом слота и фиксацией параллельная запись могла занять мастера,
// и перепроверка с блокировкой строк - единственная защита от двойной записи.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"public_id",
			"business_id",
			"client_id",
			"booking_date",
			"start_time",
			"end_time",
			"total_minutes",
			"status",
			"notes",
		).
		Values(
			booking.PublicID,
			booking.BusinessID,
			booking.ClientID,
			booking.BookingDate,
			booking.StartTime,
			booking.EndTime,
			booking.TotalMin,
			booking.Status,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	if err := r.insertPhases(ctx, executor, booking.ID, booking.Phases); err != nil {
		return nil, err
	}

	return booking, nil
}

// insertPhases вставляет фазы визита одним запросом
func (r *Repository) insertPhases(ctx context.Context, executor DBExecutor, bookingID int64, phases []domain.ResolvedPhase) error {
	if len(phases) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("booking_phases").
		Columns(
			"booking_id",
			"service_order",
			"service_id",
			"service_name",
			"service_type",
			"duration_minutes",
			"start_time",
			"end_time",
			"worker_id",
			"worker_name",
			"follow_up_service_id",
			"follow_up_service_name",
			"follow_up_service_type",
			"follow_up_duration_minutes",
			"follow_up_wait_minutes",
			"follow_up_start_time",
			"follow_up_end_time",
			"follow_up_worker_id",
			"follow_up_worker_name",
		)

	for _, phase := range phases {
		var (
			fuServiceID, fuServiceName, fuServiceType *string
			fuDuration, fuWait                        *int
			fuStart, fuEnd                            *string
			fuWorkerID, fuWorkerName                  *string
		)
		if fu := phase.FollowUp; fu != nil {
			fuServiceID = &fu.ServiceID
			fuServiceName = &fu.ServiceName
			fuServiceType = &fu.ServiceType
			fuDuration = &fu.DurationMin
			fuWait = &fu.WaitMin
			start := string(fu.StartAt)
			end := string(fu.EndAt)
			fuStart = &start
			fuEnd = &end
			fuWorkerID = &fu.WorkerID
			fuWorkerName = &fu.WorkerName
		}

		insertBuilder = insertBuilder.Values(
			bookingID,
			phase.ServiceOrder,
			phase.ServiceID,
			phase.ServiceName,
			phase.ServiceType,
			phase.DurationMin,
			phase.StartAt,
			phase.EndAt,
			phase.WorkerID,
			phase.WorkerName,
			fuServiceID,
			fuServiceName,
			fuServiceType,
			fuDuration,
			fuWait,
			fuStart,
			fuEnd,
			fuWorkerID,
			fuWorkerName,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertPhases - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertPhases - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByPublicID получает бронирование по публичному UUID вместе с фазами
func (r *Repository) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"public_id": publicID})
}

func (r *Repository) getOne(ctx context.Context, where squirrel.Eq) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getOne - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getOne - scan booking: %v", ErrScanRow, err)
	}

	if err := r.loadPhases(ctx, executor, []*domain.Booking{booking}); err != nil {
		return nil, err
	}

	return booking, nil
}

// GetByClientID получает список бронирований клиента, новые визиты первыми.
// Опционально фильтрует по статусу.
func (r *Repository) GetByClientID(ctx context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"client_id": clientID}).
		OrderBy("booking_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByClientID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadPhases(ctx, executor, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// GetByBusinessWithFilter получает бронирования салона с гибкой фильтрацией.
// Поддерживает фильтрацию по периоду, мастеру и статусу; неактивные
// (отменённые и no-show) по умолчанию исключаются.
//
// Для выборки на конкретную дату сортировка идет по времени начала,
// для периода - по дате и времени, новые первыми.
func (r *Repository) GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessBookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	// Фильтр по мастеру смотрит в фазы: мастер мог быть и на основной
	// услуге, и на завершающем этапе чужой фазы
	if filter.WorkerID != nil {
		selectBuilder = selectBuilder.Where(
			squirrel.Expr(
				"EXISTS (SELECT 1 FROM booking_phases bp WHERE bp.booking_id = bookings.id AND (bp.worker_id = ? OR bp.follow_up_worker_id = ?))",
				*filter.WorkerID, *filter.WorkerID,
			),
		)
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings})
	}

	singleDate := filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate)
	if singleDate {
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC, start_time DESC")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}

	if err := r.loadPhases(ctx, executor, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// ListForDate получает занятость мастеров салона на дату в виде
// компактной проекции для движка подбора.
//
// Внутри транзакции добавляет FOR UPDATE: путь фиксации бронирования
// блокирует строки дня, чтобы две параллельные записи не взяли
// одного мастера на одно время.
func (r *Repository) ListForDate(ctx context.Context, businessID int64, date time.Time) ([]*domain.BookingForDate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "status", "total_minutes").
		From("bookings").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"booking_date": date}).
		OrderBy("start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	byID := make(map[int64]*domain.BookingForDate)
	result := make([]*domain.BookingForDate, 0)
	ids := make([]int64, 0)

	for rows.Next() {
		var booking domain.BookingForDate
		if err := rows.Scan(&booking.ID, &booking.Status, &booking.DurationMin); err != nil {
			return nil, fmt.Errorf("%w: ListForDate - scan row: %v", ErrScanRow, err)
		}
		byID[booking.ID] = &booking
		result = append(result, &booking)
		ids = append(ids, booking.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListForDate - rows error: %v", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return result, nil
	}

	query, args, err = psqlbuilder.Select(
		"booking_id",
		"worker_id",
		"start_time",
		"end_time",
		"follow_up_worker_id",
		"follow_up_start_time",
		"follow_up_end_time",
	).
		From("booking_phases").
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("booking_id ASC, service_order ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListForDate - build phases query: %v", ErrBuildQuery, err)
	}

	phaseRows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListForDate - execute phases query: %v", ErrExecQuery, err)
	}
	defer phaseRows.Close()

	for phaseRows.Next() {
		var (
			bookingID      int64
			phase          domain.BookedPhase
			fuWorkerID     sql.NullString
			fuStart, fuEnd sql.NullString
		)
		if err := phaseRows.Scan(
			&bookingID,
			&phase.WorkerID,
			&phase.StartAt,
			&phase.EndAt,
			&fuWorkerID,
			&fuStart,
			&fuEnd,
		); err != nil {
			return nil, fmt.Errorf("%w: ListForDate - scan phase row: %v", ErrScanRow, err)
		}

		booking, ok := byID[bookingID]
		if !ok {
			continue
		}
		booking.Phases = append(booking.Phases, phase)

		if fuWorkerID.Valid {
			booking.Phases = append(booking.Phases, domain.BookedPhase{
				WorkerID: fuWorkerID.String,
				StartAt:  types.TimeString(fuStart.String),
				EndAt:    types.TimeString(fuEnd.String),
			})
		}
	}
	if err := phaseRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListForDate - phase rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// loadPhases догружает фазы для выбранных бронирований одним запросом
func (r *Repository) loadPhases(ctx context.Context, executor DBExecutor, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Booking, len(bookings))
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	query, args, err := psqlbuilder.Select(
		"booking_id",
		"service_order",
		"service_id",
		"service_name",
		"service_type",
		"duration_minutes",
		"start_time",
		"end_time",
		"worker_id",
		"worker_name",
		"follow_up_service_id",
		"follow_up_service_name",
		"follow_up_service_type",
		"follow_up_duration_minutes",
		"follow_up_wait_minutes",
		"follow_up_start_time",
		"follow_up_end_time",
		"follow_up_worker_id",
		"follow_up_worker_name",
	).
		From("booking_phases").
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("booking_id ASC, service_order ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadPhases - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadPhases - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookingID int64
			phase     domain.ResolvedPhase

			fuServiceID, fuServiceName, fuServiceType sql.NullString
			fuDuration, fuWait                        sql.NullInt64
			fuStart, fuEnd                            sql.NullString
			fuWorkerID, fuWorkerName                  sql.NullString
		)

		err := rows.Scan(
			&bookingID,
			&phase.ServiceOrder,
			&phase.ServiceID,
			&phase.ServiceName,
			&phase.ServiceType,
			&phase.DurationMin,
			&phase.StartAt,
			&phase.EndAt,
			&phase.WorkerID,
			&phase.WorkerName,
			&fuServiceID,
			&fuServiceName,
			&fuServiceType,
			&fuDuration,
			&fuWait,
			&fuStart,
			&fuEnd,
			&fuWorkerID,
			&fuWorkerName,
		)
		if err != nil {
			return fmt.Errorf("%w: loadPhases - scan row: %v", ErrScanRow, err)
		}

		if fuServiceID.Valid {
			phase.FollowUp = &domain.ResolvedFollowUp{
				ServiceID:   fuServiceID.String,
				ServiceName: fuServiceName.String,
				ServiceType: fuServiceType.String,
				DurationMin: int(fuDuration.Int64),
				WaitMin:     int(fuWait.Int64),
				StartAt:     types.TimeString(fuStart.String),
				EndAt:       types.TimeString(fuEnd.String),
				WorkerID:    fuWorkerID.String,
				WorkerName:  fuWorkerName.String,
			}
		}

		booking, ok := byID[bookingID]
		if !ok {
			continue
		}
		booking.Phases = append(booking.Phases, phase)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadPhases - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку bookings
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.PublicID,
		&booking.BusinessID,
		&booking.ClientID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.EndTime,
		&booking.TotalMin,
		&booking.Status,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований (без фаз)
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
