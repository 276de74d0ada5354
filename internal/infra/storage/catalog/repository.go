package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/dbmetrics"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/psqlbuilder"
)

// Колонки таблицы pricing_items для выборок
var pricingItemColumns = []string{
	"id",
	"service_id",
	"business_id",
	"name",
	"duration_min_minutes",
	"duration_max_minutes",
	"price",
	"price_max",
	"follow_up_name",
	"follow_up_service_id",
	"follow_up_duration_minutes",
	"follow_up_wait_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий каталога: услуги, варианты услуг и комбо-правила
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServiceByID получает услугу салона по ID
func (r *Repository) GetServiceByID(ctx context.Context, businessID int64, serviceID string) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"category",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"business_id": businessID, "id": serviceID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.BusinessID,
		&service.Name,
		&service.Category,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - scan service: %v", ErrScanRow, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return &service, nil
}

// ListServices получает все услуги салона в стабильном порядке
func (r *Repository) ListServices(ctx context.Context, businessID int64) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"category",
		"created_at",
		"updated_at",
	).
		From("services").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var service domain.Service
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&service.ID,
			&service.BusinessID,
			&service.Name,
			&service.Category,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %v", ErrScanRow, err)
		}

		service.CreatedAt = createdAt.Time
		service.UpdatedAt = updatedAt.Time

		services = append(services, &service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// GetPricingItemByID получает вариант услуги по ID
func (r *Repository) GetPricingItemByID(ctx context.Context, businessID int64, pricingItemID string) (*domain.PricingItem, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(pricingItemColumns...).
		From("pricing_items").
		Where(squirrel.Eq{"business_id": businessID, "id": pricingItemID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPricingItemByID - build select query: %v", ErrBuildQuery, err)
	}

	item, err := scanPricingItem(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPricingItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPricingItemByID - scan pricing item: %v", ErrScanRow, err)
	}

	return item, nil
}

// GetPricingItemsByIDs получает несколько вариантов услуг одним запросом.
// Если хотя бы один ID не найден, возвращает ErrPricingItemNotFound:
// цепочка с неизвестным типом услуги не может быть построена.
func (r *Repository) GetPricingItemsByIDs(ctx context.Context, businessID int64, ids []string) ([]*domain.PricingItem, error) {
	if len(ids) == 0 {
		return []*domain.PricingItem{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(pricingItemColumns...).
		From("pricing_items").
		Where(squirrel.Eq{"business_id": businessID, "id": ids}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPricingItemsByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPricingItemsByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.PricingItem)
	for rows.Next() {
		item, err := scanPricingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetPricingItemsByIDs - scan row: %v", ErrScanRow, err)
		}
		byID[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetPricingItemsByIDs - rows error: %v", ErrScanRow, err)
	}

	// Результат возвращается в порядке запрошенных ID: порядок выбора
	// клиента определяет порядок фаз визита
	items := make([]*domain.PricingItem, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: GetPricingItemsByIDs - id %q", ErrPricingItemNotFound, id)
		}
		items = append(items, item)
	}

	return items, nil
}

// ListCombos получает все комбо-правила салона вместе с шагами
func (r *Repository) ListCombos(ctx context.Context, businessID int64) ([]*domain.Combo, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"business_id",
		"name",
		"trigger_pricing_item_ids",
		"created_at",
		"updated_at",
	).
		From("combos").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListCombos - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListCombos - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	byID := make(map[string]*domain.Combo)
	combos := make([]*domain.Combo, 0)
	ids := make([]string, 0)

	for rows.Next() {
		var combo domain.Combo
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&combo.ID,
			&combo.BusinessID,
			&combo.Name,
			pq.Array(&combo.TriggerPricingItemIDs),
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListCombos - scan row: %v", ErrScanRow, err)
		}

		combo.CreatedAt = createdAt.Time
		combo.UpdatedAt = updatedAt.Time

		byID[combo.ID] = &combo
		combos = append(combos, &combo)
		ids = append(ids, combo.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListCombos - rows error: %v", ErrScanRow, err)
	}

	if len(ids) == 0 {
		return combos, nil
	}

	query, args, err = psqlbuilder.Select(
		"combo_id",
		"service_id",
		"pricing_item_id",
		"finish_gap_before_minutes",
		"auto_appended",
	).
		From("combo_steps").
		Where(squirrel.Eq{"combo_id": ids}).
		OrderBy("combo_id ASC, step_order ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListCombos - build steps query: %v", ErrBuildQuery, err)
	}

	stepRows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListCombos - execute steps query: %v", ErrExecQuery, err)
	}
	defer stepRows.Close()

	for stepRows.Next() {
		var comboID string
		var step domain.ComboStep

		err := stepRows.Scan(
			&comboID,
			&step.ServiceID,
			&step.PricingItemID,
			&step.FinishGapBefore,
			&step.AutoAppended,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListCombos - scan step row: %v", ErrScanRow, err)
		}

		combo, ok := byID[comboID]
		if !ok {
			continue
		}
		combo.Steps = append(combo.Steps, step)
	}
	if err := stepRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListCombos - step rows error: %v", ErrScanRow, err)
	}

	return combos, nil
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanPricingItem сканирует строку pricing_items, собирая follow-up
// из nullable колонок
func scanPricingItem(row rowScanner) (*domain.PricingItem, error) {
	var item domain.PricingItem
	var createdAt, updatedAt sql.NullTime

	var (
		fuName      sql.NullString
		fuServiceID sql.NullString
		fuDuration  sql.NullInt64
		fuWait      sql.NullInt64
	)

	err := row.Scan(
		&item.ID,
		&item.ServiceID,
		&item.BusinessID,
		&item.Name,
		&item.DurationMinMinutes,
		&item.DurationMaxMinutes,
		&item.Price,
		&item.PriceMax,
		&fuName,
		&fuServiceID,
		&fuDuration,
		&fuWait,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fuDuration.Valid && fuDuration.Int64 > 0 {
		item.FollowUp = &domain.FollowUpSpec{
			Name:            fuName.String,
			ServiceID:       fuServiceID.String,
			DurationMinutes: int(fuDuration.Int64),
			WaitMinutes:     int(fuWait.Int64),
		}
	}

	item.CreatedAt = createdAt.Time
	item.UpdatedAt = updatedAt.Time

	return &item, nil
}
