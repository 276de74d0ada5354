package schedule

import "errors"

var (
	// ErrHoursNotFound возвращается, когда расписание салона не найдено
	ErrHoursNotFound = errors.New("schedule.repository: business hours not found")

	// ErrSettingsNotFound возвращается, когда настройки записи не найдены
	ErrSettingsNotFound = errors.New("schedule.repository: booking settings not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
