// Package scheduling содержит движок подбора слотов и мастеров.
//
// Движок синхронный и чистый: работает над неизменяемыми снапшотами
// справочных данных и списка бронирований, не делает I/O и не читает часы.
// Все "гонки" закрываются вызывающей стороной - повторным чтением данных
// и транзакцией на пути фиксации бронирования.
package scheduling

import (
	"time"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
)

// ResolveBusinessWindow возвращает рабочее окно салона на дату
// или nil, если салон закрыт либо запись расписания некорректна (close <= open)
func ResolveBusinessWindow(hours *domain.BusinessHours, date time.Time) *domain.Window {
	if hours == nil {
		return nil
	}

	entry := hours.EntryFor(date.Weekday())
	if entry == nil {
		return nil
	}
	return entry.Window()
}

// ResolveWorkerWindow возвращает рабочее окно мастера на дату.
//
// Три состояния различаются намеренно:
//   - расписание мастера вообще не задано - мастер работает по часам салона
//     (обратная совместимость со старыми данными);
//   - расписание задано, но записи на этот день нет - день закрыт, nil;
//   - запись есть - её окно (nil, если open/close не заданы или некорректны).
func ResolveWorkerWindow(worker *domain.Worker, date time.Time, businessWindow *domain.Window) *domain.Window {
	if !worker.HasAvailabilityConfig() {
		return businessWindow
	}

	entry := worker.AvailabilityFor(date.Weekday())
	if entry == nil {
		return nil
	}
	return entry.Window()
}

// EffectiveWindow возвращает пересечение окна салона и окна мастера,
// или nil, если хотя бы одно из них пусто
func EffectiveWindow(businessWindow, workerWindow *domain.Window) *domain.Window {
	if businessWindow == nil || workerWindow == nil {
		return nil
	}
	return businessWindow.Intersect(*workerWindow)
}

// BuildWorkerWindows вычисляет эффективные окна всех мастеров на дату.
// Значение nil в карте означает "мастер в этот день недоступен".
func BuildWorkerWindows(workers []*domain.Worker, date time.Time, businessWindow *domain.Window) map[string]*domain.Window {
	windows := make(map[string]*domain.Window, len(workers))
	for _, worker := range workers {
		workerWindow := ResolveWorkerWindow(worker, date, businessWindow)
		windows[worker.ID] = EffectiveWindow(businessWindow, workerWindow)
	}
	return windows
}

// BusinessBreaksFor возвращает перерывы салона на дату.
// Без расписания или без записи на этот день перерывов нет.
func BusinessBreaksFor(hours *domain.BusinessHours, date time.Time) []domain.BreakRange {
	if hours == nil {
		return nil
	}

	entry := hours.EntryFor(date.Weekday())
	if entry == nil {
		return nil
	}
	return entry.Breaks
}

// phaseBlockedByBreak возвращает true, если фаза попадает в перерыв.
// Мастер с собственной записью расписания живёт по своим перерывам;
// мастер без записи работает по часам салона и наследует перерывы салона.
// Перерывы проверяются на уровне отдельных фаз: wait-разрыв цепочки может
// пересекаться с перерывом - мастер в это время и так не работает с клиентом.
func phaseBlockedByBreak(worker *domain.Worker, date time.Time, businessBreaks []domain.BreakRange, startMin, endMin int) bool {
	breaks := businessBreaks
	if entry := worker.AvailabilityFor(date.Weekday()); entry != nil {
		breaks = entry.Breaks
	}

	for _, br := range breaks {
		if br.BlocksPhase(startMin, endMin) {
			return true
		}
	}
	return false
}
