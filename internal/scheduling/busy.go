package scheduling

import (
	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"

	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

// WorkerBusyIntervals извлекает блокирующие интервалы мастера из бронирований на дату.
//
// На каждое активное бронирование приходится по интервалу на каждый реально
// отработанный отрезок: основной, secondary, follow-up и каждая запись phases[].
// Wait-разрыв между фазой и её follow-up интервалом НЕ является: мастер в это
// время свободен для других задач салона, но сам слот другому клиенту не отдаётся
// (это свойство обеспечивает резолвер, а не busy-список).
//
// Функция чистая и дешёвая, пересчитывается на каждый кандидатный слот.
func WorkerBusyIntervals(bookings []*domain.BookingForDate, workerID string) []domain.Window {
	intervals := make([]domain.Window, 0, len(bookings))

	for _, booking := range bookings {
		if !booking.IsActive() {
			continue
		}

		if booking.WorkerID == workerID {
			if w := spanWindow(booking.StartAt, booking.EndAt); w != nil {
				intervals = append(intervals, *w)
			}
		}

		if booking.SecondaryWorkerID != nil && *booking.SecondaryWorkerID == workerID {
			if w := spanWindow(booking.SecondaryStartAt, booking.SecondaryEndAt); w != nil {
				intervals = append(intervals, *w)
			}
		}

		if booking.FollowUpWorkerID != nil && *booking.FollowUpWorkerID == workerID {
			if w := spanWindow(booking.FollowUpStartAt, booking.FollowUpEndAt); w != nil {
				intervals = append(intervals, *w)
			}
		}

		for _, phase := range booking.Phases {
			if phase.WorkerID != workerID {
				continue
			}
			if w := spanWindow(phase.StartAt, phase.EndAt); w != nil {
				intervals = append(intervals, *w)
			}
		}
	}

	return intervals
}

// overlapsAny возвращает true, если интервал [startMin, endMin)
// пересекается хотя бы с одним из intervals
func overlapsAny(intervals []domain.Window, startMin, endMin int) bool {
	for _, interval := range intervals {
		if interval.Overlaps(startMin, endMin) {
			return true
		}
	}
	return false
}

// spanWindow конвертирует пару "HH:MM" в окно.
// Отрезки с некорректным временем пропускаются: движок деградирует
// до "нет данных - нет блокировки" вместо падения на плохих данных.
func spanWindow(start, end types.TimeString) *domain.Window {
	if start.IsZero() || end.IsZero() {
		return nil
	}
	return domain.NewWindowFromTimes(start, end)
}
