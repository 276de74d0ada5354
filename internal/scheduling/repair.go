package scheduling

import (
	"fmt"
	"time"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
)

// RepairParams снапшот данных для повторной проверки назначений на пути фиксации
type RepairParams struct {
	Date            time.Time
	BookingsForDate []*domain.BookingForDate
	WorkerWindows   map[string]*domain.Window
	BusinessWindow  domain.Window
	BusinessBreaks  []domain.BreakRange
}

// ValidationResult результат финальной структурной проверки цепочки
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// segment один отрезок цепочки для проверки: основная фаза или её follow-up
type segment struct {
	service  domain.ServiceKey
	workerID string
	startMin int
	endMin   int
	// setWorker записывает замену мастера обратно в цепочку
	setWorker func(id, name string)
}

// RepairInvalidAssignments перепроверяет назначенного мастера каждой фазы
// (умение + доступность + конфликты) и при необходимости молча переназначает
// на первого подходящего мастера ростера.
//
// Показ слотов и фиксация разнесены во времени - пока клиент заполнял форму,
// параллельная запись могла занять единственного подходящего мастера. Такой
// случай чинится здесь, а не всплывает к клиенту непонятной ошибкой.
// Если замены нет хотя бы для одной фазы, возвращается nil.
//
// На уже валидных назначениях функция идемпотентна: возвращает цепочку без изменений.
func RepairInvalidAssignments(
	resolvedPhases []domain.ResolvedPhase,
	workers []*domain.Worker,
	p RepairParams,
) []domain.ResolvedPhase {
	if resolvedPhases == nil {
		return nil
	}

	phases := clonePhases(resolvedPhases)
	segments, ok := chainSegments(phases)
	if !ok {
		return nil
	}

	busyCache := make(map[string][]domain.Window, len(workers))

	for i := range segments {
		seg := &segments[i]

		current := findWorker(workers, seg.workerID)
		if current != nil && segmentFits(current, seg, segments, i, p, busyCache) {
			continue
		}

		// Текущий мастер стал невалиден - ищем замену по всему ростеру
		replacement := findReplacement(workers, seg, segments, i, p, busyCache)
		if replacement == nil {
			return nil
		}
		seg.workerID = replacement.ID
		seg.setWorker(replacement.ID, replacement.Name)
	}

	return phases
}

// ValidateChainAssignments финальная структурная проверка перед записью:
// каждая пара (услуга, мастер), включая follow-up этапы, валидна по умению
// прямо сейчас. Время и конфликты здесь не проверяются - это уже сделано;
// проверка ловит рассинхронизацию данных (список услуг мастера поменяли
// под ногами у процесса записи). При провале бронирование писать нельзя,
// первая ошибка показывается вызывающей стороне дословно.
func ValidateChainAssignments(resolvedPhases []domain.ResolvedPhase, workers []*domain.Worker) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	check := func(service domain.ServiceKey, serviceName, workerID string) {
		worker := findWorker(workers, workerID)
		if worker == nil {
			result.Valid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("worker %q assigned to service %q no longer exists", workerID, serviceName))
			return
		}
		if !worker.IsBookable() {
			result.Valid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("worker %q assigned to service %q is inactive", workerID, serviceName))
			return
		}
		if !worker.CanPerform(service) {
			result.Valid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("worker %q can no longer perform service %q", workerID, serviceName))
		}
	}

	for _, phase := range resolvedPhases {
		check(domain.ServiceKey{ID: phase.ServiceID, Name: phase.ServiceName}, phase.ServiceName, phase.WorkerID)
		if phase.FollowUp != nil {
			fu := phase.FollowUp
			check(domain.ServiceKey{ID: fu.ServiceID, Name: fu.ServiceName}, fu.ServiceName, fu.WorkerID)
		}
	}

	return result
}

// chainSegments раскладывает цепочку на проверяемые отрезки.
// Возвращает false, если какой-то отрезок несёт некорректное время.
func chainSegments(phases []domain.ResolvedPhase) ([]segment, bool) {
	segments := make([]segment, 0, len(phases)*2)

	for i := range phases {
		phase := &phases[i]

		startMin, err := phase.StartAt.Minutes()
		if err != nil {
			return nil, false
		}
		endMin, err := phase.EndAt.Minutes()
		if err != nil {
			return nil, false
		}

		segments = append(segments, segment{
			service:  domain.ServiceKey{ID: phase.ServiceID, Name: phase.ServiceName},
			workerID: phase.WorkerID,
			startMin: startMin,
			endMin:   endMin,
			setWorker: func(id, name string) {
				phase.WorkerID = id
				phase.WorkerName = name
			},
		})

		if phase.FollowUp == nil {
			continue
		}

		fu := phase.FollowUp
		fuStart, err := fu.StartAt.Minutes()
		if err != nil {
			return nil, false
		}
		fuEnd, err := fu.EndAt.Minutes()
		if err != nil {
			return nil, false
		}

		segments = append(segments, segment{
			service:  domain.ServiceKey{ID: fu.ServiceID, Name: fu.ServiceName},
			workerID: fu.WorkerID,
			startMin: fuStart,
			endMin:   fuEnd,
			setWorker: func(id, name string) {
				fu.WorkerID = id
				fu.WorkerName = name
			},
		})
	}

	return segments, true
}

// segmentFits проверяет мастера для отрезка теми же тремя проверками,
// что и резолвер: умение, окно с перерывами, занятость и конфликт
// с другими отрезками этой же цепочки
func segmentFits(
	worker *domain.Worker,
	seg *segment,
	segments []segment,
	segIndex int,
	p RepairParams,
	busyCache map[string][]domain.Window,
) bool {
	if !worker.IsBookable() || !worker.CanPerform(seg.service) {
		return false
	}

	window := p.WorkerWindows[worker.ID]
	if window == nil || !window.Contains(seg.startMin, seg.endMin) {
		return false
	}
	if phaseBlockedByBreak(worker, p.Date, p.BusinessBreaks, seg.startMin, seg.endMin) {
		return false
	}

	busy, ok := busyCache[worker.ID]
	if !ok {
		busy = WorkerBusyIntervals(p.BookingsForDate, worker.ID)
		busyCache[worker.ID] = busy
	}
	if overlapsAny(busy, seg.startMin, seg.endMin) {
		return false
	}

	for i := range segments {
		if i == segIndex {
			continue
		}
		other := &segments[i]
		if other.workerID == worker.ID &&
			domain.IntervalsOverlap(other.startMin, other.endMin, seg.startMin, seg.endMin) {
			return false
		}
	}

	return true
}

// findReplacement ищет первого подходящего мастера в стабильном порядке ростера
func findReplacement(
	workers []*domain.Worker,
	seg *segment,
	segments []segment,
	segIndex int,
	p RepairParams,
	busyCache map[string][]domain.Window,
) *domain.Worker {
	for _, worker := range workers {
		if segmentFits(worker, seg, segments, segIndex, p, busyCache) {
			return worker
		}
	}
	return nil
}

// findWorker ищет мастера в ростере по id
func findWorker(workers []*domain.Worker, id string) *domain.Worker {
	for _, worker := range workers {
		if worker.ID == id {
			return worker
		}
	}
	return nil
}

// clonePhases делает глубокую копию цепочки, чтобы repair не мутировал вход
func clonePhases(phases []domain.ResolvedPhase) []domain.ResolvedPhase {
	cloned := make([]domain.ResolvedPhase, len(phases))
	copy(cloned, phases)
	for i := range cloned {
		if cloned[i].FollowUp != nil {
			fu := *cloned[i].FollowUp
			cloned[i].FollowUp = &fu
		}
	}
	return cloned
}
