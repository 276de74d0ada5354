package scheduling

import (
	"time"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"

	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

// RejectReason причина, по которой слот не предлагается
type RejectReason string

const (
	// RejectNoEligible ни у одной фазы нет способного и свободного мастера
	RejectNoEligible RejectReason = "no_eligible"

	// RejectOutsideHours цепочка не помещается в рабочее окно салона
	RejectOutsideHours RejectReason = "outside_hours"
)

// WorkerSelection выбор мастера клиентом: конкретный мастер или "любой".
// Два пути подбора типизированы явно, а не nullable-полем.
type WorkerSelection struct {
	preferredID string
	preferred   bool
}

// Preferred выбор конкретного мастера.
// Это подсказка, а не жёсткое требование: на фазы, которые мастер
// не умеет выполнять, подбор откатывается к "любому".
func Preferred(workerID string) WorkerSelection {
	return WorkerSelection{preferredID: workerID, preferred: true}
}

// AnyWorker выбор без предпочтения
func AnyWorker() WorkerSelection {
	return WorkerSelection{}
}

// PreferredID возвращает id предпочитаемого мастера, если он задан
func (s WorkerSelection) PreferredID() (string, bool) {
	return s.preferredID, s.preferred
}

// ResolveParams входные данные одного вызова резолвера.
// Снапшот должен быть внутренне согласован: один и тот же список
// бронирований используется на протяжении всего вызова.
type ResolveParams struct {
	Chain           []domain.ChainStep
	StartMin        int
	Date            time.Time
	Workers         []*domain.Worker // стабильный порядок ростера = порядок перебора
	BookingsForDate []*domain.BookingForDate
	Selection       WorkerSelection
	WorkerWindows   map[string]*domain.Window // эффективные окна на дату, nil = недоступен
	BusinessWindow  domain.Window
	BusinessBreaks  []domain.BreakRange // перерывы салона, наследуются мастерами без своего расписания
}

// SlotCheck результат проверки одного кандидатного слота
type SlotCheck struct {
	Valid             bool
	RejectReason      RejectReason
	RejectServiceName string
}

// assignment уже назначенный в рамках этого вызова отрезок
type assignment struct {
	workerID string
	startMin int
	endMin   int
}

// phaseFailure первая невыполнимая фаза цепочки
type phaseFailure struct {
	step   domain.ChainStep
	reason RejectReason
}

// ResolveChainWorkers назначает мастера каждой фазе цепочки для конкретного
// времени начала. Возвращает nil, если хотя бы одна фаза невыполнима:
// частичных результатов нет, невыполнимая цепочка целиком недоступна в этом слоте.
//
// Подбор детерминированный: для каждой фазы побеждает первый кандидат
// в стабильном порядке (предпочитаемый мастер, затем ростер), прошедший
// все три проверки - окно, занятость, отсутствие конфликта с уже
// назначенными фазами этой же цепочки.
func ResolveChainWorkers(p ResolveParams) []domain.ResolvedPhase {
	phases, _ := resolveChain(p)
	return phases
}

// CheckSlot проверяет предлагаемость слота без фиксации результата.
// Возвращает причину отказа и название первой невыполнимой услуги,
// чтобы вызывающая сторона могла объяснить недоступность слота.
func CheckSlot(p ResolveParams) SlotCheck {
	phases, failure := resolveChain(p)
	if phases != nil {
		return SlotCheck{Valid: true}
	}

	check := SlotCheck{Valid: false, RejectReason: RejectNoEligible}
	if failure != nil {
		check.RejectReason = failure.reason
		check.RejectServiceName = failure.step.Service.Name
	}
	return check
}

// resolveChain общий механизм подбора: свёртка по цепочке с аккумулятором
// (текущее время, назначения). Мутируемых "бегущих часов" нет - каждая
// итерация возвращает новое значение clock.
func resolveChain(p ResolveParams) ([]domain.ResolvedPhase, *phaseFailure) {
	if len(p.Chain) == 0 {
		return nil, nil
	}

	assignments := make([]assignment, 0, len(p.Chain))
	resolved := make([]domain.ResolvedPhase, 0, len(p.Chain))
	busyCache := make(map[string][]domain.Window, len(p.Workers))

	clock := p.StartMin
	for _, step := range p.Chain {
		phaseStart := clock + step.FinishGapBefore
		phaseEnd := phaseStart + step.DurationMin

		worker := pickWorker(p, step, phaseStart, phaseEnd, assignments, busyCache)
		if worker == nil {
			reason := RejectNoEligible
			if !p.BusinessWindow.Contains(phaseStart, phaseEnd) {
				reason = RejectOutsideHours
			}
			return nil, &phaseFailure{step: step, reason: reason}
		}

		assignments = append(assignments, assignment{
			workerID: worker.ID,
			startMin: phaseStart,
			endMin:   phaseEnd,
		})
		resolved = appendResolvedStep(resolved, step, phaseStart, phaseEnd, worker)

		clock = phaseEnd
	}

	return resolved, nil
}

// pickWorker возвращает первого кандидата, удовлетворяющего всем проверкам,
// или nil. Порядок кандидатов стабилен: предпочитаемый мастер (если он умеет
// именно эту фазу), иначе весь ростер в исходном порядке.
func pickWorker(
	p ResolveParams,
	step domain.ChainStep,
	phaseStart, phaseEnd int,
	assignments []assignment,
	busyCache map[string][]domain.Window,
) *domain.Worker {
	for _, worker := range candidateWorkers(p, step) {
		if !workerFitsPhase(p, worker, phaseStart, phaseEnd, assignments, busyCache) {
			continue
		}
		return worker
	}
	return nil
}

// candidateWorkers строит множество кандидатов для одной фазы.
//
// Предпочтение никогда не отменяет требование умения: если предпочитаемый
// мастер не умеет именно эту фазу (например, основную услугу умеет,
// а завершающую нет), для этой фазы подбор идёт по всему ростеру,
// а не проваливает цепочку целиком. Предпочтение не распространяется
// и на следующие фазы: каждая подбирает мастера независимо.
func candidateWorkers(p ResolveParams, step domain.ChainStep) []*domain.Worker {
	if preferredID, ok := p.Selection.PreferredID(); ok {
		for _, worker := range p.Workers {
			if worker.ID != preferredID {
				continue
			}
			if worker.IsBookable() && worker.CanPerform(step.Service) {
				return []*domain.Worker{worker}
			}
			break
		}
	}

	candidates := make([]*domain.Worker, 0, len(p.Workers))
	for _, worker := range p.Workers {
		if worker.IsBookable() && worker.CanPerform(step.Service) {
			candidates = append(candidates, worker)
		}
	}
	return candidates
}

// workerFitsPhase проверяет одного кандидата по трём осям:
// (a) фаза целиком в эффективном окне мастера и не попадает в его перерыв,
// (b) фаза не пересекается с занятыми интервалами мастера,
// (c) фаза не пересекается с отрезками, уже назначенными этому мастеру
// в рамках текущего вызова.
func workerFitsPhase(
	p ResolveParams,
	worker *domain.Worker,
	phaseStart, phaseEnd int,
	assignments []assignment,
	busyCache map[string][]domain.Window,
) bool {
	window := p.WorkerWindows[worker.ID]
	if window == nil || !window.Contains(phaseStart, phaseEnd) {
		return false
	}
	if phaseBlockedByBreak(worker, p.Date, p.BusinessBreaks, phaseStart, phaseEnd) {
		return false
	}

	busy, ok := busyCache[worker.ID]
	if !ok {
		busy = WorkerBusyIntervals(p.BookingsForDate, worker.ID)
		busyCache[worker.ID] = busy
	}
	if overlapsAny(busy, phaseStart, phaseEnd) {
		return false
	}

	for _, a := range assignments {
		if a.workerID == worker.ID && domain.IntervalsOverlap(a.startMin, a.endMin, phaseStart, phaseEnd) {
			return false
		}
	}

	return true
}

// appendResolvedStep добавляет разрешённый шаг к результату.
// Завершающий этап сворачивается в FollowUp предыдущей фазы,
// остальные шаги становятся самостоятельными фазами.
func appendResolvedStep(
	resolved []domain.ResolvedPhase,
	step domain.ChainStep,
	phaseStart, phaseEnd int,
	worker *domain.Worker,
) []domain.ResolvedPhase {
	startAt := minutesToTime(phaseStart)
	endAt := minutesToTime(phaseEnd)

	if step.Origin == domain.StepFinishing && len(resolved) > 0 {
		parent := &resolved[len(resolved)-1]
		parent.FollowUp = &domain.ResolvedFollowUp{
			ServiceID:   step.Service.ID,
			ServiceName: step.Service.Name,
			ServiceType: step.ServiceType,
			DurationMin: step.DurationMin,
			WaitMin:     step.FinishGapBefore,
			StartAt:     startAt,
			EndAt:       endAt,
			WorkerID:    worker.ID,
			WorkerName:  worker.Name,
		}
		return resolved
	}

	return append(resolved, domain.ResolvedPhase{
		ServiceOrder: len(resolved) + 1,
		ServiceID:    step.Service.ID,
		ServiceName:  step.Service.Name,
		ServiceType:  step.ServiceType,
		DurationMin:  step.DurationMin,
		StartAt:      startAt,
		EndAt:        endAt,
		WorkerID:     worker.ID,
		WorkerName:   worker.Name,
	})
}

// minutesToTime конвертирует минуты с полуночи в "HH:MM".
// Резолвер работает только внутри валидного окна салона,
// поэтому выход за сутки здесь невозможен.
func minutesToTime(min int) types.TimeString {
	ts, err := types.NewTimeStringFromMinutes(min)
	if err != nil {
		return ""
	}
	return ts
}
