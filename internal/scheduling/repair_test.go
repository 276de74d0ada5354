package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"

	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

// resolvedColorChain разрешённая цепочка Hebrew-сценария: окрашивание у Avi,
// укладка у Bob через 10 минут ожидания
func resolvedColorChain() []domain.ResolvedPhase {
	return []domain.ResolvedPhase{
		{
			ServiceOrder: 1,
			ServiceID:    "svc-color",
			ServiceName:  "גוונים",
			ServiceType:  "גוונים מלאים",
			DurationMin:  30,
			StartAt:      types.TimeString("10:00"),
			EndAt:        types.TimeString("10:30"),
			WorkerID:     "avi",
			WorkerName:   "Avi",
			FollowUp: &domain.ResolvedFollowUp{
				ServiceID:   "svc-blow",
				ServiceName: "פן",
				ServiceType: "פן",
				DurationMin: 20,
				WaitMin:     10,
				StartAt:     types.TimeString("10:40"),
				EndAt:       types.TimeString("11:00"),
				WorkerID:    "bob",
				WorkerName:  "Bob",
			},
		},
	}
}

func repairParams(workers []*domain.Worker) RepairParams {
	return RepairParams{
		Date:           testDate,
		WorkerWindows:  BuildWorkerWindows(workers, testDate, &businessDay),
		BusinessWindow: businessDay,
	}
}

func TestRepairInvalidAssignments_IdempotentOnValidChain(t *testing.T) {
	workers := testWorkers()
	original := resolvedColorChain()

	repaired := RepairInvalidAssignments(original, workers, repairParams(workers))

	require.NotNil(t, repaired)
	assert.Equal(t, resolvedColorChain(), repaired)
	// Вход не мутируется даже при переназначениях, проверяем и на валидном пути
	assert.Equal(t, resolvedColorChain(), original)
}

func TestRepairInvalidAssignments_ReassignsDeactivatedWorker(t *testing.T) {
	// Avi деактивирован после показа слота, Carmen умеет окрашивание
	workers := []*domain.Worker{
		{ID: "avi", Name: "Avi", Active: false, Services: []string{"גוונים"}},
		{ID: "bob", Name: "Bob", Active: true, Services: []string{"פן"}},
		{ID: "carmen", Name: "Carmen", Active: true, Services: []string{"גוונים"}},
	}

	repaired := RepairInvalidAssignments(resolvedColorChain(), workers, repairParams(workers))

	require.NotNil(t, repaired)
	assert.Equal(t, "carmen", repaired[0].WorkerID)
	assert.Equal(t, "Carmen", repaired[0].WorkerName)
	// Время фаз при ремонте не пересчитывается
	assert.Equal(t, types.TimeString("10:00"), repaired[0].StartAt)
	// Валидный follow-up не трогаем
	assert.Equal(t, "bob", repaired[0].FollowUp.WorkerID)
}

func TestRepairInvalidAssignments_ReassignsBusyWorker(t *testing.T) {
	// Bob занят параллельной записью в 10:40 - укладку чинит Dana
	workers := []*domain.Worker{
		{ID: "avi", Name: "Avi", Active: true, Services: []string{"גוונים"}},
		{ID: "bob", Name: "Bob", Active: true, Services: []string{"פן"}},
		{ID: "dana", Name: "Dana", Active: true, Services: []string{"פן"}},
	}

	p := repairParams(workers)
	p.BookingsForDate = []*domain.BookingForDate{
		{
			ID:       7,
			Status:   domain.StatusConfirmed,
			WorkerID: "bob",
			StartAt:  types.TimeString("10:30"),
			EndAt:    types.TimeString("11:00"),
		},
	}

	repaired := RepairInvalidAssignments(resolvedColorChain(), workers, p)

	require.NotNil(t, repaired)
	assert.Equal(t, "avi", repaired[0].WorkerID)
	assert.Equal(t, "dana", repaired[0].FollowUp.WorkerID)
	assert.Equal(t, "Dana", repaired[0].FollowUp.WorkerName)
}

func TestRepairInvalidAssignments_NilWhenNoReplacement(t *testing.T) {
	// Bob занят, а других мастеров с укладкой нет - ремонт невозможен
	workers := testWorkers()

	p := repairParams(workers)
	p.BookingsForDate = []*domain.BookingForDate{
		{
			ID:       7,
			Status:   domain.StatusConfirmed,
			WorkerID: "bob",
			StartAt:  types.TimeString("10:30"),
			EndAt:    types.TimeString("11:00"),
		},
	}

	assert.Nil(t, RepairInvalidAssignments(resolvedColorChain(), workers, p))
}

func TestRepairInvalidAssignments_ReplacementHonorsBusinessBreak(t *testing.T) {
	// Bob деактивирован, Dana без своего расписания наследует перерыв
	// салона 10:30 - 11:00 и укладку 10:40 - 11:00 взять не может
	workers := []*domain.Worker{
		{ID: "avi", Name: "Avi", Active: true, Services: []string{"גוונים"}},
		{ID: "bob", Name: "Bob", Active: false, Services: []string{"פן"}},
		{ID: "dana", Name: "Dana", Active: true, Services: []string{"פן"}},
	}

	p := repairParams(workers)
	p.BusinessBreaks = []domain.BreakRange{{StartMin: 630, EndMin: 660}}

	assert.Nil(t, RepairInvalidAssignments(resolvedColorChain(), workers, p))

	// Без перерыва та же замена проходит
	p.BusinessBreaks = nil
	repaired := RepairInvalidAssignments(resolvedColorChain(), workers, p)
	require.NotNil(t, repaired)
	assert.Equal(t, "dana", repaired[0].FollowUp.WorkerID)
}

func TestRepairInvalidAssignments_ReplacementAvoidsSelfOverlap(t *testing.T) {
	// Единственный кандидат на замену Bob уже держит основную фазу,
	// а укладка в этом сценарии идёт внахлёст с ней
	phases := resolvedColorChain()
	phases[0].FollowUp.StartAt = types.TimeString("10:15")
	phases[0].FollowUp.EndAt = types.TimeString("10:35")
	phases[0].FollowUp.WaitMin = 0

	workers := []*domain.Worker{
		{ID: "avi", Name: "Avi", Active: true, Services: []string{"גוונים", "פן"}},
		{ID: "bob", Name: "Bob", Active: false, Services: []string{"פן"}},
	}

	assert.Nil(t, RepairInvalidAssignments(phases, workers, repairParams(workers)))
}

func TestValidateChainAssignments(t *testing.T) {
	t.Run("valid chain", func(t *testing.T) {
		result := ValidateChainAssignments(resolvedColorChain(), testWorkers())
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	t.Run("worker removed from roster", func(t *testing.T) {
		workers := []*domain.Worker{
			{ID: "bob", Name: "Bob", Active: true, Services: []string{"פן"}},
		}

		result := ValidateChainAssignments(resolvedColorChain(), workers)
		require.False(t, result.Valid)
		assert.Equal(t, `worker "avi" assigned to service "גוונים" no longer exists`, result.Errors[0])
	})

	t.Run("worker deactivated", func(t *testing.T) {
		workers := []*domain.Worker{
			{ID: "avi", Name: "Avi", Active: false, Services: []string{"גוונים"}},
			{ID: "bob", Name: "Bob", Active: true, Services: []string{"פן"}},
		}

		result := ValidateChainAssignments(resolvedColorChain(), workers)
		require.False(t, result.Valid)
		assert.Equal(t, `worker "avi" assigned to service "גוונים" is inactive`, result.Errors[0])
	})

	t.Run("follow-up capability revoked", func(t *testing.T) {
		workers := []*domain.Worker{
			{ID: "avi", Name: "Avi", Active: true, Services: []string{"גוונים"}},
			{ID: "bob", Name: "Bob", Active: true, Services: []string{"מניקור"}},
		}

		result := ValidateChainAssignments(resolvedColorChain(), workers)
		require.False(t, result.Valid)
		assert.Equal(t, `worker "bob" can no longer perform service "פן"`, result.Errors[0])
	})
}
