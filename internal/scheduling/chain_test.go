package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
)

func catalogFixture() (map[string]*domain.Service, map[string]*domain.PricingItem) {
	services := map[string]*domain.Service{
		"svc-color": {ID: "svc-color", Name: "גוונים"},
		"svc-blow":  {ID: "svc-blow", Name: "פן"},
		"svc-cut":   {ID: "svc-cut", Name: "תספורת"},
	}
	pricingItems := map[string]*domain.PricingItem{
		"pi-color": {
			ID: "pi-color", ServiceID: "svc-color", Name: "גוונים מלאים",
			DurationMinMinutes: 25, DurationMaxMinutes: 30,
			FollowUp: &domain.FollowUpSpec{
				Name:            "פן",
				ServiceID:       "svc-blow",
				DurationMinutes: 20,
				WaitMinutes:     10,
			},
		},
		"pi-cut": {
			ID: "pi-cut", ServiceID: "svc-cut", Name: "תספורת נשים",
			DurationMinMinutes: 45,
		},
		"pi-blow": {
			ID: "pi-blow", ServiceID: "svc-blow", Name: "פן",
			DurationMinMinutes: 20,
		},
	}
	return services, pricingItems
}

func TestBaseChain(t *testing.T) {
	services, pricingItems := catalogFixture()

	chain := BaseChain([]SelectedService{
		{Service: services["svc-color"], PricingItem: pricingItems["pi-color"]},
	})

	require.Len(t, chain, 1)
	assert.Equal(t, domain.ServiceKey{ID: "svc-color", Name: "גוונים"}, chain[0].Service)
	assert.Equal(t, "גוונים מלאים", chain[0].ServiceType)
	// Резервируется верхняя граница диапазона длительности
	assert.Equal(t, 30, chain[0].DurationMin)
	assert.Equal(t, domain.StepSelected, chain[0].Origin)
}

func TestBuildChainWithFinishingService(t *testing.T) {
	services, pricingItems := catalogFixture()

	t.Run("single item with follow-up gets finishing step", func(t *testing.T) {
		base := BaseChain([]SelectedService{
			{Service: services["svc-color"], PricingItem: pricingItems["pi-color"]},
		})

		chain := BuildChainWithFinishingService(base, services, pricingItems)
		require.Len(t, chain, 2)

		finishing := chain[1]
		assert.Equal(t, domain.StepFinishing, finishing.Origin)
		assert.Equal(t, "svc-blow", finishing.Service.ID)
		assert.Equal(t, "פן", finishing.Service.Name)
		assert.Equal(t, 20, finishing.DurationMin)
		assert.Equal(t, 10, finishing.FinishGapBefore)
	})

	t.Run("item without follow-up passes through", func(t *testing.T) {
		base := BaseChain([]SelectedService{
			{Service: services["svc-cut"], PricingItem: pricingItems["pi-cut"]},
		})
		chain := BuildChainWithFinishingService(base, services, pricingItems)
		assert.Len(t, chain, 1)
	})

	t.Run("multi-service chain passes through untouched", func(t *testing.T) {
		base := BaseChain([]SelectedService{
			{Service: services["svc-color"], PricingItem: pricingItems["pi-color"]},
			{Service: services["svc-cut"], PricingItem: pricingItems["pi-cut"]},
		})
		chain := BuildChainWithFinishingService(base, services, pricingItems)
		assert.Len(t, chain, 2)
		for _, step := range chain {
			assert.NotEqual(t, domain.StepFinishing, step.Origin)
		}
	})
}

func TestComboChain(t *testing.T) {
	services, pricingItems := catalogFixture()

	combo := &domain.Combo{
		ID:                    "combo-1",
		Name:                  "צבע ותספורת",
		TriggerPricingItemIDs: []string{"pi-color", "pi-cut"},
		Steps: []domain.ComboStep{
			{ServiceID: "svc-color", PricingItemID: "pi-color"},
			{ServiceID: "svc-cut", PricingItemID: "pi-cut", FinishGapBefore: 15},
			{ServiceID: "svc-blow", PricingItemID: "pi-blow", AutoAppended: true},
		},
	}

	t.Run("expands rule steps in order", func(t *testing.T) {
		chain, err := ComboChain(combo, services, pricingItems)
		require.NoError(t, err)
		require.Len(t, chain, 3)

		assert.Equal(t, "svc-color", chain[0].Service.ID)
		assert.Equal(t, 15, chain[1].FinishGapBefore)
		assert.Equal(t, domain.StepCombo, chain[2].Origin)
	})

	t.Run("combo chain is not extended with finishing service", func(t *testing.T) {
		chain, err := ComboChain(combo, services, pricingItems)
		require.NoError(t, err)
		// ComboChain даёт больше одного шага, поэтому завершающий этап не дописывается
		extended := BuildChainWithFinishingService(chain, services, pricingItems)
		assert.Len(t, extended, 3)
	})

	t.Run("unknown pricing item is an error", func(t *testing.T) {
		broken := &domain.Combo{
			ID:    "combo-broken",
			Steps: []domain.ComboStep{{ServiceID: "svc-cut", PricingItemID: "pi-missing"}},
		}
		_, err := ComboChain(broken, services, pricingItems)
		require.Error(t, err)
	})
}

func TestMatchCombo(t *testing.T) {
	combo := &domain.Combo{ID: "combo-1", TriggerPricingItemIDs: []string{"pi-color", "pi-cut"}}
	combos := []*domain.Combo{combo}

	assert.Equal(t, combo, MatchCombo(combos, []string{"pi-cut", "pi-color"}))
	assert.Nil(t, MatchCombo(combos, []string{"pi-color"}))
	assert.Nil(t, MatchCombo(nil, []string{"pi-color"}))
}

func TestChainTotalDuration(t *testing.T) {
	chain := []domain.ChainStep{
		{DurationMin: 30},
		{DurationMin: 20, FinishGapBefore: 10},
	}
	assert.Equal(t, 60, ChainTotalDuration(chain))
	assert.Equal(t, 0, ChainTotalDuration(nil))
}
