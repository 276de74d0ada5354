package scheduling

import (
	"fmt"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
)

// SelectedService один выбранный клиентом шаг до разворачивания цепочки
type SelectedService struct {
	Service     *domain.Service
	PricingItem *domain.PricingItem
}

// BaseChain строит цепочку из выбранных клиентом шагов в исходном порядке
func BaseChain(selection []SelectedService) []domain.ChainStep {
	chain := make([]domain.ChainStep, 0, len(selection))
	for _, sel := range selection {
		chain = append(chain, domain.ChainStep{
			Service:       domain.ServiceKey{ID: sel.Service.ID, Name: sel.Service.Name},
			ServiceType:   sel.PricingItem.Name,
			PricingItemID: sel.PricingItem.ID,
			DurationMin:   sel.PricingItem.ChainDurationMinutes(),
			Origin:        domain.StepSelected,
		})
	}
	return chain
}

// MatchCombo возвращает первое правило комбо, чей триггер в точности
// совпадает с выбранным набором типов услуг, или nil
func MatchCombo(combos []*domain.Combo, selectedPricingItemIDs []string) *domain.Combo {
	for _, combo := range combos {
		if combo.Matches(selectedPricingItemIDs) {
			return combo
		}
	}
	return nil
}

// ComboChain разворачивает правило комбо в готовую цепочку.
// Порядок и паузы правила авторитетны: цепочка используется как есть,
// завершающий этап к ней НЕ дописывается.
func ComboChain(
	combo *domain.Combo,
	services map[string]*domain.Service,
	pricingItems map[string]*domain.PricingItem,
) ([]domain.ChainStep, error) {
	chain := make([]domain.ChainStep, 0, len(combo.Steps))

	for _, step := range combo.Steps {
		item, ok := pricingItems[step.PricingItemID]
		if !ok {
			return nil, fmt.Errorf("combo %q references unknown pricing item %q", combo.ID, step.PricingItemID)
		}
		service, ok := services[step.ServiceID]
		if !ok {
			return nil, fmt.Errorf("combo %q references unknown service %q", combo.ID, step.ServiceID)
		}

		origin := domain.StepSelected
		if step.AutoAppended {
			origin = domain.StepCombo
		}

		chain = append(chain, domain.ChainStep{
			Service:         domain.ServiceKey{ID: service.ID, Name: service.Name},
			ServiceType:     item.Name,
			PricingItemID:   item.ID,
			DurationMin:     item.ChainDurationMinutes(),
			FinishGapBefore: step.FinishGapBefore,
			Origin:          origin,
		})
	}

	return chain, nil
}

// BuildChainWithFinishingService дописывает к цепочке завершающий этап,
// когда единственный выбранный тип услуги объявляет followUp.
// Дописывается не больше одного этапа; цепочки из нескольких услуг
// (включая комбо) проходят без изменений - их порядок уже полный.
func BuildChainWithFinishingService(
	baseChain []domain.ChainStep,
	services map[string]*domain.Service,
	pricingItems map[string]*domain.PricingItem,
) []domain.ChainStep {
	if len(baseChain) != 1 {
		return baseChain
	}

	item, ok := pricingItems[baseChain[0].PricingItemID]
	if !ok || !item.HasFollowUp() {
		return baseChain
	}

	followUp := item.FollowUp

	// Ключ услуги завершающего этапа: id из описания followUp,
	// название - из каталога, если услуга там есть
	key := domain.ServiceKey{ID: followUp.ServiceID, Name: followUp.Name}
	if service, ok := services[followUp.ServiceID]; ok {
		key.Name = service.Name
	}

	return append(baseChain, domain.ChainStep{
		Service:         key,
		ServiceType:     followUp.Name,
		PricingItemID:   baseChain[0].PricingItemID,
		DurationMin:     followUp.DurationMinutes,
		FinishGapBefore: followUp.WaitMinutes,
		Origin:          domain.StepFinishing,
	})
}

// ChainTotalDuration возвращает суммарную длительность цепочки:
// все фазы плюс все паузы между ними. Столько непрерывного времени
// слот должен зарезервировать, пусть и у разных мастеров.
func ChainTotalDuration(chain []domain.ChainStep) int {
	total := 0
	for _, step := range chain {
		total += step.FinishGapBefore + step.DurationMin
	}
	return total
}
