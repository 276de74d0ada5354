package get_available_slots

import (
	"time"

	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID         int64     // ID пользователя (для логирования, не влияет на результат)
	BusinessID     int64     // ID салона
	PricingItemIDs []string  // Выбранные типы услуг в порядке выбора клиента
	WorkerID       *string   // Предпочитаемый мастер (nil = любой)
	Date           time.Time // Дата для получения слотов (без времени)
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date                 time.Time // Дата, на которую запрашивались слоты
	BusinessID           int64     // ID салона
	TotalDurationMinutes int       // Полная длительность цепочки, включая паузы
	Slots                []Slot    // Список доступных слотов
}

// Slot одно предлагаемое время начала визита
type Slot struct {
	StartTime types.TimeString // Время начала цепочки (например, "10:00")
	EndTime   types.TimeString // Время окончания последней фазы
}

// makeSlot строит слот из времени начала в минутах от полуночи
func makeSlot(startMin, totalDuration int) (Slot, bool) {
	start, err := types.NewTimeStringFromMinutes(startMin)
	if err != nil {
		return Slot{}, false
	}
	end, err := types.NewTimeStringFromMinutes(startMin + totalDuration)
	if err != nil {
		return Slot{}, false
	}
	return Slot{StartTime: start, EndTime: end}, true
}
