package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/handlers"
	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	getAvailableSlots "github.com/amitayhanson-cloud/salon-platform-sub002/internal/usecase/get_available_slots"
)

const (
	msgInvalidBusinessID   = "некорректный ID салона"
	msgMissingServiceTypes = "параметр serviceTypeIds обязателен"
	msgMissingDate         = "дата обязательна"
	msgInvalidDate         = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgServiceNotFound     = "услуга не найдена"
	msgServiceTypeNotFound = "тип услуги не найден"
	msgWorkerNotFound      = "мастер не найден"
	msgInvalidBookingDate  = "некорректная дата"
	msgDateTooFar          = "дата слишком далеко в будущем"
	msgInvalidRequest      = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/available-slots
// Query params: serviceTypeIds (required, через запятую), date (required, YYYY-MM-DD),
// workerId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	query := r.URL.Query()

	// Извлекаем выбранные типы услуг из query параметров
	serviceTypesRaw := query.Get("serviceTypeIds")
	if serviceTypesRaw == "" {
		h.logger.Warn("GET /businesses/{id}/available-slots - Missing serviceTypeIds")
		handlers.RespondBadRequest(w, msgMissingServiceTypes)
		return
	}

	pricingItemIDs := make([]string, 0)
	for _, id := range strings.Split(serviceTypesRaw, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			pricingItemIDs = append(pricingItemIDs, trimmed)
		}
	}

	// Извлекаем дату
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /businesses/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Предпочитаемый мастер (опционально)
	var workerID *string
	if raw := query.Get("workerId"); raw != "" {
		workerID = &raw
	}

	useCaseReq := &getAvailableSlots.Request{
		BusinessID:     businessID,
		PricingItemIDs: pricingItemIDs,
		WorkerID:       workerID,
		Date:           date,
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrPricingItemNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Pricing item not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgServiceTypeNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Service not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrWorkerNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Worker not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgWorkerNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /businesses/{id}/available-slots - Invalid date: business_id=%d, date=%s", businessID, dateStr)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /businesses/{id}/available-slots - Date too far in future: business_id=%d, date=%s", businessID, dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /businesses/{id}/available-slots - Failed to get slots: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/available-slots - %d slots returned: business_id=%d, date=%s",
		len(result.Slots), businessID, dateStr)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
