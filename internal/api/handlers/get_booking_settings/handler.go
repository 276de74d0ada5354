package get_booking_settings

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/handlers"
)

const msgInvalidBusinessID = "некорректный ID салона"

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/settings
// Для салона без сохранённых настроек возвращаются значения по умолчанию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/settings - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	settings, err := h.service.GetSettings(r.Context(), businessID)
	if err != nil {
		h.logger.Error("GET /businesses/{id}/settings - Failed to get settings: business_id=%d, error=%v", businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /businesses/{id}/settings - Settings retrieved successfully: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, settings)
}
