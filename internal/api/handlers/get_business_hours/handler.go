package get_business_hours

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/api/handlers"
	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/service/schedule"
)

const (
	msgInvalidBusinessID = "некорректный ID салона"
	msgHoursNotFound     = "расписание салона не найдено"
)

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

// Handle GET /api/v1/businesses/{businessId}/hours
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/hours - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	hours, err := h.service.GetHours(r.Context(), businessID)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrHoursNotFound):
			h.logger.Warn("GET /businesses/{id}/hours - Hours not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgHoursNotFound)

		default:
			h.logger.Error("GET /businesses/{id}/hours - Failed to get hours: business_id=%d, error=%v", businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/hours - Hours retrieved successfully: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, hours)
}
