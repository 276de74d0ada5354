package get_business_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/service/bookings/models"
)

// parseFilter разбирает query параметры фильтрации списка бронирований.
// Одиночный параметр date эквивалентен периоду из одного дня.
func parseFilter(query url.Values, businessID, userID int64) (*models.GetBusinessBookingsRequest, error) {
	req := &models.GetBusinessBookingsRequest{
		UserID:     userID,
		BusinessID: businessID,
	}

	if workerID := query.Get("workerId"); workerID != "" {
		req.WorkerID = &workerID
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date: %v", err)
		}
		req.StartDate = &date
		req.EndDate = &date
	} else {
		if startStr := query.Get("startDate"); startStr != "" {
			start, err := time.Parse(domain.DateFormat, startStr)
			if err != nil {
				return nil, fmt.Errorf("invalid startDate: %v", err)
			}
			req.StartDate = &start
		}
		if endStr := query.Get("endDate"); endStr != "" {
			end, err := time.Parse(domain.DateFormat, endStr)
			if err != nil {
				return nil, fmt.Errorf("invalid endDate: %v", err)
			}
			req.EndDate = &end
		}
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("endDate is before startDate")
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive: %v", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
