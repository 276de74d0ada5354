package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
)

var (
	// ErrInvalidTime возвращается при некорректном формате времени
	ErrInvalidTime = errors.New("invalid time format, expected HH:MM")

	// ErrInvalidWeekday возвращается при некорректном дне недели
	ErrInvalidWeekday = errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")
)

// Request модели

// BreakPayload перерыв внутри рабочего дня
type BreakPayload struct {
	StartTime string `json:"startTime"` // "13:00"
	EndTime   string `json:"endTime"`   // "14:00"
}

// HoursEntryPayload расписание на один день недели.
// Open и Close равные null означают "закрыто в этот день".
type HoursEntryPayload struct {
	Weekday int            `json:"weekday"` // 0 = воскресенье ... 6 = суббота
	Open    *string        `json:"open,omitempty"`
	Close   *string        `json:"close,omitempty"`
	Breaks  []BreakPayload `json:"breaks,omitempty"`
}

// UpdateHoursRequest запрос на замену расписания салона
type UpdateHoursRequest struct {
	UserID     int64               `json:"userId"`
	BusinessID int64               `json:"businessId"`
	Entries    []HoursEntryPayload `json:"entries"`
}

// ToDomainEntries конвертирует payload в domain записи расписания
func (r *UpdateHoursRequest) ToDomainEntries() ([]domain.OpeningHours, error) {
	entries := make([]domain.OpeningHours, 0, len(r.Entries))

	for _, payload := range r.Entries {
		if payload.Weekday < 0 || payload.Weekday > 6 {
			return nil, ErrInvalidWeekday
		}

		entry := domain.OpeningHours{Weekday: time.Weekday(payload.Weekday)}

		if payload.Open != nil && payload.Close != nil {
			open, err := types.NewTimeStringFromString(*payload.Open)
			if err != nil {
				return nil, fmt.Errorf("%w: open %q", ErrInvalidTime, *payload.Open)
			}
			close, err := types.NewTimeStringFromString(*payload.Close)
			if err != nil {
				return nil, fmt.Errorf("%w: close %q", ErrInvalidTime, *payload.Close)
			}
			entry.Open = &open
			entry.Close = &close
		}

		for _, breakPayload := range payload.Breaks {
			breakRange, err := toDomainBreak(breakPayload)
			if err != nil {
				return nil, err
			}
			entry.Breaks = append(entry.Breaks, breakRange)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// toDomainBreak конвертирует перерыв из "HH:MM" в минуты с полуночи
func toDomainBreak(payload BreakPayload) (domain.BreakRange, error) {
	start, err := types.NewTimeStringFromString(payload.StartTime)
	if err != nil {
		return domain.BreakRange{}, fmt.Errorf("%w: break start %q", ErrInvalidTime, payload.StartTime)
	}
	end, err := types.NewTimeStringFromString(payload.EndTime)
	if err != nil {
		return domain.BreakRange{}, fmt.Errorf("%w: break end %q", ErrInvalidTime, payload.EndTime)
	}

	startMin, err := start.Minutes()
	if err != nil {
		return domain.BreakRange{}, fmt.Errorf("%w: break start %q", ErrInvalidTime, payload.StartTime)
	}
	endMin, err := end.Minutes()
	if err != nil {
		return domain.BreakRange{}, fmt.Errorf("%w: break end %q", ErrInvalidTime, payload.EndTime)
	}

	return domain.BreakRange{StartMin: startMin, EndMin: endMin}, nil
}

// UpdateSettingsRequest запрос на обновление настроек записи салона
type UpdateSettingsRequest struct {
	UserID     int64 `json:"userId"`
	BusinessID int64 `json:"businessId"`

	SlotGranularityMinutes  int `json:"slotGranularityMinutes"`
	MinBookingNoticeMinutes int `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays      int `json:"advanceBookingDays"`
}

// ToDomainSettings конвертирует request в domain модель
func (r *UpdateSettingsRequest) ToDomainSettings() *domain.BookingSettings {
	return &domain.BookingSettings{
		BusinessID:              r.BusinessID,
		SlotGranularityMinutes:  r.SlotGranularityMinutes,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
	}
}

// Response модели

// BreakResponse перерыв внутри рабочего дня
type BreakResponse struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// HoursEntryResponse расписание на один день недели
type HoursEntryResponse struct {
	Weekday int             `json:"weekday"`
	Open    *string         `json:"open,omitempty"`
	Close   *string         `json:"close,omitempty"`
	Breaks  []BreakResponse `json:"breaks,omitempty"`
}

// HoursResponse расписание салона
type HoursResponse struct {
	BusinessID int64                `json:"businessId"`
	Entries    []HoursEntryResponse `json:"entries"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

// SettingsResponse настройки записи салона
type SettingsResponse struct {
	BusinessID              int64     `json:"businessId"`
	SlotGranularityMinutes  int       `json:"slotGranularityMinutes"`
	MinBookingNoticeMinutes int       `json:"minBookingNoticeMinutes"`
	AdvanceBookingDays      int       `json:"advanceBookingDays"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// Методы конвертации

// FromDomainHours конвертирует domain расписание в DTO
func FromDomainHours(hours *domain.BusinessHours) *HoursResponse {
	if hours == nil {
		return nil
	}

	resp := &HoursResponse{
		BusinessID: hours.BusinessID,
		Entries:    make([]HoursEntryResponse, 0, len(hours.Entries)),
		UpdatedAt:  hours.UpdatedAt,
	}

	for _, entry := range hours.Entries {
		entryResp := HoursEntryResponse{Weekday: int(entry.Weekday)}

		if entry.Open != nil && entry.Close != nil {
			open := entry.Open.String()
			close := entry.Close.String()
			entryResp.Open = &open
			entryResp.Close = &close
		}

		for _, breakRange := range entry.Breaks {
			entryResp.Breaks = append(entryResp.Breaks, BreakResponse{
				StartTime: minutesToClock(breakRange.StartMin),
				EndTime:   minutesToClock(breakRange.EndMin),
			})
		}

		resp.Entries = append(resp.Entries, entryResp)
	}

	return resp
}

// minutesToClock форматирует минуты с полуночи в "HH:MM"
func minutesToClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// FromDomainSettings конвертирует domain настройки в DTO
func FromDomainSettings(settings *domain.BookingSettings) *SettingsResponse {
	if settings == nil {
		return nil
	}

	return &SettingsResponse{
		BusinessID:              settings.BusinessID,
		SlotGranularityMinutes:  settings.SlotGranularityMinutes,
		MinBookingNoticeMinutes: settings.MinBookingNoticeMinutes,
		AdvanceBookingDays:      settings.AdvanceBookingDays,
		UpdatedAt:               settings.UpdatedAt,
	}
}
