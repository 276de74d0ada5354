package create_booking

import "errors"

var (
	// ErrInvalidInput невалидные входные данные
	ErrInvalidInput = errors.New("create_booking: invalid input")

	// ErrServiceNotFound услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrPricingItemNotFound тип услуги не найден
	ErrPricingItemNotFound = errors.New("create_booking: pricing item not found")

	// ErrWorkerNotFound предпочитаемый мастер не найден
	ErrWorkerNotFound = errors.New("create_booking: worker not found")

	// ErrInvalidDate дата в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid date")

	// ErrDateTooFarInFuture дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date too far in future")

	// ErrTooLateToBook бронирование нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("create_booking: too late to book")

	// ErrBusinessClosed салон закрыт в выбранную дату
	ErrBusinessClosed = errors.New("create_booking: business is closed")

	// ErrSlotNotAvailable слот занят либо ни один мастер не может выполнить цепочку
	ErrSlotNotAvailable = errors.New("create_booking: slot not available")

	// ErrInternal внутренняя ошибка
	ErrInternal = errors.New("create_booking: internal error")
)
