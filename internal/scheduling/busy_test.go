package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amitayhanson-cloud/salon-platform-sub002/internal/domain"

	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/types"
	"github.com/amitayhanson-cloud/salon-platform-sub002/pkg/ptr"
)

func TestWorkerBusyIntervals(t *testing.T) {
	t.Run("primary and follow-up spans, wait gap excluded", func(t *testing.T) {
		bookings := []*domain.BookingForDate{
			{
				ID:       1,
				Status:   domain.StatusConfirmed,
				WorkerID: "avi",
				StartAt:  types.TimeString("10:00"),
				EndAt:    types.TimeString("10:30"),
				WaitMin:  10,

				FollowUpWorkerID: ptr.Ptr("avi"),
				FollowUpStartAt:  types.TimeString("10:40"),
				FollowUpEndAt:    types.TimeString("11:00"),
			},
		}

		intervals := WorkerBusyIntervals(bookings, "avi")
		assert.Equal(t, []domain.Window{
			{StartMin: 600, EndMin: 630},
			{StartMin: 640, EndMin: 660},
		}, intervals)

		// Wait-разрыв 10:30-10:40 не блокирует мастера
		assert.False(t, overlapsAny(intervals, 630, 640))
	})

	t.Run("secondary span belongs to the secondary worker", func(t *testing.T) {
		bookings := []*domain.BookingForDate{
			{
				ID:       2,
				Status:   domain.StatusConfirmed,
				WorkerID: "avi",
				StartAt:  types.TimeString("12:00"),
				EndAt:    types.TimeString("12:45"),

				SecondaryWorkerID: ptr.Ptr("bob"),
				SecondaryStartAt:  types.TimeString("12:45"),
				SecondaryEndAt:    types.TimeString("13:00"),
			},
		}

		assert.Equal(t, []domain.Window{{StartMin: 720, EndMin: 765}}, WorkerBusyIntervals(bookings, "avi"))
		assert.Equal(t, []domain.Window{{StartMin: 765, EndMin: 780}}, WorkerBusyIntervals(bookings, "bob"))
	})

	t.Run("phases array contributes per-phase intervals", func(t *testing.T) {
		bookings := []*domain.BookingForDate{
			{
				ID:     3,
				Status: domain.StatusConfirmed,
				Phases: []domain.BookedPhase{
					{WorkerID: "avi", StartAt: types.TimeString("14:00"), EndAt: types.TimeString("14:30")},
					{WorkerID: "bob", StartAt: types.TimeString("14:30"), EndAt: types.TimeString("15:00")},
				},
			},
		}

		assert.Equal(t, []domain.Window{{StartMin: 840, EndMin: 870}}, WorkerBusyIntervals(bookings, "avi"))
	})

	t.Run("inactive bookings are skipped", func(t *testing.T) {
		for _, status := range domain.InactiveStatuses {
			bookings := []*domain.BookingForDate{
				{
					ID:       4,
					Status:   status,
					WorkerID: "avi",
					StartAt:  types.TimeString("10:00"),
					EndAt:    types.TimeString("10:30"),
				},
			}
			assert.Empty(t, WorkerBusyIntervals(bookings, "avi"), "status %s", status)
		}
	})

	t.Run("malformed spans are skipped", func(t *testing.T) {
		bookings := []*domain.BookingForDate{
			{
				ID:       5,
				Status:   domain.StatusConfirmed,
				WorkerID: "avi",
				StartAt:  types.TimeString("garbage"),
				EndAt:    types.TimeString("10:30"),
			},
		}
		assert.Empty(t, WorkerBusyIntervals(bookings, "avi"))
	})

	t.Run("other workers bookings are ignored", func(t *testing.T) {
		bookings := []*domain.BookingForDate{
			{
				ID:       6,
				Status:   domain.StatusConfirmed,
				WorkerID: "bob",
				StartAt:  types.TimeString("10:00"),
				EndAt:    types.TimeString("10:30"),
			},
		}
		assert.Empty(t, WorkerBusyIntervals(bookings, "avi"))
	})
}
