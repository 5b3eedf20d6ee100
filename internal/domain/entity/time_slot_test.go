package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTimeSlotIsAvailable(t *testing.T) {
	slot := &TimeSlot{}
	assert.True(t, slot.IsAvailable())

	slot = &TimeSlot{IsBooked: true}
	assert.False(t, slot.IsAvailable())

	slot = &TimeSlot{IsBlocked: true}
	assert.False(t, slot.IsAvailable())

	id := uuid.New()
	slot = &TimeSlot{AppointmentID: &id}
	assert.False(t, slot.IsAvailable())
}

func TestTimeSlotStartAndEnd(t *testing.T) {
	slot := &TimeSlot{
		Date:      time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		StartTime: "08:30",
		EndTime:   "09:00",
	}
	assert.Equal(t, time.Date(2026, 9, 7, 8, 30, 0, 0, time.UTC), slot.StartAt())
	assert.Equal(t, time.Date(2026, 9, 7, 9, 0, 0, 0, time.UTC), slot.EndAt())
}
