package converter

import (
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
)

// TimeSlotToResponse converts a TimeSlot entity to a TimeSlotResponse DTO,
// annotating it with the derived availability flag.
func TimeSlotToResponse(slot *entity.TimeSlot) *dto.TimeSlotResponse {
	if slot == nil {
		return nil
	}

	return &dto.TimeSlotResponse{
		ID:          slot.ID,
		ScheduleID:  slot.ScheduleID,
		DoctorID:    slot.DoctorID,
		ClinicID:    slot.ClinicID,
		Date:        slot.Date.Format("2006-01-02"),
		StartTime:   slot.StartTime,
		EndTime:     slot.EndTime,
		IsBooked:    slot.IsBooked,
		IsBlocked:   slot.IsBlocked,
		IsAvailable: slot.IsAvailable(),
		StartAt:     slot.StartAt(),
		EndAt:       slot.EndAt(),
		Appointment: slot.AppointmentID,
	}
}

// TimeSlotsToResponses converts a slice of TimeSlot entities to DTOs
func TimeSlotsToResponses(slots []entity.TimeSlot) []dto.TimeSlotResponse {
	responses := make([]dto.TimeSlotResponse, len(slots))
	for i := range slots {
		responses[i] = *TimeSlotToResponse(&slots[i])
	}
	return responses
}
