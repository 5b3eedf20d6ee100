package converter

import (
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"

	"github.com/google/uuid"
)

// ScheduleToResponse converts a Schedule entity to ScheduleResponse DTO
func ScheduleToResponse(schedule *entity.Schedule) *dto.ScheduleResponse {
	if schedule == nil {
		return nil
	}

	response := &dto.ScheduleResponse{
		ID:                  schedule.ID,
		DoctorID:            schedule.DoctorID,
		ClinicID:            schedule.ClinicID,
		DayOfWeek:           entity.DayOfWeekName(schedule.DayOfWeek),
		StartTime:           schedule.StartTime,
		EndTime:             schedule.EndTime,
		SlotDurationMinutes: schedule.SlotDurationMinutes,
		IsActive:            schedule.IsActive,
		CreatedAt:           schedule.CreatedAt,
		UpdatedAt:           schedule.UpdatedAt,
	}

	// Include doctor info if available
	if schedule.Doctor.UserID != uuid.Nil {
		response.Doctor = DoctorProfileToResponse(&schedule.Doctor)
	}

	return response
}

// SchedulesToResponses converts a slice of Schedule entities to ScheduleResponse DTOs
func SchedulesToResponses(schedules []entity.Schedule) []dto.ScheduleResponse {
	responses := make([]dto.ScheduleResponse, len(schedules))
	for i := range schedules {
		responses[i] = *ScheduleToResponse(&schedules[i])
	}
	return responses
}
