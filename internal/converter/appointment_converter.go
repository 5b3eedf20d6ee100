package converter

import (
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"

	"github.com/google/uuid"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		DoctorID:        appointment.DoctorID,
		PatientID:       appointment.PatientID,
		ClinicID:        appointment.ClinicID,
		TimeSlotID:      appointment.TimeSlotID,
		PricingID:       appointment.PricingID,
		Datetime:        appointment.Datetime,
		DurationMinutes: appointment.DurationMinutes,
		Type:            string(appointment.Type),
		Status:          string(appointment.Status),
		Notes:           appointment.Notes,
		CreatedAt:       appointment.CreatedAt,
		UpdatedAt:       appointment.UpdatedAt,
	}

	if appointment.Doctor.UserID != uuid.Nil {
		response.DoctorName = appointment.Doctor.User.FullName
	}
	if appointment.Patient.UserID != uuid.Nil {
		response.PatientName = appointment.Patient.User.FullName
	}
	if appointment.Clinic.ID != uuid.Nil {
		response.ClinicName = appointment.Clinic.Name
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

// AppointmentToCalendarEvent projects an appointment into a calendar event
// view record. Pure: output is fully determined by input, no I/O. End is
// Start plus the consultation duration (60 minutes when unset).
func AppointmentToCalendarEvent(appointment *entity.Appointment, participantName, clinicName string) *dto.CalendarEventResponse {
	if appointment == nil {
		return nil
	}

	title := "Consultation"
	if participantName != "" {
		title = "Consultation with " + participantName
	}

	notes := ""
	if appointment.Notes != nil {
		notes = *appointment.Notes
	}

	return &dto.CalendarEventResponse{
		ID:              appointment.ID,
		Title:           title,
		Start:           appointment.Datetime,
		End:             appointment.EndDatetime(),
		Status:          string(appointment.Status),
		ParticipantName: participantName,
		ClinicName:      clinicName,
		Notes:           notes,
		Type:            string(appointment.Type),
	}
}
