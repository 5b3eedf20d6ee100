package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookSlotRequest struct {
	TimeSlotID uuid.UUID  `json:"time_slot_id" validate:"required"`
	ClinicID   uuid.UUID  `json:"clinic_id" validate:"required"`
	Type       string     `json:"type" validate:"required,oneof=in_person online"`
	Notes      string     `json:"notes,omitempty" validate:"max=2000"`
	PricingID  *uuid.UUID `json:"pricing_id,omitempty"`
}

// CreateAppointmentRequest books by raw datetime for flows where slots have
// not been pre-generated. Datetime is RFC 3339.
type CreateAppointmentRequest struct {
	DoctorID        uuid.UUID  `json:"doctor_id" validate:"required"`
	PatientID       uuid.UUID  `json:"patient_id" validate:"required"`
	ClinicID        uuid.UUID  `json:"clinic_id" validate:"required"`
	Datetime        string     `json:"datetime" validate:"required"`
	DurationMinutes int        `json:"duration_minutes,omitempty" validate:"omitempty,min=5,max=480"`
	Type            string     `json:"type" validate:"required,oneof=in_person online"`
	PricingID       *uuid.UUID `json:"pricing_id,omitempty"`
	Notes           string     `json:"notes,omitempty" validate:"max=2000"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed canceled completed"`
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID  `json:"id"`
	DoctorID        uuid.UUID  `json:"doctor_id"`
	PatientID       uuid.UUID  `json:"patient_id"`
	ClinicID        uuid.UUID  `json:"clinic_id"`
	TimeSlotID      *uuid.UUID `json:"time_slot_id,omitempty"`
	PricingID       *uuid.UUID `json:"pricing_id,omitempty"`
	Datetime        time.Time  `json:"datetime"`
	DurationMinutes int        `json:"duration_minutes"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	Notes           *string    `json:"notes,omitempty"`
	DoctorName      string     `json:"doctor_name,omitempty"`
	PatientName     string     `json:"patient_name,omitempty"`
	ClinicName      string     `json:"clinic_name,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type CalendarResponse struct {
	StartDate string                  `json:"start_date"`
	EndDate   string                  `json:"end_date"`
	Events    []CalendarEventResponse `json:"events"`
	Total     int                     `json:"total"`
}

// CalendarEventResponse is the pure calendar projection of an appointment.
type CalendarEventResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Status          string    `json:"status"`
	ParticipantName string    `json:"participant_name"`
	ClinicName      string    `json:"clinic_name"`
	Notes           string    `json:"notes,omitempty"`
	Type            string    `json:"type"`
}
