package dto

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityQueryRequest is bound from query parameters, not a JSON body.
type AvailabilityQueryRequest struct {
	DoctorID      uuid.UUID `validate:"required"`
	ClinicID      uuid.UUID `validate:"required"`
	StartDate     string    `validate:"required"`
	EndDate       string    `validate:"required"`
	OnlyAvailable bool
}

type TimeSlotResponse struct {
	ID          uuid.UUID  `json:"id"`
	ScheduleID  int        `json:"schedule_id"`
	DoctorID    uuid.UUID  `json:"doctor_id"`
	ClinicID    uuid.UUID  `json:"clinic_id"`
	Date        string     `json:"date"`
	StartTime   string     `json:"start_time"`
	EndTime     string     `json:"end_time"`
	IsBooked    bool       `json:"is_booked"`
	IsBlocked   bool       `json:"is_blocked"`
	IsAvailable bool       `json:"is_available"`
	StartAt     time.Time  `json:"start_at"`
	EndAt       time.Time  `json:"end_at"`
	Appointment *uuid.UUID `json:"appointment_id,omitempty"`
}

type AvailabilityResponse struct {
	DoctorID  uuid.UUID          `json:"doctor_id"`
	ClinicID  uuid.UUID          `json:"clinic_id"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Slots     []TimeSlotResponse `json:"slots"`
	Total     int                `json:"total"`
}
