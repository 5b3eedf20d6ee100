package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateScheduleRequest struct {
	ClinicID            uuid.UUID `json:"clinic_id" validate:"required"`
	DayOfWeek           string    `json:"day_of_week" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime           string    `json:"start_time" validate:"required"`
	EndTime             string    `json:"end_time" validate:"required"`
	SlotDurationMinutes int       `json:"slot_duration_minutes" validate:"required,min=5,max=480"`
}

type UpdateScheduleRequest struct {
	StartTime           string `json:"start_time,omitempty"`
	EndTime             string `json:"end_time,omitempty"`
	SlotDurationMinutes *int   `json:"slot_duration_minutes,omitempty" validate:"omitempty,min=5,max=480"`
}

type GenerateSlotsRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// Response DTOs

type ScheduleResponse struct {
	ID                  int             `json:"id"`
	DoctorID            uuid.UUID       `json:"doctor_id"`
	ClinicID            uuid.UUID       `json:"clinic_id"`
	DayOfWeek           string          `json:"day_of_week"`
	StartTime           string          `json:"start_time"`
	EndTime             string          `json:"end_time"`
	SlotDurationMinutes int             `json:"slot_duration_minutes"`
	IsActive            bool            `json:"is_active"`
	Doctor              *DoctorResponse `json:"doctor,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
	Total     int                `json:"total"`
}

type GenerateSlotsResponse struct {
	ScheduleID   int    `json:"schedule_id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	SlotsCreated int    `json:"slots_created"`
}
