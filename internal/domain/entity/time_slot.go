package entity

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is a single bookable unit derived from a Schedule for a concrete
// calendar date. DoctorID and ClinicID are denormalized from the schedule so
// availability queries and the doctor double-booking check stay join-free.
type TimeSlot struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ScheduleID    int        `gorm:"not null;index;uniqueIndex:ux_time_slots_schedule_date_start,priority:1" json:"schedule_id"`
	DoctorID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_time_slots_doctor_date" json:"doctor_id"`
	ClinicID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"clinic_id"`
	Date          time.Time  `gorm:"type:date;not null;uniqueIndex:ux_time_slots_schedule_date_start,priority:2;index:idx_time_slots_doctor_date" json:"date"`
	StartTime     string     `gorm:"type:time;not null;uniqueIndex:ux_time_slots_schedule_date_start,priority:3" json:"start_time"`
	EndTime       string     `gorm:"type:time;not null" json:"end_time"`
	IsBooked      bool       `gorm:"not null;default:false;index" json:"is_booked"`
	IsBlocked     bool       `gorm:"not null;default:false" json:"is_blocked"`
	AppointmentID *uuid.UUID `gorm:"type:uuid" json:"appointment_id,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Schedule    Schedule     `gorm:"foreignKey:ScheduleID" json:"schedule,omitempty"`
	Appointment *Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

// IsAvailable reports whether the slot can still be claimed.
func (s *TimeSlot) IsAvailable() bool {
	return !s.IsBooked && !s.IsBlocked && s.AppointmentID == nil
}

// StartAt returns the absolute UTC timestamp of the slot start.
func (s *TimeSlot) StartAt() time.Time {
	return s.clockAt(s.StartTime)
}

// EndAt returns the absolute UTC timestamp of the slot end.
func (s *TimeSlot) EndAt() time.Time {
	return s.clockAt(s.EndTime)
}

func (s *TimeSlot) clockAt(clock string) time.Time {
	m, err := ClockMinutes(clock)
	if err != nil {
		return time.Time{}
	}
	d := s.Date.UTC()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return day.Add(time.Duration(m) * time.Minute)
}
