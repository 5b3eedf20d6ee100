package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCanceled  AppointmentStatus = "canceled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// AppointmentType distinguishes in-person from online consultations
type AppointmentType string

const (
	AppointmentTypeInPerson AppointmentType = "in_person"
	AppointmentTypeOnline   AppointmentType = "online"
)

// DefaultDurationMinutes applies when neither the request nor the pricing
// specifies a consultation length.
const DefaultDurationMinutes = 60

// Appointment represents a patient booking of a doctor at a specific time.
// TimeSlotID is nil for appointments created through the raw-datetime path.
type Appointment struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	DoctorID        uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_doctor_datetime" json:"doctor_id"`
	PatientID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	ClinicID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"clinic_id"`
	TimeSlotID      *uuid.UUID        `gorm:"type:uuid;index" json:"time_slot_id,omitempty"`
	PricingID       *uuid.UUID        `gorm:"type:uuid" json:"pricing_id,omitempty"`
	Datetime        time.Time         `gorm:"not null;index:idx_appointments_doctor_datetime" json:"datetime"`
	DurationMinutes int               `gorm:"not null;default:60" json:"duration_minutes"`
	Type            AppointmentType   `gorm:"type:varchar(20);not null" json:"type"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes           *string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Clinic  Clinic         `gorm:"foreignKey:ClinicID" json:"clinic,omitempty"`
	Pricing *Pricing       `gorm:"foreignKey:PricingID" json:"pricing,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// ParseAppointmentStatus validates a wire-level status value.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCanceled, AppointmentStatusCompleted:
		return AppointmentStatus(s), true
	}
	return "", false
}

// ParseAppointmentType validates a wire-level type value.
func ParseAppointmentType(s string) (AppointmentType, bool) {
	switch AppointmentType(s) {
	case AppointmentTypeInPerson, AppointmentTypeOnline:
		return AppointmentType(s), true
	}
	return "", false
}

// statusTransitions is the allow-table of the appointment state machine.
// Canceled and completed are terminal.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCanceled},
	AppointmentStatusConfirmed: {AppointmentStatusCanceled, AppointmentStatusCompleted},
}

// CanTransition reports whether the state machine permits from → to.
func CanTransition(from, to AppointmentStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanTransition reports whether the state machine permits moving this
// appointment to the target status.
func (a *Appointment) CanTransition(to AppointmentStatus) bool {
	return CanTransition(a.Status, to)
}

// IsActive reports whether the appointment still occupies its doctor-datetime
// pair for double-booking purposes.
func (a *Appointment) IsActive() bool {
	return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
}

// IsTerminal reports whether no further transitions are permitted.
func (a *Appointment) IsTerminal() bool {
	return a.Status == AppointmentStatusCanceled || a.Status == AppointmentStatusCompleted
}

// EndDatetime returns Datetime plus the consultation duration.
func (a *Appointment) EndDatetime() time.Time {
	minutes := a.DurationMinutes
	if minutes <= 0 {
		minutes = DefaultDurationMinutes
	}
	return a.Datetime.Add(time.Duration(minutes) * time.Minute)
}
