package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Schedule is a recurring weekly availability rule for a doctor at a clinic.
// Concrete bookable slots are materialized from it per calendar date.
type Schedule struct {
	ID                  int          `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID            uuid.UUID    `gorm:"type:uuid;not null;index" json:"doctor_id"`
	ClinicID            uuid.UUID    `gorm:"type:uuid;not null;index" json:"clinic_id"`
	DayOfWeek           time.Weekday `gorm:"type:smallint;not null" json:"day_of_week"`
	StartTime           string       `gorm:"type:time;not null" json:"start_time"`
	EndTime             string       `gorm:"type:time;not null" json:"end_time"`
	SlotDurationMinutes int          `gorm:"not null" json:"slot_duration_minutes"`
	IsActive            bool         `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt           time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Clinic Clinic        `gorm:"foreignKey:ClinicID" json:"clinic,omitempty"`
	Slots  []TimeSlot    `gorm:"foreignKey:ScheduleID" json:"slots,omitempty"`
}

func (Schedule) TableName() string {
	return "schedules"
}

var dayNames = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// ParseDayOfWeek parses an uppercase day name (MONDAY..SUNDAY).
func ParseDayOfWeek(s string) (time.Weekday, error) {
	day, ok := dayNames[strings.ToUpper(s)]
	if !ok {
		return 0, fmt.Errorf("invalid day of week: %s", s)
	}
	return day, nil
}

// DayOfWeekName returns the uppercase name used on the wire.
func DayOfWeekName(d time.Weekday) string {
	return strings.ToUpper(d.String())
}

// ClockMinutes parses an "HH:MM" clock value into minutes since midnight.
func ClockMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinutesClock formats minutes since midnight as "HH:MM".
func MinutesClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// WindowValid reports whether StartTime and EndTime are well-formed
// and form a non-empty window with a positive slot duration.
func (s *Schedule) WindowValid() bool {
	start, err := ClockMinutes(s.StartTime)
	if err != nil {
		return false
	}
	end, err := ClockMinutes(s.EndTime)
	if err != nil {
		return false
	}
	return start < end && s.SlotDurationMinutes > 0
}

// Overlaps reports whether two schedules for the same doctor, clinic and
// weekday have intersecting [StartTime, EndTime) windows. Both windows are
// assumed well-formed.
func (s *Schedule) Overlaps(other *Schedule) bool {
	if s.DoctorID != other.DoctorID || s.ClinicID != other.ClinicID || s.DayOfWeek != other.DayOfWeek {
		return false
	}
	aStart, _ := ClockMinutes(s.StartTime)
	aEnd, _ := ClockMinutes(s.EndTime)
	bStart, _ := ClockMinutes(other.StartTime)
	bEnd, _ := ClockMinutes(other.EndTime)
	return aStart < bEnd && bStart < aEnd
}

// SlotWindow is one subdivided slot of a schedule window.
type SlotWindow struct {
	StartTime string
	EndTime   string
}

// SlotWindows subdivides the schedule window into SlotDurationMinutes
// increments. A trailing slot that would run past EndTime is dropped.
func (s *Schedule) SlotWindows() []SlotWindow {
	start, err := ClockMinutes(s.StartTime)
	if err != nil {
		return nil
	}
	end, err := ClockMinutes(s.EndTime)
	if err != nil {
		return nil
	}
	if s.SlotDurationMinutes <= 0 {
		return nil
	}

	var windows []SlotWindow
	for m := start; m+s.SlotDurationMinutes <= end; m += s.SlotDurationMinutes {
		windows = append(windows, SlotWindow{
			StartTime: MinutesClock(m),
			EndTime:   MinutesClock(m + s.SlotDurationMinutes),
		})
	}
	return windows
}

// SlotsOn materializes TimeSlot rows for a single calendar date.
// Returns nil when the date does not fall on the schedule's weekday.
func (s *Schedule) SlotsOn(date time.Time) []TimeSlot {
	if date.Weekday() != s.DayOfWeek {
		return nil
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	windows := s.SlotWindows()
	slots := make([]TimeSlot, 0, len(windows))
	for _, w := range windows {
		slots = append(slots, TimeSlot{
			ID:         uuid.New(),
			ScheduleID: s.ID,
			DoctorID:   s.DoctorID,
			ClinicID:   s.ClinicID,
			Date:       day,
			StartTime:  w.StartTime,
			EndTime:    w.EndTime,
		})
	}
	return slots
}
