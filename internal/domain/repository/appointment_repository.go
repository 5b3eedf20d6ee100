package repository

import (
	"context"
	"time"

	"medibook/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	// FindActiveByDoctorAndDatetime returns a pending or confirmed appointment
	// occupying the doctor-datetime pair, regardless of clinic.
	FindActiveByDoctorAndDatetime(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, at time.Time) (*entity.Appointment, error)
	FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)
	// FindByDoctorAndDateRange returns the doctor's appointments whose start
	// falls in [from, to), ordered by start ascending.
	FindByDoctorAndDateRange(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error)
	FindByPatientAndDateRange(ctx context.Context, db *gorm.DB, patientID uuid.UUID, from, to time.Time) ([]entity.Appointment, error)
	// UpdateStatus transitions only when the stored status still equals from.
	// Returns affected rows: 0 means a concurrent transition won.
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
}
