package repository

import (
	"context"
	"time"

	"medibook/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TimeSlotRepository interface {
	CreateBatch(ctx context.Context, db *gorm.DB, slots []entity.TimeSlot) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.TimeSlot, error)
	// FindByIDForUpdate loads the slot under a row-level write lock. Must be
	// called inside a transaction.
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.TimeSlot, error)
	FindByScheduleAndDateRange(ctx context.Context, db *gorm.DB, scheduleID int, startDate, endDate time.Time) ([]entity.TimeSlot, error)
	FindByDoctorClinicAndDateRange(ctx context.Context, db *gorm.DB, doctorID, clinicID uuid.UUID, startDate, endDate time.Time) ([]entity.TimeSlot, error)
	// Claim marks the slot booked and binds it to the appointment, guarded by
	// an is_booked/is_blocked predicate. Returns affected rows: 0 means the
	// slot was taken by a concurrent transaction.
	Claim(ctx context.Context, db *gorm.DB, slotID, appointmentID uuid.UUID) (int64, error)
	// Release clears the booked flag and appointment reference.
	Release(ctx context.Context, db *gorm.DB, slotID uuid.UUID) (int64, error)
	// SetBlocked toggles a doctor hold. Booked slots are never touched;
	// affected rows 0 signals the slot was booked or missing.
	SetBlocked(ctx context.Context, db *gorm.DB, slotID uuid.UUID, blocked bool) (int64, error)
	CountBookedBySchedule(ctx context.Context, db *gorm.DB, scheduleID int) (int64, error)
	DeleteUnbookedBySchedule(ctx context.Context, db *gorm.DB, scheduleID int) error
}
