package repository

import (
	"context"
	"errors"
	"time"

	"medibook/internal/domain/entity"
	domainRepo "medibook/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type timeSlotRepository struct{}

func NewTimeSlotRepository() domainRepo.TimeSlotRepository {
	return &timeSlotRepository{}
}

func (r *timeSlotRepository) CreateBatch(ctx context.Context, db *gorm.DB, slots []entity.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}
	// Re-generation must never duplicate or overwrite an existing slot for
	// the same (schedule, date, start_time) key.
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&slots).Error
}

func (r *timeSlotRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.TimeSlot, error) {
	var slot entity.TimeSlot
	err := db.WithContext(ctx).Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepository) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.TimeSlot, error) {
	var slot entity.TimeSlot
	err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *timeSlotRepository) FindByScheduleAndDateRange(ctx context.Context, db *gorm.DB, scheduleID int, startDate, endDate time.Time) ([]entity.TimeSlot, error) {
	var slots []entity.TimeSlot
	err := db.WithContext(ctx).
		Where("schedule_id = ? AND date >= ? AND date <= ?", scheduleID, startDate, endDate).
		Order("date ASC, start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *timeSlotRepository) FindByDoctorClinicAndDateRange(ctx context.Context, db *gorm.DB, doctorID, clinicID uuid.UUID, startDate, endDate time.Time) ([]entity.TimeSlot, error) {
	var slots []entity.TimeSlot
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND clinic_id = ? AND date >= ? AND date <= ?", doctorID, clinicID, startDate, endDate).
		Order("date ASC, start_time ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// Claim atomically marks the slot booked. The is_booked/is_blocked predicate
// makes the update the arbiter under concurrency: RowsAffected 0 means a
// concurrent transaction already took the slot.
func (r *timeSlotRepository) Claim(ctx context.Context, db *gorm.DB, slotID, appointmentID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.TimeSlot{}).
		Where("id = ? AND is_booked = ? AND is_blocked = ?", slotID, false, false).
		Updates(map[string]interface{}{
			"is_booked":      true,
			"appointment_id": appointmentID,
		})
	return result.RowsAffected, result.Error
}

func (r *timeSlotRepository) Release(ctx context.Context, db *gorm.DB, slotID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.TimeSlot{}).
		Where("id = ? AND is_booked = ?", slotID, true).
		Updates(map[string]interface{}{
			"is_booked":      false,
			"appointment_id": nil,
		})
	return result.RowsAffected, result.Error
}

func (r *timeSlotRepository) SetBlocked(ctx context.Context, db *gorm.DB, slotID uuid.UUID, blocked bool) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.TimeSlot{}).
		Where("id = ? AND is_booked = ?", slotID, false).
		Update("is_blocked", blocked)
	return result.RowsAffected, result.Error
}

func (r *timeSlotRepository) CountBookedBySchedule(ctx context.Context, db *gorm.DB, scheduleID int) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&entity.TimeSlot{}).
		Where("schedule_id = ? AND is_booked = ?", scheduleID, true).
		Count(&count).Error
	return count, err
}

func (r *timeSlotRepository) DeleteUnbookedBySchedule(ctx context.Context, db *gorm.DB, scheduleID int) error {
	return db.WithContext(ctx).
		Where("schedule_id = ? AND is_booked = ?", scheduleID, false).
		Delete(&entity.TimeSlot{}).Error
}
