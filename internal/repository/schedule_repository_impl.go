package repository

import (
	"context"
	"errors"
	"time"

	"medibook/internal/domain/entity"
	domainRepo "medibook/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type scheduleRepository struct{}

func NewScheduleRepository() domainRepo.ScheduleRepository {
	return &scheduleRepository{}
}

func (r *scheduleRepository) Create(ctx context.Context, db *gorm.DB, schedule *entity.Schedule) error {
	return db.WithContext(ctx).Create(schedule).Error
}

func (r *scheduleRepository) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Schedule, error) {
	var schedule entity.Schedule
	err := db.WithContext(ctx).Where("id = ?", id).First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &schedule, nil
}

func (r *scheduleRepository) FindActiveByDoctorClinicDay(ctx context.Context, db *gorm.DB, doctorID, clinicID uuid.UUID, day time.Weekday) ([]entity.Schedule, error) {
	var schedules []entity.Schedule
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND clinic_id = ? AND day_of_week = ? AND is_active = ?", doctorID, clinicID, int(day), true).
		Order("start_time ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepository) FindActiveByDoctorClinic(ctx context.Context, db *gorm.DB, doctorID, clinicID uuid.UUID) ([]entity.Schedule, error) {
	var schedules []entity.Schedule
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND clinic_id = ? AND is_active = ?", doctorID, clinicID, true).
		Order("day_of_week ASC, start_time ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Schedule, error) {
	var schedules []entity.Schedule
	err := db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("clinic_id ASC, day_of_week ASC, start_time ASC").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *scheduleRepository) Update(ctx context.Context, db *gorm.DB, schedule *entity.Schedule) error {
	return db.WithContext(ctx).Omit("Doctor", "Clinic", "Slots").Save(schedule).Error
}

func (r *scheduleRepository) Delete(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Schedule{})
	return result.RowsAffected, result.Error
}
