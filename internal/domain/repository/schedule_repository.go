package repository

import (
	"context"
	"time"

	"medibook/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleRepository interface {
	Create(ctx context.Context, db *gorm.DB, schedule *entity.Schedule) error
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Schedule, error)
	FindActiveByDoctorClinicDay(ctx context.Context, db *gorm.DB, doctorID, clinicID uuid.UUID, day time.Weekday) ([]entity.Schedule, error)
	FindActiveByDoctorClinic(ctx context.Context, db *gorm.DB, doctorID, clinicID uuid.UUID) ([]entity.Schedule, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Schedule, error)
	Update(ctx context.Context, db *gorm.DB, schedule *entity.Schedule) error
	Delete(ctx context.Context, db *gorm.DB, id int) (int64, error)
}
