package repository

import (
	"context"

	"medibook/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClinicRepository interface {
	Create(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Clinic, error)
	FindAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]entity.Clinic, int64, error)
	Update(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error
}
