package repository

import (
	"context"

	"medibook/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PricingRepository interface {
	Create(ctx context.Context, db *gorm.DB, pricing *entity.Pricing) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Pricing, error)
	FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Pricing, error)
	FindAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]entity.Pricing, int64, error)
	Update(ctx context.Context, db *gorm.DB, pricing *entity.Pricing) error
	Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error
}
