package repository

import (
	"context"
	"errors"

	"medibook/internal/domain/entity"
	domainRepo "medibook/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type pricingRepository struct{}

func NewPricingRepository() domainRepo.PricingRepository {
	return &pricingRepository{}
}

func (r *pricingRepository) Create(ctx context.Context, db *gorm.DB, pricing *entity.Pricing) error {
	return db.WithContext(ctx).Create(pricing).Error
}

func (r *pricingRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Pricing, error) {
	var pricing entity.Pricing
	err := db.WithContext(ctx).Where("id = ?", id).First(&pricing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pricing, nil
}

func (r *pricingRepository) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Pricing, error) {
	var pricings []entity.Pricing
	err := db.WithContext(ctx).
		Where("doctor_id = ? AND is_active = ?", doctorID, true).
		Order("created_at DESC").
		Find(&pricings).Error
	if err != nil {
		return nil, err
	}
	return pricings, nil
}

func (r *pricingRepository) FindAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]entity.Pricing, int64, error) {
	var pricings []entity.Pricing
	var total int64

	if err := db.WithContext(ctx).Model(&entity.Pricing{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.WithContext(ctx).Limit(limit).Offset(offset).Order("created_at DESC").Find(&pricings).Error; err != nil {
		return nil, 0, err
	}

	return pricings, total, nil
}

func (r *pricingRepository) Update(ctx context.Context, db *gorm.DB, pricing *entity.Pricing) error {
	return db.WithContext(ctx).Omit("Clinic", "Doctor").Save(pricing).Error
}

func (r *pricingRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Pricing{}).Error
}
