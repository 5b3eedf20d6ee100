package repository

import (
	"context"
	"errors"

	"medibook/internal/domain/entity"
	domainRepo "medibook/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type clinicRepository struct{}

func NewClinicRepository() domainRepo.ClinicRepository {
	return &clinicRepository{}
}

func (r *clinicRepository) Create(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error {
	return db.WithContext(ctx).Create(clinic).Error
}

func (r *clinicRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Clinic, error) {
	var clinic entity.Clinic
	err := db.WithContext(ctx).Where("id = ?", id).First(&clinic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *clinicRepository) FindAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]entity.Clinic, int64, error) {
	var clinics []entity.Clinic
	var total int64

	if err := db.WithContext(ctx).Model(&entity.Clinic{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.WithContext(ctx).Limit(limit).Offset(offset).Order("name ASC").Find(&clinics).Error; err != nil {
		return nil, 0, err
	}

	return clinics, total, nil
}

func (r *clinicRepository) Update(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error {
	return db.WithContext(ctx).Omit("Schedules", "Pricings").Save(clinic).Error
}

func (r *clinicRepository) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Clinic{}).Error
}
