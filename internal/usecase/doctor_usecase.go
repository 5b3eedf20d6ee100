package usecase

import (
	"context"

	"medibook/internal/converter"
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/repository"
	"medibook/pkg/apperr"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type DoctorUsecase interface {
	ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error)
}

type doctorUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
}

func NewDoctorUsecase(db *gorm.DB, log *logrus.Logger, doctorProfileRepo repository.DoctorProfileRepository) DoctorUsecase {
	return &doctorUsecase{db: db, log: log, doctorProfileRepo: doctorProfileRepo}
}

func (u *doctorUsecase) ListDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	profiles, err := u.doctorProfileRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, apperr.FromStore(err)
	}
	return &dto.DoctorListResponse{
		Doctors: converter.DoctorProfilesToResponses(profiles),
		Total:   len(profiles),
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(ctx, u.db, id)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	if profile == nil {
		return nil, apperr.NotFound("doctor not found")
	}
	return converter.DoctorProfileToResponse(profile), nil
}
