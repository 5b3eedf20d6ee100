package usecase

import (
	"context"

	"medibook/internal/converter"
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
	"medibook/internal/domain/repository"
	"medibook/internal/infrastructure/database"
	"medibook/pkg/apperr"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ClinicUsecase interface {
	CreateClinic(ctx context.Context, actor entity.Actor, req *dto.CreateClinicRequest) (*dto.ClinicResponse, error)
	GetClinic(ctx context.Context, id uuid.UUID) (*dto.ClinicResponse, error)
	ListClinics(ctx context.Context, limit, offset int) (*dto.ClinicListResponse, error)
	UpdateClinic(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateClinicRequest) (*dto.ClinicResponse, error)
	CreatePricing(ctx context.Context, actor entity.Actor, req *dto.CreatePricingRequest) (*dto.PricingResponse, error)
	ListPricingsByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.PricingListResponse, error)
}

type clinicUsecase struct {
	db          *gorm.DB
	txm         database.Transactor
	log         *logrus.Logger
	clinicRepo  repository.ClinicRepository
	pricingRepo repository.PricingRepository
}

func NewClinicUsecase(
	db *gorm.DB,
	txm database.Transactor,
	log *logrus.Logger,
	clinicRepo repository.ClinicRepository,
	pricingRepo repository.PricingRepository,
) ClinicUsecase {
	return &clinicUsecase{
		db:          db,
		txm:         txm,
		log:         log,
		clinicRepo:  clinicRepo,
		pricingRepo: pricingRepo,
	}
}

func (u *clinicUsecase) CreateClinic(ctx context.Context, actor entity.Actor, req *dto.CreateClinicRequest) (*dto.ClinicResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Authorization("only admins can manage clinics")
	}

	clinic := &entity.Clinic{
		ID:       uuid.New(),
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: true,
	}
	if err := u.clinicRepo.Create(ctx, u.db, clinic); err != nil {
		u.log.Warnf("Failed to create clinic: %+v", err)
		return nil, apperr.FromStore(err)
	}
	return converter.ClinicToResponse(clinic), nil
}

func (u *clinicUsecase) GetClinic(ctx context.Context, id uuid.UUID) (*dto.ClinicResponse, error) {
	clinic, err := u.clinicRepo.FindByID(ctx, u.db, id)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	if clinic == nil {
		return nil, apperr.NotFound("clinic not found")
	}
	return converter.ClinicToResponse(clinic), nil
}

func (u *clinicUsecase) ListClinics(ctx context.Context, limit, offset int) (*dto.ClinicListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	clinics, total, err := u.clinicRepo.FindAll(ctx, u.db, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list clinics: %+v", err)
		return nil, apperr.FromStore(err)
	}
	return &dto.ClinicListResponse{
		Clinics: converter.ClinicsToResponses(clinics),
		Total:   total,
	}, nil
}

func (u *clinicUsecase) UpdateClinic(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateClinicRequest) (*dto.ClinicResponse, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Authorization("only admins can manage clinics")
	}

	var clinic *entity.Clinic
	err := u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		clinic, err = u.clinicRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if clinic == nil {
			return apperr.NotFound("clinic not found")
		}

		if req.Name != "" {
			clinic.Name = req.Name
		}
		if req.Address != "" {
			clinic.Address = req.Address
		}
		if req.Phone != "" {
			clinic.Phone = req.Phone
		}
		if req.IsActive != nil {
			clinic.IsActive = *req.IsActive
		}
		return u.clinicRepo.Update(ctx, tx, clinic)
	})
	if err != nil {
		return nil, err
	}
	return converter.ClinicToResponse(clinic), nil
}

func (u *clinicUsecase) CreatePricing(ctx context.Context, actor entity.Actor, req *dto.CreatePricingRequest) (*dto.PricingResponse, error) {
	if !actor.IsAdmin() && !(actor.IsDoctor() && actor.UserID == req.DoctorID) {
		return nil, apperr.Authorization("cannot manage another doctor's pricing")
	}
	if req.ConsultationFee.IsNegative() {
		return nil, apperr.Validation("consultation_fee must not be negative")
	}

	pricing := &entity.Pricing{
		ID:              uuid.New(),
		ClinicID:        req.ClinicID,
		DoctorID:        req.DoctorID,
		Title:           req.Title,
		ConsultationFee: req.ConsultationFee,
		DurationMinutes: req.DurationMinutes,
		IsActive:        true,
	}

	err := u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		clinic, err := u.clinicRepo.FindByID(ctx, tx, req.ClinicID)
		if err != nil {
			return err
		}
		if clinic == nil || !clinic.IsActive {
			return apperr.NotFound("clinic not found")
		}
		return u.pricingRepo.Create(ctx, tx, pricing)
	})
	if err != nil {
		return nil, err
	}
	return converter.PricingToResponse(pricing), nil
}

func (u *clinicUsecase) ListPricingsByDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.PricingListResponse, error) {
	pricings, err := u.pricingRepo.FindByDoctorID(ctx, u.db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to list pricings: %+v", err)
		return nil, apperr.FromStore(err)
	}
	return &dto.PricingListResponse{
		Pricings: converter.PricingsToResponses(pricings),
		Total:    int64(len(pricings)),
	}, nil
}
