package usecase

import (
	"context"

	"medibook/internal/converter"
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/repository"
	"medibook/internal/service"
	"medibook/pkg/apperr"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AvailabilityUsecase interface {
	Query(ctx context.Context, req *dto.AvailabilityQueryRequest) (*dto.AvailabilityResponse, error)
}

type availabilityUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	slotRepo       repository.TimeSlotRepository
	slotUsecase    SlotUsecase
	cache          service.AvailabilityCache
	maxHorizonDays int
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	slotRepo repository.TimeSlotRepository,
	slotUsecase SlotUsecase,
	cache service.AvailabilityCache,
	maxHorizonDays int,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:             db,
		log:            log,
		slotRepo:       slotRepo,
		slotUsecase:    slotUsecase,
		cache:          cache,
		maxHorizonDays: maxHorizonDays,
	}
}

// Query returns the doctor's slots at a clinic over a date range, ordered by
// date then start time. Slots the schedules imply but that were never
// materialized are generated on the way, so a range queried before any
// explicit generation run still answers correctly.
func (u *availabilityUsecase) Query(ctx context.Context, req *dto.AvailabilityQueryRequest) (*dto.AvailabilityResponse, error) {
	startDate, endDate, err := ParseDateRange(req.StartDate, req.EndDate, u.maxHorizonDays)
	if err != nil {
		return nil, err
	}

	if u.cache != nil && !req.OnlyAvailable {
		var cached dto.AvailabilityResponse
		hit, err := u.cache.Get(ctx, req.DoctorID, req.ClinicID, startDate, endDate, &cached)
		if err != nil {
			u.log.Warnf("Availability cache read failed (non-fatal): %+v", err)
		} else if hit {
			return &cached, nil
		}
	}

	if err := u.slotUsecase.EnsureGenerated(ctx, req.DoctorID, req.ClinicID, startDate, endDate); err != nil {
		return nil, err
	}

	slots, err := u.slotRepo.FindByDoctorClinicAndDateRange(ctx, u.db, req.DoctorID, req.ClinicID, startDate, endDate)
	if err != nil {
		u.log.Warnf("Failed to query time slots: %+v", err)
		return nil, apperr.FromStore(err)
	}

	if req.OnlyAvailable {
		available := slots[:0]
		for i := range slots {
			if slots[i].IsAvailable() {
				available = append(available, slots[i])
			}
		}
		slots = available
	}

	resp := &dto.AvailabilityResponse{
		DoctorID:  req.DoctorID,
		ClinicID:  req.ClinicID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Slots:     converter.TimeSlotsToResponses(slots),
		Total:     len(slots),
	}

	if u.cache != nil && !req.OnlyAvailable {
		if err := u.cache.Set(ctx, req.DoctorID, req.ClinicID, startDate, endDate, resp); err != nil {
			u.log.Warnf("Availability cache write failed (non-fatal): %+v", err)
		}
	}
	return resp, nil
}
