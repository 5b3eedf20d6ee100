package usecase

import (
	"context"
	"strconv"
	"time"

	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
	"medibook/internal/domain/repository"
	"medibook/internal/infrastructure/database"
	"medibook/internal/service"
	"medibook/pkg/apperr"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type SlotUsecase interface {
	Generate(ctx context.Context, actor entity.Actor, scheduleID int, req *dto.GenerateSlotsRequest) (*dto.GenerateSlotsResponse, error)
	// EnsureGenerated lazily materializes slots for every active schedule of
	// the doctor at the clinic covering the date range. Idempotent.
	EnsureGenerated(ctx context.Context, doctorID, clinicID uuid.UUID, startDate, endDate time.Time) error
	BlockSlot(ctx context.Context, actor entity.Actor, slotID uuid.UUID) error
	UnblockSlot(ctx context.Context, actor entity.Actor, slotID uuid.UUID) error
}

type slotUsecase struct {
	db             *gorm.DB
	txm            database.Transactor
	log            *logrus.Logger
	scheduleRepo   repository.ScheduleRepository
	slotRepo       repository.TimeSlotRepository
	auditSvc       service.AuditService
	cache          service.AvailabilityCache
	maxHorizonDays int
}

func NewSlotUsecase(
	db *gorm.DB,
	txm database.Transactor,
	log *logrus.Logger,
	scheduleRepo repository.ScheduleRepository,
	slotRepo repository.TimeSlotRepository,
	auditSvc service.AuditService,
	cache service.AvailabilityCache,
	maxHorizonDays int,
) SlotUsecase {
	return &slotUsecase{
		db:             db,
		txm:            txm,
		log:            log,
		scheduleRepo:   scheduleRepo,
		slotRepo:       slotRepo,
		auditSvc:       auditSvc,
		cache:          cache,
		maxHorizonDays: maxHorizonDays,
	}
}

// ParseDateRange validates a [start, end] date pair against the horizon cap.
func ParseDateRange(startStr, endStr string, maxHorizonDays int) (time.Time, time.Time, error) {
	startDate, err := time.ParseInLocation(dateLayout, startStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("invalid start_date, use YYYY-MM-DD")
	}
	endDate, err := time.ParseInLocation(dateLayout, endStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, apperr.Validation("invalid end_date, use YYYY-MM-DD")
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, apperr.Validation("end_date must not precede start_date")
	}
	if endDate.Sub(startDate) > time.Duration(maxHorizonDays)*24*time.Hour {
		return time.Time{}, time.Time{}, apperr.Validation("date range exceeds the maximum generation horizon")
	}
	return startDate, endDate, nil
}

func (u *slotUsecase) Generate(ctx context.Context, actor entity.Actor, scheduleID int, req *dto.GenerateSlotsRequest) (*dto.GenerateSlotsResponse, error) {
	startDate, endDate, err := ParseDateRange(req.StartDate, req.EndDate, u.maxHorizonDays)
	if err != nil {
		return nil, err
	}

	var created int
	var doctorID uuid.UUID

	err = u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		schedule, err := u.scheduleRepo.FindByID(ctx, tx, scheduleID)
		if err != nil {
			return err
		}
		if schedule == nil {
			return apperr.NotFound("schedule not found")
		}
		if !actor.IsAdmin() && schedule.DoctorID != actor.UserID {
			return apperr.Authorization("schedule does not belong to you")
		}
		if !schedule.IsActive {
			return apperr.Validation("schedule is not active")
		}
		doctorID = schedule.DoctorID

		created, err = u.materialize(ctx, tx, schedule, startDate, endDate)
		if err != nil {
			return err
		}

		return u.auditSvc.LogAction(ctx, tx, &actor.UserID, entity.AuditActionSlotsGenerated, "schedule", strconv.Itoa(scheduleID), map[string]interface{}{
			"start_date":    req.StartDate,
			"end_date":      req.EndDate,
			"slots_created": created,
		})
	})
	if err != nil {
		return nil, err
	}

	u.invalidate(ctx, doctorID)

	return &dto.GenerateSlotsResponse{
		ScheduleID:   scheduleID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		SlotsCreated: created,
	}, nil
}

func (u *slotUsecase) EnsureGenerated(ctx context.Context, doctorID, clinicID uuid.UUID, startDate, endDate time.Time) error {
	return u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		schedules, err := u.scheduleRepo.FindActiveByDoctorClinic(ctx, tx, doctorID, clinicID)
		if err != nil {
			return err
		}
		for i := range schedules {
			if _, err := u.materialize(ctx, tx, &schedules[i], startDate, endDate); err != nil {
				return err
			}
		}
		return nil
	})
}

// materialize inserts the schedule's missing slots for the range. Existing
// slots, booked or not, are left untouched: the diff is keyed by
// (schedule, date, start_time), which also makes re-generation after a
// window change leave previously generated dates alone.
func (u *slotUsecase) materialize(ctx context.Context, tx *gorm.DB, schedule *entity.Schedule, startDate, endDate time.Time) (int, error) {
	existing, err := u.slotRepo.FindByScheduleAndDateRange(ctx, tx, schedule.ID, startDate, endDate)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]struct{}, len(existing))
	for i := range existing {
		seen[slotKey(existing[i].Date, existing[i].StartTime)] = struct{}{}
	}

	var missing []entity.TimeSlot
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		for _, slot := range schedule.SlotsOn(d) {
			if _, ok := seen[slotKey(slot.Date, slot.StartTime)]; ok {
				continue
			}
			missing = append(missing, slot)
		}
	}

	if err := u.slotRepo.CreateBatch(ctx, tx, missing); err != nil {
		return 0, err
	}
	return len(missing), nil
}

func slotKey(date time.Time, startTime string) string {
	return date.Format(dateLayout) + "T" + startTime
}

func (u *slotUsecase) BlockSlot(ctx context.Context, actor entity.Actor, slotID uuid.UUID) error {
	return u.setBlocked(ctx, actor, slotID, true, entity.AuditActionSlotBlocked)
}

func (u *slotUsecase) UnblockSlot(ctx context.Context, actor entity.Actor, slotID uuid.UUID) error {
	return u.setBlocked(ctx, actor, slotID, false, entity.AuditActionSlotUnblocked)
}

func (u *slotUsecase) setBlocked(ctx context.Context, actor entity.Actor, slotID uuid.UUID, blocked bool, action string) error {
	var doctorID uuid.UUID

	err := u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		slot, err := u.slotRepo.FindByIDForUpdate(ctx, tx, slotID)
		if err != nil {
			return err
		}
		if slot == nil {
			return apperr.NotFound("time slot not found")
		}
		if !actor.IsAdmin() && slot.DoctorID != actor.UserID {
			return apperr.Authorization("time slot does not belong to you")
		}
		if slot.IsBooked {
			return apperr.Conflict(apperr.CodeSlotUnavailable, "time slot is booked")
		}
		doctorID = slot.DoctorID

		if slot.IsBlocked == blocked {
			return nil
		}
		if _, err := u.slotRepo.SetBlocked(ctx, tx, slotID, blocked); err != nil {
			return err
		}

		return u.auditSvc.LogAction(ctx, tx, &actor.UserID, action, "time_slot", slotID.String(), nil)
	})
	if err != nil {
		return err
	}

	u.invalidate(ctx, doctorID)
	return nil
}

func (u *slotUsecase) invalidate(ctx context.Context, doctorID uuid.UUID) {
	if u.cache == nil {
		return
	}
	if err := u.cache.InvalidateDoctor(ctx, doctorID); err != nil {
		u.log.Warnf("Failed to invalidate availability cache for doctor %s (non-fatal): %+v", doctorID, err)
	}
}
