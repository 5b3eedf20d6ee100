package usecase

import (
	"context"
	"strconv"

	"medibook/internal/converter"
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
	"medibook/internal/domain/repository"
	"medibook/internal/infrastructure/database"
	"medibook/internal/service"
	"medibook/pkg/apperr"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ScheduleUsecase interface {
	CreateSchedule(ctx context.Context, actor entity.Actor, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error)
	GetSchedule(ctx context.Context, scheduleID int) (*dto.ScheduleResponse, error)
	ListSchedulesByDoctor(ctx context.Context, actor entity.Actor) (*dto.ScheduleListResponse, error)
	UpdateSchedule(ctx context.Context, actor entity.Actor, scheduleID int, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error)
	DeactivateSchedule(ctx context.Context, actor entity.Actor, scheduleID int) error
	DeleteSchedule(ctx context.Context, actor entity.Actor, scheduleID int) error
}

type scheduleUsecase struct {
	db           *gorm.DB
	txm          database.Transactor
	log          *logrus.Logger
	scheduleRepo repository.ScheduleRepository
	slotRepo     repository.TimeSlotRepository
	clinicRepo   repository.ClinicRepository
	auditSvc     service.AuditService
}

func NewScheduleUsecase(
	db *gorm.DB,
	txm database.Transactor,
	log *logrus.Logger,
	scheduleRepo repository.ScheduleRepository,
	slotRepo repository.TimeSlotRepository,
	clinicRepo repository.ClinicRepository,
	auditSvc service.AuditService,
) ScheduleUsecase {
	return &scheduleUsecase{
		db:           db,
		txm:          txm,
		log:          log,
		scheduleRepo: scheduleRepo,
		slotRepo:     slotRepo,
		clinicRepo:   clinicRepo,
		auditSvc:     auditSvc,
	}
}

func (u *scheduleUsecase) CreateSchedule(ctx context.Context, actor entity.Actor, req *dto.CreateScheduleRequest) (*dto.ScheduleResponse, error) {
	day, err := entity.ParseDayOfWeek(req.DayOfWeek)
	if err != nil {
		return nil, apperr.Validation("invalid day of week, use MONDAY..SUNDAY")
	}

	schedule := &entity.Schedule{
		DoctorID:            actor.UserID,
		ClinicID:            req.ClinicID,
		DayOfWeek:           day,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
		SlotDurationMinutes: req.SlotDurationMinutes,
		IsActive:            true,
	}
	if !schedule.WindowValid() {
		return nil, apperr.Validation("start_time must precede end_time, use HH:MM")
	}

	clinic, err := u.clinicRepo.FindByID(ctx, u.db, req.ClinicID)
	if err != nil {
		u.log.Warnf("Failed to find clinic %s: %+v", req.ClinicID, err)
		return nil, err
	}
	if clinic == nil || !clinic.IsActive {
		return nil, apperr.NotFound("clinic not found")
	}

	err = u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := u.scheduleRepo.FindActiveByDoctorClinicDay(ctx, tx, schedule.DoctorID, schedule.ClinicID, day)
		if err != nil {
			return err
		}
		for i := range existing {
			if schedule.Overlaps(&existing[i]) {
				return apperr.Conflict(apperr.CodeScheduleOverlap, "an active schedule already covers this window")
			}
		}

		if err := u.scheduleRepo.Create(ctx, tx, schedule); err != nil {
			return err
		}

		return u.auditSvc.LogAction(ctx, tx, &actor.UserID, entity.AuditActionScheduleCreated, "schedule", strconv.Itoa(schedule.ID), map[string]interface{}{
			"day_of_week": entity.DayOfWeekName(day),
			"start_time":  schedule.StartTime,
			"end_time":    schedule.EndTime,
		})
	})
	if err != nil {
		if !apperr.IsKind(err, apperr.KindConflict) {
			u.log.Warnf("Failed to create schedule: %+v", err)
		}
		return nil, err
	}

	return converter.ScheduleToResponse(schedule), nil
}

func (u *scheduleUsecase) GetSchedule(ctx context.Context, scheduleID int) (*dto.ScheduleResponse, error) {
	schedule, err := u.scheduleRepo.FindByID(ctx, u.db, scheduleID)
	if err != nil {
		u.log.Warnf("Failed to find schedule %d: %+v", scheduleID, err)
		return nil, err
	}
	if schedule == nil {
		return nil, apperr.NotFound("schedule not found")
	}
	return converter.ScheduleToResponse(schedule), nil
}

func (u *scheduleUsecase) ListSchedulesByDoctor(ctx context.Context, actor entity.Actor) (*dto.ScheduleListResponse, error) {
	schedules, err := u.scheduleRepo.FindByDoctorID(ctx, u.db, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find schedules for doctor %s: %+v", actor.UserID, err)
		return nil, err
	}

	return &dto.ScheduleListResponse{
		Schedules: converter.SchedulesToResponses(schedules),
		Total:     len(schedules),
	}, nil
}

func (u *scheduleUsecase) UpdateSchedule(ctx context.Context, actor entity.Actor, scheduleID int, req *dto.UpdateScheduleRequest) (*dto.ScheduleResponse, error) {
	var updated *entity.Schedule

	err := u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		schedule, err := u.scheduleRepo.FindByID(ctx, tx, scheduleID)
		if err != nil {
			return err
		}
		if schedule == nil {
			return apperr.NotFound("schedule not found")
		}
		if err := u.authorizeOwner(actor, schedule); err != nil {
			return err
		}

		if req.StartTime != "" {
			schedule.StartTime = req.StartTime
		}
		if req.EndTime != "" {
			schedule.EndTime = req.EndTime
		}
		if req.SlotDurationMinutes != nil {
			schedule.SlotDurationMinutes = *req.SlotDurationMinutes
		}
		if !schedule.WindowValid() {
			return apperr.Validation("start_time must precede end_time, use HH:MM")
		}

		existing, err := u.scheduleRepo.FindActiveByDoctorClinicDay(ctx, tx, schedule.DoctorID, schedule.ClinicID, schedule.DayOfWeek)
		if err != nil {
			return err
		}
		for i := range existing {
			if existing[i].ID == schedule.ID {
				continue
			}
			if schedule.Overlaps(&existing[i]) {
				return apperr.Conflict(apperr.CodeScheduleOverlap, "an active schedule already covers this window")
			}
		}

		// Already materialized booked slots keep their original window;
		// only future generation picks up the change.
		if err := u.scheduleRepo.Update(ctx, tx, schedule); err != nil {
			return err
		}
		updated = schedule

		return u.auditSvc.LogAction(ctx, tx, &actor.UserID, entity.AuditActionScheduleUpdated, "schedule", strconv.Itoa(schedule.ID), map[string]interface{}{
			"start_time": schedule.StartTime,
			"end_time":   schedule.EndTime,
		})
	})
	if err != nil {
		return nil, err
	}

	return converter.ScheduleToResponse(updated), nil
}

func (u *scheduleUsecase) DeactivateSchedule(ctx context.Context, actor entity.Actor, scheduleID int) error {
	return u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		schedule, err := u.scheduleRepo.FindByID(ctx, tx, scheduleID)
		if err != nil {
			return err
		}
		if schedule == nil {
			return apperr.NotFound("schedule not found")
		}
		if err := u.authorizeOwner(actor, schedule); err != nil {
			return err
		}
		if !schedule.IsActive {
			return nil
		}

		schedule.IsActive = false
		if err := u.scheduleRepo.Update(ctx, tx, schedule); err != nil {
			return err
		}

		return u.auditSvc.LogAction(ctx, tx, &actor.UserID, entity.AuditActionScheduleDeactivated, "schedule", strconv.Itoa(schedule.ID), nil)
	})
}

// DeleteSchedule physically removes a schedule and its unbooked slots.
// Refused while any booked slot references the schedule; deactivation is
// the only path for schedules with live bookings.
func (u *scheduleUsecase) DeleteSchedule(ctx context.Context, actor entity.Actor, scheduleID int) error {
	return u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		schedule, err := u.scheduleRepo.FindByID(ctx, tx, scheduleID)
		if err != nil {
			return err
		}
		if schedule == nil {
			return apperr.NotFound("schedule not found")
		}
		if err := u.authorizeOwner(actor, schedule); err != nil {
			return err
		}

		booked, err := u.slotRepo.CountBookedBySchedule(ctx, tx, scheduleID)
		if err != nil {
			return err
		}
		if booked > 0 {
			return apperr.Conflict(apperr.CodeSlotUnavailable, "schedule has booked slots, deactivate instead")
		}

		if err := u.slotRepo.DeleteUnbookedBySchedule(ctx, tx, scheduleID); err != nil {
			return err
		}
		if _, err := u.scheduleRepo.Delete(ctx, tx, scheduleID); err != nil {
			return err
		}

		return u.auditSvc.LogAction(ctx, tx, &actor.UserID, entity.AuditActionScheduleDeleted, "schedule", strconv.Itoa(scheduleID), nil)
	})
}

func (u *scheduleUsecase) authorizeOwner(actor entity.Actor, schedule *entity.Schedule) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.IsDoctor() && schedule.DoctorID == actor.UserID {
		return nil
	}
	return apperr.Authorization("schedule does not belong to you")
}
