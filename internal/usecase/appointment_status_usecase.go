package usecase

import (
	"context"
	"time"

	"medibook/internal/converter"
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

type AppointmentStatusUsecase interface {
	UpdateStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
}

type appointmentStatusUsecase struct {
	db              *gorm.DB
	txm             database.Transactor
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	slotRepo        repository.TimeSlotRepository
	auditSvc        service.AuditService
	cache           service.AvailabilityCache
	cancelLeadTime  time.Duration
}

func NewAppointmentStatusUsecase(
	db *gorm.DB,
	txm database.Transactor,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	slotRepo repository.TimeSlotRepository,
	auditSvc service.AuditService,
	cache service.AvailabilityCache,
	cancelLeadTime time.Duration,
) AppointmentStatusUsecase {
	return &appointmentStatusUsecase{
		db:              db,
		txm:             txm,
		log:             log,
		appointmentRepo: appointmentRepo,
		slotRepo:        slotRepo,
		auditSvc:        auditSvc,
		cache:           cache,
		cancelLeadTime:  cancelLeadTime,
	}
}

var statusAuditActions = map[entity.AppointmentStatus]string{
	entity.AppointmentStatusConfirmed: entity.AuditActionAppointmentConfirmed,
	entity.AppointmentStatusCanceled:  entity.AuditActionAppointmentCanceled,
	entity.AppointmentStatusCompleted: entity.AuditActionAppointmentCompleted,
}

// UpdateStatus drives the appointment state machine. Canceling a slot-backed
// appointment releases its slot in the same transaction, so the slot is
// immediately bookable again.
func (u *appointmentStatusUsecase) UpdateStatus(ctx context.Context, actor entity.Actor, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	target, ok := entity.ParseAppointmentStatus(req.Status)
	if !ok {
		return nil, apperr.Validation("invalid appointment status")
	}

	var appointment *entity.Appointment

	err := u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		appointment, err = u.appointmentRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if appointment == nil {
			return apperr.NotFound("appointment not found")
		}

		// Legality before authorization: an illegal transition is refused as
		// such even when the actor could not have performed it anyway.
		if !appointment.CanTransition(target) {
			return apperr.InvalidTransition("cannot transition appointment from " + string(appointment.Status) + " to " + string(target))
		}
		if err := u.authorizeTransition(actor, appointment, target); err != nil {
			return err
		}

		if target == entity.AppointmentStatusCanceled && !actor.IsAdmin() {
			if time.Until(appointment.Datetime) < u.cancelLeadTime {
				return apperr.Conflict(apperr.CodeCancellationWindowExpired, "appointment can no longer be canceled")
			}
		}

		affected, err := u.appointmentRepo.UpdateStatus(ctx, tx, id, appointment.Status, target)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.InvalidTransition("appointment status changed concurrently")
		}

		if target == entity.AppointmentStatusCanceled && appointment.TimeSlotID != nil {
			if _, err := u.slotRepo.Release(ctx, tx, *appointment.TimeSlotID); err != nil {
				return err
			}
		}

		appointment.Status = target
		return u.auditSvc.LogAction(ctx, tx, &actor.UserID, statusAuditActions[target], "appointment", id.String(), map[string]interface{}{
			"status": string(target),
		})
	})
	if err != nil {
		return nil, err
	}

	if target == entity.AppointmentStatusCanceled && u.cache != nil {
		if err := u.cache.InvalidateDoctor(ctx, appointment.DoctorID); err != nil {
			u.log.Warnf("Failed to invalidate availability cache for doctor %s (non-fatal): %+v", appointment.DoctorID, err)
		}
	}

	u.log.WithFields(logrus.Fields{
		"appointment_id": id,
		"status":         target,
		"actor_id":       actor.UserID,
	}).Info("Appointment status updated")

	return converter.AppointmentToResponse(appointment), nil
}

// authorizeTransition encodes who may move an appointment where: the doctor
// confirms and completes their own, the doctor or the patient cancels their
// own, admins do anything.
func (u *appointmentStatusUsecase) authorizeTransition(actor entity.Actor, appointment *entity.Appointment, target entity.AppointmentStatus) error {
	if actor.IsAdmin() {
		return nil
	}
	switch target {
	case entity.AppointmentStatusConfirmed, entity.AppointmentStatusCompleted:
		if actor.IsDoctor() && actor.UserID == appointment.DoctorID {
			return nil
		}
	case entity.AppointmentStatusCanceled:
		if actor.UserID == appointment.DoctorID || actor.UserID == appointment.PatientID {
			return nil
		}
	}
	return apperr.Authorization("not allowed to change this appointment's status")
}
