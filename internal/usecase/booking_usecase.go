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

type BookingUsecase interface {
	// BookSlot claims a generated time slot for the acting patient. Under
	// concurrent attempts on the same slot exactly one caller wins; the rest
	// get a SlotUnavailable conflict.
	BookSlot(ctx context.Context, actor entity.Actor, req *dto.BookSlotRequest) (*dto.AppointmentResponse, error)
	// CreateAppointment books by raw datetime without a pre-generated slot.
	CreateAppointment(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error)
	ListMyAppointments(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error)
}

type bookingUsecase struct {
	db              *gorm.DB
	txm             database.Transactor
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	slotRepo        repository.TimeSlotRepository
	clinicRepo      repository.ClinicRepository
	pricingRepo     repository.PricingRepository
	auditSvc        service.AuditService
	cache           service.AvailabilityCache
}

func NewBookingUsecase(
	db *gorm.DB,
	txm database.Transactor,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	slotRepo repository.TimeSlotRepository,
	clinicRepo repository.ClinicRepository,
	pricingRepo repository.PricingRepository,
	auditSvc service.AuditService,
	cache service.AvailabilityCache,
) BookingUsecase {
	return &bookingUsecase{
		db:              db,
		txm:             txm,
		log:             log,
		appointmentRepo: appointmentRepo,
		slotRepo:        slotRepo,
		clinicRepo:      clinicRepo,
		pricingRepo:     pricingRepo,
		auditSvc:        auditSvc,
		cache:           cache,
	}
}

func (u *bookingUsecase) BookSlot(ctx context.Context, actor entity.Actor, req *dto.BookSlotRequest) (*dto.AppointmentResponse, error) {
	if !actor.IsPatient() && !actor.IsAdmin() {
		return nil, apperr.Authorization("only patients can book appointments")
	}

	appointmentType, ok := entity.ParseAppointmentType(req.Type)
	if !ok {
		return nil, apperr.Validation("invalid appointment type")
	}

	var appointment *entity.Appointment
	var doctorID uuid.UUID

	err := u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		slot, err := u.slotRepo.FindByIDForUpdate(ctx, tx, req.TimeSlotID)
		if err != nil {
			return err
		}
		if slot == nil {
			return apperr.NotFound("time slot not found")
		}
		if slot.ClinicID != req.ClinicID {
			return apperr.Validation("time slot does not belong to the given clinic")
		}
		if !slot.IsAvailable() {
			return apperr.Conflict(apperr.CodeSlotUnavailable, "time slot is no longer available")
		}
		if !slot.StartAt().After(time.Now().UTC()) {
			return apperr.Validation("time slot is in the past")
		}
		doctorID = slot.DoctorID

		// A doctor can hold overlapping schedules at different clinics; the
		// doctor-datetime check spans all of them.
		existing, err := u.appointmentRepo.FindActiveByDoctorAndDatetime(ctx, tx, slot.DoctorID, slot.StartAt())
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict(apperr.CodeDoctorDoubleBooked, "doctor already has an appointment at this time")
		}

		duration, pricingID, err := u.resolveDuration(ctx, tx, slot.DoctorID, req.PricingID, 0)
		if err != nil {
			return err
		}

		var notes *string
		if req.Notes != "" {
			notes = &req.Notes
		}
		slotID := slot.ID
		appointment = &entity.Appointment{
			ID:              uuid.New(),
			DoctorID:        slot.DoctorID,
			PatientID:       actor.UserID,
			ClinicID:        slot.ClinicID,
			TimeSlotID:      &slotID,
			PricingID:       pricingID,
			Datetime:        slot.StartAt(),
			DurationMinutes: duration,
			Type:            appointmentType,
			Status:          entity.AppointmentStatusPending,
			Notes:           notes,
		}
		if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
			return err
		}

		affected, err := u.slotRepo.Claim(ctx, tx, slot.ID, appointment.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return apperr.Conflict(apperr.CodeSlotUnavailable, "time slot is no longer available")
		}

		return u.auditSvc.LogAction(ctx, tx, &actor.UserID, entity.AuditActionAppointmentBooked, "appointment", appointment.ID.String(), map[string]interface{}{
			"time_slot_id": slot.ID.String(),
			"doctor_id":    slot.DoctorID.String(),
			"datetime":     slot.StartAt().Format(time.RFC3339),
		})
	})
	if err != nil {
		return nil, err
	}

	u.invalidate(ctx, doctorID)

	u.log.WithFields(logrus.Fields{
		"appointment_id": appointment.ID,
		"time_slot_id":   req.TimeSlotID,
		"patient_id":     actor.UserID,
	}).Info("Appointment booked")

	return converter.AppointmentToResponse(appointment), nil
}

func (u *bookingUsecase) CreateAppointment(ctx context.Context, actor entity.Actor, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if !actor.IsAdmin() && actor.UserID != req.PatientID {
		return nil, apperr.Authorization("cannot book an appointment for another patient")
	}

	appointmentType, ok := entity.ParseAppointmentType(req.Type)
	if !ok {
		return nil, apperr.Validation("invalid appointment type")
	}
	at, err := time.Parse(time.RFC3339, req.Datetime)
	if err != nil {
		return nil, apperr.Validation("invalid datetime, use RFC 3339")
	}
	at = at.UTC()
	if !at.After(time.Now().UTC()) {
		return nil, apperr.Validation("appointment datetime must be in the future")
	}

	var appointment *entity.Appointment

	err = u.txm.Transaction(ctx, func(tx *gorm.DB) error {
		clinic, err := u.clinicRepo.FindByID(ctx, tx, req.ClinicID)
		if err != nil {
			return err
		}
		if clinic == nil || !clinic.IsActive {
			return apperr.NotFound("clinic not found")
		}

		existing, err := u.appointmentRepo.FindActiveByDoctorAndDatetime(ctx, tx, req.DoctorID, at)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict(apperr.CodeDoctorDoubleBooked, "doctor already has an appointment at this time")
		}

		duration, pricingID, err := u.resolveDuration(ctx, tx, req.DoctorID, req.PricingID, req.DurationMinutes)
		if err != nil {
			return err
		}

		var notes *string
		if req.Notes != "" {
			notes = &req.Notes
		}
		appointment = &entity.Appointment{
			ID:              uuid.New(),
			DoctorID:        req.DoctorID,
			PatientID:       req.PatientID,
			ClinicID:        req.ClinicID,
			PricingID:       pricingID,
			Datetime:        at,
			DurationMinutes: duration,
			Type:            appointmentType,
			Status:          entity.AppointmentStatusPending,
			Notes:           notes,
		}
		if err := u.appointmentRepo.Create(ctx, tx, appointment); err != nil {
			return err
		}

		return u.auditSvc.LogAction(ctx, tx, &actor.UserID, entity.AuditActionAppointmentBooked, "appointment", appointment.ID.String(), map[string]interface{}{
			"doctor_id": req.DoctorID.String(),
			"datetime":  at.Format(time.RFC3339),
		})
	})
	if err != nil {
		return nil, err
	}

	u.invalidate(ctx, req.DoctorID)
	return converter.AppointmentToResponse(appointment), nil
}

// resolveDuration picks the consultation length: explicit request value,
// then the pricing's duration, then the default.
func (u *bookingUsecase) resolveDuration(ctx context.Context, tx *gorm.DB, doctorID uuid.UUID, pricingID *uuid.UUID, requested int) (int, *uuid.UUID, error) {
	if pricingID == nil {
		if requested > 0 {
			return requested, nil, nil
		}
		return entity.DefaultDurationMinutes, nil, nil
	}

	pricing, err := u.pricingRepo.FindByID(ctx, tx, *pricingID)
	if err != nil {
		return 0, nil, err
	}
	if pricing == nil || !pricing.IsActive {
		return 0, nil, apperr.NotFound("pricing not found")
	}
	if pricing.DoctorID != doctorID {
		return 0, nil, apperr.Validation("pricing does not belong to this doctor")
	}
	if requested > 0 {
		return requested, pricingID, nil
	}
	if pricing.DurationMinutes > 0 {
		return pricing.DurationMinutes, pricingID, nil
	}
	return entity.DefaultDurationMinutes, pricingID, nil
}

func (u *bookingUsecase) GetAppointment(ctx context.Context, actor entity.Actor, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(ctx, u.db, id)
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	if appointment == nil {
		return nil, apperr.NotFound("appointment not found")
	}
	if !actor.IsAdmin() && actor.UserID != appointment.PatientID && actor.UserID != appointment.DoctorID {
		return nil, apperr.Authorization("appointment does not belong to you")
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *bookingUsecase) ListMyAppointments(ctx context.Context, actor entity.Actor) (*dto.AppointmentListResponse, error) {
	var appointments []entity.Appointment
	var err error
	if actor.IsDoctor() {
		appointments, err = u.appointmentRepo.FindByDoctorID(ctx, u.db, actor.UserID)
	} else {
		appointments, err = u.appointmentRepo.FindByPatientID(ctx, u.db, actor.UserID)
	}
	if err != nil {
		return nil, apperr.FromStore(err)
	}
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *bookingUsecase) invalidate(ctx context.Context, doctorID uuid.UUID) {
	if u.cache == nil {
		return
	}
	if err := u.cache.InvalidateDoctor(ctx, doctorID); err != nil {
		u.log.Warnf("Failed to invalidate availability cache for doctor %s (non-fatal): %+v", doctorID, err)
	}
}
