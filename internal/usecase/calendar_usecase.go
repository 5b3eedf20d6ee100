package usecase

import (
	"context"

	"medibook/internal/converter"
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
	"medibook/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CalendarUsecase interface {
	// GetCalendar projects the actor's appointments over [start_date,
	// end_date] into calendar events. Doctors see patient names as the
	// event participant, patients see doctor names.
	GetCalendar(ctx context.Context, actor entity.Actor, startDateStr, endDateStr string) (*dto.CalendarResponse, error)
}

type calendarUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	maxHorizonDays  int
}

func NewCalendarUsecase(db *gorm.DB, log *logrus.Logger, appointmentRepo repository.AppointmentRepository, maxHorizonDays int) CalendarUsecase {
	return &calendarUsecase{db: db, log: log, appointmentRepo: appointmentRepo, maxHorizonDays: maxHorizonDays}
}

func (u *calendarUsecase) GetCalendar(ctx context.Context, actor entity.Actor, startDateStr, endDateStr string) (*dto.CalendarResponse, error) {
	startDate, endDate, err := ParseDateRange(startDateStr, endDateStr, u.maxHorizonDays)
	if err != nil {
		return nil, err
	}
	// The range is inclusive of the end date, so the query window closes at
	// the following midnight.
	until := endDate.AddDate(0, 0, 1)

	var appointments []entity.Appointment
	if actor.IsDoctor() {
		appointments, err = u.appointmentRepo.FindByDoctorAndDateRange(ctx, u.db, actor.UserID, startDate, until)
	} else {
		appointments, err = u.appointmentRepo.FindByPatientAndDateRange(ctx, u.db, actor.UserID, startDate, until)
	}
	if err != nil {
		u.log.Warnf("Failed to load appointments for calendar: %+v", err)
		return nil, err
	}

	events := make([]dto.CalendarEventResponse, 0, len(appointments))
	for i := range appointments {
		a := &appointments[i]
		events = append(events, *converter.AppointmentToCalendarEvent(a, u.participantName(actor, a), a.Clinic.Name))
	}

	return &dto.CalendarResponse{
		StartDate: startDateStr,
		EndDate:   endDateStr,
		Events:    events,
		Total:     len(events),
	}, nil
}

func (u *calendarUsecase) participantName(actor entity.Actor, a *entity.Appointment) string {
	if actor.IsDoctor() {
		if a.Patient.UserID != uuid.Nil {
			return a.Patient.User.FullName
		}
		return ""
	}
	if a.Doctor.UserID != uuid.Nil {
		return a.Doctor.User.FullName
	}
	return ""
}
