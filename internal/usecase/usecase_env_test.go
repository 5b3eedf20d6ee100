package usecase

import (
	"time"

	"medibook/internal/domain/entity"

	"github.com/google/uuid"
)

const (
	testMaxHorizonDays = 92
	testCancelLeadTime = 24 * time.Hour
)

// testEnv wires every usecase against the shared in-memory store so tests
// exercise the real business logic without a database.
type testEnv struct {
	store *memStore
	txm   *fakeTransactor
	audit *fakeAuditService

	scheduleUC     ScheduleUsecase
	slotUC         SlotUsecase
	availabilityUC AvailabilityUsecase
	bookingUC      BookingUsecase
	statusUC       AppointmentStatusUsecase
	calendarUC     CalendarUsecase
}

func newTestEnv() *testEnv {
	store := newMemStore()
	txm := &fakeTransactor{}
	audit := &fakeAuditService{}
	log := testLogger()

	scheduleRepo := &fakeScheduleRepo{store: store}
	slotRepo := &fakeTimeSlotRepo{store: store}
	appointmentRepo := &fakeAppointmentRepo{store: store}
	clinicRepo := &fakeClinicRepo{store: store}
	pricingRepo := &fakePricingRepo{store: store}

	slotUC := NewSlotUsecase(nil, txm, log, scheduleRepo, slotRepo, audit, nil, testMaxHorizonDays)

	return &testEnv{
		store:          store,
		txm:            txm,
		audit:          audit,
		scheduleUC:     NewScheduleUsecase(nil, txm, log, scheduleRepo, slotRepo, clinicRepo, audit),
		slotUC:         slotUC,
		availabilityUC: NewAvailabilityUsecase(nil, log, slotRepo, slotUC, nil, testMaxHorizonDays),
		bookingUC:      NewBookingUsecase(nil, txm, log, appointmentRepo, slotRepo, clinicRepo, pricingRepo, audit, nil),
		statusUC:       NewAppointmentStatusUsecase(nil, txm, log, appointmentRepo, slotRepo, audit, nil, testCancelLeadTime),
		calendarUC:     NewCalendarUsecase(nil, log, appointmentRepo, testMaxHorizonDays),
	}
}

func (e *testEnv) addClinic() *entity.Clinic {
	clinic := &entity.Clinic{ID: uuid.New(), Name: "Central Clinic", IsActive: true}
	e.store.mu.Lock()
	e.store.clinics[clinic.ID] = clinic
	e.store.mu.Unlock()
	return clinic
}

func (e *testEnv) addDoctorProfile(doctorID uuid.UUID, fullName string) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.doctorProfiles[doctorID] = &entity.DoctorProfile{
		UserID: doctorID,
		User:   entity.User{ID: doctorID, FullName: fullName, RoleID: entity.RoleIDDoctor},
	}
}

func (e *testEnv) addPatientProfile(patientID uuid.UUID, fullName string) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	e.store.patientProfiles[patientID] = &entity.PatientProfile{
		UserID: patientID,
		User:   entity.User{ID: patientID, FullName: fullName, RoleID: entity.RoleIDPatient},
	}
}

func (e *testEnv) addSchedule(doctorID, clinicID uuid.UUID, day time.Weekday, start, end string, slotMinutes int) *entity.Schedule {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	schedule := &entity.Schedule{
		ID:                  e.store.nextScheduleID,
		DoctorID:            doctorID,
		ClinicID:            clinicID,
		DayOfWeek:           day,
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: slotMinutes,
		IsActive:            true,
	}
	e.store.nextScheduleID++
	e.store.schedules[schedule.ID] = schedule
	return schedule
}

func (e *testEnv) slotCount() int {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return len(e.store.slots)
}

func (e *testEnv) slotByID(id uuid.UUID) *entity.TimeSlot {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	s, ok := e.store.slots[id]
	if !ok {
		return nil
	}
	cp := *s
	return &cp
}

// nextWeekday returns the next date strictly after today falling on day,
// at least 7 days out so slot start times are always in the future.
func nextWeekday(day time.Weekday) time.Time {
	d := time.Now().UTC().AddDate(0, 0, 7)
	d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func patientActor() entity.Actor {
	return entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDPatient}
}

func doctorActor(id uuid.UUID) entity.Actor {
	return entity.Actor{UserID: id, RoleID: entity.RoleIDDoctor}
}

func adminActor() entity.Actor {
	return entity.Actor{UserID: uuid.New(), RoleID: entity.RoleIDAdmin}
}
