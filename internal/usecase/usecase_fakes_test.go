package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"medibook/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// fakeTransactor serializes transactions with a mutex, which is the same
// atomicity guarantee the serializable-isolation path gives the usecases.
// The nil *gorm.DB it passes is never dereferenced by the fake repos.
type fakeTransactor struct {
	mu sync.Mutex
}

func (t *fakeTransactor) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(nil)
}

// memStore is a shared in-memory backing store for the fake repositories.
type memStore struct {
	mu              sync.Mutex
	nextScheduleID  int
	schedules       map[int]*entity.Schedule
	slots           map[uuid.UUID]*entity.TimeSlot
	appointments    map[uuid.UUID]*entity.Appointment
	clinics         map[uuid.UUID]*entity.Clinic
	pricings        map[uuid.UUID]*entity.Pricing
	doctorProfiles  map[uuid.UUID]*entity.DoctorProfile
	patientProfiles map[uuid.UUID]*entity.PatientProfile
}

func newMemStore() *memStore {
	return &memStore{
		nextScheduleID:  1,
		schedules:       make(map[int]*entity.Schedule),
		slots:           make(map[uuid.UUID]*entity.TimeSlot),
		appointments:    make(map[uuid.UUID]*entity.Appointment),
		clinics:         make(map[uuid.UUID]*entity.Clinic),
		pricings:        make(map[uuid.UUID]*entity.Pricing),
		doctorProfiles:  make(map[uuid.UUID]*entity.DoctorProfile),
		patientProfiles: make(map[uuid.UUID]*entity.PatientProfile),
	}
}

// --- schedule repository ---

type fakeScheduleRepo struct {
	store *memStore
}

func (r *fakeScheduleRepo) Create(ctx context.Context, db *gorm.DB, schedule *entity.Schedule) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if schedule.ID == 0 {
		schedule.ID = r.store.nextScheduleID
		r.store.nextScheduleID++
	}
	cp := *schedule
	r.store.schedules[schedule.ID] = &cp
	return nil
}

func (r *fakeScheduleRepo) FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Schedule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.schedules[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeScheduleRepo) FindActiveByDoctorClinicDay(ctx context.Context, db *gorm.DB, doctorID, clinicID uuid.UUID, day time.Weekday) ([]entity.Schedule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Schedule
	for _, s := range r.store.schedules {
		if s.IsActive && s.DoctorID == doctorID && s.ClinicID == clinicID && s.DayOfWeek == day {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) FindActiveByDoctorClinic(ctx context.Context, db *gorm.DB, doctorID, clinicID uuid.UUID) ([]entity.Schedule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Schedule
	for _, s := range r.store.schedules {
		if s.IsActive && s.DoctorID == doctorID && s.ClinicID == clinicID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Schedule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Schedule
	for _, s := range r.store.schedules {
		if s.DoctorID == doctorID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeScheduleRepo) Update(ctx context.Context, db *gorm.DB, schedule *entity.Schedule) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *schedule
	r.store.schedules[schedule.ID] = &cp
	return nil
}

func (r *fakeScheduleRepo) Delete(ctx context.Context, db *gorm.DB, id int) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.schedules[id]; !ok {
		return 0, nil
	}
	delete(r.store.schedules, id)
	return 1, nil
}

// --- time slot repository ---

type fakeTimeSlotRepo struct {
	store *memStore
}

func (r *fakeTimeSlotRepo) CreateBatch(ctx context.Context, db *gorm.DB, slots []entity.TimeSlot) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range slots {
		slot := slots[i]
		// Mirror the unique (schedule, date, start_time) index with
		// do-nothing conflict handling.
		if r.findByKeyLocked(slot.ScheduleID, slot.Date, slot.StartTime) != nil {
			continue
		}
		cp := slot
		r.store.slots[slot.ID] = &cp
	}
	return nil
}

func (r *fakeTimeSlotRepo) findByKeyLocked(scheduleID int, date time.Time, startTime string) *entity.TimeSlot {
	for _, s := range r.store.slots {
		if s.ScheduleID == scheduleID && s.Date.Equal(date) && s.StartTime == startTime {
			return s
		}
	}
	return nil
}

func (r *fakeTimeSlotRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.TimeSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.slots[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeTimeSlotRepo) FindByIDForUpdate(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.TimeSlot, error) {
	return r.FindByID(ctx, db, id)
}

func (r *fakeTimeSlotRepo) FindByScheduleAndDateRange(ctx context.Context, db *gorm.DB, scheduleID int, startDate, endDate time.Time) ([]entity.TimeSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.TimeSlot
	for _, s := range r.store.slots {
		if s.ScheduleID == scheduleID && !s.Date.Before(startDate) && !s.Date.After(endDate) {
			out = append(out, *s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (r *fakeTimeSlotRepo) FindByDoctorClinicAndDateRange(ctx context.Context, db *gorm.DB, doctorID, clinicID uuid.UUID, startDate, endDate time.Time) ([]entity.TimeSlot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.TimeSlot
	for _, s := range r.store.slots {
		if s.DoctorID == doctorID && s.ClinicID == clinicID && !s.Date.Before(startDate) && !s.Date.After(endDate) {
			out = append(out, *s)
		}
	}
	sortSlots(out)
	return out, nil
}

func sortSlots(slots []entity.TimeSlot) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].StartTime < slots[j].StartTime
	})
}

func (r *fakeTimeSlotRepo) Claim(ctx context.Context, db *gorm.DB, slotID, appointmentID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.slots[slotID]
	if !ok || s.IsBooked || s.IsBlocked {
		return 0, nil
	}
	s.IsBooked = true
	id := appointmentID
	s.AppointmentID = &id
	return 1, nil
}

func (r *fakeTimeSlotRepo) Release(ctx context.Context, db *gorm.DB, slotID uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.slots[slotID]
	if !ok || !s.IsBooked {
		return 0, nil
	}
	s.IsBooked = false
	s.AppointmentID = nil
	return 1, nil
}

func (r *fakeTimeSlotRepo) SetBlocked(ctx context.Context, db *gorm.DB, slotID uuid.UUID, blocked bool) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.slots[slotID]
	if !ok || s.IsBooked {
		return 0, nil
	}
	s.IsBlocked = blocked
	return 1, nil
}

func (r *fakeTimeSlotRepo) CountBookedBySchedule(ctx context.Context, db *gorm.DB, scheduleID int) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var n int64
	for _, s := range r.store.slots {
		if s.ScheduleID == scheduleID && s.IsBooked {
			n++
		}
	}
	return n, nil
}

func (r *fakeTimeSlotRepo) DeleteUnbookedBySchedule(ctx context.Context, db *gorm.DB, scheduleID int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, s := range r.store.slots {
		if s.ScheduleID == scheduleID && !s.IsBooked {
			delete(r.store.slots, id)
		}
	}
	return nil
}

// --- appointment repository ---

type fakeAppointmentRepo struct {
	store *memStore
}

// hydrateLocked mirrors the Preload("Clinic")/("Doctor.User")/("Patient.User")
// the real repository performs. Caller holds store.mu.
func (r *fakeAppointmentRepo) hydrateLocked(a entity.Appointment) entity.Appointment {
	if c, ok := r.store.clinics[a.ClinicID]; ok {
		a.Clinic = *c
	}
	if d, ok := r.store.doctorProfiles[a.DoctorID]; ok {
		a.Doctor = *d
	}
	if p, ok := r.store.patientProfiles[a.PatientID]; ok {
		a.Patient = *p
	}
	return a
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *appointment
	r.store.appointments[appointment.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.appointments[id]
	if !ok {
		return nil, nil
	}
	cp := r.hydrateLocked(*a)
	return &cp, nil
}

func (r *fakeAppointmentRepo) FindActiveByDoctorAndDatetime(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, at time.Time) (*entity.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, a := range r.store.appointments {
		if a.DoctorID == doctorID && a.Datetime.Equal(at) && a.IsActive() {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.store.appointments {
		if a.PatientID == patientID {
			out = append(out, r.hydrateLocked(*a))
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.store.appointments {
		if a.DoctorID == doctorID {
			out = append(out, r.hydrateLocked(*a))
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindByDoctorAndDateRange(ctx context.Context, db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.store.appointments {
		if a.DoctorID == doctorID && !a.Datetime.Before(from) && a.Datetime.Before(to) {
			out = append(out, r.hydrateLocked(*a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Datetime.Before(out[j].Datetime) })
	return out, nil
}

func (r *fakeAppointmentRepo) FindByPatientAndDateRange(ctx context.Context, db *gorm.DB, patientID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Appointment
	for _, a := range r.store.appointments {
		if a.PatientID == patientID && !a.Datetime.Before(from) && a.Datetime.Before(to) {
			out = append(out, r.hydrateLocked(*a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Datetime.Before(out[j].Datetime) })
	return out, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	a, ok := r.store.appointments[id]
	if !ok || a.Status != from {
		return 0, nil
	}
	a.Status = to
	return 1, nil
}

// --- clinic repository ---

type fakeClinicRepo struct {
	store *memStore
}

func (r *fakeClinicRepo) Create(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *clinic
	r.store.clinics[clinic.ID] = &cp
	return nil
}

func (r *fakeClinicRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Clinic, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.clinics[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClinicRepo) FindAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]entity.Clinic, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Clinic
	for _, c := range r.store.clinics {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *fakeClinicRepo) Update(ctx context.Context, db *gorm.DB, clinic *entity.Clinic) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *clinic
	r.store.clinics[clinic.ID] = &cp
	return nil
}

func (r *fakeClinicRepo) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.clinics, id)
	return nil
}

// --- pricing repository ---

type fakePricingRepo struct {
	store *memStore
}

func (r *fakePricingRepo) Create(ctx context.Context, db *gorm.DB, pricing *entity.Pricing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *pricing
	r.store.pricings[pricing.ID] = &cp
	return nil
}

func (r *fakePricingRepo) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Pricing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.pricings[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePricingRepo) FindByDoctorID(ctx context.Context, db *gorm.DB, doctorID uuid.UUID) ([]entity.Pricing, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Pricing
	for _, p := range r.store.pricings {
		if p.DoctorID == doctorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePricingRepo) FindAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]entity.Pricing, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []entity.Pricing
	for _, p := range r.store.pricings {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakePricingRepo) Update(ctx context.Context, db *gorm.DB, pricing *entity.Pricing) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *pricing
	r.store.pricings[pricing.ID] = &cp
	return nil
}

func (r *fakePricingRepo) Delete(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.pricings, id)
	return nil
}

// --- audit service ---

type recordedAudit struct {
	Action     string
	EntityName string
	EntityID   string
}

type fakeAuditService struct {
	mu      sync.Mutex
	entries []recordedAudit
}

func (s *fakeAuditService) LogAction(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action string, entityName string, entityID string, metadata map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, recordedAudit{Action: action, EntityName: entityName, EntityID: entityID})
	return nil
}

func (s *fakeAuditService) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Action
	}
	return out
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}
