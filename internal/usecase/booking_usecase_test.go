package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
	"medibook/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedBookableSlot generates slots for a schedule and returns the first one.
func seedBookableSlot(t *testing.T, env *testEnv, doctorID, clinicID uuid.UUID) *entity.TimeSlot {
	t.Helper()
	schedule := env.addSchedule(doctorID, clinicID, time.Monday, "08:00", "09:00", 30)
	_, err := env.slotUC.Generate(context.Background(), doctorActor(doctorID), schedule.ID, rangeAround(nextWeekday(time.Monday)))
	require.NoError(t, err)

	slots, err := (&fakeTimeSlotRepo{store: env.store}).FindByScheduleAndDateRange(
		context.Background(), nil, schedule.ID, nextWeekday(time.Monday), nextWeekday(time.Monday))
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	return &slots[0]
}

func TestBookSlot(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	slot := seedBookableSlot(t, env, doctorID, clinic.ID)
	patient := patientActor()

	resp, err := env.bookingUC.BookSlot(context.Background(), patient, &dto.BookSlotRequest{
		TimeSlotID: slot.ID,
		ClinicID:   clinic.ID,
		Type:       "in_person",
		Notes:      "first visit",
	})
	require.NoError(t, err)

	assert.Equal(t, doctorID, resp.DoctorID)
	assert.Equal(t, patient.UserID, resp.PatientID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, entity.DefaultDurationMinutes, resp.DurationMinutes)
	require.NotNil(t, resp.TimeSlotID)
	assert.Equal(t, slot.ID, *resp.TimeSlotID)
	assert.Equal(t, slot.StartAt(), resp.Datetime)

	stored := env.slotByID(slot.ID)
	assert.True(t, stored.IsBooked)
	require.NotNil(t, stored.AppointmentID)
	assert.Equal(t, resp.ID, *stored.AppointmentID)

	assert.Contains(t, env.audit.actions(), entity.AuditActionAppointmentBooked)
}

func TestBookSlotConcurrentSingleWinner(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	slot := seedBookableSlot(t, env, doctorID, clinic.ID)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, errs[n] = env.bookingUC.BookSlot(context.Background(), patientActor(), &dto.BookSlotRequest{
				TimeSlotID: slot.ID,
				ClinicID:   clinic.ID,
				Type:       "online",
			})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		require.True(t, apperr.IsKind(err, apperr.KindConflict), "unexpected error: %v", err)
		assert.Equal(t, apperr.CodeSlotUnavailable, apperr.ConflictCode(err))
	}
	assert.Equal(t, 1, winners)

	env.store.mu.Lock()
	assert.Len(t, env.store.appointments, 1)
	env.store.mu.Unlock()
}

func TestBookSlotAlreadyBooked(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	slot := seedBookableSlot(t, env, doctorID, clinic.ID)
	req := &dto.BookSlotRequest{TimeSlotID: slot.ID, ClinicID: clinic.ID, Type: "in_person"}

	_, err := env.bookingUC.BookSlot(context.Background(), patientActor(), req)
	require.NoError(t, err)

	_, err = env.bookingUC.BookSlot(context.Background(), patientActor(), req)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeSlotUnavailable, apperr.ConflictCode(err))
}

func TestBookSlotBlocked(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	slot := seedBookableSlot(t, env, doctorID, clinic.ID)

	require.NoError(t, env.slotUC.BlockSlot(context.Background(), doctorActor(doctorID), slot.ID))

	_, err := env.bookingUC.BookSlot(context.Background(), patientActor(), &dto.BookSlotRequest{
		TimeSlotID: slot.ID, ClinicID: clinic.ID, Type: "in_person",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeSlotUnavailable, apperr.ConflictCode(err))
}

func TestBookSlotDoctorDoubleBookedAcrossClinics(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinicA := env.addClinic()
	clinicB := env.addClinic()

	// Same doctor, same weekday window at two clinics: materialized slots
	// collide on the doctor-datetime pair.
	slotA := seedBookableSlot(t, env, doctorID, clinicA.ID)
	slotB := seedBookableSlot(t, env, doctorID, clinicB.ID)
	require.Equal(t, slotA.StartAt(), slotB.StartAt())

	_, err := env.bookingUC.BookSlot(context.Background(), patientActor(), &dto.BookSlotRequest{
		TimeSlotID: slotA.ID, ClinicID: clinicA.ID, Type: "in_person",
	})
	require.NoError(t, err)

	_, err = env.bookingUC.BookSlot(context.Background(), patientActor(), &dto.BookSlotRequest{
		TimeSlotID: slotB.ID, ClinicID: clinicB.ID, Type: "in_person",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeDoctorDoubleBooked, apperr.ConflictCode(err))
}

func TestBookSlotConcurrentCrossSlotDoctorRace(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinicA := env.addClinic()
	clinicB := env.addClinic()
	slotA := seedBookableSlot(t, env, doctorID, clinicA.ID)
	slotB := seedBookableSlot(t, env, doctorID, clinicB.ID)
	require.Equal(t, slotA.StartAt(), slotB.StartAt())

	// Two patients race for different slots that share the doctor and
	// datetime. Exactly one booking survives.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	requests := []*dto.BookSlotRequest{
		{TimeSlotID: slotA.ID, ClinicID: clinicA.ID, Type: "in_person"},
		{TimeSlotID: slotB.ID, ClinicID: clinicB.ID, Type: "in_person"},
	}
	for i, req := range requests {
		wg.Add(1)
		go func(n int, req *dto.BookSlotRequest) {
			defer wg.Done()
			_, errs[n] = env.bookingUC.BookSlot(context.Background(), patientActor(), req)
		}(i, req)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.Equal(t, apperr.CodeDoctorDoubleBooked, apperr.ConflictCode(err))
		}
	}
	assert.Equal(t, 1, winners)
}

func TestBookSlotUnknownSlot(t *testing.T) {
	env := newTestEnv()
	clinic := env.addClinic()

	_, err := env.bookingUC.BookSlot(context.Background(), patientActor(), &dto.BookSlotRequest{
		TimeSlotID: uuid.New(), ClinicID: clinic.ID, Type: "in_person",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestBookSlotWrongClinic(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	other := env.addClinic()
	slot := seedBookableSlot(t, env, doctorID, clinic.ID)

	_, err := env.bookingUC.BookSlot(context.Background(), patientActor(), &dto.BookSlotRequest{
		TimeSlotID: slot.ID, ClinicID: other.ID, Type: "in_person",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestBookSlotDoctorCannotBook(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	slot := seedBookableSlot(t, env, doctorID, clinic.ID)

	_, err := env.bookingUC.BookSlot(context.Background(), doctorActor(doctorID), &dto.BookSlotRequest{
		TimeSlotID: slot.ID, ClinicID: clinic.ID, Type: "in_person",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestBookSlotPricingDuration(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	slot := seedBookableSlot(t, env, doctorID, clinic.ID)

	pricing := &entity.Pricing{
		ID:              uuid.New(),
		ClinicID:        clinic.ID,
		DoctorID:        doctorID,
		Title:           "Standard consultation",
		ConsultationFee: decimal.NewFromInt(150),
		DurationMinutes: 45,
		IsActive:        true,
	}
	env.store.mu.Lock()
	env.store.pricings[pricing.ID] = pricing
	env.store.mu.Unlock()

	resp, err := env.bookingUC.BookSlot(context.Background(), patientActor(), &dto.BookSlotRequest{
		TimeSlotID: slot.ID, ClinicID: clinic.ID, Type: "in_person", PricingID: &pricing.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 45, resp.DurationMinutes)
	require.NotNil(t, resp.PricingID)
	assert.Equal(t, pricing.ID, *resp.PricingID)
}

func TestBookSlotPricingWrongDoctor(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	slot := seedBookableSlot(t, env, doctorID, clinic.ID)

	pricing := &entity.Pricing{
		ID:       uuid.New(),
		ClinicID: clinic.ID,
		DoctorID: uuid.New(),
		IsActive: true,
	}
	env.store.mu.Lock()
	env.store.pricings[pricing.ID] = pricing
	env.store.mu.Unlock()

	_, err := env.bookingUC.BookSlot(context.Background(), patientActor(), &dto.BookSlotRequest{
		TimeSlotID: slot.ID, ClinicID: clinic.ID, Type: "in_person", PricingID: &pricing.ID,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateAppointmentRawDatetime(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	patient := patientActor()
	at := nextWeekday(time.Wednesday).Add(14 * time.Hour)

	resp, err := env.bookingUC.CreateAppointment(context.Background(), patient, &dto.CreateAppointmentRequest{
		DoctorID:  doctorID,
		PatientID: patient.UserID,
		ClinicID:  clinic.ID,
		Datetime:  at.Format(time.RFC3339),
		Type:      "online",
	})
	require.NoError(t, err)

	// No slot backs the raw-datetime path.
	assert.Nil(t, resp.TimeSlotID)
	assert.Equal(t, at, resp.Datetime)
	assert.Equal(t, entity.DefaultDurationMinutes, resp.DurationMinutes)

	// Second booking of the same doctor-datetime pair is refused.
	_, err = env.bookingUC.CreateAppointment(context.Background(), patientActor(), &dto.CreateAppointmentRequest{
		DoctorID:  doctorID,
		PatientID: patient.UserID,
		ClinicID:  clinic.ID,
		Datetime:  at.Format(time.RFC3339),
		Type:      "online",
	})
	require.Error(t, err)
}

func TestCreateAppointmentForAnotherPatient(t *testing.T) {
	env := newTestEnv()
	clinic := env.addClinic()
	at := nextWeekday(time.Wednesday).Add(14 * time.Hour)

	_, err := env.bookingUC.CreateAppointment(context.Background(), patientActor(), &dto.CreateAppointmentRequest{
		DoctorID:  uuid.New(),
		PatientID: uuid.New(),
		ClinicID:  clinic.ID,
		Datetime:  at.Format(time.RFC3339),
		Type:      "online",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestCreateAppointmentPastDatetime(t *testing.T) {
	env := newTestEnv()
	clinic := env.addClinic()
	patient := patientActor()

	_, err := env.bookingUC.CreateAppointment(context.Background(), patient, &dto.CreateAppointmentRequest{
		DoctorID:  uuid.New(),
		PatientID: patient.UserID,
		ClinicID:  clinic.ID,
		Datetime:  time.Now().UTC().Add(-time.Hour).Format(time.RFC3339),
		Type:      "online",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestListMyAppointments(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	slot := seedBookableSlot(t, env, doctorID, clinic.ID)
	patient := patientActor()

	_, err := env.bookingUC.BookSlot(context.Background(), patient, &dto.BookSlotRequest{
		TimeSlotID: slot.ID, ClinicID: clinic.ID, Type: "in_person",
	})
	require.NoError(t, err)

	mine, err := env.bookingUC.ListMyAppointments(context.Background(), patient)
	require.NoError(t, err)
	assert.Equal(t, 1, mine.Total)

	theirs, err := env.bookingUC.ListMyAppointments(context.Background(), doctorActor(doctorID))
	require.NoError(t, err)
	assert.Equal(t, 1, theirs.Total)

	nobody, err := env.bookingUC.ListMyAppointments(context.Background(), patientActor())
	require.NoError(t, err)
	assert.Equal(t, 0, nobody.Total)
}
