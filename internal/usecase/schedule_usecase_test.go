package usecase

import (
	"context"
	"testing"
	"time"

	"medibook/internal/delivery/dto"
	"medibook/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createScheduleReq(clinicID uuid.UUID, day, start, end string, slotMinutes int) *dto.CreateScheduleRequest {
	return &dto.CreateScheduleRequest{
		ClinicID:            clinicID,
		DayOfWeek:           day,
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: slotMinutes,
	}
}

func TestCreateSchedule(t *testing.T) {
	env := newTestEnv()
	clinic := env.addClinic()
	doctor := doctorActor(uuid.New())

	resp, err := env.scheduleUC.CreateSchedule(context.Background(), doctor, createScheduleReq(clinic.ID, "MONDAY", "08:00", "12:00", 30))
	require.NoError(t, err)
	assert.Equal(t, doctor.UserID, resp.DoctorID)
	assert.Equal(t, clinic.ID, resp.ClinicID)
	assert.Equal(t, "MONDAY", resp.DayOfWeek)
	assert.Equal(t, "08:00", resp.StartTime)
	assert.Equal(t, "12:00", resp.EndTime)
	assert.True(t, resp.IsActive)
	assert.NotZero(t, resp.ID)
}

func TestCreateScheduleOverlap(t *testing.T) {
	env := newTestEnv()
	clinic := env.addClinic()
	doctor := doctorActor(uuid.New())
	ctx := context.Background()

	_, err := env.scheduleUC.CreateSchedule(ctx, doctor, createScheduleReq(clinic.ID, "MONDAY", "08:00", "12:00", 30))
	require.NoError(t, err)

	// overlapping window on the same day and clinic
	_, err = env.scheduleUC.CreateSchedule(ctx, doctor, createScheduleReq(clinic.ID, "MONDAY", "11:00", "14:00", 30))
	assert.Equal(t, apperr.CodeScheduleOverlap, apperr.ConflictCode(err))

	// adjacent window is fine
	_, err = env.scheduleUC.CreateSchedule(ctx, doctor, createScheduleReq(clinic.ID, "MONDAY", "12:00", "16:00", 30))
	assert.NoError(t, err)

	// same window on another day is fine
	_, err = env.scheduleUC.CreateSchedule(ctx, doctor, createScheduleReq(clinic.ID, "TUESDAY", "08:00", "12:00", 30))
	assert.NoError(t, err)

	// another doctor can share the window
	_, err = env.scheduleUC.CreateSchedule(ctx, doctorActor(uuid.New()), createScheduleReq(clinic.ID, "MONDAY", "08:00", "12:00", 30))
	assert.NoError(t, err)
}

func TestCreateScheduleValidation(t *testing.T) {
	env := newTestEnv()
	clinic := env.addClinic()
	doctor := doctorActor(uuid.New())
	ctx := context.Background()

	_, err := env.scheduleUC.CreateSchedule(ctx, doctor, createScheduleReq(clinic.ID, "FUNDAY", "08:00", "12:00", 30))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = env.scheduleUC.CreateSchedule(ctx, doctor, createScheduleReq(clinic.ID, "MONDAY", "12:00", "08:00", 30))
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = env.scheduleUC.CreateSchedule(ctx, doctor, createScheduleReq(uuid.New(), "MONDAY", "08:00", "12:00", 30))
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateSchedule(t *testing.T) {
	env := newTestEnv()
	clinic := env.addClinic()
	doctor := doctorActor(uuid.New())
	ctx := context.Background()

	created, err := env.scheduleUC.CreateSchedule(ctx, doctor, createScheduleReq(clinic.ID, "MONDAY", "08:00", "12:00", 30))
	require.NoError(t, err)

	// shrinking the window does not collide with itself
	updated, err := env.scheduleUC.UpdateSchedule(ctx, doctor, created.ID, &dto.UpdateScheduleRequest{EndTime: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, "10:00", updated.EndTime)

	duration := 15
	updated, err = env.scheduleUC.UpdateSchedule(ctx, doctor, created.ID, &dto.UpdateScheduleRequest{SlotDurationMinutes: &duration})
	require.NoError(t, err)
	assert.Equal(t, 15, updated.SlotDurationMinutes)

	// growing into a sibling schedule is refused
	_, err = env.scheduleUC.CreateSchedule(ctx, doctor, createScheduleReq(clinic.ID, "MONDAY", "10:00", "12:00", 30))
	require.NoError(t, err)
	_, err = env.scheduleUC.UpdateSchedule(ctx, doctor, created.ID, &dto.UpdateScheduleRequest{EndTime: "11:00"})
	assert.Equal(t, apperr.CodeScheduleOverlap, apperr.ConflictCode(err))

	// only the owner (or an admin) may touch it
	_, err = env.scheduleUC.UpdateSchedule(ctx, doctorActor(uuid.New()), created.ID, &dto.UpdateScheduleRequest{EndTime: "09:00"})
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	_, err = env.scheduleUC.UpdateSchedule(ctx, adminActor(), created.ID, &dto.UpdateScheduleRequest{EndTime: "09:00"})
	assert.NoError(t, err)

	_, err = env.scheduleUC.UpdateSchedule(ctx, doctor, 9999, &dto.UpdateScheduleRequest{EndTime: "09:00"})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestDeactivateSchedule(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	schedule := env.addSchedule(doctorID, clinic.ID, time.Monday, "08:00", "09:00", 30)
	ctx := context.Background()

	require.NoError(t, env.scheduleUC.DeactivateSchedule(ctx, doctorActor(doctorID), schedule.ID))
	stored, err := env.scheduleUC.GetSchedule(ctx, schedule.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	// deactivated schedules stop producing slots
	monday := nextWeekday(time.Monday)
	resp, err := env.availabilityUC.Query(ctx, availabilityReq(doctorID, clinic.ID, monday, monday))
	require.NoError(t, err)
	assert.Zero(t, resp.Total)

	// idempotent
	require.NoError(t, env.scheduleUC.DeactivateSchedule(ctx, doctorActor(doctorID), schedule.ID))
}

func TestDeleteScheduleRemovesUnbookedSlots(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	schedule := env.addSchedule(doctorID, clinic.ID, time.Monday, "08:00", "09:00", 30)
	ctx := context.Background()

	_, err := env.slotUC.Generate(ctx, doctorActor(doctorID), schedule.ID, rangeAround(nextWeekday(time.Monday)))
	require.NoError(t, err)
	require.Equal(t, 2, env.slotCount())

	require.NoError(t, env.scheduleUC.DeleteSchedule(ctx, doctorActor(doctorID), schedule.ID))
	assert.Zero(t, env.slotCount())

	err = env.scheduleUC.DeleteSchedule(ctx, doctorActor(doctorID), schedule.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestDeleteScheduleWithBookedSlots(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	slot := seedBookableSlot(t, env, doctorID, clinic.ID)
	ctx := context.Background()

	_, err := env.bookingUC.BookSlot(ctx, patientActor(), &dto.BookSlotRequest{
		TimeSlotID: slot.ID, ClinicID: clinic.ID, Type: "in_person",
	})
	require.NoError(t, err)

	err = env.scheduleUC.DeleteSchedule(ctx, doctorActor(doctorID), slot.ScheduleID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeSlotUnavailable, apperr.ConflictCode(err))

	// deactivation remains available
	assert.NoError(t, env.scheduleUC.DeactivateSchedule(ctx, doctorActor(doctorID), slot.ScheduleID))
}

func TestListSchedulesByDoctor(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	env.addSchedule(doctorID, clinic.ID, time.Monday, "08:00", "09:00", 30)
	env.addSchedule(doctorID, clinic.ID, time.Tuesday, "08:00", "09:00", 30)
	env.addSchedule(uuid.New(), clinic.ID, time.Monday, "08:00", "09:00", 30)

	resp, err := env.scheduleUC.ListSchedulesByDoctor(context.Background(), doctorActor(doctorID))
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
}
