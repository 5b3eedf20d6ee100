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

func availabilityReq(doctorID, clinicID uuid.UUID, start, end time.Time) *dto.AvailabilityQueryRequest {
	return &dto.AvailabilityQueryRequest{
		DoctorID:  doctorID,
		ClinicID:  clinicID,
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}
}

func TestAvailabilityQueryMaterializesLazily(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	env.addSchedule(doctorID, clinic.ID, time.Monday, "08:00", "09:00", 30)

	monday := nextWeekday(time.Monday)
	require.Zero(t, env.slotCount())

	resp, err := env.availabilityUC.Query(context.Background(), availabilityReq(doctorID, clinic.ID, monday, monday))
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	assert.Equal(t, "08:00", resp.Slots[0].StartTime)
	assert.Equal(t, "08:30", resp.Slots[0].EndTime)
	assert.Equal(t, "08:30", resp.Slots[1].StartTime)
	assert.Equal(t, "09:00", resp.Slots[1].EndTime)
	assert.True(t, resp.Slots[0].IsAvailable)
	assert.Equal(t, 2, env.slotCount())
}

func TestAvailabilityQueryOrdering(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	env.addSchedule(doctorID, clinic.ID, time.Monday, "10:00", "11:00", 30)
	env.addSchedule(doctorID, clinic.ID, time.Monday, "08:00", "09:00", 30)
	env.addSchedule(doctorID, clinic.ID, time.Tuesday, "08:00", "09:00", 30)

	monday := nextWeekday(time.Monday)
	resp, err := env.availabilityUC.Query(context.Background(), availabilityReq(doctorID, clinic.ID, monday, monday.AddDate(0, 0, 6)))
	require.NoError(t, err)
	require.Equal(t, 6, resp.Total)

	// ordered by date, then start time
	assert.Equal(t, monday.Format("2006-01-02"), resp.Slots[0].Date)
	assert.Equal(t, "08:00", resp.Slots[0].StartTime)
	assert.Equal(t, "08:30", resp.Slots[1].StartTime)
	assert.Equal(t, "10:00", resp.Slots[2].StartTime)
	assert.Equal(t, "10:30", resp.Slots[3].StartTime)
	assert.Equal(t, monday.AddDate(0, 0, 1).Format("2006-01-02"), resp.Slots[4].Date)
	assert.Equal(t, "08:00", resp.Slots[4].StartTime)
}

func TestAvailabilityQueryOnlyAvailable(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinic := env.addClinic()
	slot := seedBookableSlot(t, env, doctorID, clinic.ID)
	ctx := context.Background()

	_, err := env.bookingUC.BookSlot(ctx, patientActor(), &dto.BookSlotRequest{
		TimeSlotID: slot.ID, ClinicID: clinic.ID, Type: "in_person",
	})
	require.NoError(t, err)

	monday := nextWeekday(time.Monday)
	req := availabilityReq(doctorID, clinic.ID, monday, monday)

	all, err := env.availabilityUC.Query(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Total)

	req.OnlyAvailable = true
	free, err := env.availabilityUC.Query(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 1, free.Total)
	assert.NotEqual(t, slot.ID, free.Slots[0].ID)

	// blocking the remaining slot empties the filtered view
	require.NoError(t, env.slotUC.BlockSlot(ctx, doctorActor(doctorID), free.Slots[0].ID))
	empty, err := env.availabilityUC.Query(ctx, req)
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
}

func TestAvailabilityQueryValidation(t *testing.T) {
	env := newTestEnv()
	doctorID := uuid.New()
	clinicID := uuid.New()
	today := time.Now().UTC()
	ctx := context.Background()

	_, err := env.availabilityUC.Query(ctx, &dto.AvailabilityQueryRequest{
		DoctorID: doctorID, ClinicID: clinicID,
		StartDate: today.Format("2006-01-02"), EndDate: today.AddDate(0, 0, -1).Format("2006-01-02"),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = env.availabilityUC.Query(ctx, &dto.AvailabilityQueryRequest{
		DoctorID: doctorID, ClinicID: clinicID,
		StartDate: today.Format("2006-01-02"), EndDate: today.AddDate(0, 0, testMaxHorizonDays+1).Format("2006-01-02"),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = env.availabilityUC.Query(ctx, &dto.AvailabilityQueryRequest{
		DoctorID: doctorID, ClinicID: clinicID,
		StartDate: "29-08-2026", EndDate: today.Format("2006-01-02"),
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestAvailabilityQueryNoSchedules(t *testing.T) {
	env := newTestEnv()
	monday := nextWeekday(time.Monday)
	resp, err := env.availabilityUC.Query(context.Background(), availabilityReq(uuid.New(), uuid.New(), monday, monday))
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
	assert.Empty(t, resp.Slots)
}
