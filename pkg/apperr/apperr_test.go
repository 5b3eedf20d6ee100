package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsKind(t *testing.T) {
	assert.True(t, IsKind(Validation("bad input"), KindValidation))
	assert.True(t, IsKind(NotFound("missing"), KindNotFound))
	assert.True(t, IsKind(Conflict(CodeSlotUnavailable, "taken"), KindConflict))
	assert.False(t, IsKind(Validation("bad input"), KindConflict))
	assert.False(t, IsKind(errors.New("plain"), KindValidation))
	assert.False(t, IsKind(nil, KindValidation))

	// wrapped application errors are still recognized
	wrapped := fmt.Errorf("booking failed: %w", Conflict(CodeDoctorDoubleBooked, "busy"))
	assert.True(t, IsKind(wrapped, KindConflict))
	assert.Equal(t, CodeDoctorDoubleBooked, ConflictCode(wrapped))
}

func TestConflictCode(t *testing.T) {
	assert.Equal(t, CodeSlotUnavailable, ConflictCode(Conflict(CodeSlotUnavailable, "taken")))
	assert.Empty(t, ConflictCode(Validation("bad input")))
	assert.Empty(t, ConflictCode(nil))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "SlotUnavailable: taken", Conflict(CodeSlotUnavailable, "taken").Error())
	assert.Equal(t, "missing", NotFound("missing").Error())
}

func TestFromStore(t *testing.T) {
	assert.NoError(t, FromStore(nil))

	// application errors pass through untouched
	appErr := Conflict(CodeScheduleOverlap, "overlap")
	assert.Equal(t, error(appErr), FromStore(appErr))

	assert.True(t, IsKind(FromStore(context.DeadlineExceeded), KindRetryable))
	assert.True(t, IsKind(FromStore(&pgconn.PgError{Code: "40001"}), KindRetryable))
	assert.True(t, IsKind(FromStore(&pgconn.PgError{Code: "40P01"}), KindRetryable))

	// anything else is left for the caller
	plain := errors.New("disk full")
	assert.Equal(t, plain, FromStore(plain))
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
	assert.Equal(t, error(unique), FromStore(unique))
}

func TestUniqueAndForeignKeyViolations(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
	assert.True(t, IsUniqueViolation(unique, "email"))
	assert.False(t, IsUniqueViolation(unique, "license_number"))
	assert.False(t, IsUniqueViolation(errors.New("plain"), "email"))

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "fk_time_slots_schedule"}
	assert.True(t, IsForeignKeyViolation(fk, "schedule"))
	assert.False(t, IsForeignKeyViolation(unique, "schedule"))
}
