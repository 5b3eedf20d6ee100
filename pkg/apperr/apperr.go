package apperr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Kind classifies an application error so handlers can map it
// to an HTTP status without string matching.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindInvalidTransition
	KindAuthorization
	KindRetryable
)

// Conflict codes surfaced to callers so the UI can tell a taken slot
// apart from a doctor already booked elsewhere at the same time.
const (
	CodeSlotUnavailable           = "SlotUnavailable"
	CodeDoctorDoubleBooked        = "DoctorDoubleBooked"
	CodeScheduleOverlap           = "ScheduleOverlap"
	CodeCancellationWindowExpired = "CancellationWindowExpired"
	CodeEmailAlreadyExists        = "EmailAlreadyExists"
	CodeLicenseAlreadyExists      = "LicenseAlreadyExists"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func InvalidTransition(message string) *Error {
	return &Error{Kind: KindInvalidTransition, Message: message}
}

func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func Retryable(message string, err error) *Error {
	return &Error{Kind: KindRetryable, Message: message, Err: err}
}

// IsKind reports whether err is an application Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

// ConflictCode returns the conflict code carried by err, or "".
func ConflictCode(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind == KindConflict {
		return appErr.Code
	}
	return ""
}

// FromStore classifies a storage error. Serialization failures, deadlocks
// and timeouts become Retryable so callers know a fresh attempt is safe;
// application errors pass through unchanged.
func FromStore(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Retryable("store operation timed out", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		// 40001 = serialization_failure, 40P01 = deadlock_detected
		case "40001", "40P01":
			return Retryable("store transaction conflicted, retry", err)
		}
	}

	return err
}

// IsUniqueViolation checks for a PostgreSQL unique constraint violation
// on the named constraint.
func IsUniqueViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	return false
}

// IsForeignKeyViolation checks for a PostgreSQL foreign key violation
// on the named constraint.
func IsForeignKeyViolation(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	return false
}
