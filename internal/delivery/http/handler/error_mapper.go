package handler

import (
	"errors"
	"net/http"

	"medibook/pkg/apperr"
	"medibook/pkg/response"
)

// writeError maps an application error to its HTTP status. Unclassified
// errors collapse into a 500 with the fallback message so storage details
// never leak to clients.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		response.InternalServerError(w, fallback)
		return
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		response.Error(w, http.StatusBadRequest, appErr.Message, nil)
	case apperr.KindNotFound:
		response.NotFound(w, appErr.Message)
	case apperr.KindConflict:
		response.Conflict(w, appErr.Code, appErr.Message)
	case apperr.KindInvalidTransition:
		response.Error(w, http.StatusUnprocessableEntity, appErr.Message, nil)
	case apperr.KindAuthorization:
		response.Forbidden(w, appErr.Message)
	case apperr.KindRetryable:
		response.Error(w, http.StatusServiceUnavailable, appErr.Message, nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
