package handler

import (
	"net/http"

	"medibook/internal/delivery/dto"
	"medibook/internal/usecase"
	"medibook/pkg/response"
	"medibook/pkg/validator"

	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// Query answers GET /availability?doctor_id=&clinic_id=&start_date=&end_date=
// with optional only_available=true.
func (h *AvailabilityHandler) Query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	doctorID, err := uuid.Parse(q.Get("doctor_id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor_id", nil)
		return
	}
	clinicID, err := uuid.Parse(q.Get("clinic_id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid clinic_id", nil)
		return
	}

	req := dto.AvailabilityQueryRequest{
		DoctorID:      doctorID,
		ClinicID:      clinicID,
		StartDate:     q.Get("start_date"),
		EndDate:       q.Get("end_date"),
		OnlyAvailable: q.Get("only_available") == "true",
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	availability, err := h.availabilityUsecase.Query(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to query availability")
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", availability)
}
