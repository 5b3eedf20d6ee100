package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"medibook/internal/delivery/dto"
	"medibook/internal/delivery/http/middleware"
	"medibook/internal/usecase"
	"medibook/pkg/response"
	"medibook/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ClinicHandler struct {
	clinicUsecase usecase.ClinicUsecase
	validator     *validator.CustomValidator
}

func NewClinicHandler(clinicUsecase usecase.ClinicUsecase, validator *validator.CustomValidator) *ClinicHandler {
	return &ClinicHandler{
		clinicUsecase: clinicUsecase,
		validator:     validator,
	}
}

func (h *ClinicHandler) CreateClinic(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreateClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	clinic, err := h.clinicUsecase.CreateClinic(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, "Failed to create clinic")
		return
	}

	response.Success(w, http.StatusCreated, "Clinic created successfully", clinic)
}

func (h *ClinicHandler) GetClinic(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	clinicID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid clinic ID", nil)
		return
	}

	clinic, err := h.clinicUsecase.GetClinic(r.Context(), clinicID)
	if err != nil {
		writeError(w, err, "Failed to get clinic")
		return
	}

	response.Success(w, http.StatusOK, "Clinic retrieved successfully", clinic)
}

func (h *ClinicHandler) ListClinics(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	clinics, err := h.clinicUsecase.ListClinics(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err, "Failed to list clinics")
		return
	}

	response.Success(w, http.StatusOK, "Clinics retrieved successfully", clinics)
}

func (h *ClinicHandler) UpdateClinic(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	vars := mux.Vars(r)
	clinicID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid clinic ID", nil)
		return
	}

	var req dto.UpdateClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	clinic, err := h.clinicUsecase.UpdateClinic(r.Context(), actor, clinicID, &req)
	if err != nil {
		writeError(w, err, "Failed to update clinic")
		return
	}

	response.Success(w, http.StatusOK, "Clinic updated successfully", clinic)
}

func (h *ClinicHandler) CreatePricing(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreatePricingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	pricing, err := h.clinicUsecase.CreatePricing(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, "Failed to create pricing")
		return
	}

	response.Success(w, http.StatusCreated, "Pricing created successfully", pricing)
}

func (h *ClinicHandler) ListPricingsByDoctor(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doctorID, err := uuid.Parse(vars["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	pricings, err := h.clinicUsecase.ListPricingsByDoctor(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to list pricings")
		return
	}

	response.Success(w, http.StatusOK, "Pricings retrieved successfully", pricings)
}
