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

type ScheduleHandler struct {
	scheduleUsecase usecase.ScheduleUsecase
	slotUsecase     usecase.SlotUsecase
	validator       *validator.CustomValidator
}

func NewScheduleHandler(scheduleUsecase usecase.ScheduleUsecase, slotUsecase usecase.SlotUsecase, validator *validator.CustomValidator) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleUsecase: scheduleUsecase,
		slotUsecase:     slotUsecase,
		validator:       validator,
	}
}

func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.CreateSchedule(r.Context(), actor, &req)
	if err != nil {
		writeError(w, err, "Failed to create schedule")
		return
	}

	response.Success(w, http.StatusCreated, "Schedule created successfully", schedule)
}

func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := scheduleIDFromPath(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}

	schedule, err := h.scheduleUsecase.GetSchedule(r.Context(), scheduleID)
	if err != nil {
		writeError(w, err, "Failed to get schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule retrieved successfully", schedule)
}

func (h *ScheduleHandler) GetMySchedules(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	schedules, err := h.scheduleUsecase.ListSchedulesByDoctor(r.Context(), actor)
	if err != nil {
		writeError(w, err, "Failed to get schedules")
		return
	}

	response.Success(w, http.StatusOK, "Schedules retrieved successfully", schedules)
}

func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}
	scheduleID, err := scheduleIDFromPath(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}

	var req dto.UpdateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	schedule, err := h.scheduleUsecase.UpdateSchedule(r.Context(), actor, scheduleID, &req)
	if err != nil {
		writeError(w, err, "Failed to update schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule updated successfully", schedule)
}

func (h *ScheduleHandler) DeactivateSchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}
	scheduleID, err := scheduleIDFromPath(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}

	if err := h.scheduleUsecase.DeactivateSchedule(r.Context(), actor, scheduleID); err != nil {
		writeError(w, err, "Failed to deactivate schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule deactivated successfully", nil)
}

func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}
	scheduleID, err := scheduleIDFromPath(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}

	if err := h.scheduleUsecase.DeleteSchedule(r.Context(), actor, scheduleID); err != nil {
		writeError(w, err, "Failed to delete schedule")
		return
	}

	response.Success(w, http.StatusOK, "Schedule deleted successfully", nil)
}

func (h *ScheduleHandler) GenerateSlots(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}
	scheduleID, err := scheduleIDFromPath(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid schedule ID", nil)
		return
	}

	var req dto.GenerateSlotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.slotUsecase.Generate(r.Context(), actor, scheduleID, &req)
	if err != nil {
		writeError(w, err, "Failed to generate slots")
		return
	}

	response.Success(w, http.StatusOK, "Slots generated successfully", result)
}

func (h *ScheduleHandler) BlockSlot(w http.ResponseWriter, r *http.Request) {
	h.setSlotBlocked(w, r, true)
}

func (h *ScheduleHandler) UnblockSlot(w http.ResponseWriter, r *http.Request) {
	h.setSlotBlocked(w, r, false)
}

func (h *ScheduleHandler) setSlotBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	vars := mux.Vars(r)
	slotID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid slot ID", nil)
		return
	}

	if blocked {
		err = h.slotUsecase.BlockSlot(r.Context(), actor, slotID)
	} else {
		err = h.slotUsecase.UnblockSlot(r.Context(), actor, slotID)
	}
	if err != nil {
		writeError(w, err, "Failed to update slot")
		return
	}

	if blocked {
		response.Success(w, http.StatusOK, "Slot blocked successfully", nil)
		return
	}
	response.Success(w, http.StatusOK, "Slot unblocked successfully", nil)
}

func scheduleIDFromPath(r *http.Request) (int, error) {
	vars := mux.Vars(r)
	return strconv.Atoi(vars["id"])
}
