package converter

import (
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
)

// ClinicToResponse converts a Clinic entity to ClinicResponse DTO
func ClinicToResponse(clinic *entity.Clinic) *dto.ClinicResponse {
	if clinic == nil {
		return nil
	}

	return &dto.ClinicResponse{
		ID:        clinic.ID,
		Name:      clinic.Name,
		Address:   clinic.Address,
		Phone:     clinic.Phone,
		IsActive:  clinic.IsActive,
		CreatedAt: clinic.CreatedAt,
		UpdatedAt: clinic.UpdatedAt,
	}
}

// ClinicsToResponses converts a slice of Clinic entities to DTOs
func ClinicsToResponses(clinics []entity.Clinic) []dto.ClinicResponse {
	responses := make([]dto.ClinicResponse, len(clinics))
	for i := range clinics {
		responses[i] = *ClinicToResponse(&clinics[i])
	}
	return responses
}

// PricingToResponse converts a Pricing entity to PricingResponse DTO
func PricingToResponse(pricing *entity.Pricing) *dto.PricingResponse {
	if pricing == nil {
		return nil
	}

	return &dto.PricingResponse{
		ID:              pricing.ID,
		ClinicID:        pricing.ClinicID,
		DoctorID:        pricing.DoctorID,
		Title:           pricing.Title,
		ConsultationFee: pricing.ConsultationFee,
		DurationMinutes: pricing.DurationMinutes,
		IsActive:        pricing.IsActive,
		CreatedAt:       pricing.CreatedAt,
		UpdatedAt:       pricing.UpdatedAt,
	}
}

// PricingsToResponses converts a slice of Pricing entities to DTOs
func PricingsToResponses(pricings []entity.Pricing) []dto.PricingResponse {
	responses := make([]dto.PricingResponse, len(pricings))
	for i := range pricings {
		responses[i] = *PricingToResponse(&pricings[i])
	}
	return responses
}
