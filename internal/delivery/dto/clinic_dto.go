package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateClinicRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=20"`
}

type UpdateClinicRequest struct {
	Name     string `json:"name,omitempty" validate:"omitempty,max=255"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=20"`
	IsActive *bool  `json:"is_active,omitempty"`
}

type CreatePricingRequest struct {
	ClinicID        uuid.UUID       `json:"clinic_id" validate:"required"`
	DoctorID        uuid.UUID       `json:"doctor_id" validate:"required"`
	Title           string          `json:"title" validate:"required,max=255"`
	ConsultationFee decimal.Decimal `json:"consultation_fee" validate:"required"`
	DurationMinutes int             `json:"duration_minutes" validate:"required,min=5,max=480"`
}

// Response DTOs

type ClinicResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ClinicListResponse struct {
	Clinics []ClinicResponse `json:"clinics"`
	Total   int64            `json:"total"`
}

type PricingResponse struct {
	ID              uuid.UUID       `json:"id"`
	ClinicID        uuid.UUID       `json:"clinic_id"`
	DoctorID        uuid.UUID       `json:"doctor_id"`
	Title           string          `json:"title"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
	DurationMinutes int             `json:"duration_minutes"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type PricingListResponse struct {
	Pricings []PricingResponse `json:"pricings"`
	Total    int64             `json:"total"`
}
