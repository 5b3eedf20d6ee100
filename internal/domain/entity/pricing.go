package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pricing is a consultation price offered by a doctor at a clinic.
// When a booking references a pricing, its duration becomes the
// appointment default.
type Pricing struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"clinic_id"`
	DoctorID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Title           string          `gorm:"type:varchar(255);not null" json:"title"`
	ConsultationFee decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"consultation_fee"`
	DurationMinutes int             `gorm:"not null;default:60" json:"duration_minutes"`
	IsActive        bool            `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Clinic Clinic        `gorm:"foreignKey:ClinicID" json:"clinic,omitempty"`
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Pricing) TableName() string {
	return "pricings"
}
