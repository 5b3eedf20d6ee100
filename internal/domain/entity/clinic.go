package entity

import (
	"time"

	"github.com/google/uuid"
)

// Clinic is read-mostly reference data consulted by the booking path.
type Clinic struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	IsActive  bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Schedules []Schedule `gorm:"foreignKey:ClinicID" json:"schedules,omitempty"`
	Pricings  []Pricing  `gorm:"foreignKey:ClinicID" json:"pricings,omitempty"`
}

func (Clinic) TableName() string {
	return "clinics"
}
