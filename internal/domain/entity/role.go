package entity

import "github.com/google/uuid"

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants
const (
	RoleIDAdmin   = 1
	RoleIDDoctor  = 2
	RoleIDPatient = 3
)

// RoleNames constants
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// RoleNameOf maps a role ID to its name, or "" for an unknown ID.
func RoleNameOf(roleID int) string {
	switch roleID {
	case RoleIDAdmin:
		return RoleAdmin
	case RoleIDDoctor:
		return RoleDoctor
	case RoleIDPatient:
		return RolePatient
	}
	return ""
}

// Actor is the authenticated identity acting on a request, as supplied
// by the session layer. Authorization decisions are made against it.
type Actor struct {
	UserID uuid.UUID
	RoleID int
}

func (a Actor) IsAdmin() bool {
	return a.RoleID == RoleIDAdmin
}

func (a Actor) IsDoctor() bool {
	return a.RoleID == RoleIDDoctor
}

func (a Actor) IsPatient() bool {
	return a.RoleID == RoleIDPatient
}
