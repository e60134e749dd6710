package models

import (
	"time"

	"github.com/google/uuid"
)

// User is any account in the system: auditor, station manager, admin
// or read-only viewer.
type User struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize to JSON

	Role RoleType `json:"role"`

	ProfilePicture string     `json:"profile_picture,omitempty"`
	RecentActivity *time.Time `json:"recentActivity,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) GetID() string {
	return u.ID.String()
}
