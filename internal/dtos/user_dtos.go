package dtos

import (
	"github.com/google/uuid"

	"github.com/iAmmar7/api-audit-rail/internal/models"
)

// Actor is the authenticated caller extracted from the JWT. It flows
// from middleware through controllers into the service layer, which
// owns all role checks.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role models.RoleType
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest carries admin edits to an account. Password is
// re-hashed only when a new value is supplied.
type UpdateUserRequest struct {
	Name           *string `json:"name,omitempty"`
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	Password       *string `json:"password,omitempty" validate:"omitempty,min=8"`
	Role           *string `json:"role,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}

type UserListParams struct {
	Current  int    `json:"current"`
	PageSize int    `json:"pageSize"`
	Name     string `json:"name"`
}

type UserListSorter struct {
	NameSorter string `json:"nameSorter"`
}

type UserListFilter struct {
	RoleFilter []string `json:"roleFilter"`
}

type UserListRequest struct {
	Params UserListParams `json:"params"`
	Sorter UserListSorter `json:"sorter"`
	Filter UserListFilter `json:"filter"`
}

// UserCriteria is the parsed repository-facing form.
type UserCriteria struct {
	Name     string
	RoleIn   []string
	NameDesc *bool // nil means unsorted beyond the default
	Page     int
	PageSize int
}

type UserListResponse struct {
	Success    bool          `json:"success"`
	Users      []models.User `json:"users"`
	TotalUsers int           `json:"totalUsers"`
}

type AuthResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}
