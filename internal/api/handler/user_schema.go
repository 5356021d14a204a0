package handler

import "github.com/ngo-crm/feedback-crm/internal/core/domain"

type createUserRequest struct {
	Email      string `json:"email"                validate:"required,email"`
	Name       string `json:"name"                 validate:"required,max=100"`
	Role       string `json:"role"                 validate:"required,oneof=admin focal_person viewer"`
	Avatar     string `json:"avatar,omitempty"     validate:"omitempty,url"`
	Department string `json:"department,omitempty" validate:"max=100"`
	Password   string `json:"password,omitempty"   validate:"omitempty,min=8"`
}

// updateUserRequest is a partial update; absent fields are left untouched.
// An empty password removes the stored one.
type updateUserRequest struct {
	Email      *string `json:"email,omitempty"      validate:"omitempty,email"`
	Name       *string `json:"name,omitempty"       validate:"omitempty,min=1,max=100"`
	Role       *string `json:"role,omitempty"       validate:"omitempty,oneof=admin focal_person viewer"`
	Avatar     *string `json:"avatar,omitempty"     validate:"omitempty,max=500"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=100"`
	Password   *string `json:"password,omitempty"`
}

type userListResponse struct {
	Users []*domain.User `json:"users"`
	Total int            `json:"total"`
}
