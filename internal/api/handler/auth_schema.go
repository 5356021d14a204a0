package handler

import (
	"time"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
)

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Session   sessionResponse `json:"session"`
}

// sessionResponse is the signed-in user plus everything the UI gates on.
type sessionResponse struct {
	User              *domain.User        `json:"user"`
	Permissions       []domain.Permission `json:"permissions"`
	Navigation        []domain.NavItem    `json:"navigation"`
	CanEdit           bool                `json:"can_edit"`
	CanSubmitFeedback bool                `json:"can_submit_feedback"`
	CanViewAnalytics  bool                `json:"can_view_analytics"`
	CanManageUsers    bool                `json:"can_manage_users"`
}
