package handler

import "github.com/ngo-crm/feedback-crm/internal/core/domain"

type submitFeedbackRequest struct {
	Title     string `json:"title,omitempty"    validate:"max=120"`
	Details   string `json:"details"            validate:"required,min=10,max=1000"`
	Age       int    `json:"age"                validate:"required,gte=1,lte=120"`
	Gender    string `json:"gender"             validate:"required,oneof=male female other"`
	Location  string `json:"location"           validate:"required,min=2,max=100"`
	Project   string `json:"project"            validate:"required,max=100"`
	Type      string `json:"type"               validate:"required,oneof=programmatic sensitive out_of_scope"`
	Channel   string `json:"channel"            validate:"required,oneof=email phone in_person"`
	Phone     string `json:"phone,omitempty"    validate:"required_if=Channel phone,max=20"`
	Priority  string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	Anonymous bool   `json:"anonymous"`
	Assignee  string `json:"assignee,omitempty" validate:"max=100"`
	DueDate   string `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type assignRequest struct {
	Assignee string `json:"assignee" validate:"required,max=100"`
}

type taskListResponse struct {
	Tasks []*domain.Task `json:"tasks"`
	Total int            `json:"total"`
}

type taskLinks struct {
	Self   string `json:"self"`
	Status string `json:"status"`
}

type submitFeedbackResponse struct {
	Task  *domain.Task `json:"task"`
	Links taskLinks    `json:"_links"`
}
