package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ngo-crm/feedback-crm/internal/core/domain"
	"github.com/ngo-crm/feedback-crm/internal/core/ports"
)

const dateLayout = "2006-01-02"

// --- Request → Service input ---

func toSubmitInput(req submitFeedbackRequest, idempotencyKey string) (ports.SubmitFeedbackInput, error) {
	in := ports.SubmitFeedbackInput{
		Title:          req.Title,
		Details:        req.Details,
		Age:            req.Age,
		Gender:         req.Gender,
		Location:       req.Location,
		Project:        req.Project,
		Type:           domain.TaskType(req.Type),
		Channel:        req.Channel,
		Phone:          req.Phone,
		Priority:       domain.TaskPriority(req.Priority),
		Anonymous:      req.Anonymous,
		Assignee:       req.Assignee,
		IdempotencyKey: idempotencyKey,
	}
	if req.DueDate != "" {
		due, err := time.Parse(dateLayout, req.DueDate)
		if err != nil {
			return ports.SubmitFeedbackInput{}, echo.NewHTTPError(http.StatusUnprocessableEntity, "due_date must be a date formatted as 2006-01-02")
		}
		in.DueDate = due
	}
	return in, nil
}

func toAddUserInput(req createUserRequest) ports.AddUserInput {
	return ports.AddUserInput{
		Email:      req.Email,
		Name:       req.Name,
		Role:       domain.Role(req.Role),
		Avatar:     req.Avatar,
		Department: req.Department,
		Password:   req.Password,
	}
}

func toUserPatch(req updateUserRequest) ports.UserPatch {
	patch := ports.UserPatch{
		Email:      req.Email,
		Name:       req.Name,
		Avatar:     req.Avatar,
		Department: req.Department,
		Password:   req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}
	return patch
}

func toTaskFilter(c echo.Context) domain.TaskFilter {
	return domain.TaskFilter{
		Search:   c.QueryParam("search"),
		Status:   c.QueryParam("status"),
		Priority: c.QueryParam("priority"),
		Type:     c.QueryParam("type"),
	}
}

// --- Domain → Response ---

func toSessionResponse(s *domain.Session) sessionResponse {
	role := s.Role()
	return sessionResponse{
		User:              s.User,
		Permissions:       role.Permissions(),
		Navigation:        domain.VisibleNavigation(role),
		CanEdit:           s.CanEdit(),
		CanSubmitFeedback: s.CanSubmitFeedback(),
		CanViewAnalytics:  s.CanViewAnalytics(),
		CanManageUsers:    s.CanManageUsers(),
	}
}

func toTaskLinks(id string) taskLinks {
	return taskLinks{
		Self:   "/v1/tasks/" + id,
		Status: "/v1/tasks/" + id + "/status",
	}
}
