package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ngo-crm/feedback-crm/internal/api/metrics"
	"github.com/ngo-crm/feedback-crm/internal/core/ports"
)

// FeedbackHandler records feedback submitted by focal persons.
type FeedbackHandler struct {
	service ports.TaskService
}

func NewFeedbackHandler(service ports.TaskService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// Submit handles POST /v1/feedback.
//
// @Summary      Submit feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                 false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      submitFeedbackRequest  true   "Feedback form"
// @Success      201              {object}  submitFeedbackResponse
// @Failure      400              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /v1/feedback [post]
func (h *FeedbackHandler) Submit(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req submitFeedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	input, err := toSubmitInput(req, c.Request().Header.Get("Idempotency-Key"))
	if err != nil {
		return err
	}

	task, err := h.service.Submit(c.Request().Context(), session.User, input)
	if err != nil {
		return err
	}
	metrics.FeedbackSubmittedTotal.WithLabelValues(string(task.Type), string(task.Priority)).Inc()

	return c.JSON(http.StatusCreated, submitFeedbackResponse{
		Task:  task,
		Links: toTaskLinks(task.ID),
	})
}
