package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ngo-crm/feedback-crm/internal/api/metrics"
	"github.com/ngo-crm/feedback-crm/internal/core/domain"
	"github.com/ngo-crm/feedback-crm/internal/core/ports"
)

// TaskHandler serves the task manager and analytics views.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /v1/tasks.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        search    query     string  false  "Case-insensitive match on title, description or reference"
// @Param        status    query     string  false  "pending, in_progress, resolved, closed or all"
// @Param        priority  query     string  false  "low, medium, high, urgent or all"
// @Param        type      query     string  false  "programmatic, sensitive, out_of_scope or all"
// @Success      200       {object}  taskListResponse
// @Router       /v1/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.List(c.Request().Context(), session.Role(), toTaskFilter(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, taskListResponse{Tasks: tasks, Total: len(tasks)})
}

// Stats handles GET /v1/tasks/stats.
//
// @Summary      Task tallies
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.TaskStats
// @Router       /v1/tasks/stats [get]
func (h *TaskHandler) Stats(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), session.Role())
	if err != nil {
		return err
	}
	metrics.OpenTasks.WithLabelValues("pending").Set(float64(stats.Pending))
	metrics.OpenTasks.WithLabelValues("in_progress").Set(float64(stats.InProgress))
	metrics.OpenTasks.WithLabelValues("urgent").Set(float64(stats.Urgent))
	metrics.OpenTasks.WithLabelValues("overdue").Set(float64(stats.Overdue))
	return c.JSON(http.StatusOK, stats)
}

// Get handles GET /v1/tasks/:id.
//
// @Summary      Get a task by reference
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task reference (e.g. FB-001)"
// @Success      200  {object}  domain.Task
// @Failure      404  {object}  errorResponse
// @Router       /v1/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Request().Context(), session.Role(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// UpdateStatus handles PATCH /v1/tasks/:id/status.
//
// @Summary      Change a task's status
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Task reference"
// @Param        body  body      updateStatusRequest  true  "Target status"
// @Success      200   {object}  domain.Task
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tasks/{id}/status [patch]
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	task, err := h.service.UpdateStatus(c.Request().Context(), session.Role(), c.Param("id"), domain.TaskStatus(req.Status))
	if err != nil {
		metrics.TaskTransitionErrorsTotal.WithLabelValues(transitionFailure(err)).Inc()
		return err
	}
	metrics.TaskTransitionsTotal.WithLabelValues(string(task.Status)).Inc()
	return c.JSON(http.StatusOK, task)
}

// Assign handles PATCH /v1/tasks/:id/assignee.
//
// @Summary      Reassign a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Task reference"
// @Param        body  body      assignRequest  true  "New assignee"
// @Success      200   {object}  domain.Task
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/tasks/{id}/assignee [patch]
func (h *TaskHandler) Assign(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	task, err := h.service.Assign(c.Request().Context(), session.Role(), c.Param("id"), req.Assignee)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Delete handles DELETE /v1/tasks/:id. Admins only.
//
// @Summary      Delete a task
// @Tags         tasks
// @Security     BearerAuth
// @Param        id   path  string  true  "Task reference"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteTask(c.Request().Context(), session.Role(), c.Param("id")); err != nil {
		return err
	}
	metrics.TasksDeletedTotal.Inc()
	return c.NoContent(http.StatusNoContent)
}

// Analytics handles GET /v1/analytics.
//
// @Summary      Task breakdown for the analytics view
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Analytics
// @Failure      403  {object}  errorResponse
// @Router       /v1/analytics [get]
func (h *TaskHandler) Analytics(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	analytics, err := h.service.Analytics(c.Request().Context(), session.Role())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analytics)
}

func transitionFailure(err error) string {
	switch {
	case errors.Is(err, domain.ErrTaskClosed):
		return "closed"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, domain.ErrTaskNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrVersionConflict):
		return "conflict"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
