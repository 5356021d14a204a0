package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ngo-crm/feedback-crm/internal/api/metrics"
	"github.com/ngo-crm/feedback-crm/internal/core/domain"
	"github.com/ngo-crm/feedback-crm/internal/core/ports"
)

// UserHandler serves roster management. Every route requires manage_users.
type UserHandler struct {
	identity ports.IdentityService
}

func NewUserHandler(identity ports.IdentityService) *UserHandler {
	return &UserHandler{identity: identity}
}

// List handles GET /v1/users.
//
// @Summary      List roster entries
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Case-insensitive match on name or email"
// @Param        role    query     string  false  "admin, focal_person, viewer or all"
// @Success      200     {object}  userListResponse
// @Failure      403     {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	users, err := h.identity.ListUsers(c.Request().Context(), session.Role(), domain.UserFilter{
		Search: c.QueryParam("search"),
		Role:   c.QueryParam("role"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{Users: users, Total: len(users)})
}

// Stats handles GET /v1/users/stats.
//
// @Summary      Roster tallies by role
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.RosterStats
// @Failure      403  {object}  errorResponse
// @Router       /v1/users/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	stats, err := h.identity.RosterStats(c.Request().Context(), session.Role())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Create handles POST /v1/users.
//
// @Summary      Add a roster entry
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.identity.AddUser(c.Request().Context(), session.Role(), toAddUserInput(req))
	if err != nil {
		return err
	}
	metrics.RosterChangesTotal.WithLabelValues("add").Inc()
	return c.JSON(http.StatusCreated, user)
}

// Update handles PATCH /v1/users/:id.
//
// @Summary      Update a roster entry
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.identity.UpdateUser(c.Request().Context(), session.Role(), c.Param("id"), toUserPatch(req))
	if err != nil {
		return err
	}
	metrics.RosterChangesTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /v1/users/:id. Open tasks assigned to the user are
// released.
//
// @Summary      Remove a roster entry
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "User id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.identity.DeleteUser(c.Request().Context(), session.Role(), c.Param("id")); err != nil {
		return err
	}
	metrics.RosterChangesTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}
