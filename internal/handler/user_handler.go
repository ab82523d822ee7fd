package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"taskflow/internal/auth"
	apperrors "taskflow/internal/errors"
	"taskflow/internal/service"
)

// UserHandler bundles user HTTP handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create godoc
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body service.CreateUserInput true "User payload"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/registry [post]
func (h *UserHandler) Create(c echo.Context) error {
	var in service.CreateUserInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	user, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update godoc
// @Summary Update a user
// @Description Only the supplied fields change. created_at and user cannot be modified.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body service.UpdateUserInput true "Fields to change"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id}/update [patch]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var in service.UpdateUserInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	user, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary Delete a user
// @Description Deletes the user, their tasks and revokes their tokens.
// @Tags users
// @Accept json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body service.DeleteUserInput false "Deletion reason"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id}/delete [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var in service.DeleteUserInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	if in.Reason == "" {
		in.Reason = c.QueryParam("reason")
	}
	if err := h.svc.Delete(c.Request().Context(), id, in); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Search godoc
// @Summary Find a user
// @Description Criteria are AND-combined. At least one is required.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id query string false "User ID"
// @Param username query string false "Username"
// @Param email query string false "Email"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/search [get]
func (h *UserHandler) Search(c echo.Context) error {
	id, err := queryUUID(c, "id")
	if err != nil {
		return err
	}
	return h.find(c, id)
}

// SearchByID godoc
// @Summary Find a user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param username query string false "Username"
// @Param email query string false "Email"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id}/search [get]
func (h *UserHandler) SearchByID(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	return h.find(c, id)
}

// Me godoc
// @Summary Current user
// @Description Returns the user the bearer token was issued to.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	claims, ok := auth.ClaimsFromContext(c.Request().Context())
	if !ok {
		return apperrors.Unauthorized(apperrors.CodeMissingToken, "Missing authentication token")
	}
	id, err := claims.UserID()
	if err != nil {
		return apperrors.Unauthorized(apperrors.CodeInvalidToken, "Invalid or expired token")
	}
	user, err := h.svc.Find(c.Request().Context(), id, service.FindUserInput{})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) find(c echo.Context, id uuid.UUID) error {
	in := service.FindUserInput{
		Username: c.QueryParam("username"),
		Email:    c.QueryParam("email"),
	}
	user, err := h.svc.Find(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
