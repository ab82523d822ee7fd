package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"taskflow/internal/model"
	"taskflow/internal/service"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	svc service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(svc service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Create godoc
// @Summary Register a task
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreateTaskInput true "Task payload"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/registry [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var in service.CreateTaskInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	task, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

// Update godoc
// @Summary Update a task
// @Description Only the supplied fields change. created_at, user and user_id cannot be modified.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body service.UpdateTaskInput true "Fields to change"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id}/update [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var in service.UpdateTaskInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	task, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary Delete a task
// @Tags tasks
// @Accept json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body service.DeleteTaskInput false "Deletion reason"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id}/delete [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	var in service.DeleteTaskInput
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
// @Summary Find tasks
// @Description With id a single task is returned, otherwise the filtered list ordered by creation.
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id query string false "Task ID"
// @Param user_id query string false "Owner ID"
// @Param status query string false "Status" Enums(pending, in_progress, done)
// @Param priority query string false "Priority" Enums(low, medium, high)
// @Success 200 {array} dto.TaskResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/search [get]
func (h *TaskHandler) Search(c echo.Context) error {
	id, err := queryUUID(c, "id")
	if err != nil {
		return err
	}
	userID, err := queryUUID(c, "user_id")
	if err != nil {
		return err
	}
	res, err := h.svc.Find(c.Request().Context(), service.FindTaskInput{
		ID:       id,
		UserID:   userID,
		Status:   model.TaskStatus(c.QueryParam("status")),
		Priority: model.TaskPriority(c.QueryParam("priority")),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res.Value())
}
