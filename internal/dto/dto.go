// Package dto holds the read-only projections returned to API consumers.
// Fields are listed explicitly; anything not copied here never leaves the service.
package dto

import (
	"time"

	"github.com/google/uuid"

	"taskflow/internal/model"
)

// UserSummary is the reduced user view embedded in other projections.
type UserSummary struct {
	ID       uuid.UUID `json:"id" example:"738a0fe6-a5d4-444d-85c0-93ff31f98fb9"`
	Username string    `json:"username" example:"john.doe"`
	Email    string    `json:"email" example:"john.doe@example.com"`
}

// UserResponse is the projection of a user account.
type UserResponse struct {
	ID        uuid.UUID `json:"id" example:"738a0fe6-a5d4-444d-85c0-93ff31f98fb9"`
	Username  string    `json:"username" example:"john.doe"`
	Email     string    `json:"email" example:"john.doe@example.com"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskResponse is the projection of a task with its owner reduced to a summary.
type TaskResponse struct {
	ID          uuid.UUID          `json:"id" example:"6708137f-05b8-457a-8523-24055b98a42e"`
	Title       string             `json:"title" example:"Buy oranges"`
	Description *string            `json:"description,omitempty" example:"Buy some oranges on the supermarket"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	Priority    model.TaskPriority `json:"priority" example:"high" enums:"low,medium,high"`
	Status      model.TaskStatus   `json:"status" example:"pending" enums:"pending,in_progress,done"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	User        *UserSummary       `json:"user"`
}

// NewUserSummary reduces a user to id, username and email.
func NewUserSummary(u *model.User) *UserSummary {
	if u == nil || u.ID == uuid.Nil {
		return nil
	}
	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// NewUserResponse projects a user, dropping the password hash.
func NewUserResponse(u *model.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewTaskResponse projects a task. The owner is embedded only when it was loaded.
func NewTaskResponse(t *model.Task) *TaskResponse {
	if t == nil {
		return nil
	}
	return &TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		User:        NewUserSummary(&t.User),
	}
}

// NewTaskResponses projects a slice of tasks, never returning nil.
func NewTaskResponses(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, *NewTaskResponse(&tasks[i]))
	}
	return out
}
