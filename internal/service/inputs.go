package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/dto"
	"taskflow/internal/model"
)

// CreateUserInput is the registration payload.
type CreateUserInput struct {
	Username string `json:"username" validate:"required,max=100" example:"john.doe"`
	Email    string `json:"email" validate:"required,email,max=255" example:"john.doe@example.com"`
	Password string `json:"password" validate:"required,strongpassword" example:"Str0ng!Pass"`
}

// UpdateUserInput carries the fields to change. Nil fields are left untouched.
// CreatedAt and User are only captured to reject attempts to modify them.
type UpdateUserInput struct {
	Username *string `json:"username,omitempty" validate:"omitempty,max=100" example:"john.doe"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255" example:"john.doe@example.com"`
	Password *string `json:"password,omitempty" validate:"omitempty,strongpassword" example:"Str0ng!Pass"`

	CreatedAt json.RawMessage `json:"created_at,omitempty" validate:"-" swaggerignore:"true"`
	User      json.RawMessage `json:"user,omitempty" validate:"-" swaggerignore:"true"`
}

func (in UpdateUserInput) restrictedFields() []string {
	return presentFields(map[string]json.RawMessage{
		"created_at": in.CreatedAt,
		"user":       in.User,
	})
}

// DeleteUserInput optionally explains a deletion.
type DeleteUserInput struct {
	Reason string `json:"reason,omitempty" validate:"max=255" example:"Account closed by request"`
}

// FindUserInput holds optional user search criteria, combined with the id.
type FindUserInput struct {
	Username string `json:"username,omitempty" validate:"omitempty,max=100"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
}

// CreateTaskInput is the task registration payload.
type CreateTaskInput struct {
	UserID      uuid.UUID          `json:"user_id" example:"738a0fe6-a5d4-444d-85c0-93ff31f98fb9"`
	Title       string             `json:"title" validate:"required,max=100" example:"Buy oranges"`
	Description *string            `json:"description,omitempty" example:"Buy some oranges on the supermarket"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	Priority    model.TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high" enums:"low,medium,high"`
	Status      model.TaskStatus   `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress done" enums:"pending,in_progress,done"`
}

// UpdateTaskInput carries the fields to change. Nil fields are left untouched.
// Ownership and creation date are captured only to reject attempts to modify them.
type UpdateTaskInput struct {
	Title       *string             `json:"title,omitempty" validate:"omitempty,max=100" example:"Buy oranges"`
	Description *string             `json:"description,omitempty"`
	DueDate     *time.Time          `json:"due_date,omitempty"`
	Priority    *model.TaskPriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high" enums:"low,medium,high"`
	Status      *model.TaskStatus   `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress done" enums:"pending,in_progress,done"`

	CreatedAt json.RawMessage `json:"created_at,omitempty" validate:"-" swaggerignore:"true"`
	User      json.RawMessage `json:"user,omitempty" validate:"-" swaggerignore:"true"`
	UserID    json.RawMessage `json:"user_id,omitempty" validate:"-" swaggerignore:"true"`
}

func (in UpdateTaskInput) restrictedFields() []string {
	return presentFields(map[string]json.RawMessage{
		"created_at": in.CreatedAt,
		"user":       in.User,
		"user_id":    in.UserID,
	})
}

// DeleteTaskInput optionally explains a deletion.
type DeleteTaskInput struct {
	Reason string `json:"reason,omitempty" validate:"max=255" example:"Duplicate task"`
}

// FindTaskInput holds task search criteria. A set ID selects a single task and
// the remaining filters are ignored.
type FindTaskInput struct {
	ID       uuid.UUID          `json:"id"`
	UserID   uuid.UUID          `json:"user_id"`
	Status   model.TaskStatus   `json:"status" validate:"omitempty,oneof=pending in_progress done"`
	Priority model.TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// TaskSearchResult is either a single task (search by id) or a filtered list.
type TaskSearchResult struct {
	Single *dto.TaskResponse
	Items  []dto.TaskResponse
}

// Value returns what is rendered to the caller.
func (r TaskSearchResult) Value() interface{} {
	if r.Single != nil {
		return r.Single
	}
	return r.Items
}

func presentFields(raw map[string]json.RawMessage) []string {
	var present []string
	for _, name := range []string{"created_at", "user", "user_id"} {
		if v, ok := raw[name]; ok && len(v) > 0 {
			present = append(present, name)
		}
	}
	return present
}
