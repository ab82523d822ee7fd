package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	apperrors "taskflow/internal/errors"
	"taskflow/internal/model"
	"taskflow/internal/service"
)

//go:embed fixtures.json
var defaultFixtures []byte

// SeedTask is one task of a fixture user.
type SeedTask struct {
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	DueDate     *time.Time         `json:"due_date,omitempty"`
	Priority    model.TaskPriority `json:"priority,omitempty"`
	Status      model.TaskStatus   `json:"status,omitempty"`
}

// SeedUser is a fixture user with the tasks it owns.
type SeedUser struct {
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Tasks    []SeedTask `json:"tasks"`
}

// SeedSummary reports what a seed run did.
type SeedSummary struct {
	UsersCreated  int
	UsersExisting int
	TasksCreated  int
	// Users maps usernames to their stored IDs, seeded or pre-existing.
	Users map[string]uuid.UUID
}

// loadFixtures reads path, or the embedded fixtures when path is empty.
func loadFixtures(path string) ([]SeedUser, error) {
	data := defaultFixtures
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixtures: %w", err)
		}
	}
	return parseFixtures(data)
}

func parseFixtures(data []byte) ([]SeedUser, error) {
	var users []SeedUser
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if len(users) == 0 {
		return nil, errors.New("fixtures contain no users")
	}
	return users, nil
}

// seed creates fixture users and their tasks through the use-cases so every
// validation rule applies. Users that already exist are kept and their tasks skipped.
func seed(ctx context.Context, users service.UserService, tasks service.TaskService, fixtures []SeedUser, logger *slog.Logger) (*SeedSummary, error) {
	summary := &SeedSummary{Users: make(map[string]uuid.UUID, len(fixtures))}

	for _, f := range fixtures {
		created, err := users.Create(ctx, service.CreateUserInput{
			Username: f.Username,
			Email:    f.Email,
			Password: f.Password,
		})
		if apperrors.IsCode(err, apperrors.CodeUserAlreadyExists) {
			existing, ferr := users.Find(ctx, uuid.Nil, service.FindUserInput{Username: f.Username})
			if ferr != nil {
				return summary, fmt.Errorf("look up existing user %s: %w", f.Username, ferr)
			}
			logger.Info("user already seeded, skipping its tasks", "username", f.Username, "user_id", existing.ID)
			summary.UsersExisting++
			summary.Users[f.Username] = existing.ID
			continue
		}
		if err != nil {
			return summary, fmt.Errorf("seed user %s: %w", f.Username, err)
		}
		summary.UsersCreated++
		summary.Users[f.Username] = created.ID

		for _, t := range f.Tasks {
			task, err := tasks.Create(ctx, service.CreateTaskInput{
				UserID:      created.ID,
				Title:       t.Title,
				Description: t.Description,
				DueDate:     t.DueDate,
				Priority:    t.Priority,
				Status:      t.Status,
			})
			if err != nil {
				return summary, fmt.Errorf("seed task %q for %s: %w", t.Title, f.Username, err)
			}
			logger.Debug("task seeded", "task_id", task.ID, "user_id", created.ID)
			summary.TasksCreated++
		}
	}
	return summary, nil
}
