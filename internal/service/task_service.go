package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"taskflow/internal/dto"
	apperrors "taskflow/internal/errors"
	"taskflow/internal/model"
	"taskflow/internal/repository"
)

// TaskService exposes the task use-cases.
type TaskService interface {
	Create(ctx context.Context, in CreateTaskInput) (*dto.TaskResponse, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*dto.TaskResponse, error)
	Delete(ctx context.Context, id uuid.UUID, in DeleteTaskInput) error
	Find(ctx context.Context, in FindTaskInput) (*TaskSearchResult, error)
}

type taskService struct {
	tasks     repository.TaskRepository
	users     repository.UserRepository
	logger    *slog.Logger
	validator *InputValidator
}

// NewTaskService builds a TaskService.
func NewTaskService(tasks repository.TaskRepository, users repository.UserRepository, logger *slog.Logger) TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &taskService{
		tasks:     tasks,
		users:     users,
		logger:    logger.With("component", "task_service"),
		validator: NewInputValidator(),
	}
}

func errMissingTaskID(action string) *apperrors.AppError {
	return apperrors.BadRequest(apperrors.CodeMissingTaskID, "Task ID is required for "+action)
}

func (s *taskService) Create(ctx context.Context, in CreateTaskInput) (*dto.TaskResponse, error) {
	return guardUseCase(ctx, s.logger, ucCreateTask, func(ctx context.Context) (*dto.TaskResponse, error) {
		if in.UserID == uuid.Nil {
			return nil, errMissingUserID()
		}
		if err := s.validator.Struct(in); err != nil {
			return nil, err
		}

		owner, err := s.users.FindByID(ctx, in.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.WarnContext(ctx, "task owner not found", "user_id", in.UserID)
				return nil, apperrors.NotFound(apperrors.CodeUserNotFound, fmt.Sprintf("User with ID %s not found", in.UserID)).
					WithSuggestion("Verify the user ID or register the user first")
			}
			return nil, fmt.Errorf("load task owner: %w", err)
		}

		task := &model.Task{
			UserID:      owner.ID,
			Title:       in.Title,
			Description: in.Description,
			DueDate:     in.DueDate,
			Priority:    in.Priority,
			Status:      in.Status,
		}
		if task.Priority == "" {
			task.Priority = model.TaskPriorityMedium
		}
		if task.Status == "" {
			task.Status = model.TaskStatusPending
		}

		if err := s.tasks.Create(ctx, task); err != nil {
			return nil, apperrors.Internal(apperrors.CodeTaskPersistenceFailed, "Failed to save task to database").WithCause(err)
		}
		task.User = *owner

		s.logger.InfoContext(ctx, "task created", "task_id", task.ID, "user_id", owner.ID)
		return dto.NewTaskResponse(task), nil
	})
}

func (s *taskService) Update(ctx context.Context, id uuid.UUID, in UpdateTaskInput) (*dto.TaskResponse, error) {
	return guardUseCase(ctx, s.logger, ucUpdateTask, func(ctx context.Context) (*dto.TaskResponse, error) {
		if id == uuid.Nil {
			return nil, errMissingTaskID("update")
		}
		if err := s.validator.Struct(in); err != nil {
			return nil, err
		}

		task, err := s.tasks.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.WarnContext(ctx, "task not found", "task_id", id)
				return nil, apperrors.NotFound(apperrors.CodeTaskNotFound, fmt.Sprintf("Task with ID %s not found", id)).
					WithSuggestion("Verify the task ID or create the task first")
			}
			return nil, fmt.Errorf("load task: %w", err)
		}

		if restricted := in.restrictedFields(); len(restricted) > 0 {
			s.logger.WarnContext(ctx, "rejected update of restricted fields", "task_id", id, "fields", strings.Join(restricted, ","))
			return nil, apperrors.BadRequest(apperrors.CodeInvalidUpdateFields, "Cannot modify creation date or task ownership").
				WithFields(restrictedFieldErrors(restricted))
		}

		if in.Title != nil {
			task.Title = *in.Title
		}
		if in.Description != nil {
			task.Description = in.Description
		}
		if in.DueDate != nil {
			task.DueDate = in.DueDate
		}
		if in.Priority != nil {
			task.Priority = *in.Priority
		}
		if in.Status != nil {
			task.Status = *in.Status
		}

		if err := s.tasks.Save(ctx, task); err != nil {
			return nil, fmt.Errorf("save task: %w", err)
		}

		s.logger.InfoContext(ctx, "task updated", "task_id", id)
		return dto.NewTaskResponse(task), nil
	})
}

func (s *taskService) Delete(ctx context.Context, id uuid.UUID, in DeleteTaskInput) error {
	_, err := guardUseCase(ctx, s.logger, ucDeleteTask, func(ctx context.Context) (struct{}, error) {
		if id == uuid.Nil {
			return struct{}{}, errMissingTaskID("delete")
		}
		if err := s.validator.Struct(in); err != nil {
			return struct{}{}, err
		}
		if in.Reason != "" {
			s.logger.DebugContext(ctx, "task deletion requested", "task_id", id, "reason", in.Reason)
		}

		affected, err := s.tasks.Delete(ctx, id)
		if err != nil {
			return struct{}{}, fmt.Errorf("delete task: %w", err)
		}
		if affected == 0 {
			s.logger.WarnContext(ctx, "task not found for delete", "task_id", id)
			return struct{}{}, apperrors.BadRequest(apperrors.CodeTaskNotFound, fmt.Sprintf("Task with ID %s not found", id)).
				WithSuggestion("Verify the task ID or check if already deleted")
		}

		s.logger.InfoContext(ctx, "task deleted", "task_id", id)
		return struct{}{}, nil
	})
	return err
}

func (s *taskService) Find(ctx context.Context, in FindTaskInput) (*TaskSearchResult, error) {
	return guardUseCase(ctx, s.logger, ucFindTask, func(ctx context.Context) (*TaskSearchResult, error) {
		if err := s.validator.Struct(in); err != nil {
			return nil, err
		}

		if in.ID != uuid.Nil {
			task, err := s.tasks.FindByID(ctx, in.ID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					s.logger.WarnContext(ctx, "task not found", "task_id", in.ID)
					return nil, apperrors.NotFound(apperrors.CodeTaskNotFound, fmt.Sprintf("Task %s not found", in.ID)).
						WithSuggestion("Verify the task ID or check if the task exists")
				}
				return nil, fmt.Errorf("find task: %w", err)
			}
			return &TaskSearchResult{Single: dto.NewTaskResponse(task)}, nil
		}

		tasks, err := s.tasks.Find(ctx, repository.TaskFilter{
			UserID:   in.UserID,
			Status:   in.Status,
			Priority: in.Priority,
		})
		if err != nil {
			return nil, fmt.Errorf("find tasks: %w", err)
		}
		if len(tasks) == 0 {
			s.logger.WarnContext(ctx, "no tasks matched search",
				"user_id", in.UserID, "status", in.Status, "priority", in.Priority)
		}

		s.logger.InfoContext(ctx, "tasks found", "count", len(tasks))
		return &TaskSearchResult{Items: dto.NewTaskResponses(tasks)}, nil
	})
}
