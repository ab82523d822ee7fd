package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskflow/internal/model"
)

// TaskFilter holds the optional predicates of a task search. Set fields are AND-combined.
type TaskFilter struct {
	UserID   uuid.UUID
	Status   model.TaskStatus
	Priority model.TaskPriority
}

// TaskRepository defines task persistence operations. Reads preload the owner.
type TaskRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	Find(ctx context.Context, filter TaskFilter) ([]model.Task, error)
	Create(ctx context.Context, task *model.Task) error
	Save(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

// FindByID finds a task by ID with its owner attached.
func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translate(err)
	}
	return &task, nil
}

// Find lists tasks matching every set predicate, oldest first.
func (r *taskRepository) Find(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	query := r.db.WithContext(ctx).Preload("User")
	if filter.UserID != uuid.Nil {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}

	var tasks []model.Task
	if err := query.Order("created_at").Order("id").Find(&tasks).Error; err != nil {
		return nil, translate(err)
	}
	return tasks, nil
}

// Create inserts the task without touching the owner row.
func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error)
}

// Save persists every column of an existing task.
func (r *taskRepository) Save(ctx context.Context, task *model.Task) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(task).Error)
}

// Delete hard-deletes the task and reports how many rows matched.
func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Task{})
	if result.Error != nil {
		return 0, translate(result.Error)
	}
	return result.RowsAffected, nil
}
