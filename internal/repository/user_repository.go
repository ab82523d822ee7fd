package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskflow/internal/model"
)

// UserFilter holds the optional predicates of a user lookup. Set fields are AND-combined.
type UserFilter struct {
	ID       uuid.UUID
	Username string
	Email    string
}

// Empty reports whether no predicate is set.
func (f UserFilter) Empty() bool {
	return f.ID == uuid.Nil && f.Username == "" && f.Email == ""
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindOne(ctx context.Context, filter UserFilter) (*model.User, error)
	FindByEmailOrUsername(ctx context.Context, email, username string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Save(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) FindOne(ctx context.Context, filter UserFilter) (*model.User, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})
	if filter.ID != uuid.Nil {
		query = query.Where("id = ?", filter.ID)
	}
	if filter.Username != "" {
		query = query.Where("username = ?", filter.Username)
	}
	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}

	var user model.User
	if err := query.Order("created_at").First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindByEmailOrUsername returns any user colliding on either unique column.
func (r *userRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Or("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *userRepository) Save(ctx context.Context, user *model.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(user).Error)
}

// Delete hard-deletes the user and reports how many rows matched.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if result.Error != nil {
		return 0, translate(result.Error)
	}
	return result.RowsAffected, nil
}
