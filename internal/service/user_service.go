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
	"taskflow/internal/password"
	"taskflow/internal/repository"
)

// UserService exposes the user use-cases.
type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*dto.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID, in DeleteUserInput) error
	Find(ctx context.Context, id uuid.UUID, in FindUserInput) (*dto.UserResponse, error)
}

// TokenRevoker invalidates every outstanding token of a user.
type TokenRevoker interface {
	RevokeUser(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	repo      repository.UserRepository
	hasher    password.Hasher
	revoker   TokenRevoker
	logger    *slog.Logger
	validator *InputValidator
}

// NewUserService builds a UserService. revoker may be nil.
func NewUserService(repo repository.UserRepository, hasher password.Hasher, revoker TokenRevoker, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		repo:      repo,
		hasher:    hasher,
		revoker:   revoker,
		logger:    logger.With("component", "user_service"),
		validator: NewInputValidator(),
	}
}

func errUserExists() *apperrors.AppError {
	return apperrors.Conflict(apperrors.CodeUserAlreadyExists, "A user with this email or username already exists").
		WithSuggestion("Use a different email or username")
}

func errMissingUserID() *apperrors.AppError {
	return apperrors.BadRequest(apperrors.CodeMissingUserID, "User ID is required")
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*dto.UserResponse, error) {
	return guardUseCase(ctx, s.logger, ucCreateUser, func(ctx context.Context) (*dto.UserResponse, error) {
		if err := s.validator.Struct(in); err != nil {
			return nil, err
		}

		existing, err := s.repo.FindByEmailOrUsername(ctx, in.Email, in.Username)
		switch {
		case err == nil && existing != nil:
			s.logger.WarnContext(ctx, "user already exists", "username", in.Username, "email", in.Email)
			return nil, errUserExists()
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, fmt.Errorf("check existing user: %w", err)
		}

		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}

		user := &model.User{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: hash,
		}
		if err := s.repo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				s.logger.WarnContext(ctx, "user already exists", "username", in.Username, "email", in.Email)
				return nil, errUserExists()
			}
			return nil, apperrors.Internal(apperrors.CodeDBOperationFailed, "Failed to persist user record").WithCause(err)
		}

		s.logger.InfoContext(ctx, "user created", "user_id", user.ID, "username", user.Username)
		return dto.NewUserResponse(user), nil
	})
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*dto.UserResponse, error) {
	return guardUseCase(ctx, s.logger, ucUpdateUser, func(ctx context.Context) (*dto.UserResponse, error) {
		if err := s.validator.Struct(in); err != nil {
			return nil, err
		}
		if id == uuid.Nil {
			return nil, errMissingUserID()
		}

		user, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.WarnContext(ctx, "user not found", "user_id", id)
				return nil, apperrors.NotFound(apperrors.CodeUserNotFound, fmt.Sprintf("User with ID %s not found", id)).
					WithSuggestion("Verify the user ID or create a user first")
			}
			return nil, fmt.Errorf("load user: %w", err)
		}

		if restricted := in.restrictedFields(); len(restricted) > 0 {
			s.logger.WarnContext(ctx, "rejected update of restricted fields", "user_id", id, "fields", strings.Join(restricted, ","))
			return nil, apperrors.BadRequest(apperrors.CodeInvalidUpdateFields, "Cannot modify creation date or user ownership").
				WithFields(restrictedFieldErrors(restricted))
		}

		if in.Username != nil {
			user.Username = *in.Username
		}
		if in.Email != nil {
			user.Email = *in.Email
		}
		if in.Password != nil {
			hash, err := s.hasher.Hash(*in.Password)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			user.PasswordHash = hash
		}

		if err := s.repo.Save(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				s.logger.WarnContext(ctx, "user update collides with existing user", "user_id", id)
				return nil, errUserExists()
			}
			return nil, fmt.Errorf("save user: %w", err)
		}

		s.logger.InfoContext(ctx, "user updated", "user_id", id)
		return dto.NewUserResponse(user), nil
	})
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID, in DeleteUserInput) error {
	_, err := guardUseCase(ctx, s.logger, ucDeleteUser, func(ctx context.Context) (struct{}, error) {
		if id == uuid.Nil {
			return struct{}{}, errMissingUserID()
		}
		if err := s.validator.Struct(in); err != nil {
			return struct{}{}, err
		}
		if in.Reason != "" {
			s.logger.DebugContext(ctx, "user deletion requested", "user_id", id, "reason", in.Reason)
		}

		affected, err := s.repo.Delete(ctx, id)
		if err != nil {
			return struct{}{}, fmt.Errorf("delete user: %w", err)
		}
		if affected == 0 {
			s.logger.WarnContext(ctx, "user not found for delete", "user_id", id)
			return struct{}{}, apperrors.BadRequest(apperrors.CodeUserNotFound, fmt.Sprintf("User with ID %s not found", id)).
				WithSuggestion("Verify the user ID or check if already deleted")
		}

		if s.revoker != nil {
			if err := s.revoker.RevokeUser(ctx, id); err != nil {
				s.logger.WarnContext(ctx, "failed to revoke tokens of deleted user", "user_id", id, "error", err)
			}
		}

		s.logger.InfoContext(ctx, "user deleted", "user_id", id)
		return struct{}{}, nil
	})
	return err
}

func (s *userService) Find(ctx context.Context, id uuid.UUID, in FindUserInput) (*dto.UserResponse, error) {
	return guardUseCase(ctx, s.logger, ucFindUser, func(ctx context.Context) (*dto.UserResponse, error) {
		if err := s.validator.Struct(in); err != nil {
			return nil, err
		}

		filter := repository.UserFilter{ID: id, Username: in.Username, Email: in.Email}
		if filter.Empty() {
			return nil, apperrors.BadRequest(apperrors.CodeMissingSearch, "At least one search criterion is required").
				WithSuggestion("Provide an id, username or email")
		}

		user, err := s.repo.FindOne(ctx, filter)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				s.logger.WarnContext(ctx, "no user matched search", "user_id", id, "username", in.Username, "email", in.Email)
				return nil, apperrors.NotFound(apperrors.CodeUserNotFound, "No user found with the given criteria").
					WithSuggestion("Check the search parameters or try different ones")
			}
			return nil, fmt.Errorf("find user: %w", err)
		}

		s.logger.InfoContext(ctx, "user found", "user_id", user.ID)
		return dto.NewUserResponse(user), nil
	})
}

func restrictedFieldErrors(fields []string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f] = "cannot be modified"
	}
	return out
}
