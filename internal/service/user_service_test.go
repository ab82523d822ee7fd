package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "taskflow/internal/errors"
	"taskflow/internal/model"
	"taskflow/internal/password"
	"taskflow/internal/repository"
)

const strongPass = "Str0ng!Pass"

func requireAppError(t *testing.T, err error, status int, code string) *apperrors.AppError {
	t.Helper()
	appErr, ok := apperrors.As(err)
	require.True(t, ok, "expected *AppError, got %v", err)
	assert.Equal(t, status, appErr.Status())
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func strPtr(s string) *string { return &s }

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	validInput := CreateUserInput{Username: "alice", Email: "alice@example.com", Password: strongPass}

	tests := []struct {
		name       string
		input      CreateUserInput
		setupMock  func(*MockUserRepository, *MockHasher)
		wantStatus int
		wantCode   string
		wantFields []string
	}{
		{
			name:       "invalid email and weak password",
			input:      CreateUserInput{Username: "alice", Email: "not-an-email", Password: "weak"},
			setupMock:  func(*MockUserRepository, *MockHasher) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeValidation,
			wantFields: []string{"email", "password"},
		},
		{
			name:       "missing username",
			input:      CreateUserInput{Email: "alice@example.com", Password: strongPass},
			setupMock:  func(*MockUserRepository, *MockHasher) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeValidation,
			wantFields: []string{"username"},
		},
		{
			name:  "email or username taken",
			input: validInput,
			setupMock: func(repo *MockUserRepository, _ *MockHasher) {
				repo.On("FindByEmailOrUsername", mock.Anything, "alice@example.com", "alice").
					Return(&model.User{ID: uuid.New(), Username: "alice"}, nil)
			},
			wantStatus: http.StatusConflict,
			wantCode:   apperrors.CodeUserAlreadyExists,
		},
		{
			name:  "existence check fails",
			input: validInput,
			setupMock: func(repo *MockUserRepository, _ *MockHasher) {
				repo.On("FindByEmailOrUsername", mock.Anything, "alice@example.com", "alice").
					Return(nil, errors.New("connection reset"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apperrors.CodeUserCreateFailed,
		},
		{
			name:  "hashing fails",
			input: validInput,
			setupMock: func(repo *MockUserRepository, hasher *MockHasher) {
				repo.On("FindByEmailOrUsername", mock.Anything, "alice@example.com", "alice").
					Return(nil, repository.ErrNotFound)
				hasher.On("Hash", strongPass).Return("", errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apperrors.CodeUserCreateFailed,
		},
		{
			name:  "lost race on unique index",
			input: validInput,
			setupMock: func(repo *MockUserRepository, hasher *MockHasher) {
				repo.On("FindByEmailOrUsername", mock.Anything, "alice@example.com", "alice").
					Return(nil, repository.ErrNotFound)
				hasher.On("Hash", strongPass).Return("hashed", nil)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Return(repository.ErrDuplicate)
			},
			wantStatus: http.StatusConflict,
			wantCode:   apperrors.CodeUserAlreadyExists,
		},
		{
			name:  "persistence fails",
			input: validInput,
			setupMock: func(repo *MockUserRepository, hasher *MockHasher) {
				repo.On("FindByEmailOrUsername", mock.Anything, "alice@example.com", "alice").
					Return(nil, repository.ErrNotFound)
				hasher.On("Hash", strongPass).Return("hashed", nil)
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).
					Return(errors.New("disk full"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apperrors.CodeDBOperationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			hasher := new(MockHasher)
			tt.setupMock(repo, hasher)

			svc := NewUserService(repo, hasher, nil, discardLogger())
			resp, err := svc.Create(ctx, tt.input)

			assert.Nil(t, resp)
			appErr := requireAppError(t, err, tt.wantStatus, tt.wantCode)
			for _, f := range tt.wantFields {
				assert.Contains(t, appErr.Fields, f)
			}
			repo.AssertExpectations(t)
			hasher.AssertExpectations(t)
		})
	}
}

func TestUserService_Create_Success(t *testing.T) {
	repo := new(MockUserRepository)
	hasher := new(MockHasher)
	id := uuid.New()

	repo.On("FindByEmailOrUsername", mock.Anything, "alice@example.com", "alice").Return(nil, repository.ErrNotFound)
	hasher.On("Hash", strongPass).Return("hashed", nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Username == "alice" && u.Email == "alice@example.com" && u.PasswordHash == "hashed"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.User).ID = id
	}).Return(nil)

	svc := NewUserService(repo, hasher, nil, discardLogger())
	resp, err := svc.Create(context.Background(), CreateUserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: strongPass,
	})

	require.NoError(t, err)
	assert.Equal(t, id, resp.ID)
	assert.Equal(t, "alice", resp.Username)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "hashed")
	assert.NotContains(t, string(body), "password")
	repo.AssertExpectations(t)
}

func TestUserService_Create_ConcurrentDuplicate(t *testing.T) {
	repo := newMemoryUserRepository()
	svc := NewUserService(repo, password.NewBcryptHasher(4), nil, discardLogger())

	in := CreateUserInput{Username: "alice", Email: "alice@example.com", Password: strongPass}
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), in)
		}(i)
	}
	wg.Wait()

	var ok, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperrors.IsCode(err, apperrors.CodeUserAlreadyExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 1, repo.len())
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	existing := func() *model.User {
		return &model.User{ID: id, Username: "alice", Email: "alice@example.com", PasswordHash: "old"}
	}

	t.Run("missing id", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), new(MockHasher), nil, discardLogger())
		_, err := svc.Update(ctx, uuid.Nil, UpdateUserInput{Username: strPtr("bob")})
		requireAppError(t, err, http.StatusBadRequest, apperrors.CodeMissingUserID)
	})

	t.Run("user not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

		svc := NewUserService(repo, new(MockHasher), nil, discardLogger())
		_, err := svc.Update(ctx, id, UpdateUserInput{Username: strPtr("bob")})
		requireAppError(t, err, http.StatusNotFound, apperrors.CodeUserNotFound)
	})

	t.Run("restricted fields leave record untouched", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, id).Return(existing(), nil)

		var in UpdateUserInput
		require.NoError(t, json.Unmarshal([]byte(`{"username":"bob","created_at":"2020-01-01T00:00:00Z"}`), &in))

		svc := NewUserService(repo, new(MockHasher), nil, discardLogger())
		_, err := svc.Update(ctx, id, in)
		appErr := requireAppError(t, err, http.StatusBadRequest, apperrors.CodeInvalidUpdateFields)
		assert.Contains(t, appErr.Fields, "created_at")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("weak password rejected", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), new(MockHasher), nil, discardLogger())
		_, err := svc.Update(ctx, id, UpdateUserInput{Password: strPtr("short")})
		appErr := requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidation)
		assert.Contains(t, appErr.Fields, "password")
	})

	t.Run("merges supplied fields and rehashes password", func(t *testing.T) {
		repo := new(MockUserRepository)
		hasher := new(MockHasher)
		repo.On("FindByID", mock.Anything, id).Return(existing(), nil)
		hasher.On("Hash", "N3w!Password").Return("new-hash", nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Username == "alice" && u.Email == "new@example.com" && u.PasswordHash == "new-hash"
		})).Return(nil)

		svc := NewUserService(repo, hasher, nil, discardLogger())
		resp, err := svc.Update(ctx, id, UpdateUserInput{
			Email:    strPtr("new@example.com"),
			Password: strPtr("N3w!Password"),
		})
		require.NoError(t, err)
		assert.Equal(t, "new@example.com", resp.Email)
		assert.Equal(t, "alice", resp.Username)
		repo.AssertExpectations(t)
		hasher.AssertExpectations(t)
	})

	t.Run("duplicate on save", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, id).Return(existing(), nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

		svc := NewUserService(repo, new(MockHasher), nil, discardLogger())
		_, err := svc.Update(ctx, id, UpdateUserInput{Username: strPtr("bob")})
		requireAppError(t, err, http.StatusConflict, apperrors.CodeUserAlreadyExists)
	})

	t.Run("unexpected failure", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindByID", mock.Anything, id).Return(nil, errors.New("timeout"))

		svc := NewUserService(repo, new(MockHasher), nil, discardLogger())
		_, err := svc.Update(ctx, id, UpdateUserInput{Username: strPtr("bob")})
		requireAppError(t, err, http.StatusInternalServerError, apperrors.CodeUserUpdateFailed)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	tests := []struct {
		name       string
		id         uuid.UUID
		setupMock  func(*MockUserRepository, *MockRevoker)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing id",
			id:         uuid.Nil,
			setupMock:  func(*MockUserRepository, *MockRevoker) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeMissingUserID,
		},
		{
			name: "nothing deleted",
			id:   id,
			setupMock: func(repo *MockUserRepository, _ *MockRevoker) {
				repo.On("Delete", mock.Anything, id).Return(int64(0), nil)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.CodeUserNotFound,
		},
		{
			name: "store failure",
			id:   id,
			setupMock: func(repo *MockUserRepository, _ *MockRevoker) {
				repo.On("Delete", mock.Anything, id).Return(int64(0), errors.New("deadlock"))
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apperrors.CodeUserDeleteFailed,
		},
		{
			name: "deleted and tokens revoked",
			id:   id,
			setupMock: func(repo *MockUserRepository, revoker *MockRevoker) {
				repo.On("Delete", mock.Anything, id).Return(int64(1), nil)
				revoker.On("RevokeUser", mock.Anything, id).Return(nil)
			},
		},
		{
			name: "revocation failure does not fail delete",
			id:   id,
			setupMock: func(repo *MockUserRepository, revoker *MockRevoker) {
				repo.On("Delete", mock.Anything, id).Return(int64(1), nil)
				revoker.On("RevokeUser", mock.Anything, id).Return(errors.New("redis down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			revoker := new(MockRevoker)
			tt.setupMock(repo, revoker)

			svc := NewUserService(repo, new(MockHasher), revoker, discardLogger())
			err := svc.Delete(ctx, tt.id, DeleteUserInput{Reason: "requested"})

			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				requireAppError(t, err, tt.wantStatus, tt.wantCode)
			}
			repo.AssertExpectations(t)
			revoker.AssertExpectations(t)
		})
	}
}

func TestUserService_Delete_Twice(t *testing.T) {
	repo := newMemoryUserRepository()
	svc := NewUserService(repo, password.NewBcryptHasher(4), nil, discardLogger())
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateUserInput{Username: "alice", Email: "alice@example.com", Password: strongPass})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID, DeleteUserInput{}))
	err = svc.Delete(ctx, created.ID, DeleteUserInput{})
	requireAppError(t, err, http.StatusBadRequest, apperrors.CodeUserNotFound)
}

func TestUserService_Find(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	user := &model.User{ID: id, Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}

	t.Run("no criteria", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, new(MockHasher), nil, discardLogger())
		_, err := svc.Find(ctx, uuid.Nil, FindUserInput{})
		requireAppError(t, err, http.StatusBadRequest, apperrors.CodeMissingSearch)
		repo.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
	})

	t.Run("filters are combined", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindOne", mock.Anything, repository.UserFilter{ID: id, Email: "alice@example.com"}).Return(user, nil)

		svc := NewUserService(repo, new(MockHasher), nil, discardLogger())
		resp, err := svc.Find(ctx, id, FindUserInput{Email: "alice@example.com"})
		require.NoError(t, err)
		assert.Equal(t, id, resp.ID)
		repo.AssertExpectations(t)
	})

	t.Run("no match", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindOne", mock.Anything, repository.UserFilter{Username: "ghost"}).Return(nil, repository.ErrNotFound)

		svc := NewUserService(repo, new(MockHasher), nil, discardLogger())
		_, err := svc.Find(ctx, uuid.Nil, FindUserInput{Username: "ghost"})
		requireAppError(t, err, http.StatusNotFound, apperrors.CodeUserNotFound)
	})

	t.Run("invalid email filter", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), new(MockHasher), nil, discardLogger())
		_, err := svc.Find(ctx, uuid.Nil, FindUserInput{Email: "nope"})
		requireAppError(t, err, http.StatusBadRequest, apperrors.CodeValidation)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("FindOne", mock.Anything, repository.UserFilter{ID: id}).Return(nil, errors.New("timeout"))

		svc := NewUserService(repo, new(MockHasher), nil, discardLogger())
		_, err := svc.Find(ctx, id, FindUserInput{})
		appErr := requireAppError(t, err, http.StatusInternalServerError, apperrors.CodeUserSearchFailed)
		assert.NotContains(t, appErr.Message, "timeout")
	})
}
