package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carelink/backend/internal/application/services"
	"github.com/carelink/backend/internal/domain/entities"
	apperrors "github.com/carelink/backend/pkg/errors"
)

const loginURL = "http://localhost:3000/login.html"

func newUserService(repo *MockUserRepository) *services.UserService {
	return services.NewUserService(repo, fakeHasher{}, fakeTokens{}, loginURL)
}

func TestUserService_Register(t *testing.T) {
	t.Run("defaults role to patient and hashes the password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *entities.User) bool {
			return u.Role == entities.RolePatient &&
				u.Email == "ana@example.com" &&
				u.PasswordHash == "hashed:s3cret" &&
				u.Status == entities.UserStatusActive
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*entities.User).ID = 7
		}).Return(nil)

		user, err := newUserService(repo).Register(context.Background(), services.NewUserInput{
			Name: "Ana", Email: "  Ana@Example.com ", Password: "s3cret",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects missing fields without touching the repository", func(t *testing.T) {
		repo := new(MockUserRepository)
		_, err := newUserService(repo).Register(context.Background(), services.NewUserInput{Name: "Ana"})

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		repo := new(MockUserRepository)
		_, err := newUserService(repo).Register(context.Background(), services.NewUserInput{
			Name: "Ana", Email: "ana@example.com", Password: "x", Role: "superuser",
		})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	})

	t.Run("surfaces duplicate email conflict", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(apperrors.NewConflictError("email already registered"))

		_, err := newUserService(repo).Register(context.Background(), services.NewUserInput{
			Name: "Ana", Email: "ana@example.com", Password: "x",
		})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))
	})
}

func TestUserService_Create_ReturnsCredentials(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entities.User")).Return(nil)

	user, creds, err := newUserService(repo).Create(context.Background(), services.NewUserInput{
		Name: "Nurse Joy", Email: "joy@example.com", Password: "temp-pass", Role: entities.RoleNurse,
	})

	require.NoError(t, err)
	assert.Equal(t, entities.RoleNurse, user.Role)
	assert.Equal(t, "joy@example.com", creds.Email)
	assert.Equal(t, "temp-pass", creds.Password)
	assert.Equal(t, loginURL, creds.LoginURL)
	assert.Equal(t, "Please share these credentials manually with the user", creds.Note)
}

func TestUserService_Login(t *testing.T) {
	stored := &entities.User{
		ID: 3, Email: "ana@example.com", PasswordHash: "hashed:right", Role: entities.RolePatient, Status: entities.UserStatusActive,
	}

	t.Run("issues a token for valid credentials", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(stored, nil)

		res, err := newUserService(repo).Login(context.Background(), "ANA@example.com", "right")
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.User.ID)
		assert.Equal(t, "token-for-ana@example.com", res.Token)
	})

	t.Run("wrong password and unknown email look the same", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(stored, nil)
		repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, apperrors.NewNotFoundError("user not found"))
		svc := newUserService(repo)

		_, errWrong := svc.Login(context.Background(), "ana@example.com", "wrong")
		_, errUnknown := svc.Login(context.Background(), "ghost@example.com", "right")

		require.Error(t, errWrong)
		require.Error(t, errUnknown)
		assert.Equal(t, errWrong.Error(), errUnknown.Error())
		assert.True(t, apperrors.IsType(errWrong, apperrors.ErrorTypeUnauthorized))
	})

	t.Run("unknown email still compares a password hash", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, apperrors.NewNotFoundError("user not found"))
		hasher := &countingHasher{}
		svc := services.NewUserService(repo, hasher, fakeTokens{}, loginURL)

		_, err := svc.Login(context.Background(), "ghost@example.com", "right")
		require.Error(t, err)
		_, err = svc.Login(context.Background(), "ghost@example.com", "right")
		require.Error(t, err)

		require.Len(t, hasher.compared, 2)
		assert.NotEmpty(t, hasher.compared[0])
		assert.Equal(t, hasher.compared[0], hasher.compared[1])
	})

	t.Run("inactive account cannot log in", func(t *testing.T) {
		inactive := *stored
		inactive.Status = entities.UserStatusInactive
		repo := new(MockUserRepository)
		repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(&inactive, nil)

		_, err := newUserService(repo).Login(context.Background(), "ana@example.com", "right")
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	})
}

func TestUserService_Update_PassesOnlyPresentFields(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("Update", mock.Anything, int64(4), map[string]interface{}{"status": "inactive"}).Return(nil)

	err := newUserService(repo).Update(context.Background(), 4, entities.UserPatch{
		Status: entities.Some(entities.UserStatusInactive),
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
