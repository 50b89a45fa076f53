package services

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/providers"
	"github.com/carelink/backend/internal/domain/repositories"
	apperrors "github.com/carelink/backend/pkg/errors"
)

const credentialsNote = "Please share these credentials manually with the user"

// UserService handles account registration, login and administration
type UserService struct {
	repo     repositories.UserRepository
	hasher   providers.PasswordHasher
	tokens   providers.TokenIssuer
	loginURL string

	// dummyHash is compared against when the email is unknown so both
	// failure paths pay the same hashing cost
	dummyOnce sync.Once
	dummyHash string
}

// NewUserService creates a new user service
func NewUserService(
	repo repositories.UserRepository,
	hasher providers.PasswordHasher,
	tokens providers.TokenIssuer,
	loginURL string,
) *UserService {
	return &UserService{
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		loginURL: loginURL,
	}
}

// NewUserInput carries the fields for a new account
type NewUserInput struct {
	Name     string
	Email    string
	Password string
	Role     entities.UserRole
}

// Credentials are echoed to the admin who created an account so they can be shared out of band
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	LoginURL string `json:"login_url"`
	Note     string `json:"note"`
}

// LoginResult is returned on successful login
type LoginResult struct {
	User  *entities.User `json:"user"`
	Token string         `json:"token"`
}

// Register creates a self-service account. Role defaults to patient.
func (s *UserService) Register(ctx context.Context, in NewUserInput) (*entities.User, error) {
	if in.Role == "" {
		in.Role = entities.RolePatient
	}
	return s.create(ctx, in)
}

// Create adds an account on behalf of an admin and returns the credentials to hand over.
func (s *UserService) Create(ctx context.Context, in NewUserInput) (*entities.User, *Credentials, error) {
	user, err := s.create(ctx, in)
	if err != nil {
		return nil, nil, err
	}

	log.Ctx(ctx).Info().
		Int64("user_id", user.ID).
		Str("email", user.Email).
		Str("role", string(user.Role)).
		Msg("user created, credentials returned for manual sharing")

	return user, &Credentials{
		Email:    user.Email,
		Password: in.Password,
		LoginURL: s.loginURL,
		Note:     credentialsNote,
	}, nil
}

func (s *UserService) create(ctx context.Context, in NewUserInput) (*entities.User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, apperrors.NewValidationError("missing required fields")
	}
	if !in.Role.Valid() {
		return nil, apperrors.NewValidationErrorf("invalid role %q", in.Role)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	user := &entities.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        entities.NormalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         in.Role,
		Status:       entities.UserStatusActive,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the credentials and issues a token. Unknown email and wrong
// password produce the same error.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperrors.NewValidationError("missing email or password")
	}

	invalid := apperrors.NewUnauthorizedError("invalid credentials")

	user, err := s.repo.GetByEmail(ctx, entities.NormalizeEmail(email))
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			s.hasher.Compare(s.unknownUserHash(), password)
			return nil, invalid
		}
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, invalid
	}
	if user.Status != entities.UserStatusActive {
		return nil, apperrors.NewUnauthorizedError("account is inactive")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}
	return &LoginResult{User: user, Token: token}, nil
}

func (s *UserService) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("carelink-unknown-user")
		if err != nil {
			log.Error().Err(err).Msg("failed to prepare unknown-user hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, id int64) (*entities.User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all users
func (s *UserService) List(ctx context.Context) ([]*entities.User, error) {
	return s.repo.List(ctx)
}

// Update applies the fields present in patch
func (s *UserService) Update(ctx context.Context, id int64, patch entities.UserPatch) error {
	changes, err := patch.Changes()
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, id, changes)
}

// Delete removes a user and everything that cascades from it
func (s *UserService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
