package handlers

import (
	"context"
	"net/http"

	"github.com/carelink/backend/internal/application/services"
	"github.com/carelink/backend/internal/domain/entities"
)

// UserService defines the account operations used by the handler
type UserService interface {
	Register(ctx context.Context, in services.NewUserInput) (*entities.User, error)
	Create(ctx context.Context, in services.NewUserInput) (*entities.User, *services.Credentials, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	Get(ctx context.Context, id int64) (*entities.User, error)
	List(ctx context.Context) ([]*entities.User, error)
	Update(ctx context.Context, id int64, patch entities.UserPatch) error
	Delete(ctx context.Context, id int64) error
}

// UserHandler handles account endpoints
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

type registerRequest struct {
	Name     string            `json:"name" validate:"required"`
	Email    string            `json:"email" validate:"required,email"`
	Password string            `json:"password" validate:"required"`
	Role     entities.UserRole `json:"role" validate:"omitempty,oneof=admin nurse patient"`
}

type createUserRequest struct {
	Name     string            `json:"name" validate:"required"`
	Email    string            `json:"email" validate:"required,email"`
	Password string            `json:"password" validate:"required"`
	Role     entities.UserRole `json:"role" validate:"required,oneof=admin nurse patient"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles POST /api/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err, "registration failed")
		return
	}

	user, err := h.service.Register(r.Context(), services.NewUserInput(req))
	if err != nil {
		respondWithAppError(w, r, err, "registration failed")
		return
	}
	respondWithJSON(w, http.StatusCreated, createdResponse{ID: user.ID, Message: "User registered successfully"})
}

// Login handles POST /api/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err, "login failed")
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithAppError(w, r, err, "login failed")
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch users")
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch user")
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch user")
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// CreateUser handles POST /api/users. The plain password is echoed once so
// the admin can pass it on.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err, "failed to create user")
		return
	}

	user, creds, err := h.service.Create(r.Context(), services.NewUserInput(req))
	if err != nil {
		respondWithAppError(w, r, err, "failed to create user")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"id":          user.ID,
		"message":     "User created successfully",
		"credentials": creds,
	})
}

// UpdateUser handles PATCH /api/users/{id}
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to update user")
		return
	}
	var patch entities.UserPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithAppError(w, r, err, "failed to update user")
		return
	}
	if err := h.service.Update(r.Context(), id, patch); err != nil {
		respondWithAppError(w, r, err, "failed to update user")
		return
	}
	respondWithMessage(w, http.StatusOK, "User updated successfully")
}

// DeleteUser handles DELETE /api/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to delete user")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, r, err, "failed to delete user")
		return
	}
	respondWithMessage(w, http.StatusOK, "User deleted successfully")
}
