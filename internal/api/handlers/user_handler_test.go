package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/backend/internal/api/handlers"
	apperrors "github.com/carelink/backend/pkg/errors"
)

func TestUserHandler_Register(t *testing.T) {
	service := &stubUserService{}
	handler := handlers.NewUserHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"name":"Ana","email":"ana@example.com","password":"pw"}`))
	w := httptest.NewRecorder()
	handler.Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, service.registered, 1)
	assert.Equal(t, "ana@example.com", service.registered[0].Email)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "User registered successfully", body["message"])
}

func TestUserHandler_Register_MissingField(t *testing.T) {
	handler := handlers.NewUserHandler(&stubUserService{})

	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(`{"name":"Ana","email":"ana@example.com"}`))
	w := httptest.NewRecorder()
	handler.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "password is required")
}

func TestUserHandler_Login_InvalidCredentials(t *testing.T) {
	handler := handlers.NewUserHandler(&stubUserService{loginErr: apperrors.NewUnauthorizedError("invalid credentials")})

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"ana@example.com","password":"nope"}`))
	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, w.Body.String())
}

func TestUserHandler_Login_NeverReturnsHash(t *testing.T) {
	handler := handlers.NewUserHandler(&stubUserService{})

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"email":"ana@example.com","password":"pw"}`))
	w := httptest.NewRecorder()
	handler.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-hash")
	assert.Contains(t, w.Body.String(), `"token":"tok"`)
}

func TestUserHandler_CreateUser_EchoesCredentials(t *testing.T) {
	handler := handlers.NewUserHandler(&stubUserService{})

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"name":"Joy","email":"joy@example.com","password":"temp","role":"nurse"}`))
	w := httptest.NewRecorder()
	handler.CreateUser(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var body struct {
		ID          int64             `json:"id"`
		Credentials map[string]string `json:"credentials"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "temp", body.Credentials["password"])
	assert.Equal(t, "http://localhost:3000/login.html", body.Credentials["login_url"])
}

func TestUserHandler_DeleteUser(t *testing.T) {
	t.Run("missing user is 404", func(t *testing.T) {
		handler := handlers.NewUserHandler(&stubUserService{err: apperrors.NewNotFoundError("user not found")})
		req := httptest.NewRequest(http.MethodDelete, "/api/users/5", nil)
		req.SetPathValue("id", "5")
		w := httptest.NewRecorder()
		handler.DeleteUser(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id is 400", func(t *testing.T) {
		handler := handlers.NewUserHandler(&stubUserService{})
		req := httptest.NewRequest(http.MethodDelete, "/api/users/abc", nil)
		req.SetPathValue("id", "abc")
		w := httptest.NewRecorder()
		handler.DeleteUser(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUserHandler_InternalErrorsAreOpaque(t *testing.T) {
	handler := handlers.NewUserHandler(&stubUserService{err: errors.New(`pq: relation "users" does not exist`)})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()
	handler.ListUsers(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"failed to fetch users"}`, w.Body.String())
}
