package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/backend/internal/api/handlers"
	apperrors "github.com/carelink/backend/pkg/errors"
)

func TestNursePaymentHandler_Calculate(t *testing.T) {
	handler := handlers.NewNursePaymentHandler(&stubNursePaymentService{})

	req := httptest.NewRequest(http.MethodPost, "/api/nurse-payments/calculate", strings.NewReader(`{"appointment_id":5}`))
	w := httptest.NewRecorder()
	handler.Calculate(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, 70.0, body["nurse_amount"])
	assert.Equal(t, 100.0, body["service_amount"])
	assert.Equal(t, "Nurse payment calculated successfully", body["message"])
}

func TestNursePaymentHandler_Calculate_RejectsPercentageOver100(t *testing.T) {
	handler := handlers.NewNursePaymentHandler(&stubNursePaymentService{})

	req := httptest.NewRequest(http.MethodPost, "/api/nurse-payments/calculate", strings.NewReader(`{"appointment_id":5,"commission_percentage":120}`))
	w := httptest.NewRecorder()
	handler.Calculate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNursePaymentHandler_Pay(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		handler := handlers.NewNursePaymentHandler(&stubNursePaymentService{})
		req := httptest.NewRequest(http.MethodPost, "/api/nurse-payments/pay", strings.NewReader(`{"nurse_payment_id":3}`))
		w := httptest.NewRecorder()
		handler.Pay(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"payment_id":3`)
	})

	t.Run("already paid is 409", func(t *testing.T) {
		handler := handlers.NewNursePaymentHandler(&stubNursePaymentService{payErr: apperrors.NewConflictError("payment already completed")})
		req := httptest.NewRequest(http.MethodPost, "/api/nurse-payments/pay", strings.NewReader(`{"nurse_payment_id":3}`))
		w := httptest.NewRecorder()
		handler.Pay(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.JSONEq(t, `{"error":"payment already completed"}`, w.Body.String())
	})
}

func TestNursePaymentHandler_ListFilters(t *testing.T) {
	service := &stubNursePaymentService{}
	handler := handlers.NewNursePaymentHandler(service)

	req := httptest.NewRequest(http.MethodGet, "/api/nurse-payments?status=pending&nurse_id=12", nil)
	w := httptest.NewRecorder()
	handler.ListNursePayments(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pending", service.listStatus)
	require.NotNil(t, service.listNurse)
	assert.Equal(t, int64(12), *service.listNurse)

	req = httptest.NewRequest(http.MethodGet, "/api/nurse-payments?nurse_id=x", nil)
	w = httptest.NewRecorder()
	handler.ListNursePayments(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
