package adaptor

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sports-prediction/internal/usecase"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &usecase.ValidationError{Fields: map[string]string{"code": "This field is required"}}, http.StatusBadRequest},
		{"invalid credentials", usecase.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthenticated", usecase.ErrUnauthenticated, http.StatusUnauthorized},
		{"invalid code", usecase.ErrInvalidCode, http.StatusBadRequest},
		{"email taken", usecase.ErrEmailTaken, http.StatusBadRequest},
		{"username taken", usecase.ErrUsernameTaken, http.StatusBadRequest},
		{"forbidden", usecase.ErrForbidden, http.StatusForbidden},
		{"not found", usecase.ErrNotFound, http.StatusNotFound},
		{"already activated", usecase.ErrAlreadyActivated, http.StatusConflict},
		{"code exists", usecase.ErrCodeExists, http.StatusConflict},
		{"store failure", fmt.Errorf("find user: %w: %w", usecase.ErrStoreFailure, errors.New("dial tcp 10.0.0.5:5432")), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handleServiceError(rr, zap.NewNop(), tt.err, "test")

			assert.Equal(t, tt.want, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			if tt.want == http.StatusInternalServerError {
				assert.NotContains(t, rr.Body.String(), "10.0.0.5")
				assert.NotContains(t, rr.Body.String(), "boom")
			}
		})
	}
}
