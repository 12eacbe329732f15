package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"sports-prediction/internal/usecase"
	"sports-prediction/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (*utils.Identity, error) {
	args := m.Called(ctx, token)
	identity, _ := args.Get(0).(*utils.Identity)
	return identity, args.Error(1)
}

func okHandler(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer header", "Bearer abc", "", "abc"},
		{"scheme is case-insensitive", "bearer abc", "", "abc"},
		{"header wins over cookie", "Bearer abc", "xyz", "abc"},
		{"cookie fallback", "", "xyz", "xyz"},
		{"non-bearer scheme falls back to cookie", "Basic dXNlcjpwYXNz", "xyz", "xyz"},
		{"non-bearer scheme without cookie", "Basic dXNlcjpwYXNz", "", ""},
		{"nothing", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "session_token", Value: tt.cookie})
			}
			assert.Equal(t, tt.want, TokenFromRequest(req, "session_token"))
		})
	}
}

func TestAuthSession_MissingToken(t *testing.T) {
	auth := &mockAuthenticator{}

	rr := httptest.NewRecorder()
	AuthSession(auth, "session_token", zap.NewNop())(http.HandlerFunc(okHandler)).
		ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	auth.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
}

func TestAuthSession_InvalidSession(t *testing.T) {
	auth := &mockAuthenticator{}
	auth.On("Authenticate", mock.Anything, "stale").Return(nil, usecase.ErrUnauthenticated)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rr := httptest.NewRecorder()
	AuthSession(auth, "session_token", zap.NewNop())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	auth.AssertExpectations(t)
}

func TestAuthSession_StoreFailureIs500(t *testing.T) {
	auth := &mockAuthenticator{}
	auth.On("Authenticate", mock.Anything, "tok").Return(nil, errors.New("find session: store failure: timeout"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session_token", Value: "tok"})
	rr := httptest.NewRecorder()
	AuthSession(auth, "session_token", zap.NewNop())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "timeout")
}

func TestAuthSession_InjectsIdentity(t *testing.T) {
	identity := &utils.Identity{UserID: uuid.New(), Username: "alice"}
	auth := &mockAuthenticator{}
	auth.On("Authenticate", mock.Anything, "tok").Return(identity, nil)

	var gotIdentity *utils.Identity
	var gotToken string
	capture := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity, _ = utils.GetIdentityFromContext(r.Context())
		gotToken, _ = utils.GetTokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	AuthSession(auth, "session_token", zap.NewNop())(capture).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, gotIdentity)
	assert.Equal(t, identity.UserID, gotIdentity.UserID)
	assert.Equal(t, "tok", gotToken)
}

func TestRequireActivated(t *testing.T) {
	tests := []struct {
		name     string
		identity *utils.Identity
		want     int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"not activated", &utils.Identity{UserID: uuid.New()}, http.StatusForbidden},
		{"activated", &utils.Identity{UserID: uuid.New(), IsActivated: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.identity != nil {
				req = req.WithContext(utils.SetIdentityContext(req.Context(), tt.identity))
			}
			rr := httptest.NewRecorder()
			RequireActivated(zap.NewNop())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestAdminKey(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		sent       string
		want       int
	}{
		{"matching key", "s3cret", "s3cret", http.StatusOK},
		{"wrong key", "s3cret", "guess", http.StatusForbidden},
		{"missing key", "s3cret", "", http.StatusForbidden},
		{"unconfigured never passes", "", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.sent != "" {
				req.Header.Set(AdminKeyHeader, tt.sent)
			}
			rr := httptest.NewRecorder()
			AdminKey(tt.configured, zap.NewNop())(http.HandlerFunc(okHandler)).ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestRecover_ReturnsEnvelope(t *testing.T) {
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	rr := httptest.NewRecorder()
	Recover(zap.NewNop())(panicky).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"status":false,"message":"Internal server error"}`, rr.Body.String())
}
