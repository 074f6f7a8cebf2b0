package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/atinyakov/baristafolio/internal/validation"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_Login(t *testing.T) {
	s := newTestServices()
	s.auth.LoginFunc = func(_ context.Context, email, password string) (string, models.Session, error) {
		if email == "admin@barista.com" && password == "admin123" {
			return testToken, testSession, nil
		}
		return "", models.Session{}, models.ErrInvalidCredentials
	}
	router := s.router(t)

	t.Run("success", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"admin@barista.com","password":"admin123"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp loginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, testToken, resp.Token)
		assert.Equal(t, sessionUser{ID: "admin-1", Email: "admin@barista.com", Name: "Admin"}, resp.User)
		assert.True(t, resp.ExpiresAt.Equal(testSession.ExpiresAt))

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "session", cookies[0].Name)
		assert.Equal(t, testToken, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.False(t, cookies[0].Secure)
	})

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
			strings.NewReader(`{"email":"admin@barista.com","password":"nope"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
	})

	t.Run("missing fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":""}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_SessionAndLogout(t *testing.T) {
	router := newTestServices().router(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: testToken})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"admin@barista.com"`)
	assert.Contains(t, rec.Body.String(), `"expires":"2030-01-01T00:00:00Z"`)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "forged"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestAuthHandler_UpdateSettings(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "updated", wantStatus: http.StatusOK, wantBody: `{"message":"Profile updated successfully"}`},
		{name: "admin gone", err: models.ErrNotFound, wantStatus: http.StatusNotFound, wantBody: `{"error":"Admin not found"}`},
		{
			name:       "wrong current password",
			err:        validation.New("currentPassword", "Invalid current password"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid current password"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServices()
			s.auth.SettingsFunc = func(_ context.Context, adminID string, upd models.SettingsUpdate) error {
				assert.Equal(t, "admin-1", adminID)
				assert.Equal(t, "new@barista.com", upd.Email)
				return tt.err
			}
			req := httptest.NewRequest(http.MethodPut, "/api/admin/settings",
				strings.NewReader(`{"email":"new@barista.com","currentPassword":"admin123"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+testToken)
			rec := httptest.NewRecorder()

			s.router(t).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
