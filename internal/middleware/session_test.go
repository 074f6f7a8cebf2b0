package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/atinyakov/baristafolio/internal/models"
)

// dummyHandler is a placeholder that records if it was called and the context it received.
type dummyHandler struct {
	called bool
	ctx    context.Context
}

func (d *dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.called = true
	d.ctx = r.Context()
	w.WriteHeader(http.StatusOK)
}

type fakeVerifier struct{}

func (fakeVerifier) Verify(token string) (models.Session, error) {
	if token != "good" {
		return models.Session{}, models.ErrUnauthorized
	}
	return models.Session{AdminID: "a1", Email: "admin@barista.com"}, nil
}

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantCalled bool
		wantCode   int
	}{
		{"no token", func(*http.Request) {}, false, http.StatusUnauthorized},
		{"bad bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, false, http.StatusUnauthorized},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic good") }, false, http.StatusUnauthorized},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, true, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"}) }, true, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dummy := &dummyHandler{}
			h := RequireSession(fakeVerifier{})(dummy)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/skills", nil)
			tt.setup(req)

			h.ServeHTTP(rec, req)

			if dummy.called != tt.wantCalled {
				t.Errorf("next called = %v; want %v", dummy.called, tt.wantCalled)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d; want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCalled {
				sess, ok := SessionFromContext(dummy.ctx)
				if !ok || sess.AdminID != "a1" {
					t.Errorf("session in context = %+v, %v; want a1", sess, ok)
				}
			}
		})
	}
}

func TestSessionFromContext_Empty(t *testing.T) {
	if _, ok := SessionFromContext(context.Background()); ok {
		t.Error("expected no session in empty context")
	}
}
