package http

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/atinyakov/baristafolio/internal/models"
	"go.uber.org/zap"
)

const testToken = "good-token"

var testSession = models.Session{
	AdminID:   "admin-1",
	Email:     "admin@barista.com",
	ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
}

type mockVerifier struct{}

func (mockVerifier) Verify(token string) (models.Session, error) {
	if token == testToken {
		return testSession, nil
	}
	return models.Session{}, models.ErrUnauthorized
}

type mockContent[T any, P any] struct {
	ListFunc   func(ctx context.Context) ([]T, error)
	CreateFunc func(ctx context.Context, patch P) (*T, error)
	UpdateFunc func(ctx context.Context, id string, patch P) (*T, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *mockContent[T, P]) List(ctx context.Context) ([]T, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []T{}, nil
}

func (m *mockContent[T, P]) Create(ctx context.Context, patch P) (*T, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, patch)
	}
	return new(T), nil
}

func (m *mockContent[T, P]) Update(ctx context.Context, id string, patch P) (*T, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return new(T), nil
}

func (m *mockContent[T, P]) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type mockCertificates struct {
	CreateFunc func(ctx context.Context, in models.CertificateInput) (*models.Certificate, error)
	UpdateFunc func(ctx context.Context, id string, in models.CertificateInput) (*models.Certificate, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *mockCertificates) List(context.Context) ([]models.Certificate, error) {
	return []models.Certificate{}, nil
}

func (m *mockCertificates) Create(ctx context.Context, in models.CertificateInput) (*models.Certificate, error) {
	return m.CreateFunc(ctx, in)
}

func (m *mockCertificates) Update(ctx context.Context, id string, in models.CertificateInput) (*models.Certificate, error) {
	return m.UpdateFunc(ctx, id, in)
}

func (m *mockCertificates) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

type mockGallery struct {
	CreateFunc func(ctx context.Context, title string, image *models.Upload) (*models.GalleryItem, error)
}

func (m *mockGallery) List(context.Context) ([]models.GalleryItem, error) {
	return []models.GalleryItem{}, nil
}

func (m *mockGallery) Create(ctx context.Context, title string, image *models.Upload) (*models.GalleryItem, error) {
	return m.CreateFunc(ctx, title, image)
}

func (m *mockGallery) Delete(context.Context, string) error { return nil }

type mockMessages struct {
	SubmitFunc func(ctx context.Context, sub models.MessageSubmission) (*models.Message, error)
	ListFunc   func(ctx context.Context, filter models.MessageFilter) ([]models.Message, error)
	UpdateFunc func(ctx context.Context, id string, upd models.MessageUpdate) (*models.Message, error)
	DeleteFunc func(ctx context.Context, id string) error
}

func (m *mockMessages) Submit(ctx context.Context, sub models.MessageSubmission) (*models.Message, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, sub)
	}
	return &models.Message{Name: sub.Name, Email: sub.Email, Message: sub.Message, Status: models.StatusNew}, nil
}

func (m *mockMessages) List(ctx context.Context, filter models.MessageFilter) ([]models.Message, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []models.Message{}, nil
}

func (m *mockMessages) Update(ctx context.Context, id string, upd models.MessageUpdate) (*models.Message, error) {
	return m.UpdateFunc(ctx, id, upd)
}

func (m *mockMessages) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type mockAnalytics struct {
	RecordFunc func(ctx context.Context) (*models.DashboardStats, error)
}

func (m *mockAnalytics) RecordDashboardView(ctx context.Context) (*models.DashboardStats, error) {
	return m.RecordFunc(ctx)
}

type mockAuth struct {
	LoginFunc    func(ctx context.Context, email, password string) (string, models.Session, error)
	SettingsFunc func(ctx context.Context, adminID string, upd models.SettingsUpdate) error
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (string, models.Session, error) {
	return m.LoginFunc(ctx, email, password)
}

func (m *mockAuth) UpdateSettings(ctx context.Context, adminID string, upd models.SettingsUpdate) error {
	return m.SettingsFunc(ctx, adminID, upd)
}

type mockPinger struct{ err error }

func (m mockPinger) PingContext(context.Context) error { return m.err }

// testServices holds the mocks behind a router built by newTestRouter.
type testServices struct {
	skills       *mockContent[models.Skill, models.SkillPatch]
	courses      *mockContent[models.Course, models.CoursePatch]
	career       *mockContent[models.Career, models.CareerPatch]
	videos       *mockContent[models.Video, models.VideoPatch]
	certificates *mockCertificates
	gallery      *mockGallery
	messages     *mockMessages
	analytics    *mockAnalytics
	auth         *mockAuth
	pingErr      error
	opts         RouterOptions
}

func newTestServices() *testServices {
	return &testServices{
		skills:       &mockContent[models.Skill, models.SkillPatch]{},
		courses:      &mockContent[models.Course, models.CoursePatch]{},
		career:       &mockContent[models.Career, models.CareerPatch]{},
		videos:       &mockContent[models.Video, models.VideoPatch]{},
		certificates: &mockCertificates{},
		gallery:      &mockGallery{},
		messages:     &mockMessages{},
		analytics:    &mockAnalytics{},
		auth:         &mockAuth{},
	}
}

func (s *testServices) router(t *testing.T) http.Handler {
	t.Helper()
	log := zap.NewNop()
	return NewRouter(Handlers{
		Skills:       &ContentHandler[models.Skill, models.SkillPatch]{Service: s.skills, Labels: Labels{"skill", "skills", "Skill"}, Log: log},
		Courses:      &ContentHandler[models.Course, models.CoursePatch]{Service: s.courses, Labels: Labels{"course", "courses", "Course"}, Log: log},
		Career:       &ContentHandler[models.Career, models.CareerPatch]{Service: s.career, Labels: Labels{"career item", "career", "Career item"}, Log: log},
		Videos:       &ContentHandler[models.Video, models.VideoPatch]{Service: s.videos, Labels: Labels{"video", "videos", "Video"}, Log: log},
		Certificates: &CertificateHandler{Service: s.certificates, MaxUploadBytes: 1 << 20, Log: log},
		Gallery:      &GalleryHandler{Service: s.gallery, MaxUploadBytes: 1 << 20, Log: log},
		Messages:     &MessageHandler{Service: s.messages, Log: log},
		Analytics:    &AnalyticsHandler{Service: s.analytics, Log: log},
		Auth:         &AuthHandler{AuthService: s.auth, Log: log},
		Health:       Health(mockPinger{err: s.pingErr}, log),
	}, mockVerifier{}, s.opts, log)
}

var errBoom = errors.New("boom")
