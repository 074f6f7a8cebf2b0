package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/atinyakov/baristafolio/internal/config"
	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/atinyakov/baristafolio/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// defaultAdminPassword is used for the first account when no hash is configured.
const defaultAdminPassword = "admin123"

// minPasswordLength is the shortest accepted new password.
const minPasswordLength = 6

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

// AdminRepository defines the persistence operations
// required by the authentication service.
type AdminRepository interface {
	// Count returns how many admin accounts exist.
	Count(ctx context.Context) (int64, error)
	// GetByEmail returns the admin with the given login or models.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	// GetByID returns the admin with the given id or models.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Admin, error)
	// Create stores a new admin.
	Create(ctx context.Context, admin *models.Admin) error
	// Update stores the email and password hash of admin.
	Update(ctx context.Context, admin *models.Admin) error
}

// SessionIssuer signs a session for an authenticated admin.
type SessionIssuer interface {
	Issue(admin *models.Admin) (string, models.Session, error)
}

// AuthService signs administrators in and manages their credentials.
type AuthService struct {
	repo      AdminRepository
	sessions  SessionIssuer
	bootstrap config.AdminOptions
	log       *zap.Logger
	now       func() time.Time
	newID     func() string

	bootstrapMu sync.Mutex
	dummyOnce   sync.Once
	dummyHash   []byte
}

// NewAuthService constructs an AuthService. bootstrap describes the account
// created on the first sign-in attempt against an empty admin table.
func NewAuthService(repo AdminRepository, sessions SessionIssuer, bootstrap config.AdminOptions, log *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		sessions:  sessions,
		bootstrap: bootstrap,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Login checks the credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, models.Session, error) {
	admin, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", models.Session{}, err
	}
	return s.sessions.Issue(admin)
}

// Authenticate returns the admin matching email and password. Unknown
// emails and wrong passwords both yield models.ErrInvalidCredentials and
// cost one bcrypt comparison.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.Admin, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, models.ErrInvalidCredentials
	}
	if err := s.ensureBootstrapAdmin(ctx); err != nil {
		return nil, err
	}

	admin, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, models.ErrInvalidCredentials
	}
	return admin, nil
}

// ensureBootstrapAdmin creates the configured account when none exists.
func (s *AuthService) ensureBootstrapAdmin(ctx context.Context) error {
	s.bootstrapMu.Lock()
	defer s.bootstrapMu.Unlock()

	n, err := s.repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash := s.bootstrap.PasswordHash
	if hash == "" {
		b, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash default password: %w", err)
		}
		hash = string(b)
		s.log.Warn("created admin with the default password; change it from the settings page",
			zap.String("email", s.bootstrap.Email))
	}

	now := s.now().UTC()
	admin := &models.Admin{
		Base:         models.Base{ID: s.newID(), CreatedAt: now, UpdatedAt: now},
		Email:        normalizeEmail(s.bootstrap.Email),
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, admin); err != nil && !errors.Is(err, models.ErrConflict) {
		return fmt.Errorf("create bootstrap admin: %w", err)
	}
	s.log.Info("bootstrap admin created", zap.String("email", admin.Email))
	return nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	return s.dummyHash
}

// UpdateSettings changes the email and optionally the password of the admin
// with adminID after re-checking the current password.
func (s *AuthService) UpdateSettings(ctx context.Context, adminID string, upd models.SettingsUpdate) error {
	email := normalizeEmail(upd.Email)
	if email == "" || upd.CurrentPassword == "" {
		return validation.New("email", "Email and current password are required")
	}

	admin, err := s.repo.GetByID(ctx, adminID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(upd.CurrentPassword)) != nil {
		return validation.New("currentPassword", "Invalid current password")
	}

	if email != admin.Email {
		if _, err := s.repo.GetByEmail(ctx, email); err == nil {
			return validation.New("email", "Email already in use")
		} else if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		admin.Email = email
	}

	if upd.NewPassword != "" {
		if len(upd.NewPassword) < minPasswordLength {
			return validation.New("newPassword", fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
		}
		if len(upd.NewPassword) > maxPasswordBytes {
			return validation.New("newPassword", fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(upd.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		admin.PasswordHash = string(hash)
	}

	admin.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, admin); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return validation.New("email", "Email already in use")
		}
		return err
	}
	s.log.Info("admin settings updated", zap.String("admin_id", admin.ID))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
