package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/atinyakov/baristafolio/internal/models"
)

// PostgresAdminRepository stores administrator accounts.
type PostgresAdminRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAdminRepository creates a PostgresAdminRepository on db.
func NewPostgresAdminRepository(db *sql.DB) *PostgresAdminRepository {
	return &PostgresAdminRepository{DB: db}
}

// Count returns the number of administrator accounts.
func (r *PostgresAdminRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

// GetByEmail looks an administrator up by login.
func (r *PostgresAdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.get(ctx, `
		SELECT id, email, password_hash, created_at, updated_at FROM admins WHERE email = $1
	`, email)
}

// GetByID looks an administrator up by id.
func (r *PostgresAdminRepository) GetByID(ctx context.Context, id string) (*models.Admin, error) {
	return r.get(ctx, `
		SELECT id, email, password_hash, created_at, updated_at FROM admins WHERE id = $1
	`, id)
}

func (r *PostgresAdminRepository) get(ctx context.Context, query string, arg string) (*models.Admin, error) {
	var a models.Admin
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &a, nil
}

// Create inserts a. A duplicate email yields models.ErrConflict.
func (r *PostgresAdminRepository) Create(ctx context.Context, a *models.Admin) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, a.ID, a.Email, a.PasswordHash, a.CreatedAt, a.UpdatedAt)
	return mapError(err)
}

// Update writes the email and password hash of a.
func (r *PostgresAdminRepository) Update(ctx context.Context, a *models.Admin) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE admins SET email = $2, password_hash = $3, updated_at = $4 WHERE id = $1
	`, a.ID, a.Email, a.PasswordHash, a.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}
