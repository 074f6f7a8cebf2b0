package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/atinyakov/baristafolio/internal/models"
)

// PostgresMessageRepository stores contact form messages.
type PostgresMessageRepository struct {
	DB *sql.DB
}

// NewPostgresMessageRepository creates a PostgresMessageRepository on db.
func NewPostgresMessageRepository(db *sql.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{DB: db}
}

const messageColumns = `id, name, email, message, status, reply, replied_at, delivery_status, created_at, updated_at`

func scanMessage(s scanner) (models.Message, error) {
	var (
		m       models.Message
		replied sql.NullTime
	)
	err := s.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Status, &m.Reply, &replied,
		&m.DeliveryStatus, &m.CreatedAt, &m.UpdatedAt)
	m.RepliedAt = timePtr(replied)
	return m, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns messages newest first. An empty or "all" status matches every
// state; Search is matched case-insensitively as a literal substring of the
// name, email or message body.
func (r *PostgresMessageRepository) List(ctx context.Context, f models.MessageFilter) ([]models.Message, error) {
	var (
		where []string
		args  []any
	)
	if f.Status != "" && f.Status != "all" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+likeEscaper.Replace(search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d OR message ILIKE $%d)", n, n, n))
	}

	query := `SELECT ` + messageColumns + ` FROM messages`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	return queryAll(ctx, r.DB, scanMessage, query, args...)
}

// GetByID returns the message with id or models.ErrNotFound.
func (r *PostgresMessageRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	m, err := scanMessage(r.DB.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}

// Create inserts m.
func (r *PostgresMessageRepository) Create(ctx context.Context, m *models.Message) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO messages (`+messageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, m.ID, m.Name, m.Email, m.Message, m.Status, m.Reply, nullTime(m.RepliedAt),
		m.DeliveryStatus, m.CreatedAt, m.UpdatedAt)
	return mapError(err)
}

// Update writes the mutable fields of m: status, reply, reply time and delivery outcome.
func (r *PostgresMessageRepository) Update(ctx context.Context, m *models.Message) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE messages
		SET status = $2, reply = $3, replied_at = $4, delivery_status = $5, updated_at = $6
		WHERE id = $1
	`, m.ID, m.Status, m.Reply, nullTime(m.RepliedAt), m.DeliveryStatus, m.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

// Delete removes the message with id.
func (r *PostgresMessageRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, `DELETE FROM messages WHERE id = $1`, id)
}
