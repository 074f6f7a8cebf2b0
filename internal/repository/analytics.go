package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atinyakov/baristafolio/internal/models"
)

// PostgresAnalyticsRepository keeps the singleton dashboard counter and
// aggregates collection sizes.
type PostgresAnalyticsRepository struct {
	DB *sql.DB
}

// NewPostgresAnalyticsRepository creates a PostgresAnalyticsRepository on db.
func NewPostgresAnalyticsRepository(db *sql.DB) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{DB: db}
}

// RecordVisit creates the counter on first use and increments it in one
// statement, so concurrent dashboard views never lose an increment.
func (r *PostgresAnalyticsRepository) RecordVisit(ctx context.Context, at time.Time) (int64, time.Time, error) {
	var (
		visits int64
		last   time.Time
	)
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO analytics (id, visits, last_visit, created_at, updated_at)
		VALUES (1, 1, $1, $1, $1)
		ON CONFLICT (id) DO UPDATE SET
			visits = analytics.visits + 1,
			last_visit = EXCLUDED.last_visit,
			updated_at = EXCLUDED.updated_at
		RETURNING visits, last_visit
	`, at).Scan(&visits, &last)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("record visit: %w", err)
	}
	return visits, last, nil
}

// Counts returns the size of the collections shown on the dashboard.
func (r *PostgresAnalyticsRepository) Counts(ctx context.Context) (models.ContentCounts, error) {
	var c models.ContentCounts
	err := r.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM videos),
			(SELECT COUNT(*) FROM gallery),
			(SELECT COUNT(*) FROM certificates),
			(SELECT COUNT(*) FROM messages),
			(SELECT COUNT(*) FROM messages WHERE status = 'new')
	`).Scan(&c.Videos, &c.Images, &c.Certificates, &c.Messages, &c.UnreadMessages)
	if err != nil {
		return models.ContentCounts{}, fmt.Errorf("count content: %w", err)
	}
	return c, nil
}
