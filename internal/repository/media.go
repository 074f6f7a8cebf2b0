package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/atinyakov/baristafolio/internal/models"
)

// PostgresCertificateRepository stores certificate records. The images
// themselves live on the image host.
type PostgresCertificateRepository struct {
	DB *sql.DB
}

// NewPostgresCertificateRepository creates a PostgresCertificateRepository on db.
func NewPostgresCertificateRepository(db *sql.DB) *PostgresCertificateRepository {
	return &PostgresCertificateRepository{DB: db}
}

func scanCertificate(s scanner) (models.Certificate, error) {
	var (
		c    models.Certificate
		date sql.NullTime
	)
	err := s.Scan(&c.ID, &c.Title, &c.ImageURL, &c.AssetID, &date, &c.CreatedAt, &c.UpdatedAt)
	c.Date = timePtr(date)
	return c, err
}

// List returns certificates by date, undated ones last, newest upload first
// within the same date.
func (r *PostgresCertificateRepository) List(ctx context.Context) ([]models.Certificate, error) {
	return queryAll(ctx, r.DB, scanCertificate, `
		SELECT id, title, image_url, asset_id, date, created_at, updated_at
		FROM certificates ORDER BY date DESC NULLS LAST, created_at DESC
	`)
}

// GetByID returns the certificate with id or models.ErrNotFound.
func (r *PostgresCertificateRepository) GetByID(ctx context.Context, id string) (*models.Certificate, error) {
	c, err := scanCertificate(r.DB.QueryRowContext(ctx, `
		SELECT id, title, image_url, asset_id, date, created_at, updated_at
		FROM certificates WHERE id = $1
	`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// Create inserts c.
func (r *PostgresCertificateRepository) Create(ctx context.Context, c *models.Certificate) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO certificates (id, title, image_url, asset_id, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.Title, c.ImageURL, c.AssetID, nullTime(c.Date), c.CreatedAt, c.UpdatedAt)
	return mapError(err)
}

// Update replaces the stored fields of c.
func (r *PostgresCertificateRepository) Update(ctx context.Context, c *models.Certificate) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE certificates
		SET title = $2, image_url = $3, asset_id = $4, date = $5, updated_at = $6
		WHERE id = $1
	`, c.ID, c.Title, c.ImageURL, c.AssetID, nullTime(c.Date), c.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

// Delete removes the certificate record with id.
func (r *PostgresCertificateRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, `DELETE FROM certificates WHERE id = $1`, id)
}

// PostgresGalleryRepository stores gallery records.
type PostgresGalleryRepository struct {
	DB *sql.DB
}

// NewPostgresGalleryRepository creates a PostgresGalleryRepository on db.
func NewPostgresGalleryRepository(db *sql.DB) *PostgresGalleryRepository {
	return &PostgresGalleryRepository{DB: db}
}

func scanGalleryItem(s scanner) (models.GalleryItem, error) {
	var g models.GalleryItem
	err := s.Scan(&g.ID, &g.Title, &g.ImageURL, &g.AssetID, &g.CreatedAt, &g.UpdatedAt)
	return g, err
}

// List returns gallery items newest first.
func (r *PostgresGalleryRepository) List(ctx context.Context) ([]models.GalleryItem, error) {
	return queryAll(ctx, r.DB, scanGalleryItem, `
		SELECT id, title, image_url, asset_id, created_at, updated_at
		FROM gallery ORDER BY created_at DESC
	`)
}

// GetByID returns the item with id or models.ErrNotFound.
func (r *PostgresGalleryRepository) GetByID(ctx context.Context, id string) (*models.GalleryItem, error) {
	g, err := scanGalleryItem(r.DB.QueryRowContext(ctx, `
		SELECT id, title, image_url, asset_id, created_at, updated_at FROM gallery WHERE id = $1
	`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &g, nil
}

// Create inserts g.
func (r *PostgresGalleryRepository) Create(ctx context.Context, g *models.GalleryItem) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO gallery (id, title, image_url, asset_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, g.ID, g.Title, g.ImageURL, g.AssetID, g.CreatedAt, g.UpdatedAt)
	return mapError(err)
}

// Delete removes the item record with id.
func (r *PostgresGalleryRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, `DELETE FROM gallery WHERE id = $1`, id)
}

// PostgresAssetQueue records image host deletions that must be retried.
type PostgresAssetQueue struct {
	DB *sql.DB
}

// NewPostgresAssetQueue creates a PostgresAssetQueue on db.
func NewPostgresAssetQueue(db *sql.DB) *PostgresAssetQueue {
	return &PostgresAssetQueue{DB: db}
}

// Enqueue schedules assetID for deletion. Enqueuing the same asset twice
// keeps a single row and refreshes its last error.
func (q *PostgresAssetQueue) Enqueue(ctx context.Context, assetID string, cause error) error {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	_, err := q.DB.ExecContext(ctx, `
		INSERT INTO asset_deletions (asset_id, attempts, last_error, created_at)
		VALUES ($1, 0, $2, $3)
		ON CONFLICT (asset_id) DO UPDATE SET last_error = EXCLUDED.last_error
	`, assetID, reason, time.Now().UTC())
	return err
}
