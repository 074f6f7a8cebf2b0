package repository

import (
	"context"
	"database/sql"

	"github.com/atinyakov/baristafolio/internal/models"
)

// PostgresSkillRepository stores skills.
type PostgresSkillRepository struct {
	DB *sql.DB
}

// NewPostgresSkillRepository creates a PostgresSkillRepository on db.
func NewPostgresSkillRepository(db *sql.DB) *PostgresSkillRepository {
	return &PostgresSkillRepository{DB: db}
}

func scanSkill(s scanner) (models.Skill, error) {
	var sk models.Skill
	err := s.Scan(&sk.ID, &sk.Name, &sk.Order, &sk.Icon, &sk.CreatedAt, &sk.UpdatedAt)
	return sk, err
}

// List returns skills by display order, then name.
func (r *PostgresSkillRepository) List(ctx context.Context) ([]models.Skill, error) {
	return queryAll(ctx, r.DB, scanSkill, `
		SELECT id, name, sort_order, icon, created_at, updated_at
		FROM skills ORDER BY sort_order ASC, name ASC
	`)
}

// GetByID returns the skill with id or models.ErrNotFound.
func (r *PostgresSkillRepository) GetByID(ctx context.Context, id string) (*models.Skill, error) {
	sk, err := scanSkill(r.DB.QueryRowContext(ctx, `
		SELECT id, name, sort_order, icon, created_at, updated_at FROM skills WHERE id = $1
	`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &sk, nil
}

// Create inserts sk.
func (r *PostgresSkillRepository) Create(ctx context.Context, sk *models.Skill) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO skills (id, name, sort_order, icon, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, sk.ID, sk.Name, sk.Order, sk.Icon, sk.CreatedAt, sk.UpdatedAt)
	return mapError(err)
}

// Update replaces the stored fields of sk.
func (r *PostgresSkillRepository) Update(ctx context.Context, sk *models.Skill) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE skills SET name = $2, sort_order = $3, icon = $4, updated_at = $5 WHERE id = $1
	`, sk.ID, sk.Name, sk.Order, sk.Icon, sk.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

// Delete removes the skill with id.
func (r *PostgresSkillRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, `DELETE FROM skills WHERE id = $1`, id)
}

// PostgresCourseRepository stores courses.
type PostgresCourseRepository struct {
	DB *sql.DB
}

// NewPostgresCourseRepository creates a PostgresCourseRepository on db.
func NewPostgresCourseRepository(db *sql.DB) *PostgresCourseRepository {
	return &PostgresCourseRepository{DB: db}
}

func scanCourse(s scanner) (models.Course, error) {
	var c models.Course
	err := s.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// List returns courses newest first.
func (r *PostgresCourseRepository) List(ctx context.Context) ([]models.Course, error) {
	return queryAll(ctx, r.DB, scanCourse, `
		SELECT id, name, description, created_at, updated_at FROM courses ORDER BY created_at DESC
	`)
}

// GetByID returns the course with id or models.ErrNotFound.
func (r *PostgresCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	c, err := scanCourse(r.DB.QueryRowContext(ctx, `
		SELECT id, name, description, created_at, updated_at FROM courses WHERE id = $1
	`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// Create inserts c.
func (r *PostgresCourseRepository) Create(ctx context.Context, c *models.Course) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO courses (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
	return mapError(err)
}

// Update replaces the stored fields of c.
func (r *PostgresCourseRepository) Update(ctx context.Context, c *models.Course) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE courses SET name = $2, description = $3, updated_at = $4 WHERE id = $1
	`, c.ID, c.Name, c.Description, c.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

// Delete removes the course with id.
func (r *PostgresCourseRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, `DELETE FROM courses WHERE id = $1`, id)
}

// PostgresCareerRepository stores career timeline entries.
type PostgresCareerRepository struct {
	DB *sql.DB
}

// NewPostgresCareerRepository creates a PostgresCareerRepository on db.
func NewPostgresCareerRepository(db *sql.DB) *PostgresCareerRepository {
	return &PostgresCareerRepository{DB: db}
}

func scanCareer(s scanner) (models.Career, error) {
	var (
		c   models.Career
		end sql.NullTime
	)
	err := s.Scan(&c.ID, &c.Workplace, &c.Position, &c.StartDate, &end, &c.IsCurrent, &c.CreatedAt, &c.UpdatedAt)
	c.EndDate = timePtr(end)
	return c, err
}

// List returns the timeline with the most recent start first.
func (r *PostgresCareerRepository) List(ctx context.Context) ([]models.Career, error) {
	return queryAll(ctx, r.DB, scanCareer, `
		SELECT id, workplace, position, start_date, end_date, is_current, created_at, updated_at
		FROM career ORDER BY start_date DESC
	`)
}

// GetByID returns the entry with id or models.ErrNotFound.
func (r *PostgresCareerRepository) GetByID(ctx context.Context, id string) (*models.Career, error) {
	c, err := scanCareer(r.DB.QueryRowContext(ctx, `
		SELECT id, workplace, position, start_date, end_date, is_current, created_at, updated_at
		FROM career WHERE id = $1
	`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

// Create inserts c.
func (r *PostgresCareerRepository) Create(ctx context.Context, c *models.Career) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO career (id, workplace, position, start_date, end_date, is_current, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.Workplace, c.Position, c.StartDate, nullTime(c.EndDate), c.IsCurrent, c.CreatedAt, c.UpdatedAt)
	return mapError(err)
}

// Update replaces the stored fields of c.
func (r *PostgresCareerRepository) Update(ctx context.Context, c *models.Career) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE career
		SET workplace = $2, position = $3, start_date = $4, end_date = $5, is_current = $6, updated_at = $7
		WHERE id = $1
	`, c.ID, c.Workplace, c.Position, c.StartDate, nullTime(c.EndDate), c.IsCurrent, c.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

// Delete removes the entry with id.
func (r *PostgresCareerRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, `DELETE FROM career WHERE id = $1`, id)
}

// PostgresVideoRepository stores videos.
type PostgresVideoRepository struct {
	DB *sql.DB
}

// NewPostgresVideoRepository creates a PostgresVideoRepository on db.
func NewPostgresVideoRepository(db *sql.DB) *PostgresVideoRepository {
	return &PostgresVideoRepository{DB: db}
}

func scanVideo(s scanner) (models.Video, error) {
	var v models.Video
	err := s.Scan(&v.ID, &v.Title, &v.Description, &v.URL, &v.EmbedType, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

// List returns videos newest first.
func (r *PostgresVideoRepository) List(ctx context.Context) ([]models.Video, error) {
	return queryAll(ctx, r.DB, scanVideo, `
		SELECT id, title, description, url, embed_type, created_at, updated_at
		FROM videos ORDER BY created_at DESC
	`)
}

// GetByID returns the video with id or models.ErrNotFound.
func (r *PostgresVideoRepository) GetByID(ctx context.Context, id string) (*models.Video, error) {
	v, err := scanVideo(r.DB.QueryRowContext(ctx, `
		SELECT id, title, description, url, embed_type, created_at, updated_at FROM videos WHERE id = $1
	`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &v, nil
}

// Create inserts v.
func (r *PostgresVideoRepository) Create(ctx context.Context, v *models.Video) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO videos (id, title, description, url, embed_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, v.ID, v.Title, v.Description, v.URL, v.EmbedType, v.CreatedAt, v.UpdatedAt)
	return mapError(err)
}

// Update replaces the stored fields of v.
func (r *PostgresVideoRepository) Update(ctx context.Context, v *models.Video) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE videos SET title = $2, description = $3, url = $4, embed_type = $5, updated_at = $6
		WHERE id = $1
	`, v.ID, v.Title, v.Description, v.URL, v.EmbedType, v.UpdatedAt)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}

// Delete removes the video with id.
func (r *PostgresVideoRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.DB, `DELETE FROM videos WHERE id = $1`, id)
}

func deleteByID(ctx context.Context, db *sql.DB, query, id string) error {
	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(res)
}
