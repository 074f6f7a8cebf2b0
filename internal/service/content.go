// Package service holds the portfolio business rules: content CRUD with
// defaults and validation, the media lifecycle coupled to the image host,
// the message state machine, dashboard analytics and admin accounts.
package service

import (
	"context"
	"time"

	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/atinyakov/baristafolio/internal/validation"
	"github.com/google/uuid"
)

// ContentRepository is the persistence a plain content collection needs.
type ContentRepository[T any] interface {
	List(ctx context.Context) ([]T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id string) error
}

// normalizer is implemented by documents that fix up derived fields
// before validation, such as Career clearing the end date of a current job.
type normalizer interface {
	Normalize()
}

// ContentService implements list, create, update and delete for a
// collection whose documents have no external side effects.
type ContentService[T any, P models.Patch[T], PT models.DocumentPtr[T]] struct {
	repo     ContentRepository[T]
	defaults T
	now      func() time.Time
	newID    func() string
}

// NewContentService returns a service storing through repo. defaults is
// copied into every new document before the client fields are applied.
func NewContentService[T any, P models.Patch[T], PT models.DocumentPtr[T]](
	repo ContentRepository[T],
	defaults T,
) *ContentService[T, P, PT] {
	return &ContentService[T, P, PT]{
		repo:     repo,
		defaults: defaults,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Concrete services of the four plain collections.
type (
	SkillService  = ContentService[models.Skill, models.SkillPatch, *models.Skill]
	CourseService = ContentService[models.Course, models.CoursePatch, *models.Course]
	CareerService = ContentService[models.Career, models.CareerPatch, *models.Career]
	VideoService  = ContentService[models.Video, models.VideoPatch, *models.Video]
)

// NewSkillService returns the skill service.
func NewSkillService(repo ContentRepository[models.Skill]) *SkillService {
	return NewContentService[models.Skill, models.SkillPatch, *models.Skill](repo, models.SkillDefaults)
}

// NewCourseService returns the course service.
func NewCourseService(repo ContentRepository[models.Course]) *CourseService {
	return NewContentService[models.Course, models.CoursePatch, *models.Course](repo, models.CourseDefaults)
}

// NewCareerService returns the career service.
func NewCareerService(repo ContentRepository[models.Career]) *CareerService {
	return NewContentService[models.Career, models.CareerPatch, *models.Career](repo, models.CareerDefaults)
}

// NewVideoService returns the video service.
func NewVideoService(repo ContentRepository[models.Video]) *VideoService {
	return NewContentService[models.Video, models.VideoPatch, *models.Video](repo, models.VideoDefaults)
}

// List returns the whole collection in its display order.
func (s *ContentService[T, P, PT]) List(ctx context.Context) ([]T, error) {
	return s.repo.List(ctx)
}

// Create applies patch over the defaults, validates the result and stores it.
func (s *ContentService[T, P, PT]) Create(ctx context.Context, patch P) (*T, error) {
	item := s.defaults
	patch.Apply(&item)
	if err := prepare(PT(&item)); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	meta := PT(&item).Meta()
	meta.ID = s.newID()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if err := s.repo.Create(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Update merges patch into the stored document and validates the merged
// record, so a partial update can never leave a required field empty.
func (s *ContentService[T, P, PT]) Update(ctx context.Context, id string, patch P) (*T, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(item)
	if err := prepare(PT(item)); err != nil {
		return nil, err
	}
	PT(item).Meta().UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the document with id.
func (s *ContentService[T, P, PT]) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func prepare(doc models.Document) error {
	if n, ok := doc.(normalizer); ok {
		n.Normalize()
	}
	return validation.Struct(doc)
}
