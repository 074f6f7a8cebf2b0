package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/atinyakov/baristafolio/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ImageHost stores and removes uploaded images.
type ImageHost interface {
	Upload(ctx context.Context, folder string, up *models.Upload) (models.Asset, error)
	Delete(ctx context.Context, assetID string) error
}

// AssetQueue remembers image deletions to retry later.
type AssetQueue interface {
	Enqueue(ctx context.Context, assetID string, cause error) error
}

// CertificateRepository is the persistence of certificate records.
type CertificateRepository interface {
	ContentRepository[models.Certificate]
}

// GalleryRepository is the persistence of gallery records.
type GalleryRepository interface {
	List(ctx context.Context) ([]models.GalleryItem, error)
	GetByID(ctx context.Context, id string) (*models.GalleryItem, error)
	Create(ctx context.Context, item *models.GalleryItem) error
	Delete(ctx context.Context, id string) error
}

// CertificateService keeps certificate records and their hosted images in step.
type CertificateService struct {
	repo   CertificateRepository
	images ImageHost
	queue  AssetQueue
	log    *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewCertificateService constructs a CertificateService.
func NewCertificateService(repo CertificateRepository, images ImageHost, queue AssetQueue, log *zap.Logger) *CertificateService {
	return &CertificateService{
		repo:   repo,
		images: images,
		queue:  queue,
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// List returns certificates, most recent date first.
func (s *CertificateService) List(ctx context.Context) ([]models.Certificate, error) {
	return s.repo.List(ctx)
}

// Create uploads the image and stores the record. If the record cannot be
// stored the fresh image is removed again.
func (s *CertificateService) Create(ctx context.Context, in models.CertificateInput) (*models.Certificate, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.Image == nil {
		return nil, validation.New("image", "Title and image are required")
	}

	asset, err := s.images.Upload(ctx, models.CertificateFolder, in.Image)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	cert := &models.Certificate{
		Base:     models.Base{ID: s.newID(), CreatedAt: now, UpdatedAt: now},
		Title:    title,
		ImageURL: asset.URL,
		AssetID:  asset.ID,
	}
	if !in.Date.IsZero() {
		d := in.Date
		cert.Date = &d
	}
	if err := s.store(ctx, cert, s.repo.Create); err != nil {
		s.discard(ctx, asset.ID, err)
		return nil, err
	}
	return cert, nil
}

// Update changes title and date and optionally swaps the image. The new
// image is uploaded and persisted before the old one is deleted; an old
// image that cannot be deleted is queued for the asset reaper.
func (s *CertificateService) Update(ctx context.Context, id string, in models.CertificateInput) (*models.Certificate, error) {
	cert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		cert.Title = title
	}
	if !in.Date.IsZero() {
		d := in.Date
		cert.Date = &d
	}

	var oldAsset string
	if in.Image != nil {
		asset, err := s.images.Upload(ctx, models.CertificateFolder, in.Image)
		if err != nil {
			return nil, err
		}
		oldAsset = cert.AssetID
		cert.ImageURL = asset.URL
		cert.AssetID = asset.ID
	}
	cert.UpdatedAt = s.now().UTC()

	if err := s.store(ctx, cert, s.repo.Update); err != nil {
		if oldAsset != "" {
			s.discard(ctx, cert.AssetID, err)
		}
		return nil, err
	}

	if oldAsset != "" {
		if err := s.images.Delete(ctx, oldAsset); err != nil {
			s.log.Warn("failed to delete replaced certificate image",
				zap.String("certificate_id", cert.ID),
				zap.String("asset_id", oldAsset),
				zap.Error(err),
			)
			if qerr := s.queue.Enqueue(ctx, oldAsset, err); qerr != nil {
				s.log.Error("failed to queue orphaned image", zap.String("asset_id", oldAsset), zap.Error(qerr))
			}
		}
	}
	return cert, nil
}

// Delete removes the hosted image first and then the record. When the image
// cannot be removed the record is kept and the error returned.
func (s *CertificateService) Delete(ctx context.Context, id string) error {
	cert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.images.Delete(ctx, cert.AssetID); err != nil {
		return fmt.Errorf("delete certificate image: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *CertificateService) store(ctx context.Context, cert *models.Certificate, write func(context.Context, *models.Certificate) error) error {
	if err := validation.Struct(cert); err != nil {
		return err
	}
	return write(ctx, cert)
}

// discard removes an image whose record was never stored.
func (s *CertificateService) discard(ctx context.Context, assetID string, cause error) {
	discardAsset(ctx, s.images, s.queue, s.log, assetID, cause)
}

// GalleryService keeps gallery records and their hosted images in step.
type GalleryService struct {
	repo   GalleryRepository
	images ImageHost
	queue  AssetQueue
	log    *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewGalleryService constructs a GalleryService.
func NewGalleryService(repo GalleryRepository, images ImageHost, queue AssetQueue, log *zap.Logger) *GalleryService {
	return &GalleryService{
		repo:   repo,
		images: images,
		queue:  queue,
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// List returns gallery items newest first.
func (s *GalleryService) List(ctx context.Context) ([]models.GalleryItem, error) {
	return s.repo.List(ctx)
}

// Create uploads the image and stores the record.
func (s *GalleryService) Create(ctx context.Context, title string, image *models.Upload) (*models.GalleryItem, error) {
	title = strings.TrimSpace(title)
	if title == "" || image == nil {
		return nil, validation.New("image", "Title and image are required")
	}

	asset, err := s.images.Upload(ctx, models.GalleryFolder, image)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	item := &models.GalleryItem{
		Base:     models.Base{ID: s.newID(), CreatedAt: now, UpdatedAt: now},
		Title:    title,
		ImageURL: asset.URL,
		AssetID:  asset.ID,
	}
	if err := validation.Struct(item); err != nil {
		discardAsset(ctx, s.images, s.queue, s.log, asset.ID, err)
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		discardAsset(ctx, s.images, s.queue, s.log, asset.ID, err)
		return nil, err
	}
	return item, nil
}

// Delete removes the hosted image first and then the record.
func (s *GalleryService) Delete(ctx context.Context, id string) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.images.Delete(ctx, item.AssetID); err != nil {
		return fmt.Errorf("delete gallery image: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func discardAsset(ctx context.Context, images ImageHost, queue AssetQueue, log *zap.Logger, assetID string, cause error) {
	log.Warn("discarding uploaded image after failed write", zap.String("asset_id", assetID), zap.Error(cause))
	if err := images.Delete(ctx, assetID); err != nil {
		if qerr := queue.Enqueue(ctx, assetID, err); qerr != nil {
			log.Error("failed to queue orphaned image", zap.String("asset_id", assetID), zap.Error(qerr))
		}
	}
}
