package service

import (
	"context"
	"time"

	"github.com/atinyakov/baristafolio/internal/metrics"
	"github.com/atinyakov/baristafolio/internal/models"
)

// AnalyticsRepository increments the visit counter and counts collections.
type AnalyticsRepository interface {
	RecordVisit(ctx context.Context, at time.Time) (int64, time.Time, error)
	Counts(ctx context.Context) (models.ContentCounts, error)
}

// AnalyticsService builds the dashboard summary.
type AnalyticsService struct {
	repo AnalyticsRepository
	now  func() time.Time
}

// NewAnalyticsService constructs an AnalyticsService.
func NewAnalyticsService(repo AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{repo: repo, now: time.Now}
}

// RecordDashboardView counts one dashboard view and returns the summary.
func (s *AnalyticsService) RecordDashboardView(ctx context.Context) (*models.DashboardStats, error) {
	visits, last, err := s.repo.RecordVisit(ctx, s.now().UTC())
	if err != nil {
		return nil, err
	}
	metrics.DashboardVisitsTotal.Inc()

	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &models.DashboardStats{
		Visits:         visits,
		Videos:         counts.Videos,
		Images:         counts.Images,
		Certificates:   counts.Certificates,
		Messages:       counts.Messages,
		UnreadMessages: counts.UnreadMessages,
		LastVisit:      last,
	}, nil
}
