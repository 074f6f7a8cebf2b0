package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/baristafolio/internal/models"
	"go.uber.org/zap"
)

// AnalyticsService counts dashboard views.
type AnalyticsService interface {
	RecordDashboardView(ctx context.Context) (*models.DashboardStats, error)
}

// AnalyticsHandler serves GET /api/analytics. Every call counts as a visit.
type AnalyticsHandler struct {
	Service AnalyticsService
	Log     *zap.Logger
}

// Get records the visit and returns the dashboard summary.
func (h *AnalyticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.RecordDashboardView(r.Context())
	if err != nil {
		fail(w, h.Log, err, Labels{Title: "Analytics"}, "fetch", "analytics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
