package imagehost

import (
	"context"

	"github.com/atinyakov/baristafolio/internal/breaker"
	"github.com/atinyakov/baristafolio/internal/metrics"
	"github.com/atinyakov/baristafolio/internal/models"
	"go.uber.org/zap"
)

// Guarded routes calls to another Host through a circuit breaker and
// records their outcome.
type Guarded struct {
	next    Host
	uploads *breaker.Breaker[models.Asset]
	deletes *breaker.Breaker[struct{}]
}

// NewGuarded wraps next.
func NewGuarded(next Host, log *zap.Logger) *Guarded {
	return &Guarded{
		next:    next,
		uploads: breaker.New[models.Asset](breaker.DefaultConfig("imagehost-upload"), log),
		deletes: breaker.New[struct{}](breaker.DefaultConfig("imagehost-delete"), log),
	}
}

// Upload implements Host.
func (g *Guarded) Upload(ctx context.Context, folder string, up *models.Upload) (models.Asset, error) {
	asset, err := g.uploads.Execute(func() (models.Asset, error) {
		return g.next.Upload(ctx, folder, up)
	})
	metrics.ObserveUpstream("imagehost", "upload", err)
	return asset, err
}

// Delete implements Host.
func (g *Guarded) Delete(ctx context.Context, assetID string) error {
	_, err := g.deletes.Execute(func() (struct{}, error) {
		return struct{}{}, g.next.Delete(ctx, assetID)
	})
	metrics.ObserveUpstream("imagehost", "delete", err)
	return err
}
