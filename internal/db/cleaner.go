package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// AssetDeleter removes an image from the external host.
type AssetDeleter interface {
	Delete(ctx context.Context, assetID string) error
}

// StartAssetReaper retries queued image deletions every interval.
// Rows are queued when an image was replaced but the old asset could not be
// removed at the time. A successful delete drops the row; a failed one bumps
// attempts and keeps the last error for inspection. A non-positive
// interval disables the reaper.
func StartAssetReaper(
	ctx context.Context,
	db *sql.DB,
	deleter AssetDeleter,
	interval time.Duration,
	batch int,
	log *zap.Logger,
) {
	if interval <= 0 {
		log.Info("asset reaper disabled", zap.Duration("interval", interval))
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				reapAssets(ctx, db, deleter, batch, log)
			}
		}
	}()
}

func reapAssets(ctx context.Context, db *sql.DB, deleter AssetDeleter, batch int, log *zap.Logger) {
	rows, err := db.QueryContext(ctx, `
		SELECT asset_id FROM asset_deletions ORDER BY created_at LIMIT $1
	`, batch)
	if err != nil {
		log.Error("failed to load queued asset deletions", zap.Error(err))
		return
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan queued asset deletion", zap.Error(err))
			continue
		}
		ids = append(ids, id)
	}
	rows.Close()

	removed := 0
	for _, id := range ids {
		if err := deleter.Delete(ctx, id); err != nil {
			log.Warn("queued asset deletion failed", zap.String("asset_id", id), zap.Error(err))
			if _, uerr := db.ExecContext(ctx, `
				UPDATE asset_deletions SET attempts = attempts + 1, last_error = $2 WHERE asset_id = $1
			`, id, err.Error()); uerr != nil {
				log.Error("failed to record asset deletion attempt", zap.String("asset_id", id), zap.Error(uerr))
			}
			continue
		}
		if _, err := db.ExecContext(ctx, `DELETE FROM asset_deletions WHERE asset_id = $1`, id); err != nil {
			log.Error("failed to dequeue asset deletion", zap.String("asset_id", id), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Info("reaped orphaned assets", zap.Int("removed", removed))
	}
}
