package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCertificateList_UndatedLast(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	date := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`ORDER BY date DESC NULLS LAST, created_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "image_url", "asset_id", "date", "created_at", "updated_at"}).
			AddRow("c1", "SCA Barista", "https://img/c1.jpg", "certificates/c1.jpg", date, now, now).
			AddRow("c2", "Latte art", "https://img/c2.jpg", "certificates/c2.jpg", nil, now, now))

	certs, err := NewPostgresCertificateRepository(db).List(context.Background())
	require.NoError(t, err)
	require.Len(t, certs, 2)
	require.NotNil(t, certs[0].Date)
	assert.Nil(t, certs[1].Date)
	assert.Equal(t, "certificates/c2.jpg", certs[1].AssetID)
}

func TestAssetQueueEnqueue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO asset_deletions .* ON CONFLICT \(asset_id\) DO UPDATE`).
		WithArgs("certificates/old.jpg", "timeout", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewPostgresAssetQueue(db).Enqueue(context.Background(), "certificates/old.jpg", errors.New("timeout"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGalleryDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM gallery WHERE id = \$1`).
		WithArgs("g1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPostgresGalleryRepository(db).Delete(context.Background(), "g1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
