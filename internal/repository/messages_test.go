package repository

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var messageRowColumns = []string{
	"id", "name", "email", "message", "status", "reply", "replied_at", "delivery_status", "created_at", "updated_at",
}

func TestMessageList_Filters(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		filter  models.MessageFilter
		pattern string
		args    []driver.Value
	}{
		{
			name:    "no filter",
			filter:  models.MessageFilter{},
			pattern: `FROM messages ORDER BY created_at DESC`,
		},
		{
			name:    "all status",
			filter:  models.MessageFilter{Status: "all"},
			pattern: `FROM messages ORDER BY created_at DESC`,
		},
		{
			name:    "status only",
			filter:  models.MessageFilter{Status: "new"},
			pattern: `FROM messages WHERE status = \$1 ORDER BY`,
			args:    []driver.Value{"new"},
		},
		{
			name:    "status and escaped search",
			filter:  models.MessageFilter{Status: "read", Search: " 50%_off "},
			pattern: `WHERE status = \$1 AND \(name ILIKE \$2 OR email ILIKE \$2 OR message ILIKE \$2\)`,
			args:    []driver.Value{"read", `%50\%\_off%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			q := mock.ExpectQuery(tt.pattern)
			if len(tt.args) > 0 {
				q = q.WithArgs(tt.args...)
			}
			q.WillReturnRows(sqlmock.NewRows(messageRowColumns).
				AddRow("m1", "Ann", "ann@example.com", "hi", "new", "", nil, "", now, now))

			msgs, err := NewPostgresMessageRepository(db).List(context.Background(), tt.filter)
			require.NoError(t, err)
			require.Len(t, msgs, 1)
			assert.Equal(t, models.StatusNew, msgs[0].Status)
			assert.Nil(t, msgs[0].RepliedAt)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMessageUpdate_WritesReply(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	m := &models.Message{
		Base:   models.Base{ID: "m1", UpdatedAt: now},
		Status: models.StatusReplied, Reply: "Thanks!", RepliedAt: &now, DeliveryStatus: models.DeliverySent,
	}
	mock.ExpectExec("UPDATE messages").
		WithArgs("m1", models.StatusReplied, "Thanks!", sqlmock.AnyArg(), models.DeliverySent, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewPostgresMessageRepository(db).Update(context.Background(), m))
	assert.NoError(t, mock.ExpectationsWereMet())
}
