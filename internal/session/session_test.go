package session

import (
	"testing"
	"time"

	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m, err := NewManager("secret", time.Hour)
	require.NoError(t, err)

	token, sess, err := m.Issue(&models.Admin{Base: models.Base{ID: "a1"}, Email: "admin@barista.com"})
	require.NoError(t, err)
	assert.Equal(t, "a1", sess.AdminID)

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a1", got.AdminID)
	assert.Equal(t, "admin@barista.com", got.Email)
}

func TestVerify_Rejects(t *testing.T) {
	m, err := NewManager("secret", time.Hour)
	require.NoError(t, err)
	other, err := NewManager("other", time.Hour)
	require.NoError(t, err)

	forged, _, err := other.Issue(&models.Admin{Base: models.Base{ID: "a1"}})
	require.NoError(t, err)

	expiredMgr, err := NewManager("secret", time.Hour)
	require.NoError(t, err)
	expiredMgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiredMgr.Issue(&models.Admin{Base: models.Base{ID: "a1"}})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", forged},
		{"expired", expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)
			assert.ErrorIs(t, err, models.ErrUnauthorized)
		})
	}
}

func TestNewManager_EmptySecret(t *testing.T) {
	_, err := NewManager("", time.Hour)
	assert.Error(t, err)
}
