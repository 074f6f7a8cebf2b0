package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SERVER_ADDRESS", ":9000")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SMTP_PORT", "465")

	opts, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":9000", opts.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, opts.AllowedOrigins)
	assert.Equal(t, 2*time.Hour, opts.Session.TTL)
	assert.Equal(t, 465, opts.SMTP.Port)
	assert.Equal(t, "admin@barista.com", opts.Admin.Email)
	assert.Equal(t, 5, opts.ContactRateLimit)
}

func TestLoad_FlagsWinOverEnv(t *testing.T) {
	t.Setenv("CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SERVER_ADDRESS", ":9000")

	opts, err := Load([]string{"-a", ":7000", "-d", "postgres://x"})
	require.NoError(t, err)
	assert.Equal(t, ":7000", opts.Port)
	assert.Equal(t, "postgres://x", opts.DatabaseDSN)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"address":":6000","session":{"secret":"from-file"},"storage":{"bucket":"media"}}`), 0o600))
	t.Setenv("CONFIG", "")

	opts, err := Load([]string{"-c", path})
	require.NoError(t, err)
	assert.Equal(t, ":6000", opts.Port)
	assert.Equal(t, "from-file", opts.Session.Secret)
	assert.Equal(t, "media", opts.Storage.Bucket)
}

func TestLoad_RequiresSessionSecret(t *testing.T) {
	t.Setenv("CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("SESSION_SECRET", "")

	_, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_BadNumber(t *testing.T) {
	t.Setenv("CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("CONTACT_RATE_LIMIT", "lots")

	_, err := Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CONTACT_RATE_LIMIT")
}

func TestLoad_RejectsBadLimits(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"MAX_UPLOAD_BYTES", "0", "MAX_UPLOAD_BYTES must be positive"},
		{"MAX_UPLOAD_BYTES", "-1", "MAX_UPLOAD_BYTES must be positive"},
		{"ASSET_REAPER_INTERVAL", "-1m", "ASSET_REAPER_INTERVAL must not be negative"},
		{"CONTACT_RATE_LIMIT", "-3", "CONTACT_RATE_LIMIT must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv("CONFIG", filepath.Join(t.TempDir(), "missing.json"))
			t.Setenv("SESSION_SECRET", "s3cret")
			t.Setenv(tt.key, tt.value)

			_, err := Load(nil)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestLoad_ZeroReaperIntervalAllowed(t *testing.T) {
	t.Setenv("CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("ASSET_REAPER_INTERVAL", "0s")

	opts, err := Load(nil)
	require.NoError(t, err)
	assert.Zero(t, opts.AssetReaperInterval)
}

func TestLoad_TrustProxy(t *testing.T) {
	t.Setenv("CONFIG", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("SESSION_SECRET", "s3cret")

	opts, err := Load(nil)
	require.NoError(t, err)
	assert.False(t, opts.TrustProxy)

	t.Setenv("TRUST_PROXY", "true")
	opts, err = Load(nil)
	require.NoError(t, err)
	assert.True(t, opts.TrustProxy)
}

func TestLoad_ConfigFileDurations(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantTTL    time.Duration
		wantReaper time.Duration
		wantErr    bool
	}{
		{
			name:       "strings",
			body:       `{"session":{"secret":"s","ttl":"720h"},"asset_reaper_interval":"1h"}`,
			wantTTL:    720 * time.Hour,
			wantReaper: time.Hour,
		},
		{
			name:       "nanoseconds",
			body:       `{"session":{"secret":"s","ttl":7200000000000},"asset_reaper_interval":60000000000}`,
			wantTTL:    2 * time.Hour,
			wantReaper: time.Minute,
		},
		{
			name:       "absent keeps defaults",
			body:       `{"session":{"secret":"s"}}`,
			wantTTL:    30 * 24 * time.Hour,
			wantReaper: time.Hour,
		},
		{
			name:    "bad string",
			body:    `{"session":{"secret":"s","ttl":"a month"}}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))
			t.Setenv("CONFIG", "")

			opts, err := Load([]string{"-c", path})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "error while parsing config file")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "s", opts.Session.Secret)
			assert.Equal(t, tt.wantTTL, opts.Session.TTL)
			assert.Equal(t, tt.wantReaper, opts.AssetReaperInterval)
		})
	}
}
