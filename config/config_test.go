package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "service-account.json")
	t.Setenv("FIREBASE_DATABASE_URL", "https://example.firebaseio.com")
	t.Setenv("FIREBASE_STORAGE_BUCKET", "example.appspot.com")
	t.Setenv("ADMIN_UID", "admin-123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "service-account.json", cfg.ServiceAccount)
	assert.Equal(t, "admin-123", cfg.AdminUID)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.AllowSignUp)
	assert.Equal(t, 87600*time.Hour, cfg.SignedURLExpiry)
}

func TestLoadRequiresAdminUID(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "service-account.json")
	t.Setenv("ADMIN_UID", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_UID")
}

func TestLoadRequiresCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("ADMIN_UID", "admin-123")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_APPLICATION_CREDENTIALS")
}

func TestLoadSignupFlag(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "service-account.json")
	t.Setenv("ADMIN_UID", "admin-123")
	t.Setenv("ALLOW_SIGNUP", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.AllowSignUp)
}
