package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, "local", cfg.Storage.Backend)
	assert.Equal(t, 168*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, 5*time.Minute, cfg.Cache.CatalogTTL())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Empty(t, cfg.Diag.Key, "diagnostics disabled unless keyed")
}

func TestLoadRejectsUnknownStorageBackend(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_BACKEND", "ftp")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("S3_BUCKET", "books")
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "24")
	t.Setenv("DIAG_KEY", "operator-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, "books", cfg.Storage.S3.Bucket)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, "operator-key", cfg.Diag.Key)
}
