package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_EXPIRE_DAYS", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("UPLOAD_PUBLIC_URL", "")

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "petshop", cfg.DBName)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "/api/images", cfg.UploadPublicURL)
	assert.Equal(t, devOrigins, cfg.AllowedOrigins)
	assert.False(t, cfg.TracingEnabled)
	assert.Error(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_EXPIRE_DAYS", "7")
	t.Setenv("FRONTEND_URL", "https://shop.example.com/, https://admin.example.com")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("UPLOAD_PUBLIC_URL", "https://cdn.example.com/images/")

	cfg := FromEnv()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.TracingEnabled)
	assert.Equal(t, "https://cdn.example.com/images", cfg.UploadPublicURL)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.AllowedOrigins[:2])
}

func TestFromEnvIgnoresInvalidDuration(t *testing.T) {
	t.Setenv("JWT_EXPIRE_DAYS", "-3")
	assert.Equal(t, 30*24*time.Hour, FromEnv().TokenTTL)

	t.Setenv("JWT_EXPIRE_DAYS", "abc")
	assert.Equal(t, 30*24*time.Hour, FromEnv().TokenTTL)
}

func TestValidateRequiresSecret(t *testing.T) {
	cfg := Config{MongoURI: "mongodb://localhost", TokenTTL: time.Hour}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
