package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("PORT", "9090")
	v.Set("BANK_NAME", "Test Bank")
	v.Set("JWT_SECRET", "s3cret")
	v.Set("JWT_EXPIRY_DURATION", "1h")
	v.Set("LOCK_TIMEOUT", "250ms")
	v.Set("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example,")
	v.Set("SEED_SAMPLE_DATA", "true")

	cfg := fromViper(v)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "Test Bank", cfg.BankName)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, 250*time.Millisecond, cfg.LockTimeout)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SeedSampleData)
}

func TestFromViper_Fallbacks(t *testing.T) {
	v := viper.New()
	v.Set("LOCK_TIMEOUT", "soon")
	v.Set("JWT_EXPIRY_DURATION", "-5m")

	cfg := fromViper(v)

	assert.Equal(t, "8080", cfg.Port)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, "bank-ledger", cfg.JWTIssuer)
	assert.Equal(t, 2*time.Second, cfg.LockTimeout)
	assert.Equal(t, 15*time.Minute, cfg.JWTExpiryDuration)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("BANK_NAME", "Env Bank")
	t.Setenv("LOGIN_RATE_LIMIT", "10-H")

	cfg, err := LoadConfig()

	assert.NoError(t, err)
	assert.Equal(t, "Env Bank", cfg.BankName)
	assert.Equal(t, "10-H", cfg.LoginRateLimit)
	assert.Equal(t, 2*time.Second, cfg.LockTimeout)
}
