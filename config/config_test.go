package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"JWT_SECRET": "s3cret"}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, float64(1200), cfg.DefaultRate)
	assert.Equal(t, 0.12, cfg.SurchargeRate)
	assert.Equal(t, float64(1500), cfg.PriceTable["Niladri"])
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, []byte("s3cret"), cfg.Secret)
}

func TestFromEnv_EmptyEnvironmentNeedsSecret(t *testing.T) {
	_, err := FromEnv(env(nil))
	assert.Error(t, err)

	_, err = FromEnv(env(map[string]string{"APP_ENV": "staging"}))
	assert.Error(t, err)
}

func TestFromEnv_DevelopmentSecretOnlyWhenAsked(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"APP_ENV": "development"}))
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())
	assert.NotEmpty(t, cfg.Secret)
}

func TestFromEnv_ProductionNeedsSecret(t *testing.T) {
	_, err := FromEnv(env(map[string]string{"APP_ENV": "production"}))
	assert.Error(t, err)

	cfg, err := FromEnv(env(map[string]string{"APP_ENV": "production", "JWT_SECRET": "s3cret", "PORT": "9000"}))
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), cfg.Secret)
	assert.Equal(t, ":9000", cfg.Port)
}

func TestParsePriceTable(t *testing.T) {
	table, err := ParsePriceTable("Puri:2000, Patia:1300")
	require.NoError(t, err)
	assert.Equal(t, float64(2000), table["Puri"])
	assert.Equal(t, float64(1300), table["Patia"])
	assert.Equal(t, float64(1500), table["Niladri"])

	// defaults untouched
	assert.Equal(t, float64(1200), DefaultPriceTable["Patia"])

	_, err = ParsePriceTable("Puri")
	assert.Error(t, err)
	_, err = ParsePriceTable("Puri:-5")
	assert.Error(t, err)
}

func TestFromEnv_AllowedOrigins(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"JWT_SECRET": "s3cret", "ALLOWED_ORIGINS": "https://a.example, https://b.example,"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}
