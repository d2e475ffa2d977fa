package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "jwt", cfg.AuthProvider)
	assert.Equal(t, "remote", cfg.PaymentMode)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10000.0, cfg.PaymentMaxAmount)
	assert.False(t, cfg.EmailEnabled())
}

func TestFromEnv_TrimsBaseURL(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("API_BASE_URL", "http://api.local:9000/")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://api.local:9000", cfg.APIBaseURL)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing jwt secret", map[string]string{"AUTH_PROVIDER": "jwt", "JWT_SECRET": ""}},
		{"unknown provider", map[string]string{"AUTH_PROVIDER": "saml", "JWT_SECRET": "x"}},
		{"unknown payment mode", map[string]string{"JWT_SECRET": "x", "PAYMENT_MODE": "cash"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnv_FirebaseNeedsNoSecret(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "firebase")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PAYMENT_MAX_AMOUNT", "250.5")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 250.5, cfg.PaymentMaxAmount)
}
