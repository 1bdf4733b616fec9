package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Challenge.MaxAttempts)
	assert.Equal(t, 3*time.Minute, cfg.Challenge.SessionTTL)
	assert.Equal(t, 30*time.Second, cfg.Challenge.DeliveryTimeout)
	assert.Equal(t, "Fyntrix", cfg.Challenge.Brand)
	assert.True(t, cfg.Challenge.AutoProvision)
	assert.Equal(t, "IN", cfg.Challenge.DefaultRegion)
	assert.Equal(t, DeliveryProviderSNS, cfg.Delivery.Provider)
	assert.Equal(t, "Transactional", cfg.Delivery.SMSType)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", testSecret)
	t.Setenv("CHALLENGE_MAX_ATTEMPTS", "5")
	t.Setenv("CHALLENGE_SESSION_TTL", "90s")
	t.Setenv("CHALLENGE_AUTO_PROVISION", "false")
	t.Setenv("DELIVERY_PROVIDER", "log")
	t.Setenv("TRIGGER_SHARED_KEY", "k")
	t.Setenv("PHONE_DEFAULT_REGION", "br")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Challenge.MaxAttempts)
	assert.Equal(t, 90*time.Second, cfg.Challenge.SessionTTL)
	assert.False(t, cfg.Challenge.AutoProvision)
	assert.Equal(t, DeliveryProviderLog, cfg.Delivery.Provider)
	assert.Equal(t, "k", cfg.Triggers.SharedKey)
	assert.Equal(t, "BR", cfg.Challenge.DefaultRegion)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantMsg string
	}{
		{
			name:    "missing secret",
			env:     map[string]string{},
			wantMsg: "JWT_SECRET_KEY environment variable is required",
		},
		{
			name:    "short secret",
			env:     map[string]string{"JWT_SECRET_KEY": "short"},
			wantMsg: "at least 32 bytes",
		},
		{
			name:    "zero attempts",
			env:     map[string]string{"JWT_SECRET_KEY": testSecret, "CHALLENGE_MAX_ATTEMPTS": "0"},
			wantMsg: "CHALLENGE_MAX_ATTEMPTS",
		},
		{
			name:    "unknown provider",
			env:     map[string]string{"JWT_SECRET_KEY": testSecret, "DELIVERY_PROVIDER": "pigeon"},
			wantMsg: "unknown DELIVERY_PROVIDER",
		},
		{
			name:    "unknown region",
			env:     map[string]string{"JWT_SECRET_KEY": testSecret, "PHONE_DEFAULT_REGION": "XX"},
			wantMsg: "unknown PHONE_DEFAULT_REGION",
		},
		{
			name:    "http provider without key",
			env:     map[string]string{"JWT_SECRET_KEY": testSecret, "DELIVERY_PROVIDER": "http"},
			wantMsg: "SMS_HTTP_API_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET_KEY", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantMsg), err.Error())
		})
	}
}
