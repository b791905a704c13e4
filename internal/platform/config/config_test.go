package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, 15*time.Second, cfg.NotifyDispatchTimeout)
	assert.Equal(t, NotifyProviderLog, cfg.NotifyProvider)
	assert.Equal(t, 3, cfg.LifecycleMaxRetries)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"CORS_ALLOWED_ORIGINS":   "https://a.example, https://b.example ,",
		"JWT_EXPIRY_DURATION":    "not-a-duration",
		"LIFECYCLE_MAX_RETRIES":  0,
		"NOTIFY_PROVIDER":        "WhatsApp",
		"WHATSAPP_API_URL":       "https://wa.example/messages",
		"WHATSAPP_TOKEN_URL":     "https://wa.example/token",
		"WHATSAPP_CLIENT_ID":     "id",
		"WHATSAPP_CLIENT_SECRET": "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 12*time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, 3, cfg.LifecycleMaxRetries)
	assert.Equal(t, NotifyProviderWhatsApp, cfg.NotifyProvider)
}

func TestFromViper_Invalid(t *testing.T) {
	_, err := fromViper(newViper(map[string]any{"NOTIFY_PROVIDER": "pigeon"}))
	assert.Error(t, err)

	_, err = fromViper(newViper(map[string]any{"NOTIFY_PROVIDER": "whatsapp"}))
	assert.Error(t, err, "whatsapp without credentials")

	_, err = fromViper(newViper(map[string]any{"IS_PRODUCTION": true}))
	assert.Error(t, err, "default secret in production")
}
