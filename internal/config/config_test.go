package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.APIAddr)
	assert.Equal(t, 50, cfg.PublicHistoryLimit)
	assert.Equal(t, "avatars", cfg.AvatarsPath)
	assert.EqualValues(t, 5242880, cfg.AvatarMaxBytes)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_ADDR", "127.0.0.1:9999")
	t.Setenv("PUBLIC_HISTORY_LIMIT", "10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.APIAddr)
	assert.Equal(t, 10, cfg.PublicHistoryLimit)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero history limit", func(c *Config) { c.PublicHistoryLimit = 0 }, true},
		{"zero avatar cap", func(c *Config) { c.AvatarMaxBytes = 0 }, true},
		{"half a VAPID pair", func(c *Config) { c.VAPIDPublicKey = "x" }, true},
		{"full VAPID pair", func(c *Config) { c.VAPIDPublicKey = "x"; c.VAPIDPrivateKey = "y" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{PublicHistoryLimit: 50, AvatarMaxBytes: 1}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
