package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	APIAddr string `envconfig:"API_ADDR" default:":8080"`
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	// Default number of public messages returned when the client does not
	// pass an explicit limit.
	PublicHistoryLimit int `envconfig:"PUBLIC_HISTORY_LIMIT" default:"50"`

	AvatarsPath    string `envconfig:"AVATARS_PATH" default:"avatars"`
	AvatarMaxBytes int64  `envconfig:"AVATAR_MAX_BYTES" default:"5242880"`

	// Web push is disabled when the VAPID key pair is empty.
	VAPIDPublicKey  string `envconfig:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `envconfig:"VAPID_PRIVATE_KEY"`
	PushSubscriber  string `envconfig:"PUSH_SUBSCRIBER" default:"mailto:admin@localhost"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.PublicHistoryLimit <= 0 {
		return fmt.Errorf("PUBLIC_HISTORY_LIMIT must be greater than 0")
	}

	if c.AvatarMaxBytes <= 0 {
		return fmt.Errorf("AVATAR_MAX_BYTES must be greater than 0")
	}

	if (c.VAPIDPublicKey == "") != (c.VAPIDPrivateKey == "") {
		return fmt.Errorf("VAPID keys must be set together or not at all")
	}

	return nil
}
