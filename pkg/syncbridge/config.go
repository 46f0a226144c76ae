package syncbridge

import "time"

type Config struct {
	Enabled bool `env:"SYNC_ENABLED,default=false"`
	// BaseURL of the remote persistence service.
	BaseURL string `env:"SYNC_BASE_URL" validate:"required_if=Enabled true"`
	// AuthToken is the session token issued by the auth system.
	AuthToken string `env:"SYNC_AUTH_TOKEN"`
	// Timeout bounds a single remote attempt.
	Timeout time.Duration `env:"SYNC_TIMEOUT,default=10s" validate:"gt=0"`
	// MaxAttempts bounds retries of one push or pull.
	MaxAttempts uint `env:"SYNC_MAX_ATTEMPTS,default=3" validate:"gte=1"`
	// Concurrency is the number of background sync workers.
	Concurrency int `env:"SYNC_CONCURRENCY,default=2" validate:"gte=1"`
}

func NewDefaultConfig() Config {
	return Config{
		Timeout:     10 * time.Second,
		MaxAttempts: 3,
		Concurrency: 2,
	}
}
