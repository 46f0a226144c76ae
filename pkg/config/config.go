package config

import (
	"errors"
	"fmt"

	"github.com/defeedco/foryou/pkg/interests"
	"github.com/defeedco/foryou/pkg/lib"
	"github.com/defeedco/foryou/pkg/lib/log"
	"github.com/defeedco/foryou/pkg/ranking"
	"github.com/defeedco/foryou/pkg/storage/postgres"
	"github.com/defeedco/foryou/pkg/storage/sqlite"
	"github.com/defeedco/foryou/pkg/syncbridge"
	"github.com/joeshaw/envdecode"
)

type StorageDriver string

const (
	StorageDriverSQLite   StorageDriver = "sqlite"
	StorageDriverPostgres StorageDriver = "postgres"
)

type StorageConfig struct {
	Driver   StorageDriver   `env:"STORAGE_DRIVER,default=sqlite" validate:"required,oneof=sqlite postgres"`
	SQLite   sqlite.Config   `env:""`
	Postgres postgres.Config `env:""`
}

type Config struct {
	LogConfig       log.Config        `env:""`
	InterestsConfig interests.Config  `env:""`
	RankingConfig   ranking.Config    `env:""`
	StorageConfig   StorageConfig     `env:""`
	SyncConfig      syncbridge.Config `env:""`
}

func Load() (*Config, error) {
	var cfg Config

	// Every field has a default, so an empty environment is valid.
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := lib.ValidateStruct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if cfg.StorageConfig.Driver == StorageDriverPostgres && cfg.StorageConfig.Postgres.UserID == "" {
		return nil, fmt.Errorf("validate config: STORAGE_USER_ID is required for the postgres driver")
	}

	return &cfg, nil
}
