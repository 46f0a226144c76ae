package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/defeedco/foryou/pkg/config"
	"github.com/defeedco/foryou/pkg/interests"
	"github.com/defeedco/foryou/pkg/lib/log"
	"github.com/defeedco/foryou/pkg/personalization"
	"github.com/defeedco/foryou/pkg/ranking"
	"github.com/defeedco/foryou/pkg/storage/postgres"
	"github.com/defeedco/foryou/pkg/storage/sqlite"
	"github.com/defeedco/foryou/pkg/syncbridge"
	"github.com/defeedco/foryou/pkg/syncbridge/httpremote"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "foryou",
	Short: "Track reader interests and rank articles for them",
	Long: `foryou keeps a per-user interest profile built from engagement events
and uses it to reorder article batches, without ever demoting must-know articles.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		return nil
	},
}

// app holds the wired components a command works with.
type app struct {
	config  *config.Config
	logger  *zerolog.Logger
	engine  *personalization.Engine
	bridge  *syncbridge.Bridge
	closers []func()
}

func loadLogger() (*config.Config, *zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	// Stdout carries command output, so logs go to stderr.
	logger, err := log.NewLogger(&cfg.LogConfig, os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	return cfg, logger, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, logger, err := loadLogger()
	if err != nil {
		return nil, err
	}

	a := &app{config: cfg, logger: logger}

	backend, closeBackend, err := openBackend(ctx, &cfg.StorageConfig)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.closers = append(a.closers, closeBackend)

	store := interests.NewStore(logger, backend, &cfg.InterestsConfig)
	updater := interests.NewUpdater(logger, store, &cfg.InterestsConfig)
	ranker := ranking.NewRanker(logger, store, &cfg.RankingConfig)

	var opts []personalization.EngineOption
	if cfg.SyncConfig.Enabled {
		remote := httpremote.NewClient(cfg.SyncConfig.BaseURL, logger)
		a.bridge = syncbridge.NewBridge(
			logger,
			remote,
			syncbridge.StaticToken(cfg.SyncConfig.AuthToken),
			store,
			updater,
			&cfg.SyncConfig,
		)
		a.closers = append(a.closers, a.bridge.Close)
		opts = append(opts, personalization.WithSync(a.bridge))
	}

	a.engine = personalization.NewEngine(logger, store, updater, ranker, opts...)

	logger.Debug().
		Str("storage", string(cfg.StorageConfig.Driver)).
		Bool("sync", cfg.SyncConfig.Enabled).
		Msg("Engine initialized")

	return a, nil
}

// Close flushes pending sync work, then releases storage.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg *config.StorageConfig) (interests.Backend, func(), error) {
	switch cfg.Driver {
	case config.StorageDriverPostgres:
		db := postgres.NewDB(&cfg.Postgres)
		if err := db.Connect(ctx); err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		return postgres.NewInterestRepository(db, cfg.Postgres.UserID), db.Close, nil
	case config.StorageDriverSQLite:
		db, err := sqlite.NewDB(ctx, &cfg.SQLite)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite database: %w", err)
		}
		return sqlite.NewInterestRepository(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// readInput reads from the file named by the first argument, or stdin when
// there is none or it is "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", args[0], err)
	}
	return data, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
