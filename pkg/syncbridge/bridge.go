package syncbridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v5"
	"github.com/defeedco/foryou/pkg/interests"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Bridge keeps the local interest store in step with the remote persistence
// service. Remote calls are best-effort: ranking always reads the local
// snapshot and never waits on a round trip.
type Bridge struct {
	remote Remote
	tokens TokenSource
	local  localSnapshot
	merger merger
	logger *zerolog.Logger
	config *Config

	pool        pond.Pool
	pulls       singleflight.Group
	pushPending atomic.Bool
	newBackOff  func() backoff.BackOff
	closeOnce   sync.Once
}

type localSnapshot interface {
	Load(ctx context.Context) (interests.Map, bool)
	LoadReadCount(ctx context.Context) (int64, bool)
}

type merger interface {
	Merge(ctx context.Context, remote interests.Map) int
}

func NewBridge(
	logger *zerolog.Logger,
	remote Remote,
	tokens TokenSource,
	local localSnapshot,
	merger merger,
	config *Config,
) *Bridge {
	return &Bridge{
		remote: remote,
		tokens: tokens,
		local:  local,
		merger: merger,
		logger: logger,
		config: config,
		pool:   pond.NewPool(config.Concurrency),
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
}

// Push uploads the current local snapshot. It fails with ErrLocalUnavailable
// when the snapshot can't be read.
func (b *Bridge) Push(ctx context.Context) error {
	token, err := b.token(ctx)
	if err != nil {
		return err
	}

	// An unreadable local store must not overwrite the remote copy.
	m, ok := b.local.Load(ctx)
	if !ok {
		return ErrLocalUnavailable
	}
	readCount, ok := b.local.LoadReadCount(ctx)
	if !ok {
		return ErrLocalUnavailable
	}

	req := PushRequest{
		AuthToken: token,
		Snapshot: Snapshot{
			Interests: m,
			ReadCount: readCount,
		},
		IdempotencyKey: uuid.NewString(),
	}

	_, err = retry(ctx, b, func(attemptCtx context.Context) (struct{}, error) {
		return struct{}{}, b.remote.Push(attemptCtx, req)
	})
	if err != nil {
		return fmt.Errorf("push interests: %w", err)
	}

	b.logger.Debug().
		Int("keywords", len(req.Snapshot.Interests)).
		Int64("read_count", req.Snapshot.ReadCount).
		Msg("Interests pushed")

	return nil
}

// Pull downloads the remote snapshot and merges it into the local store,
// keeping local values for keywords known on both sides. Concurrent pulls
// share one round trip. It returns the number of keywords added locally.
func (b *Bridge) Pull(ctx context.Context) (int, error) {
	v, err, _ := b.pulls.Do("pull", func() (any, error) {
		token, err := b.token(ctx)
		if err != nil {
			return 0, err
		}

		snapshot, err := retry(ctx, b, func(attemptCtx context.Context) (*Snapshot, error) {
			return b.remote.Pull(attemptCtx, token)
		})
		if err != nil {
			return 0, fmt.Errorf("pull interests: %w", err)
		}
		if snapshot == nil {
			return 0, nil
		}

		added := b.merger.Merge(ctx, snapshot.Interests)

		b.logger.Debug().
			Int("remote_keywords", len(snapshot.Interests)).
			Int("added", added).
			Msg("Interests pulled")

		return added, nil
	})
	if err != nil {
		return 0, err
	}

	return v.(int), nil
}

// PushAsync schedules a background push. Bursts collapse into one push of
// the latest state: a request made while one is still queued is dropped.
func (b *Bridge) PushAsync() {
	if !b.pushPending.CompareAndSwap(false, true) {
		return
	}

	b.pool.Submit(func() {
		b.pushPending.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), b.deadline())
		defer cancel()

		if err := b.Push(ctx); err != nil {
			b.logEvent(err).Err(err).Msg("Background push failed")
		}
	})
}

// PullAsync schedules a background pull.
func (b *Bridge) PullAsync() {
	b.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), b.deadline())
		defer cancel()

		if _, err := b.Pull(ctx); err != nil {
			b.logEvent(err).Err(err).Msg("Background pull failed")
		}
	})
}

// Close waits for queued sync work to finish.
func (b *Bridge) Close() {
	b.closeOnce.Do(b.pool.StopAndWait)
}

func (b *Bridge) token(ctx context.Context) (string, error) {
	token, err := b.tokens.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("get auth token: %w", err)
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// deadline bounds a whole background operation including retries.
func (b *Bridge) deadline() time.Duration {
	return b.config.Timeout*time.Duration(b.config.MaxAttempts) + time.Minute
}

func (b *Bridge) logEvent(err error) *zerolog.Event {
	// Signed-out users are expected, not an operational problem.
	if errors.Is(err, ErrNoToken) {
		return b.logger.Debug()
	}
	return b.logger.Error()
}

func retry[T any](ctx context.Context, b *Bridge, op func(ctx context.Context) (T, error)) (T, error) {
	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, b.config.Timeout)
		defer cancel()

		res, err := op(attemptCtx)
		if err != nil {
			b.logger.Debug().Err(err).Int("attempt", attempt).Msg("Sync attempt failed")
			if isPermanent(err) {
				return res, backoff.Permanent(err)
			}
		}
		return res, err
	},
		backoff.WithBackOff(b.newBackOff()),
		backoff.WithMaxTries(b.config.MaxAttempts),
	)
}
