package syncbridge

import (
	"context"
	"errors"

	"github.com/defeedco/foryou/pkg/interests"
)

// ErrNoToken is returned when there is no session to sync on behalf of.
var ErrNoToken = errors.New("no auth token available")

// ErrLocalUnavailable is returned when the local snapshot can't be read.
var ErrLocalUnavailable = errors.New("local interests unavailable")

// Snapshot is what gets exchanged with the remote persistence service.
type Snapshot struct {
	Interests interests.Map `json:"interests"`
	ReadCount int64         `json:"readCount"`
}

type PushRequest struct {
	AuthToken string
	Snapshot  Snapshot
	// IdempotencyKey is stable across retries of the same push.
	IdempotencyKey string
}

// Remote is the contract of the remote persistence service.
type Remote interface {
	Push(ctx context.Context, req PushRequest) error
	Pull(ctx context.Context, authToken string) (*Snapshot, error)
}

// TokenSource supplies the current session token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource for a fixed, long-lived token.
type StaticToken string

func (t StaticToken) Token(_ context.Context) (string, error) {
	if t == "" {
		return "", ErrNoToken
	}
	return string(t), nil
}

// permanent is implemented by remote errors that retrying can't fix.
type permanent interface {
	Permanent() bool
}

func isPermanent(err error) bool {
	var p permanent
	return errors.As(err, &p) && p.Permanent()
}
