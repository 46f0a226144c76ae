package personalization

import (
	"context"

	"github.com/defeedco/foryou/pkg/engagement"
	"github.com/defeedco/foryou/pkg/interests"
	"github.com/defeedco/foryou/pkg/ranking"
	"github.com/rs/zerolog"
)

// Engine is the entry point callers use: it ranks batches and turns
// engagement events into interest updates.
type Engine struct {
	store   *interests.Store
	updater *interests.Updater
	ranker  *ranking.Ranker
	sync    syncer
	logger  *zerolog.Logger
}

type syncer interface {
	PushAsync()
	PullAsync()
}

type EngineOption func(*Engine)

// WithSync mirrors local interest changes to a remote through s.
// A nil *syncbridge.Bridge must not be passed; omit the option instead.
func WithSync(s syncer) EngineOption {
	return func(e *Engine) {
		e.sync = s
	}
}

func NewEngine(
	logger *zerolog.Logger,
	store *interests.Store,
	updater *interests.Updater,
	ranker *ranking.Ranker,
	opts ...EngineOption,
) *Engine {
	e := &Engine{
		store:   store,
		updater: updater,
		ranker:  ranker,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rank orders articles against the most recently stored interests.
func (e *Engine) Rank(ctx context.Context, articles []ranking.Article, opts ...ranking.RankOption) []ranking.RankedArticle {
	return e.ranker.Rank(ctx, articles, opts...)
}

// RecordEngagement classifies event and applies the resulting weight to tags.
// It returns the classified weight multiplier, zero when the event was ignored.
func (e *Engine) RecordEngagement(ctx context.Context, tags []string, event engagement.Event) float64 {
	weight := engagement.Classify(event)
	if weight == 0 {
		e.logger.Trace().
			Str("kind", string(event.Kind)).
			Msg("Engagement ignored")
		return 0
	}

	updated := e.updater.Update(ctx, tags, weight)

	// Reads count even when the article carried no usable tags.
	if event.Kind.IsRead() {
		e.store.IncrementReadCount(ctx)
	}

	if updated && e.sync != nil {
		e.sync.PushAsync()
	}

	return weight
}

// DecayInterests applies one decay step to the stored interests.
func (e *Engine) DecayInterests(ctx context.Context) {
	e.updater.Decay(ctx)
	if e.sync != nil {
		e.sync.PushAsync()
	}
}

// ColdStart runs the once-per-session work: a decay step followed by a
// background pull of the remote snapshot.
func (e *Engine) ColdStart(ctx context.Context) {
	e.updater.Decay(ctx)
	if e.sync != nil {
		e.sync.PullAsync()
	}
}

func (e *Engine) Interests(ctx context.Context) interests.Map {
	return e.store.Get(ctx)
}

func (e *Engine) ReadCount(ctx context.Context) int64 {
	return e.store.GetReadCount(ctx)
}
