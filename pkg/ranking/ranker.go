package ranking

import (
	"context"
	"math"
	"slices"

	"github.com/defeedco/foryou/pkg/interests"
	"github.com/rs/zerolog"
)

// Ranker orders an article batch for one user.
//
// Articles are split into a must-know tier and a regular tier once, up front.
// Must-know articles keep their editorial order and always come first; only
// the regular tier is reordered by interest boosts. The two tiers are never
// compared against each other, so no boost can lift a regular article above
// a must-know one.
type Ranker struct {
	interests interestSource
	logger    *zerolog.Logger
	config    *Config
}

type interestSource interface {
	Get(ctx context.Context) interests.Map
}

func NewRanker(logger *zerolog.Logger, source interestSource, config *Config) *Ranker {
	return &Ranker{
		interests: source,
		logger:    logger,
		config:    config,
	}
}

type rankOptions struct {
	personalizationWeight float64
	mustKnowThreshold     float64
}

type RankOption func(*rankOptions)

// WithPersonalizationWeight overrides the configured weight. Values are
// clamped to [0, 1]; NaN keeps the configured weight.
func WithPersonalizationWeight(w float64) RankOption {
	return func(o *rankOptions) {
		if math.IsNaN(w) {
			return
		}
		o.personalizationWeight = math.Max(0, math.Min(1, w))
	}
}

// WithMustKnowThreshold overrides the configured must-know threshold.
func WithMustKnowThreshold(t float64) RankOption {
	return func(o *rankOptions) {
		if math.IsNaN(t) {
			return
		}
		o.mustKnowThreshold = t
	}
}

// Rank never fails: a nil batch yields an empty result and missing scores
// fall back to defaults.
func (r *Ranker) Rank(ctx context.Context, articles []Article, opts ...RankOption) []RankedArticle {
	o := rankOptions{
		personalizationWeight: r.config.PersonalizationWeight,
		mustKnowThreshold:     r.config.MustKnowThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}

	mustKnow := make([]RankedArticle, 0)
	regular := make([]RankedArticle, 0, len(articles))
	for _, a := range articles {
		ranked := RankedArticle{Article: a, Tier: Classify(a, o.mustKnowThreshold)}
		if ranked.Tier == TierMustKnow {
			mustKnow = append(mustKnow, ranked)
		} else {
			regular = append(regular, ranked)
		}
	}

	slices.SortStableFunc(mustKnow, func(a, b RankedArticle) int {
		return descending(a.classifierScore(), b.classifierScore())
	})

	if len(regular) > 0 {
		if m := r.interests.Get(ctx); len(m) > 0 {
			r.personalize(regular, m, o.personalizationWeight)
		}
	}

	r.logger.Debug().
		Int("must_know", len(mustKnow)).
		Int("regular", len(regular)).
		Float64("personalization_weight", o.personalizationWeight).
		Msg("Ranked articles")

	return append(mustKnow, regular...)
}

func (r *Ranker) personalize(regular []RankedArticle, m interests.Map, weight float64) {
	for i := range regular {
		a := &regular[i]
		boost := Score(a.Tags, m)
		a.PersonalizationBoost = boost
		a.PersonalizedScore = a.displayScore(r.config.DefaultDisplayScore) + boost*r.config.BoostScale*weight
		a.Personalized = true
	}

	slices.SortStableFunc(regular, func(a, b RankedArticle) int {
		return descending(a.PersonalizedScore, b.PersonalizedScore)
	})
}

func descending(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
