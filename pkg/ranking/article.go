package ranking

import (
	"math"
	"time"
)

// Article is the slice of an upstream article the ranker needs.
// Tags and scores are assigned by the content pipeline.
type Article struct {
	ID   string   `json:"id"`
	Tags []string `json:"tags,omitempty"`
	// BaseScore is the editorial/model score before any personalization.
	BaseScore *float64 `json:"baseScore,omitempty"`
	// FinalScore may already include upstream boosts. It is only a display
	// fallback and never decides the tier when BaseScore is present.
	FinalScore  *float64   `json:"finalScore,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Tier is the protection bucket an article falls into.
type Tier string

const (
	TierMustKnow Tier = "must_know"
	TierRegular  Tier = "regular"
)

// RankedArticle is an article with its tier decision and, for personalized
// regular articles, the scores that placed it.
type RankedArticle struct {
	Article
	Tier Tier `json:"tier"`
	// Personalized is true when PersonalizedScore and PersonalizationBoost are set.
	Personalized         bool    `json:"personalized"`
	PersonalizedScore    float64 `json:"personalizedScore,omitempty"`
	PersonalizationBoost float64 `json:"personalizationBoost,omitempty"`
}

// classifierScore is the score the tier decision is made on:
// BaseScore, else FinalScore, else 0.
func (a *Article) classifierScore() float64 {
	if v, ok := valid(a.BaseScore); ok {
		return v
	}
	if v, ok := valid(a.FinalScore); ok {
		return v
	}
	return 0
}

// displayScore is the starting point for personalized ordering:
// FinalScore, else BaseScore, else fallback.
func (a *Article) displayScore(fallback float64) float64 {
	if v, ok := valid(a.FinalScore); ok {
		return v
	}
	if v, ok := valid(a.BaseScore); ok {
		return v
	}
	return fallback
}

func valid(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

// Classify decides the tier of a single article.
func Classify(a Article, mustKnowThreshold float64) Tier {
	if a.classifierScore() >= mustKnowThreshold {
		return TierMustKnow
	}
	return TierRegular
}
