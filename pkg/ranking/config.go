package ranking

type Config struct {
	// PersonalizationWeight scales how much interest boosts move regular articles.
	PersonalizationWeight float64 `env:"RANKING_PERSONALIZATION_WEIGHT,default=0.7" validate:"gte=0,lte=1"`
	// MustKnowThreshold is the classifier score at or above which an article is
	// protected from personalization. Product-tuned, not derived.
	MustKnowThreshold float64 `env:"RANKING_MUST_KNOW_THRESHOLD,default=900"`
	// DefaultDisplayScore is used when a regular article has neither a final nor a base score.
	DefaultDisplayScore float64 `env:"RANKING_DEFAULT_DISPLAY_SCORE,default=500"`
	// BoostScale converts summed interest weights into score points.
	BoostScale float64 `env:"RANKING_BOOST_SCALE,default=10" validate:"gte=0"`
}

func NewDefaultConfig() Config {
	return Config{
		PersonalizationWeight: 0.7,
		MustKnowThreshold:     900,
		DefaultDisplayScore:   500,
		BoostScale:            10,
	}
}
