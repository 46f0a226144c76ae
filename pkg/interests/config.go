package interests

type Config struct {
	// MaxWeight is the ceiling every keyword weight is clamped to.
	MaxWeight float64 `env:"INTERESTS_MAX_WEIGHT,default=100" validate:"gt=0"`
	// DiminishingFactor controls how quickly increments shrink as a weight grows:
	// delta = multiplier / (1 + DiminishingFactor * weight).
	DiminishingFactor float64 `env:"INTERESTS_DIMINISHING_FACTOR,default=0.1" validate:"gte=0"`
	// DecayFactor multiplies every weight on each decay run.
	DecayFactor float64 `env:"INTERESTS_DECAY_FACTOR,default=0.95" validate:"gt=0,lt=1"`
	// PruneThreshold removes keywords whose weight is at or below it during decay.
	PruneThreshold float64 `env:"INTERESTS_PRUNE_THRESHOLD,default=0.1" validate:"gte=0"`
	// DecaySchedule is a cron spec for recurring decay runs.
	DecaySchedule string `env:"INTERESTS_DECAY_SCHEDULE,default=@daily" validate:"required"`
	// DecayTimezone is the location the decay schedule is evaluated in.
	DecayTimezone string `env:"INTERESTS_DECAY_TIMEZONE,default=UTC" validate:"required"`
}

// NewDefaultConfig returns the product-tuned defaults.
// These values have no derivation beyond product tuning; treat them as knobs.
func NewDefaultConfig() Config {
	return Config{
		MaxWeight:         100,
		DiminishingFactor: 0.1,
		DecayFactor:       0.95,
		PruneThreshold:    0.1,
		DecaySchedule:     "@daily",
		DecayTimezone:     "UTC",
	}
}
