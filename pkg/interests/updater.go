package interests

import (
	"context"
	"math"
	"sync"

	"github.com/rs/zerolog"
)

// Updater is the only writer of the interest map.
//
// Every read-modify-write runs under one lock and commits with a single
// Set, so concurrent engagements on overlapping tags never lose updates.
// A failed read or write leaves the stored map untouched.
type Updater struct {
	store  mapStore
	logger *zerolog.Logger
	config *Config
	mu     sync.Mutex
}

type mapStore interface {
	Load(ctx context.Context) (Map, bool)
	Set(ctx context.Context, m Map) bool
}

func NewUpdater(logger *zerolog.Logger, store mapStore, config *Config) *Updater {
	return &Updater{
		store:  store,
		logger: logger,
		config: config,
	}
}

// Update adds weightMultiplier to each tag with diminishing returns:
//
//	w' = min(MaxWeight, w + m / (1 + DiminishingFactor*w))
//
// It reports whether anything was written.
func (u *Updater) Update(ctx context.Context, tags []string, weightMultiplier float64) bool {
	if weightMultiplier == 0 || math.IsNaN(weightMultiplier) || math.IsInf(weightMultiplier, 0) {
		return false
	}

	normalized := NormalizeSet(tags)
	if len(normalized) == 0 {
		return false
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	m, ok := u.store.Load(ctx)
	if !ok {
		return false
	}
	for _, tag := range normalized {
		m[tag] = u.next(m[tag], weightMultiplier)
	}

	if !u.store.Set(ctx, m) {
		return false
	}

	u.logger.Debug().
		Strs("tags", normalized).
		Float64("multiplier", weightMultiplier).
		Msg("Interests updated")

	return true
}

func (u *Updater) next(w, multiplier float64) float64 {
	delta := multiplier * (1 / (1 + u.config.DiminishingFactor*w))
	return clamp(w+delta, u.config.MaxWeight)
}

// Decay shrinks every weight by DecayFactor and prunes keywords at or
// below PruneThreshold. An empty or unreadable map is left alone without a write.
func (u *Updater) Decay(ctx context.Context) {
	u.mu.Lock()
	defer u.mu.Unlock()

	m, ok := u.store.Load(ctx)
	if !ok || len(m) == 0 {
		return
	}

	pruned := 0
	for tag, w := range m {
		if w <= u.config.PruneThreshold {
			delete(m, tag)
			pruned++
			continue
		}
		m[tag] = w * u.config.DecayFactor
	}

	if !u.store.Set(ctx, m) {
		return
	}

	u.logger.Info().
		Int("remaining", len(m)).
		Int("pruned", pruned).
		Msg("Interests decayed")
}

// Merge folds a remote map into the local one. Local values win for every
// keyword present on both sides; remote-only keywords are added.
func (u *Updater) Merge(ctx context.Context, remote Map) int {
	remote = sanitize(remote, u.config.MaxWeight)
	if len(remote) == 0 {
		return 0
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	m, ok := u.store.Load(ctx)
	if !ok {
		return 0
	}
	added := 0
	for tag, w := range remote {
		if _, ok := m[tag]; ok || w == 0 {
			continue
		}
		m[tag] = w
		added++
	}

	if added == 0 || !u.store.Set(ctx, m) {
		return 0
	}

	return added
}
