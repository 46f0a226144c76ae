package interests

import (
	"context"

	"github.com/rs/zerolog"
)

// Backend is a storage medium for the interest map and the read counter.
// Implementations report failures; Store turns them into defaults.
type Backend interface {
	Load(ctx context.Context) (Map, error)
	// Save replaces the whole map atomically.
	Save(ctx context.Context, m Map) error
	ReadCount(ctx context.Context) (int64, error)
	IncrementReadCount(ctx context.Context) error
}

// Store is the fail-soft view over a Backend. Reads on an unavailable or
// corrupt medium return an empty map or a zero count; write failures are logged.
type Store struct {
	backend   Backend
	logger    *zerolog.Logger
	maxWeight float64
}

func NewStore(logger *zerolog.Logger, backend Backend, config *Config) *Store {
	return &Store{
		backend:   backend,
		logger:    logger,
		maxWeight: config.MaxWeight,
	}
}

// Get returns a private copy of the persisted map, or an empty map when
// the medium can't be read.
func (s *Store) Get(ctx context.Context) Map {
	m, _ := s.Load(ctx)
	return m
}

// Load is Get for read-modify-write callers: ok is false when the medium
// could not be read, and the returned empty map must not be written back.
func (s *Store) Load(ctx context.Context) (m Map, ok bool) {
	m, err := s.backend.Load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load interests, using empty map")
		return Map{}, false
	}
	return sanitize(m, s.maxWeight), true
}

// Set persists m. It reports whether the write committed.
func (s *Store) Set(ctx context.Context, m Map) bool {
	if err := s.backend.Save(ctx, sanitize(m, s.maxWeight)); err != nil {
		s.logger.Error().Err(err).Int("keywords", len(m)).Msg("Failed to save interests")
		return false
	}
	return true
}

func (s *Store) GetReadCount(ctx context.Context) int64 {
	n, _ := s.LoadReadCount(ctx)
	return n
}

// LoadReadCount reports ok=false when the counter could not be read.
func (s *Store) LoadReadCount(ctx context.Context) (n int64, ok bool) {
	n, err := s.backend.ReadCount(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load read count, using zero")
		return 0, false
	}
	if n < 0 {
		s.logger.Warn().Int64("read_count", n).Msg("Negative read count, using zero")
		return 0, true
	}
	return n, true
}

func (s *Store) IncrementReadCount(ctx context.Context) {
	if err := s.backend.IncrementReadCount(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to increment read count")
	}
}
