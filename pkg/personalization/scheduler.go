package personalization

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// DecayScheduler runs interest decay on a cron schedule.
type DecayScheduler struct {
	cron     *cron.Cron
	location *time.Location
	logger   *zerolog.Logger
}

type decayer interface {
	DecayInterests(ctx context.Context)
}

// NewDecayScheduler parses spec (standard five-field cron or a descriptor
// like "@daily") in the named timezone.
func NewDecayScheduler(logger *zerolog.Logger, target decayer, spec, timezone string) (*DecayScheduler, error) {
	if target == nil {
		return nil, errors.New("decay target must not be nil")
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(spec, func() {
		logger.Debug().Msg("Running scheduled decay")
		target.DecayInterests(context.Background())
	})
	if err != nil {
		return nil, fmt.Errorf("add decay schedule %q: %w", spec, err)
	}

	return &DecayScheduler{
		cron:     c,
		location: loc,
		logger:   logger,
	}, nil
}

func (s *DecayScheduler) Start() {
	s.cron.Start()
	s.logger.Info().
		Time("next_run", s.Next()).
		Str("timezone", s.location.String()).
		Msg("Decay scheduler started")
}

// Stop halts the schedule and waits for a running decay to finish.
func (s *DecayScheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Next returns the time of the next scheduled run, or the zero time if none.
func (s *DecayScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	return entries[0].Schedule.Next(time.Now().In(s.location))
}
