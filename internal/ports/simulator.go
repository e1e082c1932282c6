package ports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// SessionPlan describes what one simulated session contains
type SessionPlan struct {
	Detectors      []string
	Samples        int
	SampleInterval time.Duration
}

// DefaultSessionPlan mixes NaI and CsI detectors
func DefaultSessionPlan() SessionPlan {
	return SessionPlan{
		Detectors:      []string{"D3S_1", "D3S_2", "digiBASE_1", "digiBASE_3"},
		Samples:        60,
		SampleInterval: time.Minute,
	}
}

// Simulator writes synthetic acquisition sessions
type Simulator struct {
	source   AcquisitionSource
	store    SessionStore
	plan     SessionPlan
	interval time.Duration
}

// NewSimulator creates a simulator that writes one session per interval
func NewSimulator(source AcquisitionSource, store SessionStore, plan SessionPlan, interval time.Duration) *Simulator {
	return &Simulator{
		source:   source,
		store:    store,
		plan:     plan,
		interval: interval,
	}
}

// Start writes sessions periodically
// This runs in a goroutine until context is cancelled
func (s *Simulator) Start(ctx context.Context) {
	if s.interval <= 0 {
		log.Warn().Dur("interval", s.interval).Msg("simulator interval not positive, not starting")
		return
	}

	log.Info().
		Dur("interval", s.interval).
		Msg("starting acquisition simulator")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Record immediately on start
	s.recordLogged(ctx, time.Now())

	for {
		select {
		case now := <-ticker.C:
			s.recordLogged(ctx, now)

		case <-ctx.Done():
			log.Info().Msg("stopping acquisition simulator")
			return
		}
	}
}

func (s *Simulator) recordLogged(ctx context.Context, end time.Time) {
	if _, err := s.RecordSession(ctx, end); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("failed to record session")
	}
}

// RecordSession writes one session whose last sample is at or before end.
// It returns the session name.
func (s *Simulator) RecordSession(ctx context.Context, end time.Time) (string, error) {
	span := time.Duration(s.plan.Samples) * s.plan.SampleInterval
	start := end.Add(-span).UTC().Truncate(time.Second)
	name := fmt.Sprintf("session_%d", start.Unix())

	w, err := s.store.Create(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to create session %s: %w", name, err)
	}
	defer w.Close()

	if err := w.AddGroup(ctx, domain.SensorKey); err != nil {
		return "", err
	}

	for _, detector := range s.plan.Detectors {
		rec, err := s.source.Acquire(ctx, detector, start, s.plan.Samples, s.plan.SampleInterval)
		if err != nil {
			return "", fmt.Errorf("failed to acquire %s: %w", detector, err)
		}
		if err := w.WriteRecord(ctx, rec); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", detector, err)
		}
	}

	log.Info().
		Str("session", name).
		Int("detectors", len(s.plan.Detectors)).
		Int("samples", s.plan.Samples).
		Msg("recorded session")

	return name, nil
}
