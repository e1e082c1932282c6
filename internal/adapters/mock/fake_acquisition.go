package mock

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/quentinrf/spectrum-reader/internal/domain"
)

// FakeAcquisition simulates a gamma spectrometer for development.
// This implements the ports.AcquisitionSource interface
type FakeAcquisition struct {
	mu        sync.Mutex
	rng       *rand.Rand
	baseCount float64
	variation float64
	channels  int
	peak      int
}

// NewFakeAcquisition creates a source that returns realistic spectra
// baseCount: average counts per channel of the flat background
// variation: +/- range applied per channel (e.g. 2 means base-2..base+2)
// channels: spectrum width (e.g. 1024 for a digiBASE)
func NewFakeAcquisition(baseCount, variation float64, channels int, seed int64) *FakeAcquisition {
	return &FakeAcquisition{
		rng:       rand.New(rand.NewSource(seed)),
		baseCount: baseCount,
		variation: variation,
		channels:  channels,
		peak:      channels * 2 / 3, // photopeak position
	}
}

// Acquire returns samples spaced interval apart starting at start
func (s *FakeAcquisition) Acquire(ctx context.Context, detector string, start time.Time, samples int, interval time.Duration) (*domain.DetectorRecord, error) {
	if samples < 0 {
		return nil, fmt.Errorf("%w: negative sample count %d", domain.ErrInvalidArgument, samples)
	}
	if s.channels < 1 {
		return nil, fmt.Errorf("%w: fake acquisition needs at least one channel", domain.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	times := make([]int64, samples)
	spec := &domain.Spectrum{Rows: samples, Cols: s.channels, Data: make([]float64, 0, samples*s.channels)}

	for i := 0; i < samples; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		times[i] = start.Add(time.Duration(i) * interval).Unix()
		for ch := 0; ch < s.channels; ch++ {
			spec.Data = append(spec.Data, s.count(ch))
		}
	}

	return &domain.DetectorRecord{Detector: detector, Timestamps: times, Spectrum: spec}, nil
}

// count draws one channel: flat background plus a gaussian photopeak
func (s *FakeAcquisition) count(ch int) float64 {
	variance := (s.rng.Float64() - 0.5) * 2 * s.variation
	d := float64(ch - s.peak)
	peak := 10 * s.baseCount * math.Exp(-d*d/50)

	c := math.Round(s.baseCount + variance + peak)

	// Counts are never negative
	if c < 0 {
		c = 0
	}

	return c
}

// Close is a no-op for the fake source
func (s *FakeAcquisition) Close() error {
	return nil
}
